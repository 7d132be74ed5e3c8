package timers

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/oshokin/timer-skill/internal/domain/timer"
)

// envelopeVersion is the current on-disk format version.
const envelopeVersion = 1

// envelope is the on-disk representation of the timer collection.
type envelope struct {
	Version int         `cbor:"1,keyasint"`
	SavedAt time.Time   `cbor:"2,keyasint"`
	Timers  []storedRow `cbor:"3,keyasint"`
}

// storedRow is the on-disk representation of a single timer.
type storedRow struct {
	ID         string    `cbor:"1,keyasint"`
	Index      int       `cbor:"2,keyasint"`
	Ordinal    int       `cbor:"3,keyasint"`
	Name       string    `cbor:"4,keyasint"`
	UserNamed  bool      `cbor:"5,keyasint"`
	Duration   int64     `cbor:"6,keyasint"`
	Expiration time.Time `cbor:"7,keyasint"`
	Announced  bool      `cbor:"8,keyasint"`
	Muted      bool      `cbor:"9,keyasint,omitempty"`
}

var (
	// encMode produces deterministic output with nanosecond timestamps.
	encMode cbor.EncMode
	// decMode tolerates duplicate keys written by older builds.
	decMode cbor.DecMode
)

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}

	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create timers CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}

	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create timers CBOR decoder mode: %v", err))
	}
}

// encode converts the records into CBOR bytes.
func encode(records []*timer.Record, savedAt time.Time) ([]byte, error) {
	env := envelope{
		Version: envelopeVersion,
		SavedAt: savedAt.UTC(),
		Timers:  make([]storedRow, 0, len(records)),
	}

	for _, r := range records {
		if r == nil {
			continue
		}

		env.Timers = append(env.Timers, storedRow{
			ID:         r.ID,
			Index:      r.Index,
			Ordinal:    r.Ordinal,
			Name:       r.Name,
			UserNamed:  r.UserNamed,
			Duration:   int64(r.Duration),
			Expiration: r.Expiration.UTC(),
			Announced:  r.Announced,
			Muted:      r.Muted,
		})
	}

	return encMode.Marshal(env)
}

// decode converts CBOR bytes into records.
func decode(data []byte) ([]*timer.Record, error) {
	var env envelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	if env.Version != envelopeVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}

	records := make([]*timer.Record, 0, len(env.Timers))
	for _, row := range env.Timers {
		records = append(records, &timer.Record{
			ID:         row.ID,
			Index:      row.Index,
			Ordinal:    row.Ordinal,
			Name:       row.Name,
			UserNamed:  row.UserNamed,
			Duration:   time.Duration(row.Duration),
			Expiration: row.Expiration,
			Announced:  row.Announced,
			Muted:      row.Muted,
		})
	}

	return records, nil
}
