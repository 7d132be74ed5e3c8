package timers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oshokin/timer-skill/internal/config"
	"github.com/oshokin/timer-skill/internal/domain/timer"
)

// Repository defines persistence operations for the timer collection.
type Repository interface {
	Load(ctx context.Context) ([]*timer.Record, error)
	Save(ctx context.Context, records []*timer.Record) error
}

// FileRepository persists the timer collection to a CBOR file on disk.
type FileRepository struct {
	// path is the filesystem location of the state file.
	path string
	// now supplies the saved-at timestamp.
	now func() time.Time
	// mu protects concurrent access to the state file.
	mu sync.Mutex
}

var (
	// ErrNotFound is returned when the state file does not exist yet.
	ErrNotFound = errors.New("timers state not found")
	// ErrUnsupportedVersion is returned when the file was written by an unknown format version.
	ErrUnsupportedVersion = errors.New("unsupported timers state version")
)

// NewFileRepository creates a repository that reads/writes CBOR at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
		now:  time.Now,
	}
}

// Path returns the location of the state file.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the timers from disk.
func (r *FileRepository) Load(_ context.Context) ([]*timer.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read timers file: %w", err)
	}

	records, err := decode(contents)
	if err != nil {
		return nil, fmt.Errorf("decode timers file: %w", err)
	}

	return records, nil
}

// Save writes the timers to disk, creating the parent directory if needed.
func (r *FileRepository) Save(_ context.Context, records []*timer.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := encode(records, r.now())
	if err != nil {
		return fmt.Errorf("encode timers: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err = os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create timers directory: %w", err)
		}
	}

	if err = os.WriteFile(r.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write timers file: %w", err)
	}

	return nil
}
