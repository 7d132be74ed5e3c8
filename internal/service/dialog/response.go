package dialog

// Template identifiers of the message catalogue.
const (
	StartedTimer       = "started-timer"
	TimeRemaining      = "time-remaining"
	TimeElapsed        = "time-elapsed"
	TimerDetails       = "timer-details"
	CancelledTimer     = "cancelled-timer"
	CancelledSingle    = "cancelled-single-timer"
	CancelAll          = "cancel-all"
	TimerExpired       = "timer-expired"
	NoActiveTimer      = "no-active-timer"
	TimerNotFound      = "timer-not-found"
	NumberOfTimers     = "number-of-timers"
	AskWhichTimer      = "ask-which-timer"
	ConfirmCancel      = "confirm-cancel-all"
	TimerDuplicateName = "timer-duplicate-name"
	AskHowLong         = "ask-how-long"
	NoDurationHeard    = "no-duration"
	TooLongAlarm       = "timer-too-long-alarm-instead"
	TimersSilenced     = "timers-silenced"
)

// Variant suffixes appended to template identifiers.
const (
	namedSuffix   = "-named"
	ordinalSuffix = "-ordinal"
)

// Parameter keys available to templates.
const (
	ParamDuration = "duration"
	ParamName     = "name"
	ParamOrdinal  = "ordinal"
	ParamTimeDiff = "time_diff"
)

// Response identifies a template and the values it is rendered with.
type Response struct {
	// ID is the message identifier in the catalogue.
	ID string
	// Params holds named template values.
	Params map[string]string
	// Count drives plural selection for count-dependent templates.
	Count int
	// Items are rendered individually and joined into the "items" value.
	Items []Response
}

// Param returns the named parameter or an empty string.
func (r Response) Param(key string) string {
	return r.Params[key]
}
