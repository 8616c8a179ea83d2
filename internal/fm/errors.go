package fm

import "errors"

// Status mirrors the reference library's fmsynth_status result codes.
type Status int

const (
	StatusOK Status = iota
	StatusBusy
	StatusBufferTooSmall
	StatusNoNulTerminate
	StatusInvalidFormat
	StatusMessageUnknown
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBusy:
		return "busy"
	case StatusBufferTooSmall:
		return "buffer too small"
	case StatusNoNulTerminate:
		return "metadata string not NUL-terminated"
	case StatusInvalidFormat:
		return "invalid preset format"
	case StatusMessageUnknown:
		return "unknown MIDI message"
	default:
		return "unknown status"
	}
}

// StatusError wraps a Status so callers can compare with errors.Is against
// the Err* sentinels while still inspecting the underlying code.
type StatusError struct {
	Status Status
}

func (e *StatusError) Error() string { return e.Status.String() }

func (e *StatusError) Is(target error) bool {
	t, ok := target.(*StatusError)
	if !ok {
		return false
	}
	return t.Status == e.Status
}

var (
	ErrBusy           = &StatusError{StatusBusy}
	ErrBufferTooSmall = &StatusError{StatusBufferTooSmall}
	ErrNoNulTerminate = &StatusError{StatusNoNulTerminate}
	ErrInvalidFormat  = &StatusError{StatusInvalidFormat}
	ErrMessageUnknown = &StatusError{StatusMessageUnknown}
)

// statusErr returns nil for StatusOK and the matching sentinel otherwise,
// so call sites can write `return statusErr(st)` directly.
func statusErr(st Status) error {
	if st == StatusOK {
		return nil
	}
	switch st {
	case StatusBusy:
		return ErrBusy
	case StatusBufferTooSmall:
		return ErrBufferTooSmall
	case StatusNoNulTerminate:
		return ErrNoNulTerminate
	case StatusInvalidFormat:
		return ErrInvalidFormat
	case StatusMessageUnknown:
		return ErrMessageUnknown
	default:
		return errors.New(st.String())
	}
}
