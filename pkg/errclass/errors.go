package errclass

import "fmt"

// FlagError is a stable, machine-readable error class.
type FlagError struct {
	Code    string
	Message string
}

func (e *FlagError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *FlagError) Is(target error) bool {
	t, ok := target.(*FlagError)
	return ok && e.Code == t.Code
}

// WithMessage returns a new FlagError with the same Code but a specific message.
func (e *FlagError) WithMessage(msg string) *FlagError {
	return &FlagError{Code: e.Code, Message: msg}
}

// WithMessagef returns a new FlagError with a formatted message.
func (e *FlagError) WithMessagef(format string, args ...any) *FlagError {
	return &FlagError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// All stable error classes (6 total).
var (
	ErrNotInitialized = &FlagError{Code: "E_NOT_INITIALIZED"}
	ErrSchema         = &FlagError{Code: "E_SCHEMA"}
	ErrIndexRange     = &FlagError{Code: "E_INDEX_RANGE"}
	ErrCorruptLog     = &FlagError{Code: "E_CORRUPT_LOG"}
	ErrRemoteSync     = &FlagError{Code: "E_REMOTE_SYNC"}
	ErrNameInvalid    = &FlagError{Code: "E_NAME_INVALID"}
)
