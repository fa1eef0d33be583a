package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrNoImage is returned by operations that need a loaded image.
	ErrNoImage = errors.New("no image loaded")

	// ErrEmptyHistory is returned by Undo when there is nothing to undo.
	// It reports a no-op rather than a failure.
	ErrEmptyHistory = errors.New("nothing to undo")
)

// DecodeError reports input to Load that could not be decoded as an image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ValidationError reports an operation parameter that is out of range or
// malformed. The engine state is untouched when it is returned.
type ValidationError struct {
	Op     Kind   // Operation being validated
	Param  string // Offending parameter name; empty for the operation as a whole
	Reason string // Human-readable description of the constraint
}

func (e *ValidationError) Error() string {
	switch {
	case e.Op == "":
		return fmt.Sprintf("invalid operation: %s", e.Reason)
	case e.Param == "":
		return fmt.Sprintf("invalid %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("invalid %s parameter %s: %s", e.Op, e.Param, e.Reason)
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
