package cmd

import (
	"errors"
	"fmt"
)

// ErrInvalidFlagValue matches every *InvalidFlagValueError.
var ErrInvalidFlagValue = errors.New("invalid flag value")

// InvalidFlagValueError reports a command-line value that fails its type,
// enumeration or range constraint. It is raised before anything is started
// or written.
type InvalidFlagValueError struct {
	// Flag is the flag name without dashes, or "command" for the positional
	// argument.
	Flag   string
	Value  string
	Reason string
}

// Error returns a message naming the flag and the accepted values.
func (e *InvalidFlagValueError) Error() string {
	if e.Flag == commandArg {
		return fmt.Sprintf("invalid command %q: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid value %q for --%s: %s", e.Value, e.Flag, e.Reason)
}

// Is allows errors.Is() to match ErrInvalidFlagValue.
func (e *InvalidFlagValueError) Is(target error) bool {
	return target == ErrInvalidFlagValue
}

// UsageError wraps command-line parsing errors such as unknown flags or
// missing flag values.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }
