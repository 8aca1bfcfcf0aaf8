package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCorruptConfig matches errors for a backing file that exists but
	// cannot be parsed.
	ErrCorruptConfig = errors.New("corrupt configuration")

	// ErrIO matches errors for failed reads and writes of the backing file.
	ErrIO = errors.New("configuration I/O error")
)

// CorruptConfigError reports a backing file that is present but is not a
// valid configuration document.
type CorruptConfigError struct {
	Path   string
	Line   int // 1-based, 0 when unknown
	Column int
	Err    error
}

func (e *CorruptConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("configuration file %s is corrupt at line %d, column %d: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("configuration file %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptConfigError) Unwrap() error { return e.Err }

func (e *CorruptConfigError) Is(target error) bool { return target == ErrCorruptConfig }

// DetailedError returns a multi-line description with suggestions, for
// printing to an operator.
func (e *CorruptConfigError) DetailedError() string {
	parts := []string{
		fmt.Sprintf("Configuration Error in %s", e.Path),
	}
	if e.Line > 0 {
		parts = append(parts, fmt.Sprintf("  Line: %d, Column: %d", e.Line, e.Column))
	}
	parts = append(parts, fmt.Sprintf("  Error: %v", e.Err))
	parts = append(parts,
		"  Suggestions:",
		"    - Fix the JSON syntax, or",
		"    - Remove the file to start over from defaults",
	)
	return strings.Join(parts, "\n")
}

// IOError reports a failed filesystem operation on the backing file. A failed
// write leaves the previous file content in place.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s configuration file %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// IsCorruptConfig reports whether err is, or wraps, a CorruptConfigError.
func IsCorruptConfig(err error) bool {
	return errors.Is(err, ErrCorruptConfig)
}

// newCorruptConfigError locates syntax errors in data when possible.
func newCorruptConfigError(path string, data []byte, err error) *CorruptConfigError {
	ce := &CorruptConfigError{Path: path, Err: err}

	var offset int64 = -1
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	}
	if offset >= 0 {
		ce.Line, ce.Column = lineColumn(data, offset)
	}
	return ce
}

func lineColumn(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
