package source

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFormat indicates no loader is registered for a format
	ErrUnknownFormat = errors.New("unknown input format")

	// ErrEmptyInput indicates the input held no data at all
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidPath indicates a path that is unsafe or not a regular file
	ErrInvalidPath = errors.New("invalid input path")
)

// LoadError wraps a loading failure with the operation and input path
type LoadError struct {
	// Op is the step that failed (open, detect, load)
	Op string

	// Path is the file being loaded, or "-" for stdin
	Path string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *LoadError) Unwrap() error {
	return e.Err
}
