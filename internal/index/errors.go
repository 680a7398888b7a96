package index

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by operations on a closed index
var ErrClosed = errors.New("index closed")

// Error wraps a failed index operation with the replay path involved
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("index %s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("index %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newIndexError(op, path string, err error) error {
	return &Error{Op: op, Path: path, Err: err}
}
