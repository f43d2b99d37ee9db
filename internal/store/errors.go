package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record or session key does not exist.
var ErrNotFound = errors.New("not found")

// WriteError reports a failed write to durable storage. Callers that keep
// optimistic in-memory state use it to decide whether to roll back.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func writeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &WriteError{Op: op, Err: err}
}
