package store

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that the store file does not exist.
// Every read path treats it as an empty store.
var ErrNotFound = errors.New("task file not found")

// ErrIDsExhausted reports that no id above the current highest can be
// assigned.
var ErrIDsExhausted = errors.New("task ids exhausted")

// MalformedStoreError reports store content that cannot be trusted as the
// base for a rewrite.
type MalformedStoreError struct {
	Path string
	Err  error
}

func (e *MalformedStoreError) Error() string {
	return fmt.Sprintf("malformed task file %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *MalformedStoreError) Unwrap() error {
	return e.Err
}

// IOError reports a failure to read or write the store file.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s task file %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// ValidationError describes one schema violation.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err is or wraps a *MalformedStoreError.
func IsMalformed(err error) bool {
	var me *MalformedStoreError
	return errors.As(err, &me)
}
