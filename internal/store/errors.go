package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrProtectedConfiguration = errors.New("the default configuration cannot be deleted")
	ErrCustomLimitReached     = fmt.Errorf("maximum number of custom surveys reached (%d)", MaxCustomConfigurations)
)

// StorageError represents a failure reading or writing a persisted key.
type StorageError struct {
	Key string
	Op  string // "read", "write", "delete", "decode", "encode"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// isDecodeFault reports whether err is a payload that exists but cannot be
// decoded. Those are degraded to safe defaults rather than returned.
func isDecodeFault(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Op == "decode"
}

// ValidationError lists every rule a configuration broke.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Errors, "; ")
}
