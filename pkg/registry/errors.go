package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyExists is returned by Add when the path is registered.
	ErrAlreadyExists = errors.New("program already registered")

	// ErrPathNotFound is returned by Add when the path does not exist on disk.
	ErrPathNotFound = errors.New("path does not exist")

	// ErrNotFound is returned when a mutation names an unknown path.
	ErrNotFound = errors.New("program not registered")

	// ErrPriorityOutOfRange is returned by SetPriority for values outside
	// the configured range.
	ErrPriorityOutOfRange = errors.New("priority out of range")
)

// PersistenceError wraps a failure to read or write the registry file.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("registry %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a rejected Add or SetPriority.
func IsValidation(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrPathNotFound) ||
		errors.Is(err, ErrPriorityOutOfRange)
}
