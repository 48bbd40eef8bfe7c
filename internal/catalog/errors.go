package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an id is not present in the local catalog.
	ErrNotFound = errors.New("product not found")
	// ErrInvalidProduct wraps validation failures of a draft or product.
	ErrInvalidProduct = errors.New("invalid product")
)

// Op identifies the remote write that failed.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// StoreWriteError reports a create, update or delete the remote store rejected.
type StoreWriteError struct {
	Op Op
	ID string
	// Reverted is set when the optimistic local mutation was rolled back.
	Reverted bool
	Err      error
}

func (e *StoreWriteError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s of product %s failed: %v", e.Op, e.ID, e.Err)
}

func (e *StoreWriteError) Unwrap() error {
	return e.Err
}
