package credentials

import (
	"errors"
	"fmt"
)

// Common credential store error types
var (
	ErrNotFound           = errors.New("parameter not found")
	ErrInvalidKey         = errors.New("invalid parameter key")
	ErrInvalidTenant      = errors.New("invalid tenant")
	ErrStoreUnavailable   = errors.New("parameter store unavailable")
	ErrUnsupportedBackend = errors.New("unsupported parameter store type")
)

// StoreError represents a parameter store operation error with additional context
type StoreError struct {
	Op  string // Operation that failed (e.g., "Put", "Get")
	Key string // Parameter name involved in the operation
	Err error  // Underlying error
}

func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("parameter store %s operation failed for key '%s': %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("parameter store %s operation failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError
func NewStoreError(op, key string, err error) *StoreError {
	return &StoreError{
		Op:  op,
		Key: key,
		Err: err,
	}
}

// DeleteError is returned by DeleteAll when enumeration or an individual
// delete fails. Deleted lists the keys removed before the failure; they are
// not restored.
type DeleteError struct {
	Tenant  string
	Deleted []string
	Err     error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("deleting parameters for %s stopped after %d deletions: %v", e.Tenant, len(e.Deleted), e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error indicates a parameter was not found
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
