package services

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every handler. Validation and signature failures
// are expected control paths; everything else surfaces as a 500.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrMissingParameter = fmt.Errorf("%w: missing required parameters", ErrInvalidInput)
	ErrInvalidTenant    = fmt.Errorf("%w: invalid shop domain", ErrInvalidInput)
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidState     = fmt.Errorf("%w: OAuth state mismatch", ErrInvalidSignature)
	ErrUnknownTopic     = errors.New("unknown topic")
)

// ShopRedactError is returned when shop/redact could not delete every stored
// parameter for a shop.
type ShopRedactError struct {
	Shop    string
	Deleted []string
	Err     error
}

func (e *ShopRedactError) Error() string {
	return fmt.Sprintf("failed to delete data for %s: %v", e.Shop, e.Err)
}

func (e *ShopRedactError) Unwrap() error {
	return e.Err
}
