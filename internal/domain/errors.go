package domain

import (
	"errors"
	"fmt"
)

// Not-found errors returned by repositories. Read APIs surface these to
// the boundary; the transfer engine converts them into validation errors.
var (
	ErrClientNotFound   = errors.New("client not found")
	ErrTrackingNotFound = errors.New("tracking record not found")
)

// ErrAmountBelowMinimum rejects amounts under the smallest representable
// transaction amount (0.0001). It is an input error, raised before a
// tracking record exists.
var ErrAmountBelowMinimum = errors.New("amount must be at least 0.0001")

// ValidationError is a domain-rule violation found while processing a
// transfer request. It is captured into the FAILED tracking record rather
// than propagated to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a ValidationError with a formatted reason
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
