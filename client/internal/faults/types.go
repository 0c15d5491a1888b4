// Package faults classifies the errors drivers return so the client can map
// them onto public error codes and decide whether a retry is worthwhile.
package faults

import "fmt"

// ErrorCategory determines how errors should be handled by retry logic.
type ErrorCategory int

const (
	// Recoverable errors may be retried with exponential backoff.
	// Examples: 503 Service Unavailable, connection refused, timeouts.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors fail immediately.
	// Examples: 401 Unauthorized, unique violations, malformed rows.
	Irrecoverable
)

// String returns a human-readable representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Kind is the coarse origin of a fault.
type Kind string

const (
	KindUnknown            Kind = ""
	KindCanceled           Kind = "canceled"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindAccountExists      Kind = "account_exists"
	KindValidation         Kind = "validation"
	KindTransport          Kind = "transport"
	KindDecode             Kind = "decode"
	KindBackend            Kind = "backend"
)

// ClassifiedError wraps an error with the metadata the client needs.
type ClassifiedError struct {
	Kind       Kind
	Category   ErrorCategory
	Code       string // backend-supplied code (SQLSTATE, PGRST*, HTTP status); empty when none
	StatusCode int    // HTTP status code (0 for non-HTTP errors)
	Underlying error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %v", e.Category, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %v", e.Category, e.Underlying)
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *ClassifiedError) Unwrap() error {
	return e.Underlying
}

// IsIrrecoverable returns true if the error should not be retried.
func IsIrrecoverable(err error) bool {
	return Classify(err).Category == Irrecoverable
}
