package verifier

import (
	"errors"
	"fmt"

	dErrors "kycdid/pkg/domain-errors"
)

// ErrorCategory normalizes backend transport failures so callers can decide
// on retries without parsing messages.
type ErrorCategory string

const (
	ErrorTimeout        ErrorCategory = "timeout"
	ErrorBadData        ErrorCategory = "bad_data"
	ErrorAuthentication ErrorCategory = "authentication"
	ErrorOutage         ErrorCategory = "provider_outage"
	ErrorRateLimited    ErrorCategory = "rate_limited"
	ErrorCircuitOpen    ErrorCategory = "circuit_open"
	ErrorInternal       ErrorCategory = "internal"
)

// ProviderError is a failure to obtain a verdict at all. A negative verdict
// is not an error; it is a Result with Valid false.
type ProviderError struct {
	Category   ErrorCategory
	ProviderID string
	Message    string
	Underlying error
	Retryable  bool
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("verifier %s [%s]: %s: %v", e.ProviderID, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("verifier %s [%s]: %s", e.ProviderID, e.Category, e.Message)
}

// Unwrap exposes the underlying failure and a domain code: timeouts map to
// CodeTimeout, everything else to CodeUnavailable.
func (e *ProviderError) Unwrap() []error {
	code := dErrors.CodeUnavailable
	if e.Category == ErrorTimeout {
		code = dErrors.CodeTimeout
	}
	errs := []error{&dErrors.Error{Code: code, Message: e.Error()}}
	if e.Underlying != nil {
		errs = append(errs, e.Underlying)
	}
	return errs
}

// NewProviderError marks timeouts, outages, rate limits and open circuits as retryable.
func NewProviderError(category ErrorCategory, providerID, message string, underlying error) *ProviderError {
	retryable := category == ErrorTimeout ||
		category == ErrorOutage ||
		category == ErrorRateLimited ||
		category == ErrorCircuitOpen
	return &ProviderError{
		Category:   category,
		ProviderID: providerID,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

func IsRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

func GetCategory(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ErrorInternal
}
