package messenger

import "fmt"

// Error codes for the messenger module
const (
	ErrCodeProvider    = "PROVIDER_ERROR"
	ErrCodeParseFailed = "PARSE_FAILED"
	ErrCodeBadRequest  = "BAD_REQUEST"
)

// MessengerError interface for messenger-specific errors
type MessengerError interface {
	error
	Code() string
	Temporary() bool
}

// ProviderError represents a failure talking to the messaging platform
type ProviderError struct {
	Operation string
	Cause     error
}

func (e ProviderError) Error() string {
	return fmt.Sprintf("messenger provider error during %s: %v", e.Operation, e.Cause)
}

func (e ProviderError) Code() string {
	return ErrCodeProvider
}

func (e ProviderError) Temporary() bool {
	return true
}

func (e ProviderError) Unwrap() error {
	return e.Cause
}

// ParseError represents an update payload that could not be understood
type ParseError struct {
	Details string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("failed to parse update: %s", e.Details)
}

func (e ParseError) Code() string {
	return ErrCodeParseFailed
}

func (e ParseError) Temporary() bool {
	return false
}

// BadRequestError represents an outbound request the provider would reject
type BadRequestError struct {
	Details string
}

func (e BadRequestError) Error() string {
	return fmt.Sprintf("invalid messenger request: %s", e.Details)
}

func (e BadRequestError) Code() string {
	return ErrCodeBadRequest
}

func (e BadRequestError) Temporary() bool {
	return false
}

// WrapProviderError wraps an error as a ProviderError
func WrapProviderError(err error, operation string) error {
	if err == nil {
		return nil
	}
	return ProviderError{Operation: operation, Cause: err}
}
