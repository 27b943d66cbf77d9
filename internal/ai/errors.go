package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// AIError defines the interface for AI-specific errors
type AIError interface {
	error
	Code() string
	Message() string
	Temporary() bool
}

// APIError represents an error response from the inference API
type APIError struct {
	HTTPStatus int    `json:"http_status"`
	ErrorCode  string `json:"error_code"`
	ErrorMsg   string `json:"error_message"`
	Retryable  bool   `json:"retryable"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("AI API error (HTTP %d): %s - %s", e.HTTPStatus, e.ErrorCode, e.ErrorMsg)
}

func (e APIError) Code() string {
	return e.ErrorCode
}

func (e APIError) Message() string {
	return e.ErrorMsg
}

func (e APIError) Temporary() bool {
	return e.Retryable
}

// NetworkError represents connection and timeout issues
type NetworkError struct {
	Operation string `json:"operation"`
	Wrapped   error  `json:"-"`
}

func (e NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Operation, e.Wrapped)
}

func (e NetworkError) Code() string {
	return "NETWORK_ERROR"
}

func (e NetworkError) Message() string {
	return "inference service unreachable"
}

func (e NetworkError) Temporary() bool {
	return true
}

func (e NetworkError) Unwrap() error {
	return e.Wrapped
}

// AnalysisError represents a model response that could not be used
type AnalysisError struct {
	Details   string `json:"details"`
	Retryable bool   `json:"retryable"`
}

func (e AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed: %s", e.Details)
}

func (e AnalysisError) Code() string {
	return "ANALYSIS_FAILED"
}

func (e AnalysisError) Message() string {
	return e.Details
}

func (e AnalysisError) Temporary() bool {
	return e.Retryable
}

// ConfigurationError represents invalid provider configuration
type ConfigurationError struct {
	Field    string `json:"field"`
	ErrorMsg string `json:"error_message"`
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for field '%s': %s", e.Field, e.ErrorMsg)
}

func (e ConfigurationError) Code() string {
	return "CONFIGURATION_ERROR"
}

func (e ConfigurationError) Message() string {
	return e.ErrorMsg
}

func (e ConfigurationError) Temporary() bool {
	return false
}

// IsRetryable reports whether an error is worth retrying
func IsRetryable(err error) bool {
	var aiErr AIError
	if errors.As(err, &aiErr) {
		return aiErr.Temporary()
	}
	return false
}

// retryableStatus classifies HTTP status codes for the retry loop
func retryableStatus(statusCode int) bool {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return true
	case statusCode >= 500:
		return true
	default:
		return false
	}
}
