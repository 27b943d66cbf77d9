package nutrition

import (
	"fmt"

	"kaloribot-api/internal/common"
)

// Error codes for the nutrition module
const (
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeGoalOutOfRange   = "GOAL_OUT_OF_RANGE"
	ErrCodeRepository       = "REPOSITORY_ERROR"
)

// NutritionError interface for nutrition-specific errors
type NutritionError interface {
	error
	Code() string
	Message() string
	Temporary() bool
}

// ValidationError represents validation failures for user input or models
type ValidationError struct {
	Field      string
	Value      interface{}
	ErrMessage string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s (value: %v)", e.Field, e.ErrMessage, e.Value)
}

func (e ValidationError) Code() string {
	return ErrCodeValidationFailed
}

func (e ValidationError) Message() string {
	return e.ErrMessage
}

func (e ValidationError) Temporary() bool {
	return false
}

// GoalRangeError represents a goal or interval set outside its allowed range
type GoalRangeError struct {
	Setting string
	Value   int
	Min     int
	Max     int
}

func (e GoalRangeError) Error() string {
	return fmt.Sprintf("%s must be between %d and %d, got %d", e.Setting, e.Min, e.Max, e.Value)
}

func (e GoalRangeError) Code() string {
	return ErrCodeGoalOutOfRange
}

func (e GoalRangeError) Message() string {
	return fmt.Sprintf("allowed range is %d-%d", e.Min, e.Max)
}

func (e GoalRangeError) Temporary() bool {
	return false
}

// RepositoryError represents database operation failures
type RepositoryError struct {
	Operation string
	Details   string
	Cause     error
}

func (e RepositoryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("repository error during %s: %s (caused by: %v)", e.Operation, e.Details, e.Cause)
	}
	return fmt.Sprintf("repository error during %s: %s", e.Operation, e.Details)
}

func (e RepositoryError) Code() string {
	return ErrCodeRepository
}

func (e RepositoryError) Message() string {
	return e.Details
}

func (e RepositoryError) Temporary() bool {
	return true
}

func (e RepositoryError) Unwrap() error {
	return e.Cause
}

// WrapRepositoryError wraps an error as a RepositoryError
func WrapRepositoryError(err error, operation string) error {
	if err == nil {
		return nil
	}
	return RepositoryError{
		Operation: operation,
		Details:   "database operation failed",
		Cause:     err,
	}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) error {
	return ValidationError{
		Field:      field,
		Value:      value,
		ErrMessage: message,
	}
}

// NewGoalRangeError creates a new GoalRangeError
func NewGoalRangeError(setting string, value, min, max int) error {
	return GoalRangeError{Setting: setting, Value: value, Min: min, Max: max}
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	if _, ok := err.(common.NotFoundError); ok {
		return true
	}
	return false
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	if nerr, ok := err.(NutritionError); ok {
		return nerr.Code() == ErrCodeValidationFailed || nerr.Code() == ErrCodeGoalOutOfRange
	}
	if _, ok := err.(common.ValidationError); ok {
		return true
	}
	return false
}

// IsTemporaryError checks if the error is temporary and can be retried
func IsTemporaryError(err error) bool {
	if nerr, ok := err.(NutritionError); ok {
		return nerr.Temporary()
	}
	return false
}
