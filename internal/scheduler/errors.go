package scheduler

import (
	"fmt"
)

// SchedulerError defines the interface for scheduler-specific errors
type SchedulerError interface {
	error
	Code() string
	Message() string
	Temporary() bool
}

// schedulerError implements the SchedulerError interface
type schedulerError struct {
	code      string
	message   string
	temporary bool
}

func (e *schedulerError) Error() string {
	return fmt.Sprintf("scheduler error [%s]: %s", e.code, e.message)
}

func (e *schedulerError) Code() string {
	return e.code
}

func (e *schedulerError) Message() string {
	return e.message
}

func (e *schedulerError) Temporary() bool {
	return e.temporary
}

// Error constants
const (
	ErrSchedulerNotRunning     = "scheduler_not_running"
	ErrSchedulerAlreadyRunning = "scheduler_already_running"
	ErrInvalidConfiguration    = "invalid_configuration"
	ErrUserProcessingFailed    = "user_processing_failed"
	ErrJobRegistrationFailed   = "job_registration_failed"
)

// UserProcessingError marks a failure while evaluating a single user. The
// tick that raised it continues with the remaining users.
type UserProcessingError struct {
	schedulerError
	UserPhone string
	Job       string
}

// ConfigurationError marks an invalid scheduler setting
type ConfigurationError struct {
	schedulerError
	Field string
	Value interface{}
}

// ShutdownError marks a stop that exceeded the shutdown timeout
type ShutdownError struct {
	schedulerError
	TimeoutSeconds int
}

// Constructor functions
func NewSchedulerError(code, message string) error {
	return &schedulerError{
		code:      code,
		message:   message,
		temporary: false,
	}
}

func NewUserProcessingError(userPhone, job string, err error) error {
	return &UserProcessingError{
		schedulerError: schedulerError{
			code:      ErrUserProcessingFailed,
			message:   fmt.Sprintf("failed to process user %s in %s job: %v", userPhone, job, err),
			temporary: true,
		},
		UserPhone: userPhone,
		Job:       job,
	}
}

func NewConfigurationError(field string, value interface{}, message string) error {
	return &ConfigurationError{
		schedulerError: schedulerError{
			code:      ErrInvalidConfiguration,
			message:   fmt.Sprintf("invalid configuration field '%s' with value '%v': %s", field, value, message),
			temporary: false,
		},
		Field: field,
		Value: value,
	}
}

func NewShutdownError(timeoutSeconds int) error {
	return &ShutdownError{
		schedulerError: schedulerError{
			code:      ErrSchedulerNotRunning,
			message:   fmt.Sprintf("scheduler shutdown timed out after %d seconds", timeoutSeconds),
			temporary: false,
		},
		TimeoutSeconds: timeoutSeconds,
	}
}
