package errors

import (
	"errors"
	"fmt"
)

// ReadonlyError reports a write attempted through a read-only wrapper.
// It is never returned to the caller of the write: the runtime logs it,
// counts it and hands it to the diagnostic hook, then suppresses the write.
type ReadonlyError struct {
	Op  string // "set", "delete", "add", "clear", "length"
	Key any
}

func NewReadonlyError(op string, key any) *ReadonlyError {
	return &ReadonlyError{Op: op, Key: key}
}

func (e *ReadonlyError) Error() string {
	if e.Key == nil {
		return fmt.Sprintf("readonly violation: %s on a read-only target was ignored", e.Op)
	}
	return fmt.Sprintf("readonly violation: %s of key %v on a read-only target was ignored", e.Op, e.Key)
}

// RecursionLimitError reports a job that kept re-queueing itself within a
// single flush until the configured limit was reached.
type RecursionLimitError struct {
	Job   string
	Limit int
}

func NewRecursionLimitError(job string, limit int) *RecursionLimitError {
	return &RecursionLimitError{Job: job, Limit: limit}
}

func (e *RecursionLimitError) Error() string {
	if e.Job == "" {
		return fmt.Sprintf("maximum recursive updates exceeded (%d): a job keeps re-queueing itself", e.Limit)
	}
	return fmt.Sprintf("maximum recursive updates exceeded (%d) in job '%s'", e.Limit, e.Job)
}

// ConfigError represents an error encountered while loading or parsing the
// engine configuration.
type ConfigError struct {
	Message string
	Cause   error
}

func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{Message: message, Cause: cause}
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// ValidationError indicates that a configuration document failed schema or
// logical validation.
type ValidationError struct {
	Message string
	Cause   error
}

func NewValidationError(message string, cause error) *ValidationError {
	return &ValidationError{Message: message, Cause: cause}
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// IsReadonly reports whether err (or anything it wraps) is a ReadonlyError.
func IsReadonly(err error) bool {
	var target *ReadonlyError
	return errors.As(err, &target)
}

// IsRecursionLimit reports whether err (or anything it wraps) is a RecursionLimitError.
func IsRecursionLimit(err error) bool {
	var target *RecursionLimitError
	return errors.As(err, &target)
}
