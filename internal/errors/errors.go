package errors

import (
	"fmt"
)

// AppError is a structured application error with a stable code.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an error with additional context, preserving an existing code.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{Code: appErr.Code, Message: message, Cause: appErr}
	}
	return &AppError{Code: CodeInternalError, Message: message, Cause: err}
}

// Wrapf wraps an error with formatted additional context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if err is an AppError, otherwise "UNKNOWN".
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Error codes. Configuration and input errors are fatal: the pipeline aborts
// before writing any output.
const (
	CodeConfigInvalid = "CONFIG_INVALID"
	CodeInputInvalid  = "INPUT_INVALID"
	CodeInternalError = "INTERNAL_ERROR"
)

// ConfigInvalid builds a configuration error.
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// InputInvalid builds an input-schema or input-content error.
func InputInvalid(message string) *AppError {
	return New(CodeInputInvalid, message)
}

// InputInvalidf builds a formatted input error.
func InputInvalidf(format string, args ...interface{}) *AppError {
	return New(CodeInputInvalid, fmt.Sprintf(format, args...))
}

// InternalError builds an internal failure.
func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
