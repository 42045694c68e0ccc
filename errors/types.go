package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound   ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Command execution errors
	ErrCodeCommandFailed   ErrorCode = "COMMAND_FAILED"
	ErrCodeCommandSignaled ErrorCode = "COMMAND_SIGNALED"
	ErrCodeCommandLaunch   ErrorCode = "COMMAND_LAUNCH"
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"

	// Action errors
	ErrCodeMissingParameter ErrorCode = "MISSING_PARAMETER"
	ErrCodeCleanupFailed    ErrorCode = "CLEANUP_FAILED"
	ErrCodeProfileInvalid   ErrorCode = "PROFILE_INVALID"

	// General errors
	ErrCodeFileOperation ErrorCode = "FILE_OPERATION"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
)

// Coder is implemented by errors from other packages that carry a code
// without being a *SeedeeError.
type Coder interface {
	ErrorCode() ErrorCode
}

// SeedeeError represents a structured error with context
type SeedeeError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *SeedeeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SeedeeError) Unwrap() error {
	return e.Cause
}

// ErrorCode returns the error's code.
func (e *SeedeeError) ErrorCode() ErrorCode {
	return e.Code
}

// WithDetail adds a detail to the error
func (e *SeedeeError) WithDetail(key string, value interface{}) *SeedeeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *SeedeeError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new SeedeeError
func New(code ErrorCode, message string) *SeedeeError {
	return &SeedeeError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a SeedeeError
func Wrap(err error, code ErrorCode, message string) *SeedeeError {
	return &SeedeeError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is reports whether any error in err's tree carries the given code.
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	if c, ok := err.(Coder); ok && c.ErrorCode() == code {
		return true
	}

	switch x := err.(type) {
	case interface{ Unwrap() error }:
		return Is(x.Unwrap(), code)
	case interface{ Unwrap() []error }:
		for _, inner := range x.Unwrap() {
			if Is(inner, code) {
				return true
			}
		}
	}
	return false
}

// GetCode extracts the first error code found in err's tree. Joined errors
// are searched in order, so the primary failure wins.
func GetCode(err error) ErrorCode {
	var c Coder
	if stderrors.As(err, &c) {
		return c.ErrorCode()
	}
	return ""
}

// AsSeedeeError returns the first *SeedeeError in err's tree.
func AsSeedeeError(err error) (*SeedeeError, bool) {
	var se *SeedeeError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}
