package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Bag name validation errors
	ErrTypeMismatch  ErrorCode = "TYPE_MISMATCH"
	ErrInvalidFormat ErrorCode = "INVALID_FORMAT"

	// Local resolution errors
	ErrDataBagPath ErrorCode = "DATA_BAG_PATH_INVALID"
	ErrItemRead    ErrorCode = "ITEM_READ"
	ErrItemDecode  ErrorCode = "ITEM_DECODE"

	// Remote errors
	ErrConflict  ErrorCode = "CONFLICT"
	ErrTransport ErrorCode = "TRANSPORT"
	ErrServer    ErrorCode = "SERVER"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Mode errors
	ErrSoloUnsupported ErrorCode = "SOLO_UNSUPPORTED"
)

// DatabagError represents a structured error with code and details
type DatabagError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DatabagError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DatabagError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DatabagError) Is(target error) bool {
	var targetErr *DatabagError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DatabagError with the given code and message
func New(code ErrorCode, message string) *DatabagError {
	return &DatabagError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DatabagError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DatabagError {
	return &DatabagError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DatabagError
func Wrap(err error, code ErrorCode, message string) *DatabagError {
	if err == nil {
		return nil
	}
	return &DatabagError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DatabagError {
	if err == nil {
		return nil
	}
	return &DatabagError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DatabagError) WithDetail(key string, value interface{}) *DatabagError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var dbErr *DatabagError
	if errors.As(err, &dbErr) {
		return dbErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DatabagError
func GetErrorCode(err error) ErrorCode {
	var dbErr *DatabagError
	if errors.As(err, &dbErr) {
		return dbErr.Code
	}
	return ErrUnknown
}
