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
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Scene document errors
	ErrSceneLoad    ErrorCode = "SCENE_LOAD"
	ErrSceneParse   ErrorCode = "SCENE_PARSE"
	ErrSceneInvalid ErrorCode = "SCENE_INVALID"

	// Rig evaluation errors. These are contained per item and logged; they
	// only surface as return values from the strict APIs.
	ErrScopeMissing           ErrorCode = "SCOPE_MISSING"
	ErrExpression             ErrorCode = "EXPRESSION"
	ErrUnresolvedName         ErrorCode = "UNRESOLVED_NAME"
	ErrDivision               ErrorCode = "DIVISION"
	ErrMalformedRule          ErrorCode = "MALFORMED_RULE"
	ErrUnsupportedRequirement ErrorCode = "UNSUPPORTED_REQUIREMENT"
	ErrStaleReference         ErrorCode = "STALE_REFERENCE"
	ErrSelectorUnconnected    ErrorCode = "SELECTOR_UNCONNECTED"

	// Host errors
	ErrReentrant   ErrorCode = "REENTRANT"
	ErrRigNotFound ErrorCode = "RIG_NOT_FOUND"
)

// RigError represents a structured error with code and details
type RigError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *RigError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *RigError) Unwrap() error {
	return e.Wrapped
}

// Is matches any RigError carrying the same code
func (e *RigError) Is(target error) bool {
	var targetErr *RigError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new RigError with the given code and message
func New(code ErrorCode, message string) *RigError {
	return &RigError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new RigError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *RigError {
	return &RigError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a RigError
func Wrap(err error, code ErrorCode, message string) *RigError {
	if err == nil {
		return nil
	}
	return &RigError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *RigError {
	if err == nil {
		return nil
	}
	return &RigError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *RigError) WithDetail(key string, value interface{}) *RigError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var rigErr *RigError
	if errors.As(err, &rigErr) {
		return rigErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a RigError
func GetErrorCode(err error) ErrorCode {
	var rigErr *RigError
	if errors.As(err, &rigErr) {
		return rigErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a RigError
func GetErrorDetails(err error) map[string]interface{} {
	var rigErr *RigError
	if errors.As(err, &rigErr) {
		return rigErr.Details
	}
	return nil
}
