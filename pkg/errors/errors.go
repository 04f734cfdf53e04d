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

	// Structural errors: the materialization cannot proceed
	ErrAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrTemplateMissing    ErrorCode = "TEMPLATE_MISSING"
	ErrArchiveCorrupt     ErrorCode = "ARCHIVE_CORRUPT"
	ErrDescriptorNotFound ErrorCode = "DESCRIPTOR_NOT_FOUND"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
	ErrRename     ErrorCode = "RENAME"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Collaborator errors
	ErrFetch         ErrorCode = "FETCH"
	ErrBuild         ErrorCode = "BUILD"
	ErrMetadata      ErrorCode = "METADATA"
	ErrEngineVersion ErrorCode = "ENGINE_VERSION"
	ErrPrompt        ErrorCode = "PROMPT"
)

// Detail keys shared across packages
const (
	DetailPath  = "path"
	DetailStage = "stage"
)

// ToolError represents a structured error with code and details
type ToolError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ToolError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ToolError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a ToolError with the same code
func (e *ToolError) Is(target error) bool {
	var targetErr *ToolError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ToolError with the given code and message
func New(code ErrorCode, message string) *ToolError {
	return &ToolError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ToolError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ToolError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *ToolError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ToolError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *ToolError) WithDetail(key string, value interface{}) *ToolError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithPath is shorthand for WithDetail(DetailPath, path)
func (e *ToolError) WithPath(path string) *ToolError {
	return e.WithDetail(DetailPath, path)
}

// WithDetails adds multiple details to the error
func (e *ToolError) WithDetails(details map[string]interface{}) *ToolError {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ToolError
func GetErrorCode(err error) ErrorCode {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ToolError
func GetErrorDetails(err error) map[string]interface{} {
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Details
	}
	return nil
}

// Stage returns the stage detail recorded on err, if any
func Stage(err error) string {
	if s, ok := GetErrorDetails(err)[DetailStage].(string); ok {
		return s
	}
	return ""
}

// Path returns the path detail recorded on err, if any
func Path(err error) string {
	if p, ok := GetErrorDetails(err)[DetailPath].(string); ok {
		return p
	}
	return ""
}
