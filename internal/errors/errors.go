package errors

import (
	stderrors "errors"
)

// Error codes
const (
	// Authentication errors
	ErrCodeAuthRequired       = "AUTH_REQUIRED"
	ErrCodeSessionExpired     = "SESSION_EXPIRED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeConflict = "CONFLICT"

	// Protocol errors
	ErrCodeProtocol      = "PROTOCOL_ERROR"
	ErrCodeUnknownAction = "UNKNOWN_ACTION"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// APIError is the structured failure reported to clients.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithField creates a new APIError pointing at a payload field
func NewAPIErrorWithField(code, message, field string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// Predefined errors
var (
	ErrAuthRequired   = NewAPIError(ErrCodeAuthRequired, "Authentication token required")
	ErrSessionExpired = NewAPIError(ErrCodeSessionExpired, "Invalid or expired session")
	ErrInvalidRequest = NewAPIError(ErrCodeProtocol, "Invalid request format")
	ErrInternalError  = NewAPIError(ErrCodeInternalError, "Internal server error")
)

// Helper functions for common error kinds

// Validation reports malformed input with a field hint
func Validation(field, message string) *APIError {
	if message == "" {
		message = "Invalid request"
	}
	return NewAPIErrorWithField(ErrCodeInvalidInput, message, field)
}

// InvalidCredentials reports a failed login
func InvalidCredentials(message string) *APIError {
	if message == "" {
		message = "Invalid username or password"
	}
	return NewAPIError(ErrCodeInvalidCredentials, message)
}

// NotFound reports an unknown resource
func NotFound(message string) *APIError {
	if message == "" {
		message = "Resource not found"
	}
	return NewAPIError(ErrCodeNotFound, message)
}

// Conflict reports a uniqueness violation
func Conflict(message string) *APIError {
	if message == "" {
		message = "Resource conflict"
	}
	return NewAPIError(ErrCodeConflict, message)
}

// Protocol reports a request that could not be decoded
func Protocol(message string) *APIError {
	if message == "" {
		message = ErrInvalidRequest.Message
	}
	return NewAPIError(ErrCodeProtocol, message)
}

// UnknownAction reports an action name with no registered handler
func UnknownAction(action string) *APIError {
	return NewAPIError(ErrCodeUnknownAction, "Unknown action: "+action)
}

// Internal hides the cause of an unexpected failure from the caller
func Internal() *APIError {
	return NewAPIError(ErrCodeInternalError, ErrInternalError.Message)
}

// As extracts an APIError from err. Anything else becomes a generic
// internal error; the boolean reports whether err was already structured.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}
	return Internal(), false
}
