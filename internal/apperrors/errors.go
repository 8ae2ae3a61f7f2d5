// Package apperrors classifies failures of the relay into the handful of
// categories the HTTP layer knows how to answer.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies the category of an error
type ErrorCode string

const (
	// CodeBadRequest is a missing or invalid client input
	CodeBadRequest ErrorCode = "BAD_REQUEST"
	// CodePayloadTooLarge is a request body above the configured limit
	CodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	// CodeServiceUnavailable is a missing credential or unreachable provider
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// CodeUpstreamRejected is a non-2xx answer from a provider
	CodeUpstreamRejected ErrorCode = "UPSTREAM_REJECTED"
	// CodeProcessing is model output that could not be parsed or validated
	CodeProcessing ErrorCode = "PROCESSING_ERROR"
	// CodeInternal is anything else
	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with a user-facing message
type AppError struct {
	Code    ErrorCode
	Message string
	Details string
	Status  int
	Cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status code to answer with
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case CodeUpstreamRejected:
		if e.Status >= 400 && e.Status <= 599 {
			return e.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WithDetails attaches diagnostic details
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewBadRequestError creates a client input error
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: CodeBadRequest, Message: message}
}

// NewPayloadTooLargeError creates an oversized body error
func NewPayloadTooLargeError(message string, cause error) *AppError {
	return &AppError{Code: CodePayloadTooLarge, Message: message, Cause: cause}
}

// NewServiceUnavailableError creates an upstream unavailable error
func NewServiceUnavailableError(message string, cause error) *AppError {
	return &AppError{Code: CodeServiceUnavailable, Message: message, Cause: cause}
}

// NewUpstreamError creates an error carrying a provider status code
func NewUpstreamError(status int, message string, cause error) *AppError {
	return &AppError{Code: CodeUpstreamRejected, Message: message, Status: status, Cause: cause}
}

// NewProcessingError creates a model output error
func NewProcessingError(message string, cause error) *AppError {
	return &AppError{Code: CodeProcessing, Message: message, Cause: cause}
}

// NewInternalError creates an internal server error
func NewInternalError(message string, cause error) *AppError {
	if message == "" {
		message = "Erreur interne du serveur"
	}
	return &AppError{Code: CodeInternal, Message: message, Cause: cause}
}

// As returns the AppError in err's chain, if any
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// StatusCode returns the HTTP status for any error, 500 when unclassified
func StatusCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}

// Wrap classifies err as an internal error unless it already is an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		return appErr
	}
	return NewInternalError(message, err)
}
