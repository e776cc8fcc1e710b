package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nimburion/blogapi/pkg/middleware"
)

// Stable error codes.
const (
	CodeValidationFailed = "validation.failed"
	CodeInvalidID        = "validation.invalid_id"
	CodeInvalidBody      = "validation.invalid_body"
	CodeNotFound         = "resource.not_found"
	CodeUnauthorized     = "auth.unauthorized"
	CodeRequestTooLarge  = "request.too_large"
	CodeInternal         = "internal.error"
)

const unexpectedMessage = "an unexpected error occurred"

// AppError is the single application error contract shared across layers:
// stable code, human-readable message, HTTP status and optional wrapped cause.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]interface{}
	Cause      error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Cause)
	}
	return e.Code
}

// Unwrap returns the wrapped cause.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ErrorResponse represents the consistent error response format.
type ErrorResponse struct {
	Error     string                 `json:"error"`
	Message   string                 `json:"message"`
	RequestID string                 `json:"request_id,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// MapError maps application errors to HTTP responses. Errors that are not an
// AppError are reported as 500 without leaking their text.
func MapError(ctx context.Context, err error) (int, ErrorResponse) {
	requestID := middleware.RequestID(ctx)

	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, ErrorResponse{
			Error:     "internal_server_error",
			Message:   unexpectedMessage,
			RequestID: requestID,
		}
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = inferStatusFromCode(appErr.Code)
	}

	message := appErr.Message
	if message == "" {
		message = unexpectedMessage
	}

	return status, ErrorResponse{
		Error:     errorCategory(status),
		Message:   message,
		RequestID: requestID,
		Details:   appErr.Details,
	}
}

// NewValidationError creates a 400 error.
func NewValidationError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Code:       CodeValidationFailed,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// NewInvalidIDError creates a 400 error for a malformed identifier.
func NewInvalidIDError(message string) *AppError {
	return &AppError{Code: CodeInvalidID, Message: message, HTTPStatus: http.StatusBadRequest}
}

// NewInvalidBodyError creates a 400 error for a body that is missing or cannot be decoded.
func NewInvalidBodyError() *AppError {
	return &AppError{Code: CodeInvalidBody, Message: "Invalid request body", HTTPStatus: http.StatusBadRequest}
}

// NewNotFoundError creates a 404 error.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

// NewUnauthorizedError creates a 401 error.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// NewRequestTooLargeError creates a 413 error for a body over maxBytes.
func NewRequestTooLargeError(maxBytes int64) *AppError {
	return &AppError{
		Code:       CodeRequestTooLarge,
		Message:    fmt.Sprintf("request body exceeds maximum allowed size of %d bytes", maxBytes),
		HTTPStatus: http.StatusRequestEntityTooLarge,
		Details:    map[string]interface{}{"max_size": maxBytes},
	}
}

// NewInternalError creates a 500 error whose message is "<context>: <cause>".
func NewInternalError(context string, cause error) *AppError {
	message := context
	if cause != nil {
		message = fmt.Sprintf("%s: %v", context, cause)
	}
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Internal passes AppErrors through untouched and wraps anything else with NewInternalError.
func Internal(context string, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return NewInternalError(context, err)
}

func errorCategory(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "validation_error"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusRequestEntityTooLarge:
		return "request_too_large"
	default:
		if status >= 500 {
			return "internal_server_error"
		}
		return "application_error"
	}
}

func inferStatusFromCode(code string) int {
	lowerCode := strings.ToLower(strings.TrimSpace(code))
	switch {
	case strings.HasPrefix(lowerCode, "validation."):
		return http.StatusBadRequest
	case strings.Contains(lowerCode, "unauthorized"):
		return http.StatusUnauthorized
	case strings.Contains(lowerCode, "not_found"):
		return http.StatusNotFound
	case strings.Contains(lowerCode, "too_large"):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
