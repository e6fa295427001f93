// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/parent-node-finder/backend/internal/logger"
	"github.com/parent-node-finder/backend/internal/storage"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// exposeDetails controls whether unexpected errors carry their cause.
var exposeDetails = true

// SetExposeErrorDetails toggles error details for unexpected errors.
func SetExposeErrorDetails(expose bool) {
	exposeDetails = expose
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewInvalidMACError reports a root MAC that is not a 6-byte hex address.
func NewInvalidMACError(field string) *APIError {
	err := NewValidationError(field)
	err.Details = "Entered incorrect MAC ID!"
	return err
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewPayloadTooLargeError creates a 413 error for content over the upload limit
func NewPayloadTooLargeError(cause error) *APIError {
	err := &APIError{
		Status:  http.StatusRequestEntityTooLarge,
		Code:    "PAYLOAD_TOO_LARGE",
		Message: "uploaded file exceeds the size limit",
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// newStorageError maps storage failures on client content to 4xx errors.
func newStorageError(message string, err error) *APIError {
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		return NewPayloadTooLargeError(err)
	case errors.Is(err, storage.ErrBadEncoding):
		return NewBadRequestError("invalid compressed upload", err)
	}
	return NewInternalError(message, err)
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// ErrorHandler renders errors as JSON.
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{
			Status:  e.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", e.Message),
		}
	default:
		apiErr = &APIError{
			Status:  http.StatusInternalServerError,
			Code:    "UNKNOWN_ERROR",
			Message: "An unexpected error occurred",
		}
		if exposeDetails {
			apiErr.Details = err.Error()
		}
	}

	if apiErr.Status >= http.StatusInternalServerError {
		logger.Error().
			Err(err).
			Str("component", "api").
			Str("path", c.Request().URL.Path).
			Msg("request failed")
	}

	c.JSON(apiErr.Status, apiErr)
}
