package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeForbidden = "FORBIDDEN"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound = "NOT_FOUND"
	ErrCodeConflict = "CONFLICT"

	// Remote API errors
	ErrCodeRemoteError  = "REMOTE_ERROR"
	ErrCodeNetworkError = "NETWORK_ERROR"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// APIError represents a standardized error surfaced to the shells.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Status  int         `json:"-"`
	Details interface{} `json:"details,omitempty"`
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

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// FromStatus maps a remote API status code onto the user-facing message
// the shells present. Unknown statuses keep the raw code in the message.
func FromStatus(status int) *APIError {
	var code, message string
	switch status {
	case http.StatusBadRequest:
		code, message = ErrCodeInvalidInput, "Bad Request - Please check your input"
	case http.StatusUnauthorized:
		code, message = ErrCodeUnauthorized, "Unauthorized - Please login again"
	case http.StatusForbidden:
		code, message = ErrCodeForbidden, "Forbidden - You do not have permission for this action"
	case http.StatusNotFound:
		code, message = ErrCodeNotFound, "Not Found - The requested resource was not found"
	case http.StatusConflict:
		code, message = ErrCodeConflict, "Conflict - The resource already exists"
	case http.StatusInternalServerError:
		code, message = ErrCodeInternalError, "Internal Server Error - Please try again later"
	default:
		code = ErrCodeRemoteError
		message = http.StatusText(status)
		if message == "" {
			message = "Unknown error"
		}
	}
	return &APIError{Code: code, Message: message, Status: status}
}

// NetworkError reports a request that never got a response.
func NetworkError(err error) *APIError {
	return &APIError{
		Code:    ErrCodeNetworkError,
		Message: "Network Error - Please check your connection",
		Details: err.Error(),
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// Respond writes an APIError using its own status, defaulting to 502 for
// remote failures without one.
func Respond(c *gin.Context, err *APIError) {
	status := err.Status
	if status == 0 {
		status = http.StatusBadGateway
	}
	RespondWithError(c, status, err)
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// BadRequestWithDetails sends a 400 response with details, used for
// per-field validation errors.
func BadRequestWithDetails(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, NewAPIErrorWithDetails(ErrCodeInvalidInput, message, details))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}
