package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/portfolio/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeInvalidCommand        = "INVALID_COMMAND"
	CodeInvalidTickCount      = "INVALID_TICK_COUNT"
	CodeInvalidUsername       = "INVALID_USERNAME"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeSessionNotFound       = "SESSION_NOT_FOUND"
	CodeProfileNotFound       = "PROFILE_NOT_FOUND"
	CodeUpstreamNotConfigured = "UPSTREAM_NOT_CONFIGURED"
	CodeUpstreamError         = "UPSTREAM_ERROR"
	CodeUpstreamBadRequest    = "UPSTREAM_BAD_REQUEST"
	CodeNotFound              = "NOT_FOUND"
	CodeInternalError         = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Upstream failures keep the upstream status where it is an error status
	var ue *model.UpstreamError
	if errors.As(err, &ue) {
		status := ue.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		code := CodeUpstreamError
		if errors.Is(ue, model.ErrUpstreamBadRequest) {
			code = CodeUpstreamBadRequest
		}
		return &httpError{status, APIError{code, ue.Message}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrInvalidSessionToken):
		return &httpError{http.StatusForbidden, APIError{CodeForbidden, "Not the owner of this session"}}
	case errors.Is(err, model.ErrInvalidCommand):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCommand, "Unknown command"}}
	case errors.Is(err, model.ErrInvalidTickCount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTickCount, "Tick count out of range"}}
	case errors.Is(err, model.ErrInvalidUsername):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidUsername, "Username is required"}}
	case errors.Is(err, model.ErrProfileNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeProfileNotFound, "No profile data found"}}
	case errors.Is(err, model.ErrUpstreamNotConfigured):
		return &httpError{http.StatusInternalServerError, APIError{CodeUpstreamNotConfigured, "Server configuration error: upstream token missing"}}
	case errors.Is(err, model.ErrUpstreamBadRequest):
		return &httpError{http.StatusBadRequest, APIError{CodeUpstreamBadRequest, "Upstream rejected the query"}}
	case errors.Is(err, model.ErrUpstreamUnavailable), errors.Is(err, model.ErrUpstreamInvalidPayload):
		return &httpError{http.StatusBadGateway, APIError{CodeUpstreamError, "Upstream request failed"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Session token required"}}
}

// NewNotFoundError creates a not found error for unknown routes
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Not found"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
