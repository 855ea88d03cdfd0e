// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/foodgram/internal/domain"
	"github.com/jsamuelsen/foodgram/internal/platform/logging"
)

// ErrorResponse is the standard error envelope for all error responses.
// It provides a consistent structure for API error handling.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"trace_id,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "NOT_FOUND", "VALIDATION_ERROR").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details provides additional context about the error.
	// For validation errors, this contains field-level error messages.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	// ErrorCodeNotFound indicates the requested resource was not found.
	ErrorCodeNotFound = "NOT_FOUND"

	// ErrorCodeConflict indicates the input collides with stored state,
	// such as a taken email. It is reported as a bad request.
	ErrorCodeConflict = "CONFLICT"

	// ErrorCodeValidation indicates request validation failed.
	ErrorCodeValidation = "VALIDATION_ERROR"

	// ErrorCodeForbidden indicates the operation is not permitted.
	ErrorCodeForbidden = "FORBIDDEN"

	// ErrorCodeUnauthorized indicates authentication is required.
	ErrorCodeUnauthorized = "UNAUTHORIZED"

	// ErrorCodeUnavailable indicates a dependency is unavailable.
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"

	// ErrorCodeInternal indicates an internal server error.
	ErrorCodeInternal = "INTERNAL_ERROR"

	// ErrorCodeTimeout indicates the request timed out.
	ErrorCodeTimeout = "TIMEOUT"

	// ErrorCodeBadRequest indicates the request was malformed.
	ErrorCodeBadRequest = "BAD_REQUEST"

	// ErrorCodeRateLimited indicates the client sent too many requests.
	ErrorCodeRateLimited = "RATE_LIMITED"
)

// contextKeyTraceID is the gin context key checked first by GetTraceID.
const contextKeyTraceID = "trace_id"

// Fallback sources for GetTraceID when no span is recording.
const (
	contextKeyRequestID = "request_id"
	headerRequestID     = "X-Request-ID"
)

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeValidation, ErrorCodeBadRequest, ErrorCodeConflict:
		return http.StatusBadRequest
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrorCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// MapDomainError maps a domain error to an HTTP status code and error response.
// Unknown errors are mapped to 500 Internal Server Error with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	var code, message string

	switch {
	case domain.IsValidation(err):
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			resp := NewErrorResponse(ErrorCodeValidation, verr.Message)
			if verr.Field != "" {
				resp.Error.Details = map[string]string{verr.Field: verr.Message}
			}

			return http.StatusBadRequest, resp
		}

		code, message = ErrorCodeValidation, err.Error()

	case domain.IsNotFound(err):
		code, message = ErrorCodeNotFound, rootMessage[*domain.NotFoundError](err)

	case domain.IsConflict(err):
		code, message = ErrorCodeConflict, rootMessage[*domain.ConflictError](err)

	case domain.IsUnauthenticated(err):
		code, message = ErrorCodeUnauthorized, rootMessage[*domain.UnauthenticatedError](err)

	case domain.IsForbidden(err):
		code, message = ErrorCodeForbidden, rootMessage[*domain.ForbiddenError](err)

	case domain.IsUnavailable(err):
		code, message = ErrorCodeUnavailable, rootMessage[*domain.UnavailableError](err)

	case errors.Is(err, context.DeadlineExceeded):
		code, message = ErrorCodeTimeout, "request timeout exceeded"

	default:
		// Unknown errors get a generic message to avoid leaking internals
		code, message = ErrorCodeInternal, "an internal error occurred"
	}

	return HTTPStatusFromCode(code), NewErrorResponse(code, message)
}

// rootMessage returns the text of the typed domain error inside err,
// dropping the wrapping context added on the way up.
func rootMessage[E error](err error) string {
	var target E
	if errors.As(err, &target) {
		return target.Error()
	}

	return err.Error()
}

// GetTraceID returns the trace identifier for the current request. It tries
// an explicit gin value, then the active span, then the request id.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(contextKeyTraceID); ok {
		if id, ok := v.(string); ok {
			return id
		}

		return ""
	}

	if c.Request == nil {
		return ""
	}

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	if id := c.GetString(contextKeyRequestID); id != "" {
		return id
	}

	return c.Request.Header.Get(headerRequestID)
}

// HandleError writes the error response for err. Internal errors are
// logged with full detail.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "internal error",
			slog.Any("error", err),
			slog.String("trace_id", resp.TraceID),
		)
	}

	c.JSON(status, resp)
}

// AbortWithError aborts the request chain and writes an error response.
// Use this in middleware when you want to stop further processing.
func AbortWithError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.TraceID = GetTraceID(c)

	c.AbortWithStatusJSON(status, resp)
}

// AbortWithErrorCode aborts the request chain with a specific error code.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	resp := NewErrorResponse(code, message).WithTraceID(GetTraceID(c))
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), resp)
}

// RespondWithValidationErrors writes a 400 response with field-level validation errors.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	resp := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", fieldErrors)
	resp.TraceID = GetTraceID(c)

	c.JSON(http.StatusBadRequest, resp)
}

// RespondWithBindError reports a body or query that could not be decoded
// or failed struct validation.
func RespondWithBindError(c *gin.Context, err error) {
	if details := ValidationErrors(err); len(details) > 0 {
		RespondWithValidationErrors(c, details)
		return
	}

	if domain.IsValidation(err) {
		HandleError(c, err)
		return
	}

	resp := NewErrorResponse(ErrorCodeBadRequest, "malformed request body").WithTraceID(GetTraceID(c))
	c.JSON(http.StatusBadRequest, resp)
}
