package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	return &ErrorHandler{
		logger:       logger.With(slog.String("component", "error_handler")),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("remote_addr", r.RemoteAddr),
	)

	problem := h.ErrorToProblem(err, r)
	problem.WithExtension("trace_id", reqID)

	if h.includeStack {
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, r)
	}

	// Pipeline errors can surface through the API when the web process is
	// asked about a dataset whose batch run failed or never happened.
	var notFound *FileNotFoundError
	if errors.As(err, &notFound) {
		return NewProblemDetails(
			http.StatusNotFound,
			TypeInputMissing,
			"Input File Missing",
			notFound.Error(),
			r.URL.Path,
		)
	}

	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeSchemaMismatch,
			"Schema Mismatch",
			schemaErr.Error(),
			r.URL.Path,
		).WithExtension("column", schemaErr.Column)
	}

	var keyErr *KeyMismatchError
	if errors.As(err, &keyErr) {
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeKeyMismatch,
			"Join Key Mismatch",
			keyErr.Error(),
			r.URL.Path,
		)
	}

	var catErr *UnknownCategoryError
	if errors.As(err, &catErr) {
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeUnknownCategory,
			"Unknown Category",
			catErr.Error(),
			r.URL.Path,
		).WithExtension("column", catErr.Column)
	}

	// Fall back to a generic internal error without leaking details
	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	)
}

// apiErrorToProblem maps the structured APIError onto problem details
func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.StatusCode {
	case http.StatusBadRequest:
		problemType = TypeValidation
	case http.StatusNotFound:
		problemType = TypeNotFound
		if apiErr.ErrorCode == "DATA_NOT_FOUND" {
			problemType = TypeDataNotFound
		}
	case http.StatusTooManyRequests:
		problemType = TypeRateLimit
	case http.StatusServiceUnavailable:
		problemType = TypeServiceDown
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		titleForStatus(apiErr.StatusCode),
		apiErr.Message,
		r.URL.Path,
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}

	return problem
}

// titleForStatus returns a human readable title for an HTTP status
func titleForStatus(status int) string {
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

// getStackTrace returns a trimmed stack trace for development responses
func getStackTrace() []string {
	stack := string(debug.Stack())
	lines := strings.Split(stack, "\n")
	// Skip the first lines that point at the error handler itself
	if len(lines) > 7 {
		lines = lines[7:]
	}
	if len(lines) > 20 {
		lines = lines[:20]
	}
	return lines
}
