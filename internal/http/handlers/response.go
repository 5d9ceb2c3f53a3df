// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints. Every failed request, whatever its origin, is translated by
// respondError into the single uniform error envelope, so clients always see
// the same shape:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "requestId": "123e4567-e89b-12d3-a456-426614174000",
//	  "error": "Product not found"
//	}
//
// Validation failures additionally carry an ordered "details" list, and in
// development mode a "stack" field is included for diagnosis.
package handlers

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-product-api/internal/apperr"
	"github.com/tbourn/go-product-api/internal/http/middleware"
)

// ErrorResponse is the uniform error envelope returned by all endpoints.
//
// Fields:
//   - RequestID: correlation ID echoed from X-Request-ID, for matching
//     server logs with client-side errors.
//   - Error: human-readable message, safe for display to users.
//   - Details: ordered violation descriptions (validation failures only).
//   - Stack: diagnostic trace, present only in development mode.
type ErrorResponse struct {
	RequestID string   `json:"requestId,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	Error     string   `json:"error" example:"Product not found"`
	Details   []string `json:"details,omitempty"`
	Stack     string   `json:"stack,omitempty"`
}

// respondError is the terminal stage for failed requests. It derives the
// status, message, and details from the error's taxonomy (unclassified errors
// default to 500 "Internal Server Error"), logs server-side failures with the
// request-scoped logger, and writes exactly one JSON response.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := apperr.StatusOf(err)
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Error:     apperr.MessageOf(err),
		Details:   apperr.DetailsOf(err),
	}
	if h.dev {
		resp.Stack = string(debug.Stack())
	}

	// Log 5xx (server-side) with request-scoped logger
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Err(err).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail writes an error envelope for failures raised outside the handler flow
// (e.g. router fallbacks). External packages should call Fail rather than
// building bodies by hand so every error keeps the same shape.
func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Error:     msg,
	})
}

// ok writes a success JSON response with the given status code.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
