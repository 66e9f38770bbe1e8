// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response helpers shared by all endpoints: the error
// envelope, the mapping from service failures to statuses, and the success
// writer.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "label": "failed to fetch haiku record with id 7",
//	  "message": "haiku 7 not found"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-haiku-backend/internal/http/middleware"
	"github.com/tbourn/go-haiku-backend/internal/services"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"internal_error"`
	// Short description of the failed step
	Label string `json:"label,omitempty" example:"failed to generate new haiku"`
	// Detail message
	Message string `json:"message" example:"provider returned status 503"`
}

// fail aborts the request with a structured error. Server errors (>=500) are
// logged with the request-scoped logger.
func fail(c *gin.Context, status int, code, label, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Label:     label,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("label", label).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported, label-less variant of fail for router fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, "", msg) }

// failFrom maps a service error to a response. Not-found failures become
// 404; every other failure (and any unexpected error) is a 500 carrying the
// failure's label and message.
func failFrom(c *gin.Context, err error) {
	f, isFailure := services.AsFailure(err)
	switch {
	case isFailure && f.Kind == services.KindNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, f.Label, f.Message)
	case isFailure:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, f.Label, f.Message)
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal error", err.Error())
	}
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
