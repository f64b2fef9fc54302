package ui

import (
	"context"
	stderrors "errors"
	"net/http"

	"arbodash/internal/errors"

	"github.com/gin-gonic/gin"
)

// statusFor maps an error code to the HTTP status returned to clients.
// An empty result is not a failure: the view shows a warning instead.
// Errors carrying no code are internal, except abandoned requests.
func statusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if !errors.IsAppError(err) {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return http.StatusServiceUnavailable
		}
		return http.StatusInternalServerError
	}
	switch errors.GetCode(err) {
	case errors.CodeEmptyResult:
		return http.StatusOK
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeInvalidInput, errors.CodeUnsupportedInput:
		return http.StatusBadRequest
	case errors.CodeUnauthorized:
		return http.StatusUnauthorized
	case errors.CodeInsufficientData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. EMPTY_RESULT becomes a warning body.
func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)

	if code == errors.CodeEmptyResult {
		c.JSON(status, gin.H{"warning": err.Error(), "code": code, "rows": 0})
		return
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "internal error", "code": code})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
