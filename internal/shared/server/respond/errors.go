package respond

import (
	"github.com/gin-gonic/gin"

	"clauselens-backend/internal/shared/telemetry"
)

// ErrorResponse is the error body returned to callers.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Error logs the failure and aborts the request with a JSON error body.
// cause is logged server-side only and never reaches the caller.
func Error(c *gin.Context, status int, code, message string, cause error) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if cause != nil {
		fields["err"] = cause.Error()
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
