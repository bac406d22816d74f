package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clauselens-backend/internal/shared/telemetry"
)

// Keys handlers may set on the gin context to enrich the request log line.
const (
	FileNameKey = "fileName"
	ProviderKey = "provider"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"file_name":   c.GetString(FileNameKey),
			"provider":    c.GetString(ProviderKey),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
