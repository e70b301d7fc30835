package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Dashrath-Patel/CareerVision.AI/pkg/logger"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/utils"
)

// LoggingMiddleware logs all incoming requests with timing
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		rawQuery := c.Request.URL.RawQuery

		// Process request
		c.Next()

		// Calculate latency
		latency := time.Since(start)
		status := c.Writer.Status()
		method := c.Request.Method
		clientIP := c.ClientIP()
		userAgent := utils.TruncateString(c.Request.UserAgent(), 256)

		// Token user if authenticated, else the path user
		userID := c.GetString("userId")
		if userID == "" {
			userID = utils.TruncateString(c.Param("user_id"), utils.MaxIdentifierLength)
		}

		// Build log event
		event := logger.Log.Info()
		if status >= 400 {
			event = logger.Log.Warn()
		}
		if status >= 500 {
			event = logger.Log.Error()
		}

		event.
			Str("method", method).
			Str("path", path).
			Str("query", rawQuery).
			Int("status", status).
			Dur("latency", latency).
			Str("ip", clientIP).
			Str("user_agent", userAgent).
			Str("user_id", userID).
			Str("request_id", c.GetString("request_id")).
			Str("trace_id", c.GetString("trace_id")).
			Int("body_size", c.Writer.Size()).
			Msg("request")
	}
}
