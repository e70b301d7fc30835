package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/Dashrath-Patel/CareerVision.AI/pkg/errors"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/logger"
)

// ErrorHandlerMiddleware renders errors attached with c.Error and recovers panics.
// AppErrors keep their status and message; anything else becomes a bare 500.
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error().
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", stack).
					Msg("Panic recovered")

				c.AbortWithStatusJSON(errors.ErrInternalServer.Code, gin.H{
					"error": errors.ErrInternalServer.Message,
				})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if appErr, ok := errors.As(err); ok {
			body := gin.H{"error": appErr.Message}
			if len(appErr.Fields) > 0 {
				body["fields"] = appErr.Fields
			}
			if appErr.Code >= http.StatusInternalServerError {
				logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
			}
			c.JSON(appErr.Code, body)
			return
		}

		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled request error")
		c.JSON(errors.ErrInternalServer.Code, gin.H{
			"error": errors.ErrInternalServer.Message,
		})
	}
}
