package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Dashrath-Patel/CareerVision.AI/pkg/errors"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/logger"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/utils"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireSameUser guards write endpoints. With an empty secret it lets every request
// through. Otherwise the bearer token must be valid and its userId claim must equal
// the :user_id path parameter. Rejections are rendered by ErrorHandlerMiddleware.
func RequireSameUser(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			_ = c.Error(errors.Unauthorized("Authorization header required"))
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, secret)
		if err != nil {
			_ = c.Error(errors.Unauthorized("Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("userId", claims.UserID)

		if claims.UserID != c.Param("user_id") {
			logger.Warn().
				Str("token_user", claims.UserID).
				Str("path_user", c.Param("user_id")).
				Msg("Token user does not match path user")
			_ = c.Error(errors.Forbidden("Access denied"))
			c.Abort()
			return
		}

		c.Next()
	}
}
