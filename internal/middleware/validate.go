package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Dashrath-Patel/CareerVision.AI/pkg/errors"
	"github.com/Dashrath-Patel/CareerVision.AI/pkg/utils"
)

// ValidatePathParams rejects requests whose named path parameters are not usable ids.
// Missing parameters are skipped so one middleware can sit on a whole group.
func ValidatePathParams(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range names {
			v, ok := c.Params.Get(name)
			if !ok {
				continue
			}
			if !utils.ValidIdentifier(v) {
				_ = c.Error(errors.FieldError(name, "must be a non-empty identifier"))
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
