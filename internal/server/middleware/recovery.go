package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"llmbridge/internal/model"
)

// Recovery 异常恢复中间件
// panic 不允许穿透 HTTP 边界，统一转成固定 envelope
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("path", c.Request.URL.Path).
					Str("method", c.Request.Method).
					Msg("panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					model.Fail("Internal Server Error"))
			}
		}()
		c.Next()
	}
}
