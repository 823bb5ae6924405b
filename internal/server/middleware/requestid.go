package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerRequestID = "X-Request-ID"

	// ContextKeyRequestID gin context 中的 request id 键
	ContextKeyRequestID = "request_id"
)

// RequestID 请求标识中间件
// 调用方没带 X-Request-ID 时生成一个，响应头原样回写
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(headerRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header(headerRequestID, reqID)
		c.Next()
	}
}
