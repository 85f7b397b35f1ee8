package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceIDKey 请求上下文中追踪ID的键名
const TraceIDKey = "traceID"

// TraceMiddleware 为每个请求分配追踪ID，上游携带 X-Trace-ID 时透传
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(TraceIDKey, traceID)
		c.Header("X-Trace-ID", traceID)

		c.Next()
	}
}

// TraceID 读取当前请求的追踪ID
func TraceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}
