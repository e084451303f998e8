package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// 外部传入的 X-Request-ID 超长视为非法，换为自生成值，防止日志注入
const requestIDMaxLen = 64

// RequestID 请求追踪 ID 中间件
// 透传调用方的 X-Request-ID，缺失或非法时生成 UUID；
// 注入 gin.Context 供访问日志关联，并原样回写响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(requestIDKey, rid)
		c.Header("X-Request-ID", rid)

		c.Next()
	}
}
