package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vms/backend/pkg/response"
)

// BodyLimit 请求体大小限制中间件
// 上限需覆盖 multipart 照片上传，由路由层统一传入；
// 超限由 MaxBytesReader 在读取时截断，这里负责把错误翻译成统一响应
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		for _, ginErr := range c.Errors {
			if ginErr.Err != nil && ginErr.Err.Error() == "http: request body too large" {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}
