package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vms/backend/internal/service"
	"vms/backend/pkg/response"
)

// ImageHandler 图片存储 HTTP 处理器
type ImageHandler struct {
	imageSvc service.ImageService
}

// NewImageHandler 创建 ImageHandler
func NewImageHandler(imageSvc service.ImageService) *ImageHandler {
	return &ImageHandler{imageSvc: imageSvc}
}

// Upload 上传图片（multipart: file）
// POST /api/v1/images
func (h *ImageHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return
	}

	result, err := h.imageSvc.Upload(fh)
	if err != nil {
		writeImageError(c, err)
		return
	}
	response.Created(c, result)
}

// Fetch 按路径读取图片（base64）
// GET /api/v1/images?path=xxx
func (h *ImageHandler) Fetch(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		response.BadRequest(c, 10001, "缺少 path 参数")
		return
	}

	result, err := h.imageSvc.Fetch(path)
	if err != nil {
		writeImageError(c, err)
		return
	}
	response.OK(c, result)
}

// writeImageError 图片模块业务错误 → 统一响应
// 登记向导的照片上传也复用这里的映射
func writeImageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		response.BadRequest(c, 15001, "文件超出大小限制")
	case errors.Is(err, service.ErrBadImageFormat):
		response.BadRequest(c, 15002, "不支持的图片格式")
	case errors.Is(err, service.ErrBadImagePath):
		response.BadRequest(c, 15003, "非法的图片路径")
	default:
		response.InternalError(c)
	}
}
