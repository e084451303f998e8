package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vms/backend/internal/dto"
	"vms/backend/internal/service"
	"vms/backend/pkg/response"
)

// VisitorHandler 访客记录 HTTP 处理器
type VisitorHandler struct {
	visitorSvc service.VisitorService
}

// NewVisitorHandler 创建 VisitorHandler
func NewVisitorHandler(visitorSvc service.VisitorService) *VisitorHandler {
	return &VisitorHandler{visitorSvc: visitorSvc}
}

// Create 从预览页确认的交接草稿创建访客记录
// POST /api/v1/visitors
func (h *VisitorHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateVisitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.visitorSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// List 访客列表（分页 + 过滤）
// GET /api/v1/visitors
func (h *VisitorHandler) List(c *gin.Context) {
	var req dto.VisitorListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.visitorSvc.List(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrBadDateRange) {
			response.BadRequest(c, 13002, "日期区间不合法")
			return
		}
		response.InternalError(c)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 查询单条访客记录
// GET /api/v1/visitors/:id
func (h *VisitorHandler) Get(c *gin.Context) {
	result, err := h.visitorSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrVisitorNotFound) {
			response.NotFound(c, 13001, "访客记录不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Update 更新访客记录（编辑模式重新提交）
// PUT /api/v1/visitors/:id
func (h *VisitorHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateVisitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.visitorSvc.Update(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		if errors.Is(err, service.ErrVisitorNotFound) {
			response.NotFound(c, 13001, "访客记录不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// UpdateStatus 状态流转（审批 / 签入 / 签出）
// PATCH /api/v1/visitors/:id/status
func (h *VisitorHandler) UpdateStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateVisitorStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.visitorSvc.UpdateStatus(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVisitorNotFound):
			response.NotFound(c, 13001, "访客记录不存在")
		case errors.Is(err, service.ErrBadStatusSwitch):
			response.Conflict(c, 13003, "状态流转不合法")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// Delete 删除访客记录（软删除）
// DELETE /api/v1/visitors/:id
func (h *VisitorHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.visitorSvc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		if errors.Is(err, service.ErrVisitorNotFound) {
			response.NotFound(c, 13001, "访客记录不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
