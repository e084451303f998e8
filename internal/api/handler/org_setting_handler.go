package handler

import (
	"github.com/gin-gonic/gin"

	"vms/backend/internal/dto"
	"vms/backend/internal/service"
	"vms/backend/pkg/response"
)

// OrgSettingHandler 组织设置 HTTP 处理器
type OrgSettingHandler struct {
	orgSettingSvc service.OrgSettingService
}

// NewOrgSettingHandler 创建 OrgSettingHandler
func NewOrgSettingHandler(orgSettingSvc service.OrgSettingService) *OrgSettingHandler {
	return &OrgSettingHandler{orgSettingSvc: orgSettingSvc}
}

// Get 查询组织设置
// GET /api/v1/org/settings
func (h *OrgSettingHandler) Get(c *gin.Context) {
	result, err := h.orgSettingSvc.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Update 更新组织设置（admin）
// PUT /api/v1/org/settings
func (h *OrgSettingHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateOrgSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.orgSettingSvc.Update(c.Request.Context(), &req, userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}
