package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vms/backend/internal/dto"
	"vms/backend/internal/flow"
	"vms/backend/internal/service"
	"vms/backend/pkg/response"
)

// IntakeHandler 访客登记向导 HTTP 处理器
// 照片上传接口复用 ImageService 落盘，再把 URL 回写到草稿条目
type IntakeHandler struct {
	intakeSvc service.IntakeService
	imageSvc  service.ImageService
}

// NewIntakeHandler 创建 IntakeHandler
func NewIntakeHandler(intakeSvc service.IntakeService, imageSvc service.ImageService) *IntakeHandler {
	return &IntakeHandler{intakeSvc: intakeSvc, imageSvc: imageSvc}
}

// Start 开启 / 恢复 / 重置登记流程
// POST /api/v1/visitors/intake/start
func (h *IntakeHandler) Start(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.StartIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	state, err := h.intakeSvc.Start(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrEditSourceGone) {
			response.NotFound(c, 12009, "编辑来源记录不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, state)
}

// State 查询向导状态快照
// GET /api/v1/visitors/intake/:flow_id
func (h *IntakeHandler) State(c *gin.Context) {
	state, err := h.intakeSvc.State(c.Request.Context(), c.Param("flow_id"))
	if err != nil {
		h.writeIntakeError(c, err)
		return
	}
	response.OK(c, state)
}

// SetField 字段直写
// PUT /api/v1/visitors/intake/:flow_id/field
func (h *IntakeHandler) SetField(c *gin.Context) {
	var req dto.SetFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.intakeSvc.SetField(c.Request.Context(), c.Param("flow_id"), &req)
	if err != nil {
		h.writeIntakeError(c, err)
		return
	}
	response.OK(c, resp)
}

// Advance 前进一步
// POST /api/v1/visitors/intake/:flow_id/advance
func (h *IntakeHandler) Advance(c *gin.Context) {
	resp, err := h.intakeSvc.Advance(c.Request.Context(), c.Param("flow_id"))
	if err != nil {
		if errors.Is(err, flow.ErrApprovalCheck) {
			response.Error(c, http.StatusServiceUnavailable, 12007, "审批策略查询失败，请稍后重试")
			return
		}
		h.writeIntakeError(c, err)
		return
	}
	response.OK(c, resp)
}

// Retreat 后退一步
// POST /api/v1/visitors/intake/:flow_id/retreat
func (h *IntakeHandler) Retreat(c *gin.Context) {
	state, err := h.intakeSvc.Retreat(c.Request.Context(), c.Param("flow_id"))
	if err != nil {
		h.writeIntakeError(c, err)
		return
	}
	response.OK(c, state)
}

// SearchDirectory 搜索员工目录（流程期缓存）
// GET /api/v1/visitors/intake/:flow_id/directory
func (h *IntakeHandler) SearchDirectory(c *gin.Context) {
	var req dto.DirectorySearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	entries, err := h.intakeSvc.SearchDirectory(c.Request.Context(), c.Param("flow_id"), req.Term)
	if err != nil {
		h.writeIntakeError(c, err)
		return
	}
	response.OK(c, entries)
}

// SelectHost 选中 / 取消目录接待人
// POST /api/v1/visitors/intake/:flow_id/host/select
func (h *IntakeHandler) SelectHost(c *gin.Context) {
	var req dto.SelectHostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	state, err := h.intakeSvc.SelectHost(c.Request.Context(), c.Param("flow_id"), req.UserID)
	if err != nil {
		h.writeIntakeError(c, err)
		return
	}
	response.OK(c, state)
}

// ManualHost 手动录入接待人
// POST /api/v1/visitors/intake/:flow_id/host/manual
func (h *IntakeHandler) ManualHost(c *gin.Context) {
	var req dto.ManualHostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	state, err := h.intakeSvc.ManualHost(c.Request.Context(), c.Param("flow_id"), req.Name)
	if err != nil {
		h.writeIntakeError(c, err)
		return
	}
	response.OK(c, state)
}

// ResetHost 回落默认提交人
// DELETE /api/v1/visitors/intake/:flow_id/host
func (h *IntakeHandler) ResetHost(c *gin.Context) {
	state, err := h.intakeSvc.ResetHost(c.Request.Context(), c.Param("flow_id"))
	if err != nil {
		h.writeIntakeError(c, err)
		return
	}
	response.OK(c, state)
}

// AppendAsset 追加携带物品
// POST /api/v1/visitors/intake/:flow_id/assets
func (h *IntakeHandler) AppendAsset(c *gin.Context) {
	var req dto.AppendAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	state, err := h.intakeSvc.AppendAsset(c.Request.Context(), c.Param("flow_id"), &req)
	if err != nil {
		h.writeIntakeError(c, err)
		return
	}
	response.OK(c, state)
}

// RemoveAsset 按下标删除携带物品
// DELETE /api/v1/visitors/intake/:flow_id/assets
func (h *IntakeHandler) RemoveAsset(c *gin.Context) {
	var req dto.RemoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	state, err := h.intakeSvc.RemoveAsset(c.Request.Context(), c.Param("flow_id"), req.Index)
	if err != nil {
		h.writeIntakeError(c, err)
		return
	}
	response.OK(c, state)
}

// AppendGuest 追加随行人员
// POST /api/v1/visitors/intake/:flow_id/guests
func (h *IntakeHandler) AppendGuest(c *gin.Context) {
	var req dto.AppendGuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	state, err := h.intakeSvc.AppendGuest(c.Request.Context(), c.Param("flow_id"), &req)
	if err != nil {
		h.writeIntakeError(c, err)
		return
	}
	response.OK(c, state)
}

// RemoveGuest 按下标删除随行人员
// DELETE /api/v1/visitors/intake/:flow_id/guests
func (h *IntakeHandler) RemoveGuest(c *gin.Context) {
	var req dto.RemoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	state, err := h.intakeSvc.RemoveGuest(c.Request.Context(), c.Param("flow_id"), req.Index)
	if err != nil {
		h.writeIntakeError(c, err)
		return
	}
	response.OK(c, state)
}

// UploadAssetImage 物品照片上传并回写
// POST /api/v1/visitors/intake/:flow_id/assets/image (multipart: temp_id, file)
func (h *IntakeHandler) UploadAssetImage(c *gin.Context) {
	h.uploadItemImage(c, h.intakeSvc.BeginAssetUpload, h.intakeSvc.AttachAssetImage)
}

// UploadGuestImage 随行人员照片上传并回写
// POST /api/v1/visitors/intake/:flow_id/guests/image (multipart: temp_id, file)
func (h *IntakeHandler) UploadGuestImage(c *gin.Context) {
	h.uploadItemImage(c, h.intakeSvc.BeginGuestUpload, h.intakeSvc.AttachGuestImage)
}

// ConsumeHandoff 消费交接快照（恰好一次）
// POST /api/v1/visitors/intake/:flow_id/handoff
func (h *IntakeHandler) ConsumeHandoff(c *gin.Context) {
	resp, err := h.intakeSvc.ConsumeHandoff(c.Request.Context(), c.Param("flow_id"))
	if err != nil {
		if errors.Is(err, flow.ErrHandoffEmpty) {
			response.Error(c, http.StatusGone, 12008, "交接快照不存在或已被消费")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, resp)
}

// ── 内部辅助 ──

// uploadItemImage 三段式上传：标记在途 → 落盘 → 回写 URL
// 落盘失败时仍回写空 URL 以解除在途标记
func (h *IntakeHandler) uploadItemImage(
	c *gin.Context,
	begin func(ctx context.Context, flowID, tempID string) error,
	attach func(ctx context.Context, flowID string, req *dto.AttachItemImageRequest) (*dto.IntakeStateResponse, error),
) {
	flowID := c.Param("flow_id")
	tempID := c.PostForm("temp_id")
	if tempID == "" {
		response.BadRequest(c, 10001, "缺少 temp_id")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return
	}

	ctx := c.Request.Context()
	if err := begin(ctx, flowID, tempID); err != nil {
		h.writeIntakeError(c, err)
		return
	}

	uploaded, err := h.imageSvc.Upload(fh)
	if err != nil {
		// 解除在途标记后再报错
		attach(ctx, flowID, &dto.AttachItemImageRequest{TempID: tempID})
		writeImageError(c, err)
		return
	}

	state, err := attach(ctx, flowID, &dto.AttachItemImageRequest{TempID: tempID, ImgURL: uploaded.FilePath})
	if err != nil {
		h.writeIntakeError(c, err)
		return
	}
	response.OK(c, state)
}

// writeIntakeError 向导模块业务错误 → 统一响应
func (h *IntakeHandler) writeIntakeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFlowNotFound):
		response.NotFound(c, 12001, "登记流程不存在或已过期")
	case errors.Is(err, service.ErrItemNotFound):
		response.NotFound(c, 12002, "条目不存在")
	case errors.Is(err, service.ErrItemUploading):
		response.Conflict(c, 12003, "条目照片正在上传中")
	case errors.Is(err, service.ErrHostNotFound):
		response.NotFound(c, 12004, "接待人不在员工目录中")
	case errors.Is(err, service.ErrManualHostName):
		response.BadRequest(c, 12005, "接待人姓名不能为空")
	case errors.Is(err, flow.ErrIndexOutOfRange):
		response.BadRequest(c, 12006, "下标越界")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/intake_handler.go
