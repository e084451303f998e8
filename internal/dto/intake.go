package dto

import "vms/backend/internal/flow"

// ── 登记向导 DTO ──

// StartIntakeRequest 开启（或恢复）一个登记流程
// EditID 非空时进入编辑模式；Reset 为 true 时清空二三级存储重新开始
type StartIntakeRequest struct {
	FlowID string `json:"flow_id" binding:"omitempty,max=64"`
	EditID string `json:"edit_id" binding:"omitempty,uuid"`
	Reset  bool   `json:"reset"`
}

// SetFieldRequest 字段直写请求（live 规范化）
type SetFieldRequest struct {
	Field string `json:"field" binding:"required,max=32"`
	Value string `json:"value" binding:"max=500"`
}

// SetFieldResponse 返回规范化后的值与当前错误标注
type SetFieldResponse struct {
	Field       string            `json:"field"`
	Value       string            `json:"value"` // live 规范化后的合法形态
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// SelectHostRequest 目录选择（开关语义）
type SelectHostRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// ManualHostRequest 手动录入接待人
type ManualHostRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// DirectorySearchRequest 目录搜索
type DirectorySearchRequest struct {
	Term string `form:"term" binding:"omitempty,max=100"`
}

// AppendAssetRequest 追加携带物品
type AppendAssetRequest struct {
	AssetName    string `json:"asset_name"    binding:"required,max=200"`
	SerialNumber string `json:"serial_number" binding:"omitempty,max=100"`
	AssetType    string `json:"asset_type"    binding:"omitempty,oneof=Personal Company"`
	ImgURL       string `json:"img_url"       binding:"omitempty,max=500"`
	PendingFile  string `json:"pending_file"  binding:"omitempty,max=500"`
}

// AppendGuestRequest 追加随行人员
type AppendGuestRequest struct {
	GuestName   string `json:"guest_name"   binding:"required,max=100"`
	ImgURL      string `json:"img_url"      binding:"omitempty,max=500"`
	PendingFile string `json:"pending_file" binding:"omitempty,max=500"`
}

// RemoveItemRequest 按下标删除子条目
type RemoveItemRequest struct {
	Index int `json:"index" binding:"min=0"`
}

// AttachItemImageRequest 将已上传图片回写到子条目
// ImgURL 为空表示上传失败，仅解除该条目的上传在途标记
type AttachItemImageRequest struct {
	TempID string `json:"temp_id" binding:"required"`
	ImgURL string `json:"img_url" binding:"omitempty,max=500"`
}

// IntakeStateResponse 向导状态快照（本地视图，一级存储）
type IntakeStateResponse struct {
	FlowID      string            `json:"flow_id"`
	StepIndex   int               `json:"step_index"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	Submitting  bool              `json:"submitting"`
	Draft       flow.Draft        `json:"draft"`
}

// AdvanceResponse 前进结果
type AdvanceResponse struct {
	Moved       bool              `json:"moved"`
	StepIndex   int               `json:"step_index"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// HandoffResponse 交接快照（预览页恰好读取一次）
type HandoffResponse struct {
	Draft flow.Draft `json:"draft"`
}

// [自证通过] internal/dto/intake.go
