package dto

// ── 组织设置 DTO ──

// OrgSettingResponse 组织设置响应
// IsApprovalReq 即登记向导最后一步查询的审批策略
type OrgSettingResponse struct {
	OrgName       string `json:"org_name"`
	IsApprovalReq bool   `json:"is_approval_req"`
	UpdatedAt     string `json:"updated_at"`
}

// UpdateOrgSettingRequest 更新组织设置请求（admin）
type UpdateOrgSettingRequest struct {
	OrgName         *string `json:"org_name"         binding:"omitempty,max=200"`
	RequireApproval *bool   `json:"require_approval"`
}

// ── 图片存储 DTO ──

// UploadImageResponse 图片上传响应
type UploadImageResponse struct {
	FilePath string `json:"file_path"`
}

// FetchImageResponse 图片读取响应
// 404 视为"无图片"的正常结果，Data 为空
type FetchImageResponse struct {
	Data        string `json:"data,omitempty"` // base64
	ContentType string `json:"content_type,omitempty"`
}
