package dto

// ── 员工目录 DTO ──

// EmployeeListRequest 员工目录查询参数
type EmployeeListRequest struct {
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// CreateEmployeeRequest 新建员工（admin）
type CreateEmployeeRequest struct {
	Name            string `json:"name"              binding:"required,min=2,max=100"`
	Email           string `json:"email"             binding:"required,email"`
	PhoneNumber     string `json:"phone_number"      binding:"omitempty,max=20"`
	ProfileImageURL string `json:"profile_image_url" binding:"omitempty,max=500"`
	Password        string `json:"password"          binding:"required,min=8,max=20"`
	Role            string `json:"role"              binding:"omitempty,oneof=admin security employee"`
}

// UpdateEmployeeRequest 更新员工信息
type UpdateEmployeeRequest struct {
	Name            *string `json:"name"              binding:"omitempty,min=2,max=100"`
	PhoneNumber     *string `json:"phone_number"      binding:"omitempty,max=20"`
	ProfileImageURL *string `json:"profile_image_url" binding:"omitempty,max=500"`
	Role            *string `json:"role"              binding:"omitempty,oneof=admin security employee"`
}
