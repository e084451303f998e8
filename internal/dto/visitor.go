package dto

// ── 访客记录 DTO ──

// VisitorListRequest 访客列表查询参数
type VisitorListRequest struct {
	PaginationRequest
	Status   string `form:"status"    binding:"omitempty,oneof=PENDING APPROVED REJECTED CHECKED_IN CHECKED_OUT"`
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to"   binding:"omitempty,datetime=2006-01-02"`
	Keyword  string `form:"keyword"   binding:"omitempty,max=50"`
}

// CreateVisitorRequest 从预览页提交的访客创建请求
// 字段形状即交接草稿的字段形状
type CreateVisitorRequest struct {
	FullName       string `json:"full_name"        binding:"required,max=100"`
	PhoneNumber    string `json:"phone_number"     binding:"required,len=10,numeric"`
	Gender         string `json:"gender"           binding:"omitempty,max=20"`
	IDType         string `json:"id_type"          binding:"omitempty,oneof=Aadhaar PAN"`
	IDNumber       string `json:"id_number"        binding:"omitempty,max=20"`
	Date           string `json:"date"             binding:"required,datetime=2006-01-02"`
	Time           string `json:"time"             binding:"required,datetime=15:04"`
	ComingFrom     string `json:"coming_from"      binding:"omitempty,oneof=company location"`
	CompanyName    string `json:"company_name"     binding:"omitempty,max=200"`
	Location       string `json:"location"         binding:"omitempty,max=200"`
	PurposeOfVisit string `json:"purpose_of_visit" binding:"required,max=500"`
	ImgURL         string `json:"img_url"          binding:"omitempty,max=500"`
	IsApprovalReq  *bool  `json:"is_approval_req"`

	Host   HostDTO    `json:"host"`
	Assets []AssetDTO `json:"assets"`
	Guests []GuestDTO `json:"guests"`
}

// UpdateVisitorRequest 更新访客记录（编辑模式重新提交）
type UpdateVisitorRequest struct {
	FullName       *string `json:"full_name"        binding:"omitempty,max=100"`
	PhoneNumber    *string `json:"phone_number"     binding:"omitempty,len=10,numeric"`
	Gender         *string `json:"gender"           binding:"omitempty,max=20"`
	IDType         *string `json:"id_type"          binding:"omitempty,oneof=Aadhaar PAN"`
	IDNumber       *string `json:"id_number"        binding:"omitempty,max=20"`
	Date           *string `json:"date"             binding:"omitempty,datetime=2006-01-02"`
	Time           *string `json:"time"             binding:"omitempty,datetime=15:04"`
	ComingFrom     *string `json:"coming_from"      binding:"omitempty,oneof=company location"`
	CompanyName    *string `json:"company_name"     binding:"omitempty,max=200"`
	Location       *string `json:"location"         binding:"omitempty,max=200"`
	PurposeOfVisit *string `json:"purpose_of_visit" binding:"omitempty,max=500"`
	ImgURL         *string `json:"img_url"          binding:"omitempty,max=500"`

	Host   *HostDTO    `json:"host"`
	Assets []AssetDTO  `json:"assets"`
	Guests []GuestDTO  `json:"guests"`
}

// UpdateVisitorStatusRequest 状态流转请求
type UpdateVisitorStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED CHECKED_IN CHECKED_OUT"`
}

// HostDTO 接待人绑定
type HostDTO struct {
	UserID          string `json:"user_id"           binding:"omitempty,uuid"`
	Name            string `json:"name"              binding:"omitempty,max=100"`
	Email           string `json:"email"             binding:"omitempty,max=255"`
	PhoneNumber     string `json:"phone_number"      binding:"omitempty,max=20"`
	ProfileImageURL string `json:"profile_image_url" binding:"omitempty,max=500"`
}

// AssetDTO 携带物品
type AssetDTO struct {
	AssetName    string `json:"asset_name"    binding:"required,max=200"`
	SerialNumber string `json:"serial_number" binding:"omitempty,max=100"`
	AssetType    string `json:"asset_type"    binding:"omitempty,oneof=Personal Company"`
	ImgURL       string `json:"img_url"       binding:"omitempty,max=500"`
}

// GuestDTO 随行人员
type GuestDTO struct {
	GuestName string `json:"guest_name" binding:"required,max=100"`
	ImgURL    string `json:"img_url"    binding:"omitempty,max=500"`
}

// VisitorResponse 访客记录响应
type VisitorResponse struct {
	ID             string     `json:"id"`
	FullName       string     `json:"full_name"`
	PhoneNumber    string     `json:"phone_number"`
	Gender         string     `json:"gender"`
	IDType         string     `json:"id_type"`
	IDNumber       string     `json:"id_number"`
	Date           string     `json:"date"`
	Time           string     `json:"time"`
	ComingFrom     string     `json:"coming_from"`
	CompanyName    string     `json:"company_name"`
	Location       string     `json:"location"`
	PurposeOfVisit string     `json:"purpose_of_visit"`
	ImgURL         string     `json:"img_url"`
	Status         string     `json:"status"`
	IsApprovalReq  *bool      `json:"is_approval_req,omitempty"`
	Host           HostDTO    `json:"host"`
	Assets         []AssetDTO `json:"assets"`
	Guests         []GuestDTO `json:"guests"`
	CreatedAt      string     `json:"created_at"`
}

// [自证通过] internal/dto/visitor.go
