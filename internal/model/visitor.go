package model

import "time"

// ── 访客生命周期状态 ──

const (
	VisitorStatusPending    = "PENDING"
	VisitorStatusApproved   = "APPROVED"
	VisitorStatusRejected   = "REJECTED"
	VisitorStatusCheckedIn  = "CHECKED_IN"
	VisitorStatusCheckedOut = "CHECKED_OUT"
)

// Visitor 访客记录表 — 对应 visitors
// 登记向导交接的草稿经预览确认后落库为一条 Visitor
type Visitor struct {
	VisitorID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"visitor_id"`
	FullName       string `gorm:"type:varchar(100);not null"                     json:"full_name"`
	PhoneNumber    string `gorm:"type:varchar(10);not null"                      json:"phone_number"`
	Gender         string `gorm:"type:varchar(20);not null;default:''"           json:"gender"`
	IDType         string `gorm:"column:id_type;type:varchar(20);not null;default:''"   json:"id_type"` // Aadhaar | PAN
	IDNumber       string `gorm:"column:id_number;type:varchar(20);not null;default:''" json:"id_number"`
	VisitDate      time.Time `gorm:"type:date;not null"                          json:"visit_date"`
	VisitTime      string `gorm:"type:varchar(5);not null"                       json:"visit_time"` // HH:MM
	ComingFrom     string `gorm:"type:varchar(20);not null;default:''"           json:"coming_from"` // company | location
	CompanyName    string `gorm:"type:varchar(200);not null;default:''"          json:"company_name"`
	Location       string `gorm:"type:varchar(200);not null;default:''"          json:"location"`
	PurposeOfVisit string `gorm:"type:varchar(500);not null"                     json:"purpose_of_visit"`
	ImgURL         string `gorm:"type:varchar(500);not null;default:''"          json:"img_url"`
	Status         string `gorm:"type:varchar(20);not null;default:'PENDING'"    json:"status"`
	IsApprovalReq  *bool  `gorm:"column:is_approval_req"                         json:"is_approval_req,omitempty"`

	// 接待人绑定（向导第二步解析出的最终结果，落库时展开为列）
	HostUserID   *string `gorm:"type:uuid"                             json:"host_user_id,omitempty"`
	HostName     string  `gorm:"type:varchar(100);not null;default:''" json:"host_name"`
	HostEmail    string  `gorm:"type:varchar(255);not null;default:''" json:"host_email"`
	HostPhone    string  `gorm:"type:varchar(20);not null;default:''"  json:"host_phone"`
	HostImageURL string  `gorm:"type:varchar(500);not null;default:''" json:"host_image_url"`

	SubmittedBy *string `gorm:"type:uuid" json:"submitted_by,omitempty"`
	SoftDeleteModel

	// 关联
	Assets []VisitorAsset `gorm:"foreignKey:VisitorID;references:VisitorID" json:"assets,omitempty"`
	Guests []VisitorGuest `gorm:"foreignKey:VisitorID;references:VisitorID" json:"guests,omitempty"`
}

// TableName 指定表名
func (Visitor) TableName() string { return "visitors" }

// ── 携带物品类型 ──

const (
	AssetTypePersonal = "Personal"
	AssetTypeCompany  = "Company"
)

// VisitorAsset 访客携带物品表 — 对应 visitor_assets
// Position 保留登记时的列表顺序
type VisitorAsset struct {
	AssetID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"asset_id"`
	VisitorID    string    `gorm:"type:uuid;not null"                             json:"visitor_id"`
	AssetName    string    `gorm:"type:varchar(200);not null"                     json:"asset_name"`
	SerialNumber string    `gorm:"type:varchar(100);not null;default:''"          json:"serial_number"`
	AssetType    string    `gorm:"type:varchar(20);not null;default:'Personal'"   json:"asset_type"` // Personal | Company
	ImgURL       string    `gorm:"type:varchar(500);not null;default:''"          json:"img_url"`
	Position     int       `gorm:"not null;default:0"                             json:"position"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (VisitorAsset) TableName() string { return "visitor_assets" }

// VisitorGuest 随行人员表 — 对应 visitor_guests
type VisitorGuest struct {
	GuestID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"guest_id"`
	VisitorID string    `gorm:"type:uuid;not null"                             json:"visitor_id"`
	GuestName string    `gorm:"type:varchar(100);not null"                     json:"guest_name"`
	ImgURL    string    `gorm:"type:varchar(500);not null;default:''"          json:"img_url"`
	Position  int       `gorm:"not null;default:0"                             json:"position"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (VisitorGuest) TableName() string { return "visitor_guests" }

// [自证通过] internal/model/visitor.go
