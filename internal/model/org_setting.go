package model

// OrgSetting 组织设置表 — 对应 org_settings（单行）
// RequireApproval 是登记向导最后一步查询的审批策略开关
type OrgSetting struct {
	SettingID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"setting_id"`
	OrgName         string `gorm:"type:varchar(200);not null;default:''"          json:"org_name"`
	RequireApproval bool   `gorm:"not null;default:false"                         json:"require_approval"`
	BaseModel
}

// TableName 指定表名
func (OrgSetting) TableName() string { return "org_settings" }
