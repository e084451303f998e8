package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Employee   EmployeeRepository
	Visitor    VisitorRepository
	OrgSetting OrgSettingRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Employee:   NewEmployeeRepo(db),
		Visitor:    NewVisitorRepo(db),
		OrgSetting: NewOrgSettingRepo(db),
	}
}
