package repository

import (
	"context"

	"gorm.io/gorm"

	"vms/backend/internal/model"
)

// OrgSettingRepository 组织设置数据访问接口（单行表）
type OrgSettingRepository interface {
	Get(ctx context.Context) (*model.OrgSetting, error)
	Update(ctx context.Context, s *model.OrgSetting) error
}

type orgSettingRepo struct {
	db *gorm.DB
}

// NewOrgSettingRepo 创建 OrgSettingRepository 实例
func NewOrgSettingRepo(db *gorm.DB) OrgSettingRepository {
	return &orgSettingRepo{db: db}
}

// Get 读取组织设置；表在迁移时已预置唯一一行
func (r *orgSettingRepo) Get(ctx context.Context) (*model.OrgSetting, error) {
	var s model.OrgSetting
	if err := r.db.WithContext(ctx).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *orgSettingRepo) Update(ctx context.Context, s *model.OrgSetting) error {
	return r.db.WithContext(ctx).Save(s).Error
}
