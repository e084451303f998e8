package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"vms/backend/internal/model"
)

// VisitorListFilter 访客列表查询条件
type VisitorListFilter struct {
	Status    string
	Keyword   string
	DateFrom  *time.Time
	DateTo    *time.Time
	HostID    string
	Page      int
	PageSize  int
}

// VisitorRepository 访客记录数据访问接口
type VisitorRepository interface {
	Create(ctx context.Context, v *model.Visitor) error
	GetByID(ctx context.Context, id string) (*model.Visitor, error)
	Update(ctx context.Context, v *model.Visitor) error
	UpdateStatus(ctx context.Context, id string, status string, updatedBy string) error
	Delete(ctx context.Context, id string, deletedBy string) error
	List(ctx context.Context, f VisitorListFilter) ([]model.Visitor, int64, error)
	ReplaceAssets(ctx context.Context, visitorID string, assets []model.VisitorAsset) error
	ReplaceGuests(ctx context.Context, visitorID string, guests []model.VisitorGuest) error
}

type visitorRepo struct {
	db *gorm.DB
}

// NewVisitorRepo 创建 VisitorRepository 实例
func NewVisitorRepo(db *gorm.DB) VisitorRepository {
	return &visitorRepo{db: db}
}

// Create 连同物品与随行人员一并落库（GORM 关联写入在同一事务内完成）
func (r *visitorRepo) Create(ctx context.Context, v *model.Visitor) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *visitorRepo) GetByID(ctx context.Context, id string) (*model.Visitor, error) {
	var v model.Visitor
	err := r.db.WithContext(ctx).
		Preload("Assets", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Guests", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("visitor_id = ?", id).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *visitorRepo) Update(ctx context.Context, v *model.Visitor) error {
	return r.db.WithContext(ctx).
		Omit("Assets", "Guests").
		Save(v).Error
}

func (r *visitorRepo) UpdateStatus(ctx context.Context, id string, status string, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Visitor{}).
		Where("visitor_id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		}).Error
}

// Delete 软删除：先记录删除人再打软删标记
func (r *visitorRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Visitor{}).
			Where("visitor_id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Where("visitor_id = ?", id).Delete(&model.Visitor{}).Error
	})
}

func (r *visitorRepo) List(ctx context.Context, f VisitorListFilter) ([]model.Visitor, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Visitor{})

	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.Keyword != "" {
		kw := "%" + f.Keyword + "%"
		db = db.Where("full_name ILIKE ? OR phone_number LIKE ? OR host_name ILIKE ?", kw, kw, kw)
	}
	if f.DateFrom != nil {
		db = db.Where("visit_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		db = db.Where("visit_date <= ?", *f.DateTo)
	}
	if f.HostID != "" {
		db = db.Where("host_user_id = ?", f.HostID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var visitors []model.Visitor
	err := db.
		Preload("Assets", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Guests", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("visit_date DESC, visit_time DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&visitors).Error
	if err != nil {
		return nil, 0, err
	}
	return visitors, total, nil
}

// ReplaceAssets 整体替换访客物品列表（编辑场景）
func (r *visitorRepo) ReplaceAssets(ctx context.Context, visitorID string, assets []model.VisitorAsset) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("visitor_id = ?", visitorID).Delete(&model.VisitorAsset{}).Error; err != nil {
			return err
		}
		if len(assets) == 0 {
			return nil
		}
		return tx.Create(&assets).Error
	})
}

// ReplaceGuests 整体替换随行人员列表（编辑场景）
func (r *visitorRepo) ReplaceGuests(ctx context.Context, visitorID string, guests []model.VisitorGuest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("visitor_id = ?", visitorID).Delete(&model.VisitorGuest{}).Error; err != nil {
			return err
		}
		if len(guests) == 0 {
			return nil
		}
		return tx.Create(&guests).Error
	})
}
