package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"vms/backend/internal/dto"
	"vms/backend/internal/flow"
	"vms/backend/internal/model"
	"vms/backend/internal/repository"
)

var (
	ErrEmployeeNotFound = errors.New("员工不存在")
	ErrEmailTaken       = errors.New("邮箱已被占用")
)

// EmployeeService 员工目录业务接口
// 目录既服务于后台管理，也是登记向导第二步的接待人候选来源
type EmployeeService interface {
	List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, error)
	Directory(ctx context.Context) ([]flow.DirectoryEntry, error)
	GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error)
	Create(ctx context.Context, req *dto.CreateEmployeeRequest, createdBy string) (*dto.EmployeeResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateEmployeeRequest, updatedBy string) (*dto.EmployeeResponse, error)
	Delete(ctx context.Context, id string, deletedBy string) error
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger}
}

func (s *employeeService) List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, error) {
	emps, err := s.repo.Employee.List(ctx, req.Keyword)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.EmployeeResponse, 0, len(emps))
	for i := range emps {
		resp = append(resp, toEmployeeResponse(&emps[i]))
	}
	return resp, nil
}

// Directory 拉取完整员工目录（登记向导每流程调用一次）
func (s *employeeService) Directory(ctx context.Context) ([]flow.DirectoryEntry, error) {
	emps, err := s.repo.Employee.List(ctx, "")
	if err != nil {
		return nil, err
	}
	entries := make([]flow.DirectoryEntry, 0, len(emps))
	for _, e := range emps {
		entries = append(entries, flow.DirectoryEntry{
			UserID:          e.EmployeeID,
			Name:            e.Name,
			Email:           e.Email,
			PhoneNumber:     e.PhoneNumber,
			ProfileImageURL: e.ProfileImageURL,
		})
	}
	return entries, nil
}

func (s *employeeService) GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	emp, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	resp := toEmployeeResponse(emp)
	return &resp, nil
}

func (s *employeeService) Create(ctx context.Context, req *dto.CreateEmployeeRequest, createdBy string) (*dto.EmployeeResponse, error) {
	if _, err := s.repo.Employee.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = "employee"
	}
	emp := &model.Employee{
		Name:            req.Name,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		ProfileImageURL: req.ProfileImageURL,
		PasswordHash:    string(hash),
		Role:            role,
	}
	emp.CreatedBy = &createdBy

	if err := s.repo.Employee.Create(ctx, emp); err != nil {
		s.logger.Error("创建员工失败", zap.Error(err))
		return nil, err
	}
	resp := toEmployeeResponse(emp)
	return &resp, nil
}

func (s *employeeService) Update(ctx context.Context, id string, req *dto.UpdateEmployeeRequest, updatedBy string) (*dto.EmployeeResponse, error) {
	emp, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		emp.PhoneNumber = *req.PhoneNumber
	}
	if req.ProfileImageURL != nil {
		emp.ProfileImageURL = *req.ProfileImageURL
	}
	if req.Role != nil {
		emp.Role = *req.Role
	}
	emp.UpdatedBy = &updatedBy

	if err := s.repo.Employee.Update(ctx, emp); err != nil {
		return nil, err
	}
	resp := toEmployeeResponse(emp)
	return &resp, nil
}

func (s *employeeService) Delete(ctx context.Context, id string, deletedBy string) error {
	if _, err := s.repo.Employee.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}
	return s.repo.Employee.Delete(ctx, id, deletedBy)
}

// toEmployeeResponse 员工模型 → 脱敏响应
func toEmployeeResponse(e *model.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:              e.EmployeeID,
		Name:            e.Name,
		Email:           e.Email,
		PhoneNumber:     e.PhoneNumber,
		ProfileImageURL: e.ProfileImageURL,
		Role:            e.Role,
	}
}
