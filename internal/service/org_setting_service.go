package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vms/backend/internal/dto"
	"vms/backend/internal/flow"
	"vms/backend/internal/repository"
)

// OrgSettingService 组织设置业务接口
type OrgSettingService interface {
	Get(ctx context.Context) (*dto.OrgSettingResponse, error)
	Update(ctx context.Context, req *dto.UpdateOrgSettingRequest, updatedBy string) (*dto.OrgSettingResponse, error)
}

type orgSettingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOrgSettingService 创建 OrgSettingService 实例
func NewOrgSettingService(repo *repository.Repository, logger *zap.Logger) OrgSettingService {
	return &orgSettingService{repo: repo, logger: logger}
}

func (s *orgSettingService) Get(ctx context.Context) (*dto.OrgSettingResponse, error) {
	setting, err := s.repo.OrgSetting.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.OrgSettingResponse{
		OrgName:       setting.OrgName,
		IsApprovalReq: setting.RequireApproval,
		UpdatedAt:     setting.UpdatedAt.Format(time.RFC3339),
	}, nil
}

func (s *orgSettingService) Update(ctx context.Context, req *dto.UpdateOrgSettingRequest, updatedBy string) (*dto.OrgSettingResponse, error) {
	setting, err := s.repo.OrgSetting.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.OrgName != nil {
		setting.OrgName = *req.OrgName
	}
	if req.RequireApproval != nil {
		setting.RequireApproval = *req.RequireApproval
	}
	setting.UpdatedBy = &updatedBy

	if err := s.repo.OrgSetting.Update(ctx, setting); err != nil {
		s.logger.Error("更新组织设置失败", zap.Error(err))
		return nil, err
	}
	return &dto.OrgSettingResponse{
		OrgName:       setting.OrgName,
		IsApprovalReq: setting.RequireApproval,
		UpdatedAt:     setting.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// ── 审批策略协作方 ──

// approvalPolicy 基于组织设置实现 flow.ApprovalPolicy
// 登记向导离开最后一步前的那次查询即落在这里
type approvalPolicy struct {
	repo *repository.Repository
}

// NewApprovalPolicy 创建审批策略查询器
func NewApprovalPolicy(repo *repository.Repository) flow.ApprovalPolicy {
	return &approvalPolicy{repo: repo}
}

func (p *approvalPolicy) IsApprovalRequired(ctx context.Context) (bool, error) {
	setting, err := p.repo.OrgSetting.Get(ctx)
	if err != nil {
		return false, err
	}
	return setting.RequireApproval, nil
}
