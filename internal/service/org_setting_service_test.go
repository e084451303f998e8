package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"vms/backend/internal/dto"
	"vms/backend/internal/repository"
)

func setupTestOrgSettingService() (OrgSettingService, *mockOrgSettingRepo) {
	orgRepo := newMockOrgSettingRepo()
	repo := &repository.Repository{
		Employee:   newMockEmployeeRepo(),
		Visitor:    newMockVisitorRepo(),
		OrgSetting: orgRepo,
	}
	return NewOrgSettingService(repo, zap.NewNop()), orgRepo
}

func TestOrgSettingGetAndUpdate(t *testing.T) {
	svc, _ := setupTestOrgSettingService()
	ctx := context.Background()

	setting, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("查询组织设置失败: %v", err)
	}
	if !setting.IsApprovalReq {
		t.Error("期望初始审批策略开启")
	}

	off := false
	updated, err := svc.Update(ctx, &dto.UpdateOrgSettingRequest{RequireApproval: &off}, "admin-1")
	if err != nil {
		t.Fatalf("更新组织设置失败: %v", err)
	}
	if updated.IsApprovalReq {
		t.Error("期望审批策略关闭")
	}
	if updated.OrgName != "测试园区" {
		t.Errorf("期望未提交字段不变，实际=%s", updated.OrgName)
	}
}

func TestApprovalPolicy(t *testing.T) {
	orgRepo := newMockOrgSettingRepo()
	repo := &repository.Repository{OrgSetting: orgRepo}
	policy := NewApprovalPolicy(repo)
	ctx := context.Background()

	required, err := policy.IsApprovalRequired(ctx)
	if err != nil || !required {
		t.Errorf("期望 required=true，实际=%v err=%v", required, err)
	}

	orgRepo.setting.RequireApproval = false
	required, _ = policy.IsApprovalRequired(ctx)
	if required {
		t.Error("期望 required=false")
	}

	// 查询失败原样透传，由向导层决定原地终止
	orgRepo.getErr = errors.New("数据库不可用")
	if _, err := policy.IsApprovalRequired(ctx); err == nil {
		t.Error("期望查询失败返回错误")
	}
}
