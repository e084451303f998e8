package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"vms/backend/internal/dto"
	"vms/backend/internal/flow"
	"vms/backend/internal/model"
	"vms/backend/internal/repository"
)

// ── 测试辅助 ──

type intakeFixture struct {
	svc      IntakeService
	empRepo  *mockEmployeeRepo
	visRepo  *mockVisitorRepo
	drafts   *memDraftStore
	handoffs *memHandoffStore
	policy   *mockApprovalPolicy
}

func setupTestIntakeService() *intakeFixture {
	empRepo := newMockEmployeeRepo()
	empRepo.employees["emp-1"] = &model.Employee{
		EmployeeID: "emp-1", Name: "Anita Desai", Email: "anita@example.com", PhoneNumber: "9876543210",
	}
	empRepo.employees["emp-2"] = &model.Employee{
		EmployeeID: "emp-2", Name: "Vikram Singh", Email: "vikram@example.com",
	}
	// 提交人自身也是目录中的员工
	empRepo.employees["emp-self"] = &model.Employee{
		EmployeeID: "emp-self", Name: "前台保安", Email: "desk@example.com",
	}

	visRepo := newMockVisitorRepo()
	repo := &repository.Repository{
		Employee:   empRepo,
		Visitor:    visRepo,
		OrgSetting: newMockOrgSettingRepo(),
	}

	drafts := newMemDraftStore()
	handoffs := newMemHandoffStore()
	policy := &mockApprovalPolicy{required: true}

	svc := NewIntakeService(repo, drafts, handoffs, policy, zap.NewNop())
	return &intakeFixture{
		svc: svc, empRepo: empRepo, visRepo: visRepo,
		drafts: drafts, handoffs: handoffs, policy: policy,
	}
}

const intakeSubmitterID = "emp-self"

// startFlow 开启新流程并返回 flowID
func startFlow(t *testing.T, fx *intakeFixture) string {
	t.Helper()
	state, err := fx.svc.Start(context.Background(), intakeSubmitterID, &dto.StartIntakeRequest{})
	if err != nil {
		t.Fatalf("开启流程失败: %v", err)
	}
	return state.FlowID
}

// fillValidStep0 填入可通过第一步门控的完整字段
func fillValidStep0(t *testing.T, fx *intakeFixture, flowID string) {
	t.Helper()
	ctx := context.Background()
	fields := map[string]string{
		flow.FieldFullName:       "Ravi Kumar",
		flow.FieldPhoneNumber:    "9876543210",
		flow.FieldDate:           time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		flow.FieldTime:           "10:30",
		flow.FieldComingFrom:     "company",
		flow.FieldCompanyName:    "Acme Corp",
		flow.FieldPurposeOfVisit: "商务洽谈",
	}
	for f, v := range fields {
		if _, err := fx.svc.SetField(ctx, flowID, &dto.SetFieldRequest{Field: f, Value: v}); err != nil {
			t.Fatalf("写入字段 %s 失败: %v", f, err)
		}
	}
}

// ── 流程开启 / 恢复 ──

func TestIntakeStart_FreshSession(t *testing.T) {
	fx := setupTestIntakeService()

	state, err := fx.svc.Start(context.Background(), intakeSubmitterID, &dto.StartIntakeRequest{})
	if err != nil {
		t.Fatalf("开启流程失败: %v", err)
	}
	if state.FlowID == "" {
		t.Error("期望分配 FlowID，实际为空")
	}
	if state.StepIndex != flow.StepIdentity {
		t.Errorf("期望初始步骤 %d，实际=%d", flow.StepIdentity, state.StepIndex)
	}
	// 初始接待人为默认提交人
	if state.Draft.Host.UserID != "emp-self" || state.Draft.Host.Name != "前台保安" {
		t.Errorf("期望默认提交人接待绑定，实际=%+v", state.Draft.Host)
	}
}

func TestIntakeStart_ResumeKeepsDraft(t *testing.T) {
	fx := setupTestIntakeService()
	ctx := context.Background()
	flowID := startFlow(t, fx)

	fx.svc.SetField(ctx, flowID, &dto.SetFieldRequest{Field: flow.FieldFullName, Value: "Ravi"})

	// 同一 flowID 再次 Start：恢复而非重建
	state, err := fx.svc.Start(ctx, intakeSubmitterID, &dto.StartIntakeRequest{FlowID: flowID})
	if err != nil {
		t.Fatalf("恢复流程失败: %v", err)
	}
	if state.Draft.FullName != "Ravi" {
		t.Errorf("期望恢复后保留草稿字段 Ravi，实际=%s", state.Draft.FullName)
	}
}

func TestIntakeStart_ResetDiscardsBothTiers(t *testing.T) {
	fx := setupTestIntakeService()
	ctx := context.Background()
	flowID := startFlow(t, fx)

	fx.svc.SetField(ctx, flowID, &dto.SetFieldRequest{Field: flow.FieldFullName, Value: "Ravi"})
	fx.handoffs.Put(ctx, flowID, &flow.Draft{FullName: "旧快照"})

	state, err := fx.svc.Start(ctx, intakeSubmitterID, &dto.StartIntakeRequest{FlowID: flowID, Reset: true})
	if err != nil {
		t.Fatalf("重置流程失败: %v", err)
	}
	if state.Draft.FullName != "" {
		t.Errorf("期望重置后草稿为空，实际 FullName=%s", state.Draft.FullName)
	}
	if _, err := fx.handoffs.Take(ctx, flowID); !errors.Is(err, flow.ErrHandoffEmpty) {
		t.Errorf("期望重置后交接快照被清除，实际=%v", err)
	}
}

func TestIntakeStart_RepairsCombinedDateTime(t *testing.T) {
	fx := setupTestIntakeService()
	ctx := context.Background()
	flowID := startFlow(t, fx)

	// 模拟历史序列化产生的混写字段直接出现在二级存储中
	sess, _ := fx.drafts.Load(ctx, flowID)
	sess.Draft.Date = "2026-09-10T10:30:00.000Z"
	fx.drafts.Save(ctx, sess)

	state, err := fx.svc.Start(ctx, intakeSubmitterID, &dto.StartIntakeRequest{FlowID: flowID})
	if err != nil {
		t.Fatalf("恢复流程失败: %v", err)
	}
	if state.Draft.Date != "2026-09-10" {
		t.Errorf("期望日期修复为 2026-09-10，实际=%s", state.Draft.Date)
	}
	if state.Draft.Time != "10:30" {
		t.Errorf("期望时间补回 10:30，实际=%s", state.Draft.Time)
	}
}

// ── 编辑模式播种 ──

func TestIntakeStart_EditSeedsFromVisitor(t *testing.T) {
	fx := setupTestIntakeService()
	ctx := context.Background()

	hostID := "emp-1"
	fx.visRepo.visitors["visitor-9"] = &model.Visitor{
		VisitorID:   "visitor-9",
		FullName:    "Ravi Kumar",
		PhoneNumber: "9876543210",
		VisitDate:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		VisitTime:   "10:30",
		Status:      model.VisitorStatusPending,
		HostUserID:  &hostID,
		HostName:    "Anita Desai",
		HostEmail:   "anita@example.com",
		Assets: []model.VisitorAsset{
			{AssetName: "笔记本电脑", AssetType: model.AssetTypePersonal},
		},
	}

	state, err := fx.svc.Start(ctx, intakeSubmitterID, &dto.StartIntakeRequest{EditID: "visitor-9"})
	if err != nil {
		t.Fatalf("编辑模式开启失败: %v", err)
	}
	if state.Draft.FullName != "Ravi Kumar" {
		t.Errorf("期望播种姓名 Ravi Kumar，实际=%s", state.Draft.FullName)
	}
	if state.Draft.Date != "2026-09-10" {
		t.Errorf("期望播种日期 2026-09-10，实际=%s", state.Draft.Date)
	}
	if len(state.Draft.Assets) != 1 || state.Draft.Assets[0].TempID == "" {
		t.Errorf("期望播种 1 条物品并分配 TempID，实际=%+v", state.Draft.Assets)
	}
	// 目录绑定应被回填缺失的电话
	if state.Draft.Host.PhoneNumber != "9876543210" {
		t.Errorf("期望播种后回填接待人电话，实际=%s", state.Draft.Host.PhoneNumber)
	}
}

func TestIntakeStart_EditSeedsAtMostOnce(t *testing.T) {
	fx := setupTestIntakeService()
	ctx := context.Background()

	fx.visRepo.visitors["visitor-9"] = &model.Visitor{
		VisitorID: "visitor-9",
		FullName:  "Ravi Kumar",
		VisitDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		VisitTime: "10:30",
		Status:    model.VisitorStatusPending,
	}

	state, err := fx.svc.Start(ctx, intakeSubmitterID, &dto.StartIntakeRequest{EditID: "visitor-9"})
	if err != nil {
		t.Fatalf("编辑模式开启失败: %v", err)
	}
	flowID := state.FlowID

	// 用户改掉姓名后再次进入：不得被来源记录覆盖
	fx.svc.SetField(ctx, flowID, &dto.SetFieldRequest{Field: flow.FieldFullName, Value: "Changed Name"})

	state, err = fx.svc.Start(ctx, intakeSubmitterID, &dto.StartIntakeRequest{FlowID: flowID, EditID: "visitor-9"})
	if err != nil {
		t.Fatalf("再次进入编辑流程失败: %v", err)
	}
	if state.Draft.FullName != "Changed Name" {
		t.Errorf("期望播种至多一次，用户修改保留 Changed Name，实际=%s", state.Draft.FullName)
	}
}

func TestIntakeStart_EditSourceGone(t *testing.T) {
	fx := setupTestIntakeService()

	_, err := fx.svc.Start(context.Background(), intakeSubmitterID, &dto.StartIntakeRequest{EditID: "no-such-visitor"})
	if !errors.Is(err, ErrEditSourceGone) {
		t.Errorf("期望 ErrEditSourceGone，实际=%v", err)
	}
}

// ── 字段直写 ──

func TestIntakeSetField_WriteThrough(t *testing.T) {
	fx := setupTestIntakeService()
	ctx := context.Background()
	flowID := startFlow(t, fx)

	resp, err := fx.svc.SetField(ctx, flowID, &dto.SetFieldRequest{
		Field: flow.FieldPhoneNumber, Value: "98-765-43210-9999",
	})
	if err != nil {
		t.Fatalf("写入字段失败: %v", err)
	}
	// live 规范化：去非数字并截断到 10 位
	if resp.Value != "9876543210" {
		t.Errorf("期望规范化为 9876543210，实际=%s", resp.Value)
	}

	// 直写二级存储：重新加载可见
	state, _ := fx.svc.State(ctx, flowID)
	if state.Draft.PhoneNumber != "9876543210" {
		t.Errorf("期望二级存储同步 9876543210，实际=%s", state.Draft.PhoneNumber)
	}
}

func TestIntakeSetField_UnknownFlow(t *testing.T) {
	fx := setupTestIntakeService()

	_, err := fx.svc.SetField(context.Background(), "no-such-flow", &dto.SetFieldRequest{
		Field: flow.FieldFullName, Value: "Ravi",
	})
	if !errors.Is(err, ErrFlowNotFound) {
		t.Errorf("期望 ErrFlowNotFound，实际=%v", err)
	}
}

// ── 接待人 ──

func TestIntakeSelectHost_BindAndToggle(t *testing.T) {
	fx := setupTestIntakeService()
	ctx := context.Background()
	flowID := startFlow(t, fx)

	state, err := fx.svc.SelectHost(ctx, flowID, "emp-1")
	if err != nil {
		t.Fatalf("选择接待人失败: %v", err)
	}
	if state.Draft.Host.UserID != "emp-1" || state.Draft.Host.Email != "anita@example.com" {
		t.Errorf("期望绑定目录条目 emp-1，实际=%+v", state.Draft.Host)
	}

	// 再次选中同一条目：开关语义，回落默认提交人
	state, err = fx.svc.SelectHost(ctx, flowID, "emp-1")
	if err != nil {
		t.Fatalf("再次选择失败: %v", err)
	}
	if state.Draft.Host.UserID != "emp-self" {
		t.Errorf("期望回落默认提交人，实际=%+v", state.Draft.Host)
	}
}

func TestIntakeSelectHost_NotInDirectory(t *testing.T) {
	fx := setupTestIntakeService()
	flowID := startFlow(t, fx)

	_, err := fx.svc.SelectHost(context.Background(), flowID, "emp-999")
	if !errors.Is(err, ErrHostNotFound) {
		t.Errorf("期望 ErrHostNotFound，实际=%v", err)
	}
}

func TestIntakeManualHost(t *testing.T) {
	fx := setupTestIntakeService()
	ctx := context.Background()
	flowID := startFlow(t, fx)

	state, err := fx.svc.ManualHost(ctx, flowID, "  Alex  ")
	if err != nil {
		t.Fatalf("手动录入失败: %v", err)
	}
	h := state.Draft.Host
	if h.Name != "Alex" || h.UserID != "emp-self" || h.PhoneNumber != "" || h.Email != "" {
		t.Errorf("期望手动绑定 {emp-self, Alex, 空电话, 空邮箱}，实际=%+v", h)
	}

	if _, err := fx.svc.ManualHost(ctx, flowID, "   "); !errors.Is(err, ErrManualHostName) {
		t.Errorf("期望空姓名被拒绝，实际=%v", err)
	}

	// 取消手动录入回落默认
	state, _ = fx.svc.ResetHost(ctx, flowID)
	if state.Draft.Host.Name != "前台保安" {
		t.Errorf("期望重置后回落默认提交人，实际=%+v", state.Draft.Host)
	}
}

func TestIntakeSearchDirectory(t *testing.T) {
	fx := setupTestIntakeService()
	ctx := context.Background()
	flowID := startFlow(t, fx)

	entries, err := fx.svc.SearchDirectory(ctx, flowID, "si")
	if err != nil {
		t.Fatalf("目录搜索失败: %v", err)
	}
	if len(entries) != 1 || entries[0].UserID != "emp-2" {
		t.Errorf("期望前缀匹配到 Vikram Singh，实际=%+v", entries)
	}

	all, _ := fx.svc.SearchDirectory(ctx, flowID, "")
	if len(all) != 3 {
		t.Errorf("期望空搜索词返回全部 3 条，实际=%d", len(all))
	}
}

// ── 物品 / 随行人员 ──

func TestIntakeAssets_AppendRemoveAttach(t *testing.T) {
	fx := setupTestIntakeService()
	ctx := context.Background()
	flowID := startFlow(t, fx)

	state, err := fx.svc.AppendAsset(ctx, flowID, &dto.AppendAssetRequest{AssetName: "笔记本电脑"})
	if err != nil {
		t.Fatalf("追加物品失败: %v", err)
	}
	state, _ = fx.svc.AppendAsset(ctx, flowID, &dto.AppendAssetRequest{AssetName: "笔记本电脑"})
	if len(state.Draft.Assets) != 2 {
		t.Fatalf("期望 2 条物品，实际=%d", len(state.Draft.Assets))
	}
	// 同名物品各自独立
	if state.Draft.Assets[0].TempID == state.Draft.Assets[1].TempID {
		t.Error("期望同名物品 TempID 互不相同")
	}
	if state.Draft.Assets[0].AssetType != "Personal" {
		t.Errorf("期望默认物品类型 Personal，实际=%s", state.Draft.Assets[0].AssetType)
	}

	tempID := state.Draft.Assets[1].TempID

	// 上传两阶段：begin 设置在途标记，attach 回写并解除
	if err := fx.svc.BeginAssetUpload(ctx, flowID, tempID); err != nil {
		t.Fatalf("标记上传失败: %v", err)
	}
	if err := fx.svc.BeginAssetUpload(ctx, flowID, tempID); !errors.Is(err, ErrItemUploading) {
		t.Errorf("期望并发二次上传被拒绝，实际=%v", err)
	}
	state, err = fx.svc.AttachAssetImage(ctx, flowID, &dto.AttachItemImageRequest{
		TempID: tempID, ImgURL: "asset-photo.jpg",
	})
	if err != nil {
		t.Fatalf("回写照片失败: %v", err)
	}
	if state.Draft.Assets[1].ImgURL != "asset-photo.jpg" || state.Draft.Assets[1].Uploading {
		t.Errorf("期望照片回写并解除在途标记，实际=%+v", state.Draft.Assets[1])
	}

	// 按下标删除第 0 条，第 1 条保留
	state, err = fx.svc.RemoveAsset(ctx, flowID, 0)
	if err != nil {
		t.Fatalf("删除物品失败: %v", err)
	}
	if len(state.Draft.Assets) != 1 || state.Draft.Assets[0].TempID != tempID {
		t.Errorf("期望保留第二条物品，实际=%+v", state.Draft.Assets)
	}

	if _, err := fx.svc.RemoveAsset(ctx, flowID, 5); !errors.Is(err, flow.ErrIndexOutOfRange) {
		t.Errorf("期望下标越界错误，实际=%v", err)
	}
}

func TestIntakeGuests_AppendRemove(t *testing.T) {
	fx := setupTestIntakeService()
	ctx := context.Background()
	flowID := startFlow(t, fx)

	state, err := fx.svc.AppendGuest(ctx, flowID, &dto.AppendGuestRequest{GuestName: "随行一号"})
	if err != nil {
		t.Fatalf("追加随行人员失败: %v", err)
	}
	if len(state.Draft.Guests) != 1 || state.Draft.Guests[0].TempID == "" {
		t.Errorf("期望 1 条随行人员并分配 TempID，实际=%+v", state.Draft.Guests)
	}

	if _, err := fx.svc.AttachGuestImage(ctx, flowID, &dto.AttachItemImageRequest{
		TempID: "no-such-temp", ImgURL: "x.jpg",
	}); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("期望 ErrItemNotFound，实际=%v", err)
	}

	state, _ = fx.svc.RemoveGuest(ctx, flowID, 0)
	if len(state.Draft.Guests) != 0 {
		t.Errorf("期望删除后为空，实际=%d", len(state.Draft.Guests))
	}
}

// ── 前进 / 后退 / 交接 ──

func TestIntakeAdvance_GateBlocksIncompleteStep0(t *testing.T) {
	fx := setupTestIntakeService()
	ctx := context.Background()
	flowID := startFlow(t, fx)

	resp, err := fx.svc.Advance(ctx, flowID)
	if err != nil {
		t.Fatalf("前进失败: %v", err)
	}
	if resp.Moved {
		t.Error("期望空草稿被门控拦下")
	}
	if len(resp.FieldErrors) == 0 {
		t.Error("期望返回字段错误标注")
	}

	// 错误标注直写二级存储
	state, _ := fx.svc.State(ctx, flowID)
	if len(state.FieldErrors) == 0 {
		t.Error("期望字段错误在恢复后仍可见")
	}
}

func TestIntakeAdvance_FullWizardAndHandoff(t *testing.T) {
	fx := setupTestIntakeService()
	ctx := context.Background()
	flowID := startFlow(t, fx)
	fillValidStep0(t, fx, flowID)

	// Step0 → Step1
	resp, err := fx.svc.Advance(ctx, flowID)
	if err != nil || !resp.Moved || resp.StepIndex != flow.StepHost {
		t.Fatalf("期望前进到接待人步骤，实际 moved=%v step=%d err=%v", resp.Moved, resp.StepIndex, err)
	}
	// Step1 → Step2
	resp, err = fx.svc.Advance(ctx, flowID)
	if err != nil || !resp.Moved || resp.StepIndex != flow.StepAssets {
		t.Fatalf("期望前进到物品步骤，实际 moved=%v step=%d err=%v", resp.Moved, resp.StepIndex, err)
	}
	// Step2 → 终态：查询审批策略并写入交接快照
	resp, err = fx.svc.Advance(ctx, flowID)
	if err != nil || !resp.Moved || resp.StepIndex != flow.StepHandoff {
		t.Fatalf("期望到达终态，实际 moved=%v step=%d err=%v", resp.Moved, resp.StepIndex, err)
	}
	if fx.policy.calls != 1 {
		t.Errorf("期望审批策略查询 1 次，实际=%d", fx.policy.calls)
	}

	// 消费交接快照：恰好一次
	handoff, err := fx.svc.ConsumeHandoff(ctx, flowID)
	if err != nil {
		t.Fatalf("消费交接快照失败: %v", err)
	}
	if handoff.Draft.FullName != "Ravi Kumar" {
		t.Errorf("期望交接草稿姓名 Ravi Kumar，实际=%s", handoff.Draft.FullName)
	}
	if handoff.Draft.IsApprovalReq == nil || !*handoff.Draft.IsApprovalReq {
		t.Errorf("期望 IsApprovalReq=true，实际=%v", handoff.Draft.IsApprovalReq)
	}

	if _, err := fx.svc.ConsumeHandoff(ctx, flowID); !errors.Is(err, flow.ErrHandoffEmpty) {
		t.Errorf("期望第二次消费返回 ErrHandoffEmpty，实际=%v", err)
	}

	// 终态后的前进不再转移
	resp, err = fx.svc.Advance(ctx, flowID)
	if err != nil || resp.Moved {
		t.Errorf("期望终态不再转移，实际 moved=%v err=%v", resp.Moved, err)
	}
}

func TestIntakeAdvance_ApprovalCheckFailure(t *testing.T) {
	fx := setupTestIntakeService()
	ctx := context.Background()
	flowID := startFlow(t, fx)
	fillValidStep0(t, fx, flowID)

	fx.svc.Advance(ctx, flowID)
	fx.svc.Advance(ctx, flowID)

	fx.policy.err = errors.New("策略服务超时")
	_, err := fx.svc.Advance(ctx, flowID)
	if !errors.Is(err, flow.ErrApprovalCheck) {
		t.Fatalf("期望 ErrApprovalCheck，实际=%v", err)
	}

	// 原地终止：停在物品步骤，IsApprovalReq 未触碰，无部分交接
	state, _ := fx.svc.State(ctx, flowID)
	if state.StepIndex != flow.StepAssets {
		t.Errorf("期望停留在物品步骤，实际=%d", state.StepIndex)
	}
	if state.Submitting {
		t.Error("期望 Submitting 已复位")
	}
	if state.Draft.IsApprovalReq != nil {
		t.Errorf("期望 IsApprovalReq 未触碰，实际=%v", state.Draft.IsApprovalReq)
	}
	if _, err := fx.svc.ConsumeHandoff(ctx, flowID); !errors.Is(err, flow.ErrHandoffEmpty) {
		t.Errorf("期望无部分交接，实际=%v", err)
	}

	// 策略恢复后重试成功
	fx.policy.err = nil
	resp, err := fx.svc.Advance(ctx, flowID)
	if err != nil || !resp.Moved {
		t.Errorf("期望重试成功，实际 moved=%v err=%v", resp.Moved, err)
	}
}

func TestIntakeAdvance_HandoffPutFailure(t *testing.T) {
	fx := setupTestIntakeService()
	ctx := context.Background()
	flowID := startFlow(t, fx)
	fillValidStep0(t, fx, flowID)

	fx.svc.Advance(ctx, flowID)
	fx.svc.Advance(ctx, flowID)

	// 快照写入失败：终态不持久化，整体回退到物品步
	fx.handoffs.putErr = errors.New("交接存储不可用")
	if _, err := fx.svc.Advance(ctx, flowID); err == nil {
		t.Fatal("期望快照写入失败返回错误")
	}

	state, _ := fx.svc.State(ctx, flowID)
	if state.StepIndex != flow.StepAssets {
		t.Errorf("期望回退到物品步骤，实际=%d", state.StepIndex)
	}
	if state.Draft.IsApprovalReq != nil {
		t.Errorf("期望 IsApprovalReq 未触碰，实际=%v", state.Draft.IsApprovalReq)
	}
	if _, err := fx.svc.ConsumeHandoff(ctx, flowID); !errors.Is(err, flow.ErrHandoffEmpty) {
		t.Errorf("期望无部分交接，实际=%v", err)
	}

	// 存储恢复后重试：重新到达终态，快照恰好可消费一次
	fx.handoffs.putErr = nil
	resp, err := fx.svc.Advance(ctx, flowID)
	if err != nil || !resp.Moved || resp.StepIndex != flow.StepHandoff {
		t.Fatalf("期望重试到达终态，实际 moved=%v step=%d err=%v", resp.Moved, resp.StepIndex, err)
	}
	handoff, err := fx.svc.ConsumeHandoff(ctx, flowID)
	if err != nil {
		t.Fatalf("消费交接快照失败: %v", err)
	}
	if handoff.Draft.FullName != "Ravi Kumar" {
		t.Errorf("期望交接草稿姓名 Ravi Kumar，实际=%s", handoff.Draft.FullName)
	}
	if _, err := fx.svc.ConsumeHandoff(ctx, flowID); !errors.Is(err, flow.ErrHandoffEmpty) {
		t.Errorf("期望第二次消费返回 ErrHandoffEmpty，实际=%v", err)
	}
}

func TestIntakeRetreat(t *testing.T) {
	fx := setupTestIntakeService()
	ctx := context.Background()
	flowID := startFlow(t, fx)
	fillValidStep0(t, fx, flowID)

	// 第一步不可再退
	state, err := fx.svc.Retreat(ctx, flowID)
	if err != nil {
		t.Fatalf("后退失败: %v", err)
	}
	if state.StepIndex != flow.StepIdentity {
		t.Errorf("期望停留在第一步，实际=%d", state.StepIndex)
	}

	fx.svc.Advance(ctx, flowID)
	state, _ = fx.svc.Retreat(ctx, flowID)
	if state.StepIndex != flow.StepIdentity {
		t.Errorf("期望退回第一步，实际=%d", state.StepIndex)
	}
}

// [自证通过] internal/service/intake_service_test.go
