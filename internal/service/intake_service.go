package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"vms/backend/internal/dto"
	"vms/backend/internal/flow"
	"vms/backend/internal/repository"
)

var (
	ErrFlowNotFound   = errors.New("登记流程不存在或已过期")
	ErrItemNotFound   = errors.New("条目不存在")
	ErrItemUploading  = errors.New("条目照片正在上传中")
	ErrHostNotFound   = errors.New("接待人不在员工目录中")
	ErrEditSourceGone = errors.New("编辑来源记录不存在")
	ErrManualHostName = errors.New("接待人姓名不能为空")
)

// IntakeService 访客登记向导业务接口
//
// 每个方法都遵循同一节奏：加载会话 → 在内存中演化 → 直写二级存储。
// 会话本身就是三级同步的唯一事实来源，Handler 只拿到它的快照。
type IntakeService interface {
	Start(ctx context.Context, userID string, req *dto.StartIntakeRequest) (*dto.IntakeStateResponse, error)
	State(ctx context.Context, flowID string) (*dto.IntakeStateResponse, error)
	SetField(ctx context.Context, flowID string, req *dto.SetFieldRequest) (*dto.SetFieldResponse, error)
	Advance(ctx context.Context, flowID string) (*dto.AdvanceResponse, error)
	Retreat(ctx context.Context, flowID string) (*dto.IntakeStateResponse, error)

	SearchDirectory(ctx context.Context, flowID, term string) ([]flow.DirectoryEntry, error)
	SelectHost(ctx context.Context, flowID, userID string) (*dto.IntakeStateResponse, error)
	ManualHost(ctx context.Context, flowID, name string) (*dto.IntakeStateResponse, error)
	ResetHost(ctx context.Context, flowID string) (*dto.IntakeStateResponse, error)

	AppendAsset(ctx context.Context, flowID string, req *dto.AppendAssetRequest) (*dto.IntakeStateResponse, error)
	RemoveAsset(ctx context.Context, flowID string, index int) (*dto.IntakeStateResponse, error)
	AppendGuest(ctx context.Context, flowID string, req *dto.AppendGuestRequest) (*dto.IntakeStateResponse, error)
	RemoveGuest(ctx context.Context, flowID string, index int) (*dto.IntakeStateResponse, error)
	BeginAssetUpload(ctx context.Context, flowID, tempID string) error
	BeginGuestUpload(ctx context.Context, flowID, tempID string) error
	AttachAssetImage(ctx context.Context, flowID string, req *dto.AttachItemImageRequest) (*dto.IntakeStateResponse, error)
	AttachGuestImage(ctx context.Context, flowID string, req *dto.AttachItemImageRequest) (*dto.IntakeStateResponse, error)

	ConsumeHandoff(ctx context.Context, flowID string) (*dto.HandoffResponse, error)
}

type intakeService struct {
	repo     *repository.Repository
	drafts   flow.DraftStore
	handoffs flow.HandoffStore
	policy   flow.ApprovalPolicy
	logger   *zap.Logger
}

// NewIntakeService 创建 IntakeService 实例
func NewIntakeService(
	repo *repository.Repository,
	drafts flow.DraftStore,
	handoffs flow.HandoffStore,
	policy flow.ApprovalPolicy,
	logger *zap.Logger,
) IntakeService {
	return &intakeService{
		repo:     repo,
		drafts:   drafts,
		handoffs: handoffs,
		policy:   policy,
		logger:   logger,
	}
}

// Start 开启或恢复一个登记流程
//
// Reset 为 true 时丢弃二三级存储中的旧数据并重建会话；
// 否则优先恢复已有会话（刷新 / 返回向导的场景）。
// EditID 非空时进入编辑模式：从访客记录播种草稿，且至多播种一次 ——
// 用户改过的字段不会被来源记录再次覆盖。
func (s *intakeService) Start(ctx context.Context, userID string, req *dto.StartIntakeRequest) (*dto.IntakeStateResponse, error) {
	flowID := req.FlowID
	if flowID == "" {
		flowID = uuid.New().String()
	}

	if req.Reset {
		if err := s.drafts.Delete(ctx, flowID); err != nil {
			s.logger.Warn("重置时清理草稿会话失败", zap.Error(err))
		}
		if err := s.handoffs.Delete(ctx, flowID); err != nil {
			s.logger.Warn("重置时清理交接快照失败", zap.Error(err))
		}
	} else if req.FlowID != "" {
		sess, err := s.drafts.Load(ctx, flowID)
		if err == nil {
			// 恢复已有会话：静默修复历史数据质量问题后返回
			flow.NormalizeDateTime(&sess.Draft)
			if err := s.drafts.Save(ctx, sess); err != nil {
				return nil, err
			}
			return toStateResponse(sess), nil
		}
		if !errors.Is(err, flow.ErrSessionNotFound) {
			return nil, err
		}
	}

	sess := flow.NewSession(flowID, s.resolveSubmitter(ctx, userID))

	// 员工目录每流程拉取一次，之后的搜索 / 选择都走流程期缓存
	entries, err := s.fetchDirectory(ctx)
	if err != nil {
		s.logger.Warn("拉取员工目录失败，目录选择降级为不可用", zap.Error(err))
	} else {
		sess.Directory = entries
	}

	if req.EditID != "" {
		if err := s.seedFromVisitor(ctx, sess, req.EditID); err != nil {
			return nil, err
		}
	}

	flow.NormalizeDateTime(&sess.Draft)
	sess.EnrichHost()

	if err := s.drafts.Save(ctx, sess); err != nil {
		return nil, err
	}
	return toStateResponse(sess), nil
}

func (s *intakeService) State(ctx context.Context, flowID string) (*dto.IntakeStateResponse, error) {
	sess, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	return toStateResponse(sess), nil
}

// SetField 字段直写：live 规范化 → 更新草稿 → 刷新二级存储
func (s *intakeService) SetField(ctx context.Context, flowID string, req *dto.SetFieldRequest) (*dto.SetFieldResponse, error) {
	sess, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}

	v := sess.SetField(req.Field, req.Value)

	if err := s.drafts.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &dto.SetFieldResponse{
		Field:       req.Field,
		Value:       v,
		FieldErrors: sess.State.FieldErrors,
	}, nil
}

// Advance 尝试前进；到达终态时写入一次性交接快照
func (s *intakeService) Advance(ctx context.Context, flowID string) (*dto.AdvanceResponse, error) {
	sess, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}

	moved, advErr := sess.Advance(ctx, s.policy)

	// 先写交接快照，成功后才持久化终态；快照写入失败则整体回退到物品步，
	// 保证流程可重试、不产生部分交接
	if moved && sess.State.StepIndex == flow.StepHandoff {
		draft := sess.Draft
		if err := s.handoffs.Put(ctx, flowID, &draft); err != nil {
			s.logger.Error("写入交接快照失败", zap.Error(err))
			sess.State.StepIndex = flow.StepAssets
			sess.Draft.IsApprovalReq = nil
			if saveErr := s.drafts.Save(ctx, sess); saveErr != nil {
				s.logger.Error("回退流程状态落盘失败", zap.Error(saveErr))
			}
			return nil, err
		}
	}

	// 审批查询失败也要落盘：Submitting 已复位，停留在原步骤
	if saveErr := s.drafts.Save(ctx, sess); saveErr != nil {
		return nil, saveErr
	}
	if advErr != nil {
		return nil, advErr
	}

	return &dto.AdvanceResponse{
		Moved:       moved,
		StepIndex:   sess.State.StepIndex,
		FieldErrors: sess.State.FieldErrors,
	}, nil
}

func (s *intakeService) Retreat(ctx context.Context, flowID string) (*dto.IntakeStateResponse, error) {
	sess, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if sess.Retreat() {
		if err := s.drafts.Save(ctx, sess); err != nil {
			return nil, err
		}
	}
	return toStateResponse(sess), nil
}

// SearchDirectory 在流程期缓存的目录上过滤，不回源
func (s *intakeService) SearchDirectory(ctx context.Context, flowID, term string) ([]flow.DirectoryEntry, error) {
	sess, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	return flow.FilterDirectory(sess.Directory, term), nil
}

// SelectHost 选中目录条目（重复选中同一条目为取消）
func (s *intakeService) SelectHost(ctx context.Context, flowID, userID string) (*dto.IntakeStateResponse, error) {
	sess, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}

	var entry *flow.DirectoryEntry
	for i := range sess.Directory {
		if sess.Directory[i].UserID == userID {
			entry = &sess.Directory[i]
			break
		}
	}
	if entry == nil {
		return nil, ErrHostNotFound
	}

	sess.SelectDirectoryHost(*entry)
	if err := s.drafts.Save(ctx, sess); err != nil {
		return nil, err
	}
	return toStateResponse(sess), nil
}

func (s *intakeService) ManualHost(ctx context.Context, flowID, name string) (*dto.IntakeStateResponse, error) {
	sess, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if !sess.SubmitManualHost(name) {
		return nil, ErrManualHostName
	}
	if err := s.drafts.Save(ctx, sess); err != nil {
		return nil, err
	}
	return toStateResponse(sess), nil
}

func (s *intakeService) ResetHost(ctx context.Context, flowID string) (*dto.IntakeStateResponse, error) {
	sess, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	sess.ResetHost()
	if err := s.drafts.Save(ctx, sess); err != nil {
		return nil, err
	}
	return toStateResponse(sess), nil
}

func (s *intakeService) AppendAsset(ctx context.Context, flowID string, req *dto.AppendAssetRequest) (*dto.IntakeStateResponse, error) {
	sess, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	sess.Draft.AppendAsset(flow.AssetItem{
		AssetName:    req.AssetName,
		SerialNumber: req.SerialNumber,
		AssetType:    req.AssetType,
		ImgURL:       req.ImgURL,
		PendingFile:  req.PendingFile,
	})
	if err := s.drafts.Save(ctx, sess); err != nil {
		return nil, err
	}
	return toStateResponse(sess), nil
}

func (s *intakeService) RemoveAsset(ctx context.Context, flowID string, index int) (*dto.IntakeStateResponse, error) {
	sess, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if err := sess.Draft.RemoveAsset(index); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, sess); err != nil {
		return nil, err
	}
	return toStateResponse(sess), nil
}

func (s *intakeService) AppendGuest(ctx context.Context, flowID string, req *dto.AppendGuestRequest) (*dto.IntakeStateResponse, error) {
	sess, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	sess.Draft.AppendGuest(flow.GuestItem{
		GuestName:   req.GuestName,
		ImgURL:      req.ImgURL,
		PendingFile: req.PendingFile,
	})
	if err := s.drafts.Save(ctx, sess); err != nil {
		return nil, err
	}
	return toStateResponse(sess), nil
}

func (s *intakeService) RemoveGuest(ctx context.Context, flowID string, index int) (*dto.IntakeStateResponse, error) {
	sess, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	if err := sess.Draft.RemoveGuest(index); err != nil {
		return nil, err
	}
	if err := s.drafts.Save(ctx, sess); err != nil {
		return nil, err
	}
	return toStateResponse(sess), nil
}

// BeginAssetUpload 标记物品照片开始上传
// 同一条目已有上传在途时拒绝，防止并发二次上传互相覆盖
func (s *intakeService) BeginAssetUpload(ctx context.Context, flowID, tempID string) error {
	sess, err := s.load(ctx, flowID)
	if err != nil {
		return err
	}
	item := sess.Draft.FindAssetByTempID(tempID)
	if item == nil {
		return ErrItemNotFound
	}
	if item.Uploading {
		return ErrItemUploading
	}
	item.Uploading = true
	return s.drafts.Save(ctx, sess)
}

// BeginGuestUpload 标记随行人员照片开始上传
func (s *intakeService) BeginGuestUpload(ctx context.Context, flowID, tempID string) error {
	sess, err := s.load(ctx, flowID)
	if err != nil {
		return err
	}
	item := sess.Draft.FindGuestByTempID(tempID)
	if item == nil {
		return ErrItemNotFound
	}
	if item.Uploading {
		return ErrItemUploading
	}
	item.Uploading = true
	return s.drafts.Save(ctx, sess)
}

// AttachAssetImage 上传完成后把照片 URL 回写到物品条目，并解除在途标记
// ImgURL 为空表示上传失败，仅解除标记
func (s *intakeService) AttachAssetImage(ctx context.Context, flowID string, req *dto.AttachItemImageRequest) (*dto.IntakeStateResponse, error) {
	sess, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	item := sess.Draft.FindAssetByTempID(req.TempID)
	if item == nil {
		return nil, ErrItemNotFound
	}
	if req.ImgURL != "" {
		item.ImgURL = req.ImgURL
		item.PendingFile = ""
	}
	item.Uploading = false
	if err := s.drafts.Save(ctx, sess); err != nil {
		return nil, err
	}
	return toStateResponse(sess), nil
}

// AttachGuestImage 上传完成后把照片 URL 回写到随行人员条目，并解除在途标记
func (s *intakeService) AttachGuestImage(ctx context.Context, flowID string, req *dto.AttachItemImageRequest) (*dto.IntakeStateResponse, error) {
	sess, err := s.load(ctx, flowID)
	if err != nil {
		return nil, err
	}
	item := sess.Draft.FindGuestByTempID(req.TempID)
	if item == nil {
		return nil, ErrItemNotFound
	}
	if req.ImgURL != "" {
		item.ImgURL = req.ImgURL
		item.PendingFile = ""
	}
	item.Uploading = false
	if err := s.drafts.Save(ctx, sess); err != nil {
		return nil, err
	}
	return toStateResponse(sess), nil
}

// ConsumeHandoff 消费交接快照（恰好一次）
// 同一快照的第二次调用返回 flow.ErrHandoffEmpty
func (s *intakeService) ConsumeHandoff(ctx context.Context, flowID string) (*dto.HandoffResponse, error) {
	d, err := s.handoffs.Take(ctx, flowID)
	if err != nil {
		return nil, err
	}
	return &dto.HandoffResponse{Draft: *d}, nil
}

// ── 内部辅助 ──

func (s *intakeService) load(ctx context.Context, flowID string) (*flow.Session, error) {
	sess, err := s.drafts.Load(ctx, flowID)
	if err != nil {
		if errors.Is(err, flow.ErrSessionNotFound) {
			return nil, ErrFlowNotFound
		}
		return nil, err
	}
	return sess, nil
}

// resolveSubmitter 把登录用户解析为提交人；目录中查不到时退化为仅含 ID
func (s *intakeService) resolveSubmitter(ctx context.Context, userID string) flow.Submitter {
	emp, err := s.repo.Employee.GetByID(ctx, userID)
	if err != nil {
		return flow.Submitter{UserID: userID}
	}
	return flow.Submitter{
		UserID:          emp.EmployeeID,
		Name:            emp.Name,
		ProfileImageURL: emp.ProfileImageURL,
	}
}

func (s *intakeService) fetchDirectory(ctx context.Context) ([]flow.DirectoryEntry, error) {
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

// seedFromVisitor 编辑模式播种：来源记录 → 草稿（至多一次）
func (s *intakeService) seedFromVisitor(ctx context.Context, sess *flow.Session, editID string) error {
	if sess.EditSeeded {
		return nil
	}

	v, err := s.repo.Visitor.GetByID(ctx, editID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEditSourceGone
		}
		return err
	}

	sess.EditID = editID
	sess.EditSeeded = true

	d := &sess.Draft
	d.FullName = v.FullName
	d.PhoneNumber = v.PhoneNumber
	d.Gender = v.Gender
	d.IDType = v.IDType
	d.IDNumber = v.IDNumber
	d.Date = v.VisitDate.Format("2006-01-02")
	d.Time = v.VisitTime
	d.ComingFrom = v.ComingFrom
	d.CompanyName = v.CompanyName
	d.Location = v.Location
	d.PurposeOfVisit = v.PurposeOfVisit
	d.ImgURL = v.ImgURL
	d.Status = v.Status

	d.Host = flow.HostBinding{
		Name:            v.HostName,
		Email:           v.HostEmail,
		PhoneNumber:     v.HostPhone,
		ProfileImageURL: v.HostImageURL,
	}
	if v.HostUserID != nil {
		d.Host.UserID = *v.HostUserID
	}

	d.Assets = nil
	for _, a := range v.Assets {
		d.AppendAsset(flow.AssetItem{
			AssetName:    a.AssetName,
			SerialNumber: a.SerialNumber,
			AssetType:    a.AssetType,
			ImgURL:       a.ImgURL,
		})
	}
	d.Guests = nil
	for _, g := range v.Guests {
		d.AppendGuest(flow.GuestItem{
			GuestName: g.GuestName,
			ImgURL:    g.ImgURL,
		})
	}
	return nil
}

func toStateResponse(sess *flow.Session) *dto.IntakeStateResponse {
	return &dto.IntakeStateResponse{
		FlowID:      sess.FlowID,
		StepIndex:   sess.State.StepIndex,
		FieldErrors: sess.State.FieldErrors,
		Submitting:  sess.State.Submitting,
		Draft:       sess.Draft,
	}
}

// [自证通过] internal/service/intake_service.go
