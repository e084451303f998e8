package handler

import "vms/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Intake     *IntakeHandler
	Visitor    *VisitorHandler
	Employee   *EmployeeHandler
	OrgSetting *OrgSettingHandler
	Image      *ImageHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Intake:     NewIntakeHandler(svc.Intake, svc.Image),
		Visitor:    NewVisitorHandler(svc.Visitor),
		Employee:   NewEmployeeHandler(svc.Employee),
		OrgSetting: NewOrgSettingHandler(svc.OrgSetting),
		Image:      NewImageHandler(svc.Image),
		Export:     NewExportHandler(svc.Export),
	}
}
