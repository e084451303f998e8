package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"vms/backend/internal/dto"
	"vms/backend/internal/service"
	"vms/backend/pkg/response"
)

// EmployeeHandler 员工目录 HTTP 处理器
type EmployeeHandler struct {
	employeeSvc service.EmployeeService
}

// NewEmployeeHandler 创建 EmployeeHandler
func NewEmployeeHandler(employeeSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc}
}

// List 员工目录查询
// GET /api/v1/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	var req dto.EmployeeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.employeeSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Get 查询单个员工
// GET /api/v1/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	result, err := h.employeeSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			response.NotFound(c, 14001, "员工不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Create 新建员工（admin）
// POST /api/v1/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.employeeSvc.Create(c.Request.Context(), &req, userID)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Conflict(c, 14002, "邮箱已被占用")
			return
		}
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// Update 更新员工信息（admin）
// PUT /api/v1/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.employeeSvc.Update(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			response.NotFound(c, 14001, "员工不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// Delete 删除员工（admin，软删除）
// DELETE /api/v1/employees/:id
func (h *EmployeeHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.employeeSvc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		if errors.Is(err, service.ErrEmployeeNotFound) {
			response.NotFound(c, 14001, "员工不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
