package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orgapp "github.com/realty/backend/internal/application/org"
	"github.com/realty/backend/internal/domain/audit"
)

// EmployeeHandler handles employee record endpoints
type EmployeeHandler struct {
	BaseHandler
	employeeService *orgapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService *orgapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// Hire creates an employee record for a staff user
func (h *EmployeeHandler) Hire(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orgapp.HireEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.employeeService.Hire(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns employees matching the filter
func (h *EmployeeHandler) List(c *gin.Context) {
	var filter orgapp.EmployeeListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	employees, total, err := h.employeeService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, employees, total, page, pageSize)
}

// GetByID returns a single employee record
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	resp, err := h.employeeService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Me returns the calling staff member's own record
func (h *EmployeeHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.employeeService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Promote changes an employee's position and salary
func (h *EmployeeHandler) Promote(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	var req orgapp.PromoteEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.employeeService.Promote(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Transfer moves an employee to another branch
func (h *EmployeeHandler) Transfer(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	var req orgapp.TransferEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.employeeService.Transfer(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// StartLeave places an active employee on leave
func (h *EmployeeHandler) StartLeave(c *gin.Context) {
	h.transition(c, h.employeeService.StartLeave)
}

// EndLeave returns an employee from leave
func (h *EmployeeHandler) EndLeave(c *gin.Context) {
	h.transition(c, h.employeeService.EndLeave)
}

// Terminate ends an employee's tenure
func (h *EmployeeHandler) Terminate(c *gin.Context) {
	h.transition(c, h.employeeService.Terminate)
}

func (h *EmployeeHandler) transition(c *gin.Context, op func(ctx context.Context, actor audit.Actor, id uuid.UUID) (*orgapp.EmployeeResponse, error)) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	resp, err := op(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
