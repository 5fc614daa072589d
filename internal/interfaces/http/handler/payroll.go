package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orgapp "github.com/realty/backend/internal/application/org"
	"github.com/realty/backend/internal/domain/audit"
)

// PayrollHandler handles payroll run endpoints
type PayrollHandler struct {
	BaseHandler
	payrollService *orgapp.PayrollService
}

// NewPayrollHandler creates a new PayrollHandler
func NewPayrollHandler(payrollService *orgapp.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

// Generate creates draft payroll records for a period
func (h *PayrollHandler) Generate(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orgapp.GeneratePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	payrolls, err := h.payrollService.Generate(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payrolls)
}

// GetByID returns a single payroll record
func (h *PayrollHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payroll ID")
		return
	}

	resp, err := h.payrollService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListByPeriod returns all payroll records for a YYYY-MM period
func (h *PayrollHandler) ListByPeriod(c *gin.Context) {
	period := c.Param("period")
	if period == "" {
		h.BadRequest(c, "A payroll period is required")
		return
	}

	payrolls, err := h.payrollService.ListByPeriod(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payrolls)
}

// ListByEmployee returns an employee's payroll history
func (h *PayrollHandler) ListByEmployee(c *gin.Context) {
	employeeID, err := parseIDParam(c, "employee_id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}

	payrolls, err := h.payrollService.ListByEmployee(c.Request.Context(), employeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payrolls)
}

// Adjust changes bonus and deductions on a draft record
func (h *PayrollHandler) Adjust(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payroll ID")
		return
	}

	var req orgapp.AdjustPayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.payrollService.Adjust(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Approve locks a draft payroll record for payment
func (h *PayrollHandler) Approve(c *gin.Context) {
	h.transition(c, h.payrollService.Approve)
}

// MarkPaid records that an approved payroll was paid out
func (h *PayrollHandler) MarkPaid(c *gin.Context) {
	h.transition(c, h.payrollService.MarkPaid)
}

func (h *PayrollHandler) transition(c *gin.Context, op func(ctx context.Context, actor audit.Actor, id uuid.UUID) (*orgapp.PayrollResponse, error)) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payroll ID")
		return
	}

	resp, err := op(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
