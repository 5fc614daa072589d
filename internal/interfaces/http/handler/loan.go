package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	lendingapp "github.com/realty/backend/internal/application/lending"
	"github.com/realty/backend/internal/domain/audit"
)

// LoanHandler handles loan application and servicing endpoints
type LoanHandler struct {
	BaseHandler
	loanService *lendingapp.LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService *lendingapp.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// Create drafts a loan application for the calling borrower
func (h *LoanHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req lendingapp.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.loanService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns loans matching the filter
func (h *LoanHandler) List(c *gin.Context) {
	var filter lendingapp.LoanListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	loans, total, err := h.loanService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, loans, total, page, pageSize)
}

// ListMine returns the calling borrower's loans
func (h *LoanHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter lendingapp.LoanListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	loans, err := h.loanService.ListByBorrower(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loans)
}

// GetByID returns a single loan
func (h *LoanHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid loan ID")
		return
	}

	resp, err := h.loanService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Submit hands a draft application to underwriting
func (h *LoanHandler) Submit(c *gin.Context) {
	h.transition(c, h.loanService.Submit)
}

// StartReview claims a submitted application for review
func (h *LoanHandler) StartReview(c *gin.Context) {
	h.transition(c, h.loanService.StartReview)
}

// Approve approves a loan at the given rate
func (h *LoanHandler) Approve(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid loan ID")
		return
	}

	var req lendingapp.ApproveLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.loanService.Approve(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reject rejects a loan with a reason
func (h *LoanHandler) Reject(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid loan ID")
		return
	}

	var req lendingapp.RejectLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.loanService.Reject(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel lets the borrower withdraw an application before disbursal
func (h *LoanHandler) Cancel(c *gin.Context) {
	h.transition(c, h.loanService.Cancel)
}

// Disburse pays out an approved loan and generates its schedule
func (h *LoanHandler) Disburse(c *gin.Context) {
	h.transition(c, h.loanService.Disburse)
}

// ListPayments returns a loan's installment schedule
func (h *LoanHandler) ListPayments(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid loan ID")
		return
	}

	payments, err := h.loanService.ListPayments(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// SettlePayment records an installment as paid
func (h *LoanHandler) SettlePayment(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	paymentID, err := parseIDParam(c, "payment_id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	var req lendingapp.SettlePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.loanService.SettlePayment(c.Request.Context(), actor, paymentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkPaymentMissed flags an overdue installment as missed
func (h *LoanHandler) MarkPaymentMissed(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	paymentID, err := parseIDParam(c, "payment_id")
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	resp, err := h.loanService.MarkPaymentMissed(c.Request.Context(), actor, paymentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *LoanHandler) transition(c *gin.Context, op func(ctx context.Context, actor audit.Actor, id uuid.UUID) (*lendingapp.LoanResponse, error)) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid loan ID")
		return
	}

	resp, err := op(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
