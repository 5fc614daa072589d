package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orgapp "github.com/realty/backend/internal/application/org"
	"github.com/realty/backend/internal/domain/audit"
)

// BranchHandler handles branch office endpoints
type BranchHandler struct {
	BaseHandler
	branchService *orgapp.BranchService
}

// NewBranchHandler creates a new BranchHandler
func NewBranchHandler(branchService *orgapp.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

// Create opens a new branch
func (h *BranchHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orgapp.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.branchService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns branches matching the filter
func (h *BranchHandler) List(c *gin.Context) {
	var filter orgapp.BranchListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	branches, total, err := h.branchService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, branches, total, page, pageSize)
}

// GetByID returns a single branch
func (h *BranchHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid branch ID")
		return
	}

	resp, err := h.branchService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update changes a branch's details
func (h *BranchHandler) Update(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid branch ID")
		return
	}

	var req orgapp.UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.branchService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Enable reopens a disabled branch
func (h *BranchHandler) Enable(c *gin.Context) {
	h.transition(c, h.branchService.Enable)
}

// Disable closes a branch to new activity
func (h *BranchHandler) Disable(c *gin.Context) {
	h.transition(c, h.branchService.Disable)
}

// SetDefault makes a branch the default for new hires
func (h *BranchHandler) SetDefault(c *gin.Context) {
	h.transition(c, h.branchService.SetDefault)
}

func (h *BranchHandler) transition(c *gin.Context, op func(ctx context.Context, actor audit.Actor, id uuid.UUID) (*orgapp.BranchResponse, error)) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid branch ID")
		return
	}

	resp, err := op(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
