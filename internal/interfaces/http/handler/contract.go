package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	contractapp "github.com/realty/backend/internal/application/contract"
	"github.com/realty/backend/internal/domain/audit"
)

// SaleContractHandler handles sale contract endpoints
type SaleContractHandler struct {
	BaseHandler
	saleService *contractapp.SaleContractService
}

// NewSaleContractHandler creates a new SaleContractHandler
func NewSaleContractHandler(saleService *contractapp.SaleContractService) *SaleContractHandler {
	return &SaleContractHandler{saleService: saleService}
}

// Create drafts a sale contract
func (h *SaleContractHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req contractapp.CreateSaleContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.saleService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns sale contracts matching the filter
func (h *SaleContractHandler) List(c *gin.Context) {
	var filter contractapp.ContractListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	contracts, total, err := h.saleService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, contracts, total, page, pageSize)
}

// ListMine returns contracts where the caller is buyer or seller
func (h *SaleContractHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contracts, err := h.saleService.ListByParty(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contracts)
}

// GetByID returns a single sale contract
func (h *SaleContractHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	resp, err := h.saleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Sign executes the contract and closes the sale
func (h *SaleContractHandler) Sign(c *gin.Context) {
	h.transition(c, h.saleService.Sign)
}

// Cancel voids a draft contract and relists the property
func (h *SaleContractHandler) Cancel(c *gin.Context) {
	h.transition(c, h.saleService.Cancel)
}

// UploadDocument attaches the signed copy
func (h *SaleContractHandler) UploadDocument(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		h.BadRequest(c, "A document file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded document")
		return
	}
	defer file.Close()

	resp, err := h.saleService.UploadDocument(
		c.Request.Context(), actor, id,
		fileHeader.Filename, file, fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DocumentURL returns a time-limited link to the signed copy
func (h *SaleContractHandler) DocumentURL(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	resp, err := h.saleService.DocumentURL(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *SaleContractHandler) transition(c *gin.Context, op func(ctx context.Context, actor audit.Actor, id uuid.UUID) (*contractapp.SaleContractResponse, error)) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	resp, err := op(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RentalContractHandler handles lease endpoints
type RentalContractHandler struct {
	BaseHandler
	rentalService *contractapp.RentalContractService
}

// NewRentalContractHandler creates a new RentalContractHandler
func NewRentalContractHandler(rentalService *contractapp.RentalContractService) *RentalContractHandler {
	return &RentalContractHandler{rentalService: rentalService}
}

// Create drafts a lease
func (h *RentalContractHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req contractapp.CreateRentalContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.rentalService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns leases matching the filter
func (h *RentalContractHandler) List(c *gin.Context) {
	var filter contractapp.ContractListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	contracts, total, err := h.rentalService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, contracts, total, page, pageSize)
}

// ListMine returns the calling tenant's leases
func (h *RentalContractHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contracts, err := h.rentalService.ListByTenant(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contracts)
}

// GetByID returns a single lease
func (h *RentalContractHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	resp, err := h.rentalService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Sign executes the lease and marks the property rented
func (h *RentalContractHandler) Sign(c *gin.Context) {
	h.transition(c, h.rentalService.Sign)
}

// Terminate ends an active lease early
func (h *RentalContractHandler) Terminate(c *gin.Context) {
	h.transition(c, h.rentalService.Terminate)
}

// MarkExpired closes a lease that ran to its end date
func (h *RentalContractHandler) MarkExpired(c *gin.Context) {
	h.transition(c, h.rentalService.MarkExpired)
}

// UploadDocument attaches the signed lease copy
func (h *RentalContractHandler) UploadDocument(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		h.BadRequest(c, "A document file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded document")
		return
	}
	defer file.Close()

	resp, err := h.rentalService.UploadDocument(
		c.Request.Context(), actor, id,
		fileHeader.Filename, file, fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DocumentURL returns a time-limited link to the signed lease copy
func (h *RentalContractHandler) DocumentURL(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	resp, err := h.rentalService.DocumentURL(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *RentalContractHandler) transition(c *gin.Context, op func(ctx context.Context, actor audit.Actor, id uuid.UUID) (*contractapp.RentalContractResponse, error)) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contract ID")
		return
	}

	resp, err := op(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
