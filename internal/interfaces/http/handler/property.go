package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	listingapp "github.com/realty/backend/internal/application/listing"
	"github.com/realty/backend/internal/domain/audit"
)

// PropertyHandler handles property listing endpoints
type PropertyHandler struct {
	BaseHandler
	propertyService *listingapp.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(propertyService *listingapp.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// SetPhotosRequest replaces a property's photo keys
type SetPhotosRequest struct {
	Photos []string `json:"photos" binding:"required"`
}

// Create drafts a new property listing owned by the calling agent
func (h *PropertyHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req listingapp.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.propertyService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns properties matching the filter
func (h *PropertyHandler) List(c *gin.Context) {
	var filter listingapp.PropertyListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	props, total, err := h.propertyService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, props, total, page, pageSize)
}

// GetByID returns a single property
func (h *PropertyHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	resp, err := h.propertyService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update updates a property's details
func (h *PropertyHandler) Update(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	var req listingapp.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.propertyService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Publish moves a draft onto the market
func (h *PropertyHandler) Publish(c *gin.Context) {
	h.transition(c, h.propertyService.Publish)
}

// Withdraw takes a listing off the market
func (h *PropertyHandler) Withdraw(c *gin.Context) {
	h.transition(c, h.propertyService.Withdraw)
}

// ReturnToMarket relists a withdrawn or fallen-through property
func (h *PropertyHandler) ReturnToMarket(c *gin.Context) {
	h.transition(c, h.propertyService.ReturnToMarket)
}

// SetPhotos replaces the listing's photo set
func (h *PropertyHandler) SetPhotos(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	var req SetPhotosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.propertyService.SetPhotos(c.Request.Context(), actor, id, req.Photos)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UploadPhoto stores a photo and appends its key to the listing
func (h *PropertyHandler) UploadPhoto(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		h.BadRequest(c, "A photo file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded photo")
		return
	}
	defer file.Close()

	resp, err := h.propertyService.UploadPhoto(
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

// PhotoURLs returns time-limited links to the listing's photos
func (h *PropertyHandler) PhotoURLs(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	resp, err := h.propertyService.PhotoURLs(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes a draft listing
func (h *PropertyHandler) Delete(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	if err := h.propertyService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *PropertyHandler) transition(c *gin.Context, op func(ctx context.Context, actor audit.Actor, id uuid.UUID) (*listingapp.PropertyResponse, error)) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	resp, err := op(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
