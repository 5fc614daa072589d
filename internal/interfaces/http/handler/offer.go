package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	listingapp "github.com/realty/backend/internal/application/listing"
	"github.com/realty/backend/internal/domain/audit"
)

// OfferHandler handles purchase offer endpoints
type OfferHandler struct {
	BaseHandler
	offerService *listingapp.OfferService
}

// NewOfferHandler creates a new OfferHandler
func NewOfferHandler(offerService *listingapp.OfferService) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

// Create places an offer on a listed property for the calling client
func (h *OfferHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req listingapp.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.offerService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID returns a single offer
func (h *OfferHandler) GetByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid offer ID")
		return
	}

	resp, err := h.offerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListByProperty returns offers placed on a property
func (h *OfferHandler) ListByProperty(c *gin.Context) {
	propertyID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return
	}

	var filter listingapp.OfferListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	offers, err := h.offerService.ListByProperty(c.Request.Context(), propertyID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, offers)
}

// ListMine returns the calling client's offers
func (h *OfferHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter listingapp.OfferListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	offers, err := h.offerService.ListByBuyer(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, offers)
}

// Accept accepts a pending offer and puts the property under offer
func (h *OfferHandler) Accept(c *gin.Context) {
	h.decide(c, h.offerService.Accept)
}

// Reject rejects a pending offer
func (h *OfferHandler) Reject(c *gin.Context) {
	h.decide(c, h.offerService.Reject)
}

// Withdraw lets a buyer pull a pending offer
func (h *OfferHandler) Withdraw(c *gin.Context) {
	h.decide(c, h.offerService.Withdraw)
}

func (h *OfferHandler) decide(c *gin.Context, op func(ctx context.Context, actor audit.Actor, id uuid.UUID) (*listingapp.OfferResponse, error)) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid offer ID")
		return
	}

	resp, err := op(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
