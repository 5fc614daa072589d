package handler

import (
	"github.com/gin-gonic/gin"

	lendingapp "github.com/realty/backend/internal/application/lending"
)

// CreditHandler handles credit history and score endpoints
type CreditHandler struct {
	BaseHandler
	creditService *lendingapp.CreditService
}

// NewCreditHandler creates a new CreditHandler
func NewCreditHandler(creditService *lendingapp.CreditService) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

// RecordEvent appends an entry to a borrower's credit history
func (h *CreditHandler) RecordEvent(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req lendingapp.RecordCreditEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.creditService.RecordEvent(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// History returns a borrower's credit history, oldest first
func (h *CreditHandler) History(c *gin.Context) {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	events, err := h.creditService.History(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, events)
}

// Compute recomputes a borrower's score from their history
func (h *CreditHandler) Compute(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	resp, err := h.creditService.Compute(c.Request.Context(), actor, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Latest returns the most recent score snapshot
func (h *CreditHandler) Latest(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	resp, err := h.creditService.Latest(c.Request.Context(), actor, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MyScore returns the calling client's own score
func (h *CreditHandler) MyScore(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	resp, err := h.creditService.Latest(c.Request.Context(), actor, actor.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
