package handler

import (
	"github.com/gin-gonic/gin"

	supportapp "github.com/realty/backend/internal/application/support"
)

// SupportHandler handles CRM customer, ticket and feedback endpoints
type SupportHandler struct {
	BaseHandler
	supportService *supportapp.Service
}

// NewSupportHandler creates a new SupportHandler
func NewSupportHandler(supportService *supportapp.Service) *SupportHandler {
	return &SupportHandler{supportService: supportService}
}

// CreateCustomer registers a CRM customer record
func (h *SupportHandler) CreateCustomer(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req supportapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.supportService.CreateCustomer(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetCustomer returns a single CRM customer
func (h *SupportHandler) GetCustomer(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	resp, err := h.supportService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListCustomers pages through CRM customers
func (h *SupportHandler) ListCustomers(c *gin.Context) {
	var q supportapp.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}

	customers, err := h.supportService.ListCustomers(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customers)
}

// UpdateCustomer changes a CRM customer's contact details
func (h *SupportHandler) UpdateCustomer(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var req supportapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.supportService.UpdateCustomer(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteCustomer removes a CRM customer record
func (h *SupportHandler) DeleteCustomer(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	if err := h.supportService.DeleteCustomer(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// OpenTicket files a support ticket for a customer
func (h *SupportHandler) OpenTicket(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req supportapp.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.supportService.OpenTicket(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetTicket returns a single ticket
func (h *SupportHandler) GetTicket(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	resp, err := h.supportService.GetTicket(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListTickets pages through tickets, optionally filtered by status
func (h *SupportHandler) ListTickets(c *gin.Context) {
	var q supportapp.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}

	tickets, err := h.supportService.ListTickets(c.Request.Context(), c.Query("status"), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tickets)
}

// ListTicketsByCustomer returns a customer's tickets
func (h *SupportHandler) ListTicketsByCustomer(c *gin.Context) {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	var q supportapp.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}

	tickets, err := h.supportService.ListTicketsByCustomer(c.Request.Context(), customerID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tickets)
}

// ChangeTicketStatus moves a ticket through its workflow
func (h *SupportHandler) ChangeTicketStatus(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	var req supportapp.ChangeTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.supportService.ChangeTicketStatus(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AssignTicket routes a ticket to a staff member
func (h *SupportHandler) AssignTicket(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}

	var req supportapp.AssignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.supportService.AssignTicket(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SubmitFeedback records a satisfaction rating
func (h *SupportHandler) SubmitFeedback(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req supportapp.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.supportService.SubmitFeedback(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListFeedback pages through submitted feedback
func (h *SupportHandler) ListFeedback(c *gin.Context) {
	var q supportapp.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}

	feedback, err := h.supportService.ListFeedback(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, feedback)
}

// RatingSummary returns the average rating and distribution
func (h *SupportHandler) RatingSummary(c *gin.Context) {
	resp, err := h.supportService.RatingSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
