package support

import (
	"time"

	"github.com/google/uuid"
)

// CreateCustomerRequest registers a support-desk contact
type CreateCustomerRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Phone string `json:"phone" binding:"max=50"`
}

// UpdateCustomerRequest updates a contact's details
type UpdateCustomerRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Phone string `json:"phone" binding:"max=50"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateTicketRequest opens a support ticket
type CreateTicketRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	Subject    string    `json:"subject" binding:"required,min=1,max=300"`
	Body       string    `json:"body"`
	Priority   string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
}

// ChangeTicketStatusRequest moves a ticket through its lifecycle
type ChangeTicketStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_progress resolved closed"`
}

// AssignTicketRequest sets a ticket's assignee
type AssignTicketRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id" binding:"required"`
}

// TicketResponse represents a ticket in API responses
type TicketResponse struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	Status     string     `json:"status"`
	Priority   string     `json:"priority"`
	AssigneeID *uuid.UUID `json:"assignee_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// SubmitFeedbackRequest records a customer rating
type SubmitFeedbackRequest struct {
	CustomerID uuid.UUID  `json:"customer_id" binding:"required"`
	TicketID   *uuid.UUID `json:"ticket_id"`
	Rating     int        `json:"rating" binding:"required,min=1,max=5"`
	Comment    string     `json:"comment" binding:"max=2000"`
}

// FeedbackResponse represents feedback in API responses
type FeedbackResponse struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	TicketID   *uuid.UUID `json:"ticket_id"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
	CreatedAt  time.Time  `json:"created_at"`
}

// RatingSummaryResponse carries the mean feedback rating
type RatingSummaryResponse struct {
	AverageRating float64 `json:"average_rating"`
}

// PageQuery pages support-desk lists
type PageQuery struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}
