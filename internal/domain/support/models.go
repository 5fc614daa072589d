package support

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/realty/backend/internal/domain/shared"
)

// The support desk lives in the CRM GraphQL engine, which owns row
// identity and timestamps. These models mirror its tables; the New*
// constructors validate insert inputs before they go over the wire.

// Customer is a support-desk contact
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerInput is the validated payload for creating or updating a customer
type CustomerInput struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// NewCustomerInput validates and normalizes a customer payload
func NewCustomerInput(email, name, phone string) (CustomerInput, error) {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return CustomerInput{}, shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return CustomerInput{}, shared.NewDomainError("INVALID_NAME", "Name must be 1-200 characters")
	}
	return CustomerInput{
		Email: strings.ToLower(addr.Address),
		Name:  name,
		Phone: strings.TrimSpace(phone),
	}, nil
}

// TicketStatus represents the status of a support ticket
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketPriority represents the urgency of a support ticket
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// Ticket is a support request raised by a customer
type Ticket struct {
	ID         uuid.UUID      `json:"id"`
	CustomerID uuid.UUID      `json:"customer_id"`
	Subject    string         `json:"subject"`
	Body       string         `json:"body"`
	Status     TicketStatus   `json:"status"`
	Priority   TicketPriority `json:"priority"`
	AssigneeID *uuid.UUID     `json:"assignee_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// TicketInput is the validated payload for opening a ticket
type TicketInput struct {
	CustomerID uuid.UUID      `json:"customer_id"`
	Subject    string         `json:"subject"`
	Body       string         `json:"body"`
	Priority   TicketPriority `json:"priority"`
}

var validPriorities = map[TicketPriority]bool{
	TicketPriorityLow:    true,
	TicketPriorityMedium: true,
	TicketPriorityHigh:   true,
	TicketPriorityUrgent: true,
}

var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusClosed},
	TicketStatusInProgress: {TicketStatusResolved, TicketStatusOpen},
	TicketStatusResolved:   {TicketStatusClosed, TicketStatusOpen},
	TicketStatusClosed:     {},
}

// NewTicketInput validates a ticket payload. Empty priority defaults
// to medium.
func NewTicketInput(customerID uuid.UUID, subject, body string, priority TicketPriority) (TicketInput, error) {
	if customerID == uuid.Nil {
		return TicketInput{}, shared.NewDomainError("INVALID_INPUT", "Customer is required")
	}
	subject = strings.TrimSpace(subject)
	if subject == "" || len(subject) > 300 {
		return TicketInput{}, shared.NewDomainError("INVALID_INPUT", "Subject must be 1-300 characters")
	}
	if priority == "" {
		priority = TicketPriorityMedium
	}
	if !validPriorities[priority] {
		return TicketInput{}, shared.NewDomainError("INVALID_PRIORITY", "Unknown priority: "+string(priority))
	}
	return TicketInput{
		CustomerID: customerID,
		Subject:    subject,
		Body:       body,
		Priority:   priority,
	}, nil
}

// CanTransition reports whether a ticket may move from one status to another
func CanTransition(from, to TicketStatus) bool {
	for _, s := range ticketTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Feedback is a customer rating, optionally tied to a resolved ticket
type Feedback struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	TicketID   *uuid.UUID `json:"ticket_id"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
	CreatedAt  time.Time  `json:"created_at"`
}

// FeedbackInput is the validated payload for submitting feedback
type FeedbackInput struct {
	CustomerID uuid.UUID  `json:"customer_id"`
	TicketID   *uuid.UUID `json:"ticket_id"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
}

// NewFeedbackInput validates a feedback payload. Ratings run 1 to 5.
func NewFeedbackInput(customerID uuid.UUID, ticketID *uuid.UUID, rating int, comment string) (FeedbackInput, error) {
	if customerID == uuid.Nil {
		return FeedbackInput{}, shared.NewDomainError("INVALID_INPUT", "Customer is required")
	}
	if rating < 1 || rating > 5 {
		return FeedbackInput{}, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	return FeedbackInput{
		CustomerID: customerID,
		TicketID:   ticketID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	}, nil
}
