package support

import (
	"context"

	"github.com/google/uuid"
)

// ListOptions pages CRM queries
type ListOptions struct {
	Limit  int
	Offset int
}

// Store is the port to the CRM GraphQL engine. Implementations
// translate these calls into GraphQL documents.
type Store interface {
	// InsertCustomer inserts a customer and returns the engine-assigned row
	InsertCustomer(ctx context.Context, input CustomerInput) (*Customer, error)

	// GetCustomer fetches a customer by ID
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindCustomerByEmail fetches a customer by email
	FindCustomerByEmail(ctx context.Context, email string) (*Customer, error)

	// ListCustomers lists customers, newest first
	ListCustomers(ctx context.Context, opts ListOptions) ([]Customer, error)

	// UpdateCustomer updates a customer's contact fields
	UpdateCustomer(ctx context.Context, id uuid.UUID, input CustomerInput) (*Customer, error)

	// DeleteCustomer deletes a customer
	DeleteCustomer(ctx context.Context, id uuid.UUID) error

	// InsertTicket opens a ticket
	InsertTicket(ctx context.Context, input TicketInput) (*Ticket, error)

	// GetTicket fetches a ticket by ID
	GetTicket(ctx context.Context, id uuid.UUID) (*Ticket, error)

	// ListTickets lists tickets, optionally filtered by status
	ListTickets(ctx context.Context, status *TicketStatus, opts ListOptions) ([]Ticket, error)

	// ListTicketsByCustomer lists a customer's tickets
	ListTicketsByCustomer(ctx context.Context, customerID uuid.UUID, opts ListOptions) ([]Ticket, error)

	// UpdateTicketStatus sets a ticket's status
	UpdateTicketStatus(ctx context.Context, id uuid.UUID, status TicketStatus) (*Ticket, error)

	// AssignTicket sets a ticket's assignee
	AssignTicket(ctx context.Context, id uuid.UUID, assigneeID uuid.UUID) (*Ticket, error)

	// InsertFeedback records customer feedback
	InsertFeedback(ctx context.Context, input FeedbackInput) (*Feedback, error)

	// ListFeedback lists feedback, newest first
	ListFeedback(ctx context.Context, opts ListOptions) ([]Feedback, error)

	// ListFeedbackByCustomer lists a customer's feedback
	ListFeedbackByCustomer(ctx context.Context, customerID uuid.UUID, opts ListOptions) ([]Feedback, error)

	// AverageRating returns the mean feedback rating
	AverageRating(ctx context.Context) (float64, error)
}
