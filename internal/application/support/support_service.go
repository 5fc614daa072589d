package support

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/audit"
	"github.com/realty/backend/internal/domain/shared"
	"github.com/realty/backend/internal/domain/support"
)

const defaultPageLimit = 50

// Service fronts the CRM-backed support desk: customers, tickets
// and feedback
type Service struct {
	store    support.Store
	recorder audit.Recorder
	logger   *zap.Logger
}

// NewService creates a new support desk service
func NewService(store support.Store, recorder audit.Recorder, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		recorder: recorder,
		logger:   logger,
	}
}

func pageOptions(q PageQuery) support.ListOptions {
	opts := support.ListOptions{Limit: q.Limit, Offset: q.Offset}
	if opts.Limit <= 0 {
		opts.Limit = defaultPageLimit
	}
	return opts
}

func toCustomerResponse(c *support.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Email:     c.Email,
		Name:      c.Name,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toTicketResponse(t *support.Ticket) TicketResponse {
	return TicketResponse{
		ID:         t.ID,
		CustomerID: t.CustomerID,
		Subject:    t.Subject,
		Body:       t.Body,
		Status:     string(t.Status),
		Priority:   string(t.Priority),
		AssigneeID: t.AssigneeID,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func toFeedbackResponse(f *support.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:         f.ID,
		CustomerID: f.CustomerID,
		TicketID:   f.TicketID,
		Rating:     f.Rating,
		Comment:    f.Comment,
		CreatedAt:  f.CreatedAt,
	}
}

// CreateCustomer registers a contact. Emails are unique within the desk.
func (s *Service) CreateCustomer(ctx context.Context, actor audit.Actor, req CreateCustomerRequest) (*CustomerResponse, error) {
	input, err := support.NewCustomerInput(req.Email, req.Name, req.Phone)
	if err != nil {
		return nil, err
	}

	if existing, err := s.store.FindCustomerByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer already registered: "+input.Email)
	}

	customer, err := s.store.InsertCustomer(ctx, input)
	if err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "customer.create", "customer", customer.ID.String(),
		fmt.Sprintf(`{"email":%q}`, customer.Email))
	s.logger.Info("Support customer registered",
		zap.String("customer_id", customer.ID.String()))

	resp := toCustomerResponse(customer)
	return &resp, nil
}

// GetCustomer fetches a customer by ID
func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toCustomerResponse(customer)
	return &resp, nil
}

// ListCustomers lists customers, newest first
func (s *Service) ListCustomers(ctx context.Context, q PageQuery) ([]CustomerResponse, error) {
	customers, err := s.store.ListCustomers(ctx, pageOptions(q))
	if err != nil {
		return nil, err
	}
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = toCustomerResponse(&customers[i])
	}
	return out, nil
}

// UpdateCustomer updates a contact's details
func (s *Service) UpdateCustomer(ctx context.Context, actor audit.Actor, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	input, err := support.NewCustomerInput(req.Email, req.Name, req.Phone)
	if err != nil {
		return nil, err
	}

	customer, err := s.store.UpdateCustomer(ctx, id, input)
	if err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "customer.update", "customer", id.String(), "")
	resp := toCustomerResponse(customer)
	return &resp, nil
}

// DeleteCustomer removes a contact
func (s *Service) DeleteCustomer(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	if err := s.store.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	audit.Log(ctx, s.recorder, actor, "customer.delete", "customer", id.String(), "")
	return nil
}

// OpenTicket opens a support ticket for a registered customer
func (s *Service) OpenTicket(ctx context.Context, actor audit.Actor, req CreateTicketRequest) (*TicketResponse, error) {
	if _, err := s.store.GetCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	input, err := support.NewTicketInput(req.CustomerID, req.Subject, req.Body, support.TicketPriority(req.Priority))
	if err != nil {
		return nil, err
	}

	ticket, err := s.store.InsertTicket(ctx, input)
	if err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "ticket.open", "ticket", ticket.ID.String(),
		fmt.Sprintf(`{"customer_id":%q,"priority":%q}`, req.CustomerID, input.Priority))
	s.logger.Info("Support ticket opened",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("priority", string(input.Priority)))

	resp := toTicketResponse(ticket)
	return &resp, nil
}

// GetTicket fetches a ticket by ID
func (s *Service) GetTicket(ctx context.Context, id uuid.UUID) (*TicketResponse, error) {
	ticket, err := s.store.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toTicketResponse(ticket)
	return &resp, nil
}

// ListTickets lists tickets, optionally filtered by status
func (s *Service) ListTickets(ctx context.Context, status string, q PageQuery) ([]TicketResponse, error) {
	var filter *support.TicketStatus
	if status != "" {
		st := support.TicketStatus(status)
		filter = &st
	}

	tickets, err := s.store.ListTickets(ctx, filter, pageOptions(q))
	if err != nil {
		return nil, err
	}
	out := make([]TicketResponse, len(tickets))
	for i := range tickets {
		out[i] = toTicketResponse(&tickets[i])
	}
	return out, nil
}

// ListTicketsByCustomer lists a customer's tickets
func (s *Service) ListTicketsByCustomer(ctx context.Context, customerID uuid.UUID, q PageQuery) ([]TicketResponse, error) {
	tickets, err := s.store.ListTicketsByCustomer(ctx, customerID, pageOptions(q))
	if err != nil {
		return nil, err
	}
	out := make([]TicketResponse, len(tickets))
	for i := range tickets {
		out[i] = toTicketResponse(&tickets[i])
	}
	return out, nil
}

// ChangeTicketStatus moves a ticket along its lifecycle. Illegal
// transitions are rejected before touching the CRM.
func (s *Service) ChangeTicketStatus(ctx context.Context, actor audit.Actor, id uuid.UUID, req ChangeTicketStatusRequest) (*TicketResponse, error) {
	ticket, err := s.store.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	target := support.TicketStatus(req.Status)
	if !support.CanTransition(ticket.Status, target) {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Ticket cannot move from %s to %s", ticket.Status, target))
	}

	updated, err := s.store.UpdateTicketStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "ticket.change_status", "ticket", id.String(),
		fmt.Sprintf(`{"from":%q,"to":%q}`, ticket.Status, target))

	resp := toTicketResponse(updated)
	return &resp, nil
}

// AssignTicket sets a ticket's assignee
func (s *Service) AssignTicket(ctx context.Context, actor audit.Actor, id uuid.UUID, req AssignTicketRequest) (*TicketResponse, error) {
	ticket, err := s.store.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status == support.TicketStatusClosed {
		return nil, shared.NewDomainError("INVALID_STATE", "Closed tickets cannot be reassigned")
	}

	updated, err := s.store.AssignTicket(ctx, id, req.AssigneeID)
	if err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "ticket.assign", "ticket", id.String(),
		fmt.Sprintf(`{"assignee_id":%q}`, req.AssigneeID))

	resp := toTicketResponse(updated)
	return &resp, nil
}

// SubmitFeedback records a customer rating. Feedback tied to a ticket
// requires the ticket to be resolved or closed.
func (s *Service) SubmitFeedback(ctx context.Context, actor audit.Actor, req SubmitFeedbackRequest) (*FeedbackResponse, error) {
	input, err := support.NewFeedbackInput(req.CustomerID, req.TicketID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	if req.TicketID != nil {
		ticket, err := s.store.GetTicket(ctx, *req.TicketID)
		if err != nil {
			return nil, err
		}
		if ticket.Status != support.TicketStatusResolved && ticket.Status != support.TicketStatusClosed {
			return nil, shared.NewDomainError("INVALID_STATE", "Feedback requires a resolved or closed ticket")
		}
		if ticket.CustomerID != req.CustomerID {
			return nil, shared.NewDomainError("INVALID_INPUT", "Ticket belongs to a different customer")
		}
	}

	feedback, err := s.store.InsertFeedback(ctx, input)
	if err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "feedback.submit", "feedback", feedback.ID.String(),
		fmt.Sprintf(`{"rating":%d}`, req.Rating))

	resp := toFeedbackResponse(feedback)
	return &resp, nil
}

// ListFeedback lists feedback, newest first
func (s *Service) ListFeedback(ctx context.Context, q PageQuery) ([]FeedbackResponse, error) {
	items, err := s.store.ListFeedback(ctx, pageOptions(q))
	if err != nil {
		return nil, err
	}
	out := make([]FeedbackResponse, len(items))
	for i := range items {
		out[i] = toFeedbackResponse(&items[i])
	}
	return out, nil
}

// RatingSummary returns the mean feedback rating
func (s *Service) RatingSummary(ctx context.Context) (*RatingSummaryResponse, error) {
	avg, err := s.store.AverageRating(ctx)
	if err != nil {
		return nil, err
	}
	return &RatingSummaryResponse{AverageRating: avg}, nil
}
