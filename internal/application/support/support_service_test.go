package support

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/audit"
	"github.com/realty/backend/internal/domain/shared"
	"github.com/realty/backend/internal/domain/support"
)

// MockStore is a mock implementation of support.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) InsertCustomer(ctx context.Context, input support.CustomerInput) (*support.Customer, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*support.Customer), args.Error(1)
}

func (m *MockStore) GetCustomer(ctx context.Context, id uuid.UUID) (*support.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*support.Customer), args.Error(1)
}

func (m *MockStore) FindCustomerByEmail(ctx context.Context, email string) (*support.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*support.Customer), args.Error(1)
}

func (m *MockStore) ListCustomers(ctx context.Context, opts support.ListOptions) ([]support.Customer, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).([]support.Customer), args.Error(1)
}

func (m *MockStore) UpdateCustomer(ctx context.Context, id uuid.UUID, input support.CustomerInput) (*support.Customer, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*support.Customer), args.Error(1)
}

func (m *MockStore) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) InsertTicket(ctx context.Context, input support.TicketInput) (*support.Ticket, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*support.Ticket), args.Error(1)
}

func (m *MockStore) GetTicket(ctx context.Context, id uuid.UUID) (*support.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*support.Ticket), args.Error(1)
}

func (m *MockStore) ListTickets(ctx context.Context, status *support.TicketStatus, opts support.ListOptions) ([]support.Ticket, error) {
	args := m.Called(ctx, status, opts)
	return args.Get(0).([]support.Ticket), args.Error(1)
}

func (m *MockStore) ListTicketsByCustomer(ctx context.Context, customerID uuid.UUID, opts support.ListOptions) ([]support.Ticket, error) {
	args := m.Called(ctx, customerID, opts)
	return args.Get(0).([]support.Ticket), args.Error(1)
}

func (m *MockStore) UpdateTicketStatus(ctx context.Context, id uuid.UUID, status support.TicketStatus) (*support.Ticket, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*support.Ticket), args.Error(1)
}

func (m *MockStore) AssignTicket(ctx context.Context, id uuid.UUID, assigneeID uuid.UUID) (*support.Ticket, error) {
	args := m.Called(ctx, id, assigneeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*support.Ticket), args.Error(1)
}

func (m *MockStore) InsertFeedback(ctx context.Context, input support.FeedbackInput) (*support.Feedback, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*support.Feedback), args.Error(1)
}

func (m *MockStore) ListFeedback(ctx context.Context, opts support.ListOptions) ([]support.Feedback, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).([]support.Feedback), args.Error(1)
}

func (m *MockStore) ListFeedbackByCustomer(ctx context.Context, customerID uuid.UUID, opts support.ListOptions) ([]support.Feedback, error) {
	args := m.Called(ctx, customerID, opts)
	return args.Get(0).([]support.Feedback), args.Error(1)
}

func (m *MockStore) AverageRating(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func newService(store *MockStore) *Service {
	return NewService(store, audit.NewNopRecorder(), zap.NewNop())
}

func storedCustomer(email string) *support.Customer {
	now := time.Now()
	return &support.Customer{ID: uuid.New(), Email: email, Name: "Dana Ito", CreatedAt: now, UpdatedAt: now}
}

func storedTicket(customerID uuid.UUID, status support.TicketStatus) *support.Ticket {
	now := time.Now()
	return &support.Ticket{
		ID:         uuid.New(),
		CustomerID: customerID,
		Subject:    "Water heater broken",
		Status:     status,
		Priority:   support.TicketPriorityMedium,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestCreateCustomerNormalizesEmail(t *testing.T) {
	store := new(MockStore)
	svc := newService(store)

	store.On("FindCustomerByEmail", mock.Anything, "dana@example.com").Return(nil, shared.ErrNotFound)
	store.On("InsertCustomer", mock.Anything, mock.MatchedBy(func(in support.CustomerInput) bool {
		return in.Email == "dana@example.com"
	})).Return(storedCustomer("dana@example.com"), nil)

	resp, err := svc.CreateCustomer(context.Background(), audit.Actor{ID: uuid.New(), Role: "support"}, CreateCustomerRequest{
		Email: "Dana@Example.com",
		Name:  "Dana Ito",
	})
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", resp.Email)
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	store := new(MockStore)
	svc := newService(store)

	store.On("FindCustomerByEmail", mock.Anything, "dana@example.com").Return(storedCustomer("dana@example.com"), nil)

	_, err := svc.CreateCustomer(context.Background(), audit.Actor{ID: uuid.New()}, CreateCustomerRequest{
		Email: "dana@example.com",
		Name:  "Dana Ito",
	})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "ALREADY_EXISTS", derr.Code)
	store.AssertNotCalled(t, "InsertCustomer")
}

func TestOpenTicketDefaultsPriority(t *testing.T) {
	store := new(MockStore)
	svc := newService(store)
	customer := storedCustomer("dana@example.com")

	store.On("GetCustomer", mock.Anything, customer.ID).Return(customer, nil)
	store.On("InsertTicket", mock.Anything, mock.MatchedBy(func(in support.TicketInput) bool {
		return in.Priority == support.TicketPriorityMedium
	})).Return(storedTicket(customer.ID, support.TicketStatusOpen), nil)

	resp, err := svc.OpenTicket(context.Background(), audit.Actor{ID: uuid.New(), Role: "support"}, CreateTicketRequest{
		CustomerID: customer.ID,
		Subject:    "Water heater broken",
	})
	require.NoError(t, err)
	assert.Equal(t, "open", resp.Status)
	store.AssertExpectations(t)
}

func TestChangeTicketStatusValidTransition(t *testing.T) {
	store := new(MockStore)
	svc := newService(store)
	ticket := storedTicket(uuid.New(), support.TicketStatusOpen)

	moved := *ticket
	moved.Status = support.TicketStatusInProgress

	store.On("GetTicket", mock.Anything, ticket.ID).Return(ticket, nil)
	store.On("UpdateTicketStatus", mock.Anything, ticket.ID, support.TicketStatusInProgress).Return(&moved, nil)

	resp, err := svc.ChangeTicketStatus(context.Background(), audit.Actor{ID: uuid.New(), Role: "support"}, ticket.ID, ChangeTicketStatusRequest{
		Status: "in_progress",
	})
	require.NoError(t, err)
	assert.Equal(t, "in_progress", resp.Status)
}

func TestChangeTicketStatusIllegalTransition(t *testing.T) {
	store := new(MockStore)
	svc := newService(store)
	ticket := storedTicket(uuid.New(), support.TicketStatusOpen)

	store.On("GetTicket", mock.Anything, ticket.ID).Return(ticket, nil)

	_, err := svc.ChangeTicketStatus(context.Background(), audit.Actor{ID: uuid.New()}, ticket.ID, ChangeTicketStatusRequest{
		Status: "resolved",
	})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_STATE", derr.Code)
	store.AssertNotCalled(t, "UpdateTicketStatus")
}

func TestChangeTicketStatusClosedIsFinal(t *testing.T) {
	store := new(MockStore)
	svc := newService(store)
	ticket := storedTicket(uuid.New(), support.TicketStatusClosed)

	store.On("GetTicket", mock.Anything, ticket.ID).Return(ticket, nil)

	_, err := svc.ChangeTicketStatus(context.Background(), audit.Actor{ID: uuid.New()}, ticket.ID, ChangeTicketStatusRequest{
		Status: "open",
	})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_STATE", derr.Code)
}

func TestAssignClosedTicketFails(t *testing.T) {
	store := new(MockStore)
	svc := newService(store)
	ticket := storedTicket(uuid.New(), support.TicketStatusClosed)

	store.On("GetTicket", mock.Anything, ticket.ID).Return(ticket, nil)

	_, err := svc.AssignTicket(context.Background(), audit.Actor{ID: uuid.New()}, ticket.ID, AssignTicketRequest{
		AssigneeID: uuid.New(),
	})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_STATE", derr.Code)
}

func TestSubmitFeedbackRequiresResolvedTicket(t *testing.T) {
	store := new(MockStore)
	svc := newService(store)
	customerID := uuid.New()
	ticket := storedTicket(customerID, support.TicketStatusInProgress)

	store.On("GetTicket", mock.Anything, ticket.ID).Return(ticket, nil)

	_, err := svc.SubmitFeedback(context.Background(), audit.Actor{ID: uuid.New()}, SubmitFeedbackRequest{
		CustomerID: customerID,
		TicketID:   &ticket.ID,
		Rating:     4,
	})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_STATE", derr.Code)
	store.AssertNotCalled(t, "InsertFeedback")
}

func TestSubmitFeedbackForResolvedTicket(t *testing.T) {
	store := new(MockStore)
	svc := newService(store)
	customerID := uuid.New()
	ticket := storedTicket(customerID, support.TicketStatusResolved)

	stored := &support.Feedback{
		ID:         uuid.New(),
		CustomerID: customerID,
		TicketID:   &ticket.ID,
		Rating:     5,
		CreatedAt:  time.Now(),
	}

	store.On("GetTicket", mock.Anything, ticket.ID).Return(ticket, nil)
	store.On("InsertFeedback", mock.Anything, mock.MatchedBy(func(in support.FeedbackInput) bool {
		return in.Rating == 5 && in.CustomerID == customerID
	})).Return(stored, nil)

	resp, err := svc.SubmitFeedback(context.Background(), audit.Actor{ID: uuid.New(), Role: "client"}, SubmitFeedbackRequest{
		CustomerID: customerID,
		TicketID:   &ticket.ID,
		Rating:     5,
		Comment:    "Fast turnaround",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Rating)
}

func TestRatingSummary(t *testing.T) {
	store := new(MockStore)
	svc := newService(store)

	store.On("AverageRating", mock.Anything).Return(4.2, nil)

	resp, err := svc.RatingSummary(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 4.2, resp.AverageRating, 0.0001)
}
