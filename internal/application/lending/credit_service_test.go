package lending

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/audit"
	"github.com/realty/backend/internal/domain/lending"
	"github.com/realty/backend/internal/domain/shared"
)

type creditFixture struct {
	loanRepo  *MockLoanRepository
	eventRepo *MockCreditEventRepository
	scoreRepo *MockCreditScoreRepository
	svc       *CreditService
}

func newCreditFixture() *creditFixture {
	f := &creditFixture{
		loanRepo:  new(MockLoanRepository),
		eventRepo: new(MockCreditEventRepository),
		scoreRepo: new(MockCreditScoreRepository),
	}
	f.svc = NewCreditService(f.loanRepo, f.eventRepo, f.scoreRepo, audit.NewNopRecorder(), zap.NewNop())
	return f
}

func creditEvent(t *testing.T, userID uuid.UUID, eventType lending.CreditEventType, at time.Time) lending.CreditEvent {
	t.Helper()
	e, err := lending.NewCreditEvent(userID, eventType, decimal.NewFromInt(1000), at, "")
	require.NoError(t, err)
	return *e
}

func TestRecordEvent(t *testing.T) {
	f := newCreditFixture()
	userID := uuid.New()

	f.eventRepo.On("Save", mock.Anything, mock.AnythingOfType("*lending.CreditEvent")).Return(nil)

	resp, err := f.svc.RecordEvent(context.Background(), audit.Actor{ID: uuid.New(), Role: "supervisor"}, RecordCreditEventRequest{
		UserID: userID,
		Type:   "late_payment",
		Amount: decimal.NewFromInt(1200),
	})
	require.NoError(t, err)
	assert.Equal(t, "late_payment", resp.Type)
	assert.Equal(t, userID, resp.UserID)
}

func TestRecordEventUnknownType(t *testing.T) {
	f := newCreditFixture()

	_, err := f.svc.RecordEvent(context.Background(), audit.Actor{ID: uuid.New()}, RecordCreditEventRequest{
		UserID: uuid.New(),
		Type:   "bankruptcy",
	})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_TYPE", derr.Code)
	f.eventRepo.AssertNotCalled(t, "Save")
}

func TestComputePersistsSnapshot(t *testing.T) {
	f := newCreditFixture()
	userID := uuid.New()
	now := time.Now()

	events := []lending.CreditEvent{
		creditEvent(t, userID, lending.CreditEventOnTimePayment, now.AddDate(0, -3, 0)),
		creditEvent(t, userID, lending.CreditEventOnTimePayment, now.AddDate(0, -2, 0)),
		creditEvent(t, userID, lending.CreditEventLatePayment, now.AddDate(0, -1, 0)),
	}

	f.eventRepo.On("FindByUser", mock.Anything, userID).Return(events, nil)
	f.loanRepo.On("CountActiveByBorrower", mock.Anything, userID).Return(int64(1), nil)
	f.loanRepo.On("FindByBorrower", mock.Anything, userID, mock.Anything).Return([]lending.Loan{}, nil)
	f.scoreRepo.On("Save", mock.Anything, mock.MatchedBy(func(s *lending.CreditScore) bool {
		return s.UserID == userID && s.Value == 580
	})).Return(nil)

	resp, err := f.svc.Compute(context.Background(), audit.Actor{ID: uuid.New(), Role: "supervisor"}, userID)
	require.NoError(t, err)

	// 600 + 5 + 5 - 30
	assert.Equal(t, 580, resp.Value)
	assert.Equal(t, "fair", resp.Band)
	f.scoreRepo.AssertExpectations(t)
}

func TestComputeCountsActiveDebt(t *testing.T) {
	f := newCreditFixture()
	userID := uuid.New()

	loan, err := lending.NewLoan(userID, nil, decimal.NewFromInt(600000), 360, "")
	require.NoError(t, err)
	require.NoError(t, loan.Submit())
	require.NoError(t, loan.StartReview(uuid.New()))
	require.NoError(t, loan.Approve(decimal.NewFromInt(5)))
	require.NoError(t, loan.Disburse())

	f.eventRepo.On("FindByUser", mock.Anything, userID).Return([]lending.CreditEvent{}, nil)
	f.loanRepo.On("CountActiveByBorrower", mock.Anything, userID).Return(int64(1), nil)
	f.loanRepo.On("FindByBorrower", mock.Anything, userID, mock.Anything).Return([]lending.Loan{*loan}, nil)
	f.scoreRepo.On("Save", mock.Anything, mock.AnythingOfType("*lending.CreditScore")).Return(nil)

	resp, err := f.svc.Compute(context.Background(), audit.Actor{ID: uuid.New()}, userID)
	require.NoError(t, err)

	// 600 - 40 for debt above 500000
	assert.Equal(t, 560, resp.Value)
	assert.Equal(t, "poor", resp.Band)
}

func TestLatestFallsBackToCompute(t *testing.T) {
	f := newCreditFixture()
	userID := uuid.New()

	f.scoreRepo.On("FindLatestByUser", mock.Anything, userID).Return(nil, shared.ErrNotFound)
	f.eventRepo.On("FindByUser", mock.Anything, userID).Return([]lending.CreditEvent{}, nil)
	f.loanRepo.On("CountActiveByBorrower", mock.Anything, userID).Return(int64(0), nil)
	f.loanRepo.On("FindByBorrower", mock.Anything, userID, mock.Anything).Return([]lending.Loan{}, nil)
	f.scoreRepo.On("Save", mock.Anything, mock.AnythingOfType("*lending.CreditScore")).Return(nil)

	resp, err := f.svc.Latest(context.Background(), audit.Actor{ID: uuid.New()}, userID)
	require.NoError(t, err)
	assert.Equal(t, 600, resp.Value)
}

func TestLatestReturnsSnapshot(t *testing.T) {
	f := newCreditFixture()
	userID := uuid.New()

	snapshot, err := lending.NewCreditScore(userID, 720)
	require.NoError(t, err)
	f.scoreRepo.On("FindLatestByUser", mock.Anything, userID).Return(snapshot, nil)

	resp, err := f.svc.Latest(context.Background(), audit.Actor{ID: uuid.New()}, userID)
	require.NoError(t, err)
	assert.Equal(t, 720, resp.Value)
	assert.Equal(t, "good", resp.Band)
	f.loanRepo.AssertNotCalled(t, "CountActiveByBorrower")
}
