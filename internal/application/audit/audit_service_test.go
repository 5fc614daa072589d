package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/audit"
	"github.com/realty/backend/internal/domain/shared"
)

// MockRepository is a mock implementation of audit.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Save(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRepository) FindAll(ctx context.Context, filter shared.Filter) ([]audit.Entry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]audit.Entry), args.Error(1)
}

func (m *MockRepository) FindByEntity(ctx context.Context, entityType, entityID string) ([]audit.Entry, error) {
	args := m.Called(ctx, entityType, entityID)
	return args.Get(0).([]audit.Entry), args.Error(1)
}

func (m *MockRepository) FindByActor(ctx context.Context, actorID uuid.UUID, filter shared.Filter) ([]audit.Entry, error) {
	args := m.Called(ctx, actorID, filter)
	return args.Get(0).([]audit.Entry), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func sampleEntry(t *testing.T, action string) audit.Entry {
	t.Helper()
	e, err := audit.NewEntry(uuid.New(), "manager", action, "property", uuid.New().String(), "", "10.0.0.1")
	require.NoError(t, err)
	return *e
}

func TestListFiltersAndOrders(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, zap.NewNop())

	entry := sampleEntry(t, "property.publish")
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.OrderBy == "occurred_at" && f.OrderDir == "desc" && f.Filters["action"] == "property.publish"
	})).Return([]audit.Entry{entry}, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

	entries, total, err := svc.List(context.Background(), EntryListFilter{Action: "property.publish"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, "property.publish", entries[0].Action)
}

func TestListByEntityValidatesInput(t *testing.T) {
	svc := NewService(new(MockRepository), zap.NewNop())

	_, err := svc.ListByEntity(context.Background(), "", "abc")
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_INPUT", derr.Code)
}

func TestRecorderSwallowsSaveFailure(t *testing.T) {
	repo := new(MockRepository)
	rec := NewRecorder(repo, zap.NewNop())

	repo.On("Save", mock.Anything, mock.AnythingOfType("*audit.Entry")).Return(errors.New("connection reset"))

	entry, err := audit.NewEntry(uuid.New(), "agent", "offer.create", "offer", uuid.New().String(), "", "")
	require.NoError(t, err)

	// must not panic or propagate the failure
	rec.Record(context.Background(), entry)
	repo.AssertExpectations(t)
}

func TestRecorderPersistsThroughLogHelper(t *testing.T) {
	repo := new(MockRepository)
	rec := NewRecorder(repo, zap.NewNop())

	repo.On("Save", mock.Anything, mock.MatchedBy(func(e *audit.Entry) bool {
		return e.Action == "loan.approve" && e.ActorRole == "supervisor"
	})).Return(nil)

	actor := audit.Actor{ID: uuid.New(), Role: "supervisor", IP: "10.1.2.3"}
	audit.Log(context.Background(), rec, actor, "loan.approve", "loan", uuid.New().String(), `{"rate":"6"}`)

	repo.AssertExpectations(t)
}
