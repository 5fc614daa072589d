package listing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/audit"
	"github.com/realty/backend/internal/domain/listing"
	"github.com/realty/backend/internal/domain/shared"
)

// MockPropertyRepository is a mock implementation of listing.PropertyRepository
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]listing.Property, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]listing.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) ([]listing.Property, error) {
	args := m.Called(ctx, agentID, filter)
	return args.Get(0).([]listing.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]listing.Property, error) {
	args := m.Called(ctx, branchID, filter)
	return args.Get(0).([]listing.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByStatus(ctx context.Context, status listing.PropertyStatus, filter shared.Filter) ([]listing.Property, error) {
	args := m.Called(ctx, status, filter)
	return args.Get(0).([]listing.Property), args.Error(1)
}

func (m *MockPropertyRepository) Save(ctx context.Context, property *listing.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPropertyRepository) CountByStatus(ctx context.Context, status listing.PropertyStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockOfferRepository is a mock implementation of listing.OfferRepository
type MockOfferRepository struct {
	mock.Mock
}

func (m *MockOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Offer), args.Error(1)
}

func (m *MockOfferRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID, filter shared.Filter) ([]listing.Offer, error) {
	args := m.Called(ctx, propertyID, filter)
	return args.Get(0).([]listing.Offer), args.Error(1)
}

func (m *MockOfferRepository) FindPendingByProperty(ctx context.Context, propertyID uuid.UUID) ([]listing.Offer, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]listing.Offer), args.Error(1)
}

func (m *MockOfferRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]listing.Offer, error) {
	args := m.Called(ctx, buyerID, filter)
	return args.Get(0).([]listing.Offer), args.Error(1)
}

func (m *MockOfferRepository) Save(ctx context.Context, offer *listing.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *MockOfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOfferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func listedProperty(t *testing.T) *listing.Property {
	t.Helper()
	p, err := listing.NewProperty("3BR House", "12 Oak St", "Springfield",
		listing.PropertyTypeHouse, listing.ListingTypeSale, decimal.NewFromInt(450000), uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, p.List())
	return p
}

func pendingOffer(t *testing.T, propertyID uuid.UUID) *listing.Offer {
	t.Helper()
	o, err := listing.NewOffer(propertyID, uuid.New(), decimal.NewFromInt(430000), "", nil)
	require.NoError(t, err)
	return o
}

func newOfferService(offerRepo *MockOfferRepository, propRepo *MockPropertyRepository) *OfferService {
	return NewOfferService(offerRepo, propRepo, audit.NewNopRecorder(), zap.NewNop())
}

func TestOfferCreate(t *testing.T) {
	offerRepo := new(MockOfferRepository)
	propRepo := new(MockPropertyRepository)
	svc := newOfferService(offerRepo, propRepo)

	property := listedProperty(t)
	buyer := audit.Actor{ID: uuid.New(), Role: "client"}

	propRepo.On("FindByID", mock.Anything, property.ID).Return(property, nil)
	offerRepo.On("Save", mock.Anything, mock.AnythingOfType("*listing.Offer")).Return(nil)

	resp, err := svc.Create(context.Background(), buyer, CreateOfferRequest{
		PropertyID: property.ID,
		Amount:     decimal.NewFromInt(440000),
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, buyer.ID, resp.BuyerID)
}

func TestOfferCreateOnClosedListing(t *testing.T) {
	offerRepo := new(MockOfferRepository)
	propRepo := new(MockPropertyRepository)
	svc := newOfferService(offerRepo, propRepo)

	property := listedProperty(t)
	require.NoError(t, property.Withdraw())
	propRepo.On("FindByID", mock.Anything, property.ID).Return(property, nil)

	_, err := svc.Create(context.Background(), audit.Actor{ID: uuid.New()}, CreateOfferRequest{
		PropertyID: property.ID,
		Amount:     decimal.NewFromInt(1000),
	})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_STATE", derr.Code)
}

func TestOfferAcceptRejectsCompeting(t *testing.T) {
	offerRepo := new(MockOfferRepository)
	propRepo := new(MockPropertyRepository)
	svc := newOfferService(offerRepo, propRepo)

	property := listedProperty(t)
	winner := pendingOffer(t, property.ID)
	loser1 := pendingOffer(t, property.ID)
	loser2 := pendingOffer(t, property.ID)

	offerRepo.On("FindByID", mock.Anything, winner.ID).Return(winner, nil)
	propRepo.On("FindByID", mock.Anything, property.ID).Return(property, nil)
	offerRepo.On("FindPendingByProperty", mock.Anything, property.ID).
		Return([]listing.Offer{*winner, *loser1, *loser2}, nil)
	offerRepo.On("Save", mock.Anything, mock.AnythingOfType("*listing.Offer")).Return(nil)
	propRepo.On("Save", mock.Anything, property).Return(nil)

	resp, err := svc.Accept(context.Background(), audit.Actor{ID: uuid.New(), Role: "agent"}, winner.ID)
	require.NoError(t, err)

	assert.Equal(t, "accepted", resp.Status)
	assert.Equal(t, listing.PropertyStatusUnderOffer, property.Status)
	// winner + two rejected competitors + the property itself
	offerRepo.AssertNumberOfCalls(t, "Save", 3)
}

func TestOfferAcceptTwiceFails(t *testing.T) {
	offerRepo := new(MockOfferRepository)
	propRepo := new(MockPropertyRepository)
	svc := newOfferService(offerRepo, propRepo)

	property := listedProperty(t)
	offer := pendingOffer(t, property.ID)
	require.NoError(t, offer.Accept())

	offerRepo.On("FindByID", mock.Anything, offer.ID).Return(offer, nil)
	propRepo.On("FindByID", mock.Anything, property.ID).Return(property, nil)

	_, err := svc.Accept(context.Background(), audit.Actor{ID: uuid.New()}, offer.ID)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_STATE", derr.Code)
}

func TestOfferWithdrawOnlyByBuyer(t *testing.T) {
	offerRepo := new(MockOfferRepository)
	propRepo := new(MockPropertyRepository)
	svc := newOfferService(offerRepo, propRepo)

	offer := pendingOffer(t, uuid.New())
	offerRepo.On("FindByID", mock.Anything, offer.ID).Return(offer, nil)

	_, err := svc.Withdraw(context.Background(), audit.Actor{ID: uuid.New(), Role: "client"}, offer.ID)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "FORBIDDEN", derr.Code)

	offerRepo.On("Save", mock.Anything, offer).Return(nil)
	resp, err := svc.Withdraw(context.Background(), audit.Actor{ID: offer.BuyerID, Role: "client"}, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, "withdrawn", resp.Status)
}
