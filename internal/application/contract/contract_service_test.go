package contract

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/audit"
	"github.com/realty/backend/internal/domain/contract"
	"github.com/realty/backend/internal/domain/listing"
	"github.com/realty/backend/internal/domain/shared"
)

// MockSaleContractRepository is a mock implementation of contract.SaleContractRepository
type MockSaleContractRepository struct {
	mock.Mock
}

func (m *MockSaleContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*contract.SaleContract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contract.SaleContract), args.Error(1)
}

func (m *MockSaleContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]contract.SaleContract, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]contract.SaleContract), args.Error(1)
}

func (m *MockSaleContractRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]contract.SaleContract, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]contract.SaleContract), args.Error(1)
}

func (m *MockSaleContractRepository) FindByParty(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]contract.SaleContract, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]contract.SaleContract), args.Error(1)
}

func (m *MockSaleContractRepository) Save(ctx context.Context, c *contract.SaleContract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockSaleContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockRentalContractRepository is a mock implementation of contract.RentalContractRepository
type MockRentalContractRepository struct {
	mock.Mock
}

func (m *MockRentalContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*contract.RentalContract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contract.RentalContract), args.Error(1)
}

func (m *MockRentalContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]contract.RentalContract, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]contract.RentalContract), args.Error(1)
}

func (m *MockRentalContractRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]contract.RentalContract, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).([]contract.RentalContract), args.Error(1)
}

func (m *MockRentalContractRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]contract.RentalContract, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]contract.RentalContract), args.Error(1)
}

func (m *MockRentalContractRepository) Save(ctx context.Context, c *contract.RentalContract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRentalContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

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

// MockDocumentStore is a mock implementation of DocumentStore
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *MockDocumentStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

func saleProperty(t *testing.T, listingType listing.ListingType) *listing.Property {
	t.Helper()
	p, err := listing.NewProperty("Row House", "5 Pine Ct", "Denver",
		listing.PropertyTypeHouse, listingType, decimal.NewFromInt(380000), uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, p.List())
	return p
}

func TestSaleContractCreateFromAcceptedOffer(t *testing.T) {
	saleRepo := new(MockSaleContractRepository)
	propRepo := new(MockPropertyRepository)
	offerRepo := new(MockOfferRepository)
	svc := NewSaleContractService(saleRepo, propRepo, offerRepo, new(MockDocumentStore), audit.NewNopRecorder(), zap.NewNop())

	property := saleProperty(t, listing.ListingTypeSale)
	offer, err := listing.NewOffer(property.ID, uuid.New(), decimal.NewFromInt(370000), "", nil)
	require.NoError(t, err)
	require.NoError(t, offer.Accept())

	propRepo.On("FindByID", mock.Anything, property.ID).Return(property, nil)
	offerRepo.On("FindByID", mock.Anything, offer.ID).Return(offer, nil)
	saleRepo.On("Save", mock.Anything, mock.AnythingOfType("*contract.SaleContract")).Return(nil)

	resp, err := svc.Create(context.Background(), audit.Actor{ID: uuid.New(), Role: "agent"}, CreateSaleContractRequest{
		PropertyID: property.ID,
		BuyerID:    offer.BuyerID,
		SellerID:   uuid.New(),
		OfferID:    &offer.ID,
		Price:      decimal.NewFromInt(999999),
	})
	require.NoError(t, err)

	// the accepted offer amount wins over the requested price
	assert.True(t, resp.Price.Equal(offer.Amount))
	assert.Equal(t, property.AgentID, resp.AgentID)
	assert.Equal(t, "draft", resp.Status)
}

func TestSaleContractCreateRequiresAcceptedOffer(t *testing.T) {
	saleRepo := new(MockSaleContractRepository)
	propRepo := new(MockPropertyRepository)
	offerRepo := new(MockOfferRepository)
	svc := NewSaleContractService(saleRepo, propRepo, offerRepo, new(MockDocumentStore), audit.NewNopRecorder(), zap.NewNop())

	property := saleProperty(t, listing.ListingTypeSale)
	offer, err := listing.NewOffer(property.ID, uuid.New(), decimal.NewFromInt(370000), "", nil)
	require.NoError(t, err)

	propRepo.On("FindByID", mock.Anything, property.ID).Return(property, nil)
	offerRepo.On("FindByID", mock.Anything, offer.ID).Return(offer, nil)

	_, err = svc.Create(context.Background(), audit.Actor{ID: uuid.New()}, CreateSaleContractRequest{
		PropertyID: property.ID,
		BuyerID:    offer.BuyerID,
		SellerID:   uuid.New(),
		OfferID:    &offer.ID,
		Price:      offer.Amount,
	})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_STATE", derr.Code)
	saleRepo.AssertNotCalled(t, "Save")
}

func TestSaleContractSignClosesProperty(t *testing.T) {
	saleRepo := new(MockSaleContractRepository)
	propRepo := new(MockPropertyRepository)
	svc := NewSaleContractService(saleRepo, propRepo, new(MockOfferRepository), new(MockDocumentStore), audit.NewNopRecorder(), zap.NewNop())

	property := saleProperty(t, listing.ListingTypeSale)
	require.NoError(t, property.MarkUnderOffer())

	sale, err := contract.NewSaleContract(property.ID, uuid.New(), uuid.New(), property.AgentID, nil, decimal.NewFromInt(380000))
	require.NoError(t, err)

	saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
	saleRepo.On("Save", mock.Anything, sale).Return(nil)
	propRepo.On("FindByID", mock.Anything, property.ID).Return(property, nil)
	propRepo.On("Save", mock.Anything, property).Return(nil)

	resp, err := svc.Sign(context.Background(), audit.Actor{ID: uuid.New(), Role: "manager"}, sale.ID)
	require.NoError(t, err)

	assert.Equal(t, "signed", resp.Status)
	assert.Equal(t, listing.PropertyStatusSold, property.Status)
}

func TestSaleContractCancelReturnsPropertyToMarket(t *testing.T) {
	saleRepo := new(MockSaleContractRepository)
	propRepo := new(MockPropertyRepository)
	svc := NewSaleContractService(saleRepo, propRepo, new(MockOfferRepository), new(MockDocumentStore), audit.NewNopRecorder(), zap.NewNop())

	property := saleProperty(t, listing.ListingTypeSale)
	require.NoError(t, property.MarkUnderOffer())

	sale, err := contract.NewSaleContract(property.ID, uuid.New(), uuid.New(), property.AgentID, nil, decimal.NewFromInt(380000))
	require.NoError(t, err)

	saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
	saleRepo.On("Save", mock.Anything, sale).Return(nil)
	propRepo.On("FindByID", mock.Anything, property.ID).Return(property, nil)
	propRepo.On("Save", mock.Anything, property).Return(nil)

	resp, err := svc.Cancel(context.Background(), audit.Actor{ID: uuid.New(), Role: "manager"}, sale.ID)
	require.NoError(t, err)

	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, listing.PropertyStatusListed, property.Status)
}

func TestSaleContractUploadDocument(t *testing.T) {
	saleRepo := new(MockSaleContractRepository)
	docs := new(MockDocumentStore)
	svc := NewSaleContractService(saleRepo, new(MockPropertyRepository), new(MockOfferRepository), docs, audit.NewNopRecorder(), zap.NewNop())

	sale, err := contract.NewSaleContract(uuid.New(), uuid.New(), uuid.New(), uuid.New(), nil, decimal.NewFromInt(100000))
	require.NoError(t, err)

	saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
	saleRepo.On("Save", mock.Anything, sale).Return(nil)
	docs.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return key == "contracts/sale/"+sale.ID.String()+"/signed.pdf"
	}), mock.Anything, int64(4), "application/pdf").Return(nil)

	body := bytes.NewReader([]byte("%PDF"))
	resp, err := svc.UploadDocument(context.Background(), audit.Actor{ID: uuid.New()}, sale.ID, "signed.pdf", body, 4, "application/pdf")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.DocumentKey)
	docs.AssertExpectations(t)
}

func TestRentalContractSignMarksRented(t *testing.T) {
	rentalRepo := new(MockRentalContractRepository)
	propRepo := new(MockPropertyRepository)
	svc := NewRentalContractService(rentalRepo, propRepo, new(MockDocumentStore), audit.NewNopRecorder(), zap.NewNop())

	property := saleProperty(t, listing.ListingTypeRent)
	start := time.Now()
	lease, err := contract.NewRentalContract(property.ID, uuid.New(), uuid.New(), property.AgentID,
		decimal.NewFromInt(1800), decimal.NewFromInt(3600), start, start.AddDate(1, 0, 0))
	require.NoError(t, err)

	rentalRepo.On("FindByID", mock.Anything, lease.ID).Return(lease, nil)
	rentalRepo.On("Save", mock.Anything, lease).Return(nil)
	propRepo.On("FindByID", mock.Anything, property.ID).Return(property, nil)
	propRepo.On("Save", mock.Anything, property).Return(nil)

	resp, err := svc.Sign(context.Background(), audit.Actor{ID: uuid.New(), Role: "agent"}, lease.ID)
	require.NoError(t, err)

	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, listing.PropertyStatusRented, property.Status)
}

func TestRentalContractCreateRejectsSaleListing(t *testing.T) {
	rentalRepo := new(MockRentalContractRepository)
	propRepo := new(MockPropertyRepository)
	svc := NewRentalContractService(rentalRepo, propRepo, new(MockDocumentStore), audit.NewNopRecorder(), zap.NewNop())

	property := saleProperty(t, listing.ListingTypeSale)
	propRepo.On("FindByID", mock.Anything, property.ID).Return(property, nil)

	start := time.Now()
	_, err := svc.Create(context.Background(), audit.Actor{ID: uuid.New()}, CreateRentalContractRequest{
		PropertyID:  property.ID,
		TenantID:    uuid.New(),
		LandlordID:  uuid.New(),
		MonthlyRent: decimal.NewFromInt(1500),
		StartDate:   start,
		EndDate:     start.AddDate(1, 0, 0),
	})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_STATE", derr.Code)
}

func TestRentalContractTerminate(t *testing.T) {
	rentalRepo := new(MockRentalContractRepository)
	svc := NewRentalContractService(rentalRepo, new(MockPropertyRepository), new(MockDocumentStore), audit.NewNopRecorder(), zap.NewNop())

	start := time.Now()
	lease, err := contract.NewRentalContract(uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(1800), decimal.Zero, start, start.AddDate(1, 0, 0))
	require.NoError(t, err)
	require.NoError(t, lease.Sign())

	rentalRepo.On("FindByID", mock.Anything, lease.ID).Return(lease, nil)
	rentalRepo.On("Save", mock.Anything, lease).Return(nil)

	resp, err := svc.Terminate(context.Background(), audit.Actor{ID: uuid.New(), Role: "manager"}, lease.ID)
	require.NoError(t, err)
	assert.Equal(t, "terminated", resp.Status)
	assert.NotNil(t, resp.TerminatedAt)
}
