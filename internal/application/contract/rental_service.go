package contract

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/audit"
	"github.com/realty/backend/internal/domain/contract"
	"github.com/realty/backend/internal/domain/listing"
	"github.com/realty/backend/internal/domain/shared"
)

// RentalContractService handles drafting, signing and terminating leases
type RentalContractService struct {
	rentalRepo   contract.RentalContractRepository
	propertyRepo listing.PropertyRepository
	documents    DocumentStore
	recorder     audit.Recorder
	logger       *zap.Logger
}

// NewRentalContractService creates a new rental contract service
func NewRentalContractService(
	rentalRepo contract.RentalContractRepository,
	propertyRepo listing.PropertyRepository,
	documents DocumentStore,
	recorder audit.Recorder,
	logger *zap.Logger,
) *RentalContractService {
	return &RentalContractService{
		rentalRepo:   rentalRepo,
		propertyRepo: propertyRepo,
		documents:    documents,
		recorder:     recorder,
		logger:       logger,
	}
}

// Create drafts a lease for a rental property
func (s *RentalContractService) Create(ctx context.Context, actor audit.Actor, req CreateRentalContractRequest) (*RentalContractResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.ListingType != listing.ListingTypeRent {
		return nil, shared.NewDomainError("INVALID_STATE", "Leases only apply to rental listings")
	}

	lease, err := contract.NewRentalContract(req.PropertyID, req.TenantID, req.LandlordID, property.AgentID,
		req.MonthlyRent, req.Deposit, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := s.rentalRepo.Save(ctx, lease); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "rental_contract.create", "rental_contract", lease.ID.String(),
		fmt.Sprintf(`{"property_id":%q,"monthly_rent":%q}`, req.PropertyID, req.MonthlyRent))
	s.logger.Info("Lease drafted",
		zap.String("contract_id", lease.ID.String()),
		zap.String("property_id", req.PropertyID.String()))

	resp := ToRentalContractResponse(lease)
	return &resp, nil
}

// GetByID retrieves a rental contract by ID
func (s *RentalContractService) GetByID(ctx context.Context, id uuid.UUID) (*RentalContractResponse, error) {
	lease, err := s.rentalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToRentalContractResponse(lease)
	return &resp, nil
}

// List lists rental contracts with pagination and filters
func (s *RentalContractService) List(ctx context.Context, filter ContractListFilter) ([]RentalContractResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	contracts, err := s.rentalRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.rentalRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToRentalContractResponses(contracts), total, nil
}

// ListByTenant lists a tenant's leases
func (s *RentalContractService) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]RentalContractResponse, error) {
	contracts, err := s.rentalRepo.FindByTenant(ctx, tenantID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return ToRentalContractResponses(contracts), nil
}

// Sign activates the lease and closes the property as rented
func (s *RentalContractService) Sign(ctx context.Context, actor audit.Actor, id uuid.UUID) (*RentalContractResponse, error) {
	lease, err := s.rentalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	property, err := s.propertyRepo.FindByID(ctx, lease.PropertyID)
	if err != nil {
		return nil, err
	}

	if err := lease.Sign(); err != nil {
		return nil, err
	}
	if property.Status == listing.PropertyStatusListed {
		if err := property.MarkUnderOffer(); err != nil {
			return nil, err
		}
	}
	if err := property.MarkRented(); err != nil {
		return nil, err
	}

	if err := s.rentalRepo.Save(ctx, lease); err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "rental_contract.sign", "rental_contract", id.String(),
		fmt.Sprintf(`{"property_id":%q}`, lease.PropertyID))
	s.logger.Info("Lease signed",
		zap.String("contract_id", id.String()),
		zap.String("property_id", lease.PropertyID.String()))

	resp := ToRentalContractResponse(lease)
	return &resp, nil
}

// Terminate ends an active lease early and relists the property
func (s *RentalContractService) Terminate(ctx context.Context, actor audit.Actor, id uuid.UUID) (*RentalContractResponse, error) {
	return s.close(ctx, actor, id, "rental_contract.terminate", (*contract.RentalContract).Terminate)
}

// MarkExpired closes a lease that has passed its end date and relists
// the property
func (s *RentalContractService) MarkExpired(ctx context.Context, actor audit.Actor, id uuid.UUID) (*RentalContractResponse, error) {
	return s.close(ctx, actor, id, "rental_contract.expire", func(c *contract.RentalContract) error {
		return c.MarkExpired(time.Now())
	})
}

func (s *RentalContractService) close(ctx context.Context, actor audit.Actor, id uuid.UUID, action string, op func(*contract.RentalContract) error) (*RentalContractResponse, error) {
	lease, err := s.rentalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(lease); err != nil {
		return nil, err
	}
	if err := s.rentalRepo.Save(ctx, lease); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, action, "rental_contract", id.String(), "")
	resp := ToRentalContractResponse(lease)
	return &resp, nil
}

// UploadDocument stores the signed lease copy and attaches its key
func (s *RentalContractService) UploadDocument(ctx context.Context, actor audit.Actor, id uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (*RentalContractResponse, error) {
	lease, err := s.rentalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("contracts/rental/%s/%s", id, path.Base(filename))
	if err := s.documents.Upload(ctx, key, reader, size, contentType); err != nil {
		return nil, shared.NewDomainError("EXTERNAL_SERVICE", "Failed to store contract document")
	}
	if err := lease.AttachDocument(key); err != nil {
		return nil, err
	}
	if err := s.rentalRepo.Save(ctx, lease); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "rental_contract.upload_document", "rental_contract", id.String(),
		fmt.Sprintf(`{"key":%q}`, key))
	resp := ToRentalContractResponse(lease)
	return &resp, nil
}

// DocumentURL returns a time-limited download link for the stored copy
func (s *RentalContractService) DocumentURL(ctx context.Context, id uuid.UUID) (*DocumentURLResponse, error) {
	lease, err := s.rentalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lease.DocumentKey == "" {
		return nil, shared.NewDomainError("NOT_FOUND", "Contract has no stored document")
	}

	url, err := s.documents.PresignedURL(ctx, lease.DocumentKey, documentURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("EXTERNAL_SERVICE", "Failed to sign document URL")
	}
	return &DocumentURLResponse{URL: url, ExpiresAt: time.Now().Add(documentURLExpiry)}, nil
}
