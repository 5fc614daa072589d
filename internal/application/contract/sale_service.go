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

const documentURLExpiry = 15 * time.Minute

// SaleContractService handles drafting, signing and cancelling
// property sale contracts
type SaleContractService struct {
	saleRepo     contract.SaleContractRepository
	propertyRepo listing.PropertyRepository
	offerRepo    listing.OfferRepository
	documents    DocumentStore
	recorder     audit.Recorder
	logger       *zap.Logger
}

// NewSaleContractService creates a new sale contract service
func NewSaleContractService(
	saleRepo contract.SaleContractRepository,
	propertyRepo listing.PropertyRepository,
	offerRepo listing.OfferRepository,
	documents DocumentStore,
	recorder audit.Recorder,
	logger *zap.Logger,
) *SaleContractService {
	return &SaleContractService{
		saleRepo:     saleRepo,
		propertyRepo: propertyRepo,
		offerRepo:    offerRepo,
		documents:    documents,
		recorder:     recorder,
		logger:       logger,
	}
}

// Create drafts a sale contract for a property. When the contract is
// backed by an offer the offer must already be accepted and its amount
// becomes the contract price.
func (s *SaleContractService) Create(ctx context.Context, actor audit.Actor, req CreateSaleContractRequest) (*SaleContractResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}

	price := req.Price
	if req.OfferID != nil {
		offer, err := s.offerRepo.FindByID(ctx, *req.OfferID)
		if err != nil {
			return nil, err
		}
		if offer.Status != listing.OfferStatusAccepted {
			return nil, shared.NewDomainError("INVALID_STATE", "Contract requires an accepted offer")
		}
		if offer.PropertyID != req.PropertyID {
			return nil, shared.NewDomainError("INVALID_INPUT", "Offer belongs to a different property")
		}
		price = offer.Amount
	}

	sale, err := contract.NewSaleContract(req.PropertyID, req.BuyerID, req.SellerID, property.AgentID, req.OfferID, price)
	if err != nil {
		return nil, err
	}
	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "sale_contract.create", "sale_contract", sale.ID.String(),
		fmt.Sprintf(`{"property_id":%q,"price":%q}`, req.PropertyID, price))
	s.logger.Info("Sale contract drafted",
		zap.String("contract_id", sale.ID.String()),
		zap.String("property_id", req.PropertyID.String()))

	resp := ToSaleContractResponse(sale)
	return &resp, nil
}

// GetByID retrieves a sale contract by ID
func (s *SaleContractService) GetByID(ctx context.Context, id uuid.UUID) (*SaleContractResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSaleContractResponse(sale)
	return &resp, nil
}

// List lists sale contracts with pagination and filters
func (s *SaleContractService) List(ctx context.Context, filter ContractListFilter) ([]SaleContractResponse, int64, error) {
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

	contracts, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToSaleContractResponses(contracts), total, nil
}

// ListByParty lists contracts where the user is buyer or seller
func (s *SaleContractService) ListByParty(ctx context.Context, userID uuid.UUID) ([]SaleContractResponse, error) {
	contracts, err := s.saleRepo.FindByParty(ctx, userID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return ToSaleContractResponses(contracts), nil
}

// Sign executes the contract and closes the property as sold
func (s *SaleContractService) Sign(ctx context.Context, actor audit.Actor, id uuid.UUID) (*SaleContractResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	property, err := s.propertyRepo.FindByID(ctx, sale.PropertyID)
	if err != nil {
		return nil, err
	}

	if err := sale.Sign(); err != nil {
		return nil, err
	}
	if property.Status == listing.PropertyStatusListed {
		if err := property.MarkUnderOffer(); err != nil {
			return nil, err
		}
	}
	if err := property.MarkSold(); err != nil {
		return nil, err
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "sale_contract.sign", "sale_contract", id.String(),
		fmt.Sprintf(`{"property_id":%q}`, sale.PropertyID))
	s.logger.Info("Sale contract signed",
		zap.String("contract_id", id.String()),
		zap.String("property_id", sale.PropertyID.String()))

	resp := ToSaleContractResponse(sale)
	return &resp, nil
}

// Cancel voids a draft contract. A property held under offer by the
// voided deal returns to the market.
func (s *SaleContractService) Cancel(ctx context.Context, actor audit.Actor, id uuid.UUID) (*SaleContractResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sale.Cancel(); err != nil {
		return nil, err
	}

	property, err := s.propertyRepo.FindByID(ctx, sale.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.Status == listing.PropertyStatusUnderOffer {
		if err := property.ReturnToMarket(); err != nil {
			return nil, err
		}
		if err := s.propertyRepo.Save(ctx, property); err != nil {
			return nil, err
		}
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "sale_contract.cancel", "sale_contract", id.String(), "")
	resp := ToSaleContractResponse(sale)
	return &resp, nil
}

// UploadDocument stores the signed copy and attaches its key
func (s *SaleContractService) UploadDocument(ctx context.Context, actor audit.Actor, id uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (*SaleContractResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("contracts/sale/%s/%s", id, path.Base(filename))
	if err := s.documents.Upload(ctx, key, reader, size, contentType); err != nil {
		return nil, shared.NewDomainError("EXTERNAL_SERVICE", "Failed to store contract document")
	}
	if err := sale.AttachDocument(key); err != nil {
		return nil, err
	}
	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "sale_contract.upload_document", "sale_contract", id.String(),
		fmt.Sprintf(`{"key":%q}`, key))
	resp := ToSaleContractResponse(sale)
	return &resp, nil
}

// DocumentURL returns a time-limited download link for the stored copy
func (s *SaleContractService) DocumentURL(ctx context.Context, id uuid.UUID) (*DocumentURLResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.DocumentKey == "" {
		return nil, shared.NewDomainError("NOT_FOUND", "Contract has no stored document")
	}

	url, err := s.documents.PresignedURL(ctx, sale.DocumentKey, documentURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("EXTERNAL_SERVICE", "Failed to sign document URL")
	}
	return &DocumentURLResponse{URL: url, ExpiresAt: time.Now().Add(documentURLExpiry)}, nil
}
