package listing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/audit"
	"github.com/realty/backend/internal/domain/listing"
	"github.com/realty/backend/internal/domain/shared"
)

// OfferService handles offers made on property listings
type OfferService struct {
	offerRepo    listing.OfferRepository
	propertyRepo listing.PropertyRepository
	recorder     audit.Recorder
	logger       *zap.Logger
}

// NewOfferService creates a new offer service
func NewOfferService(
	offerRepo listing.OfferRepository,
	propertyRepo listing.PropertyRepository,
	recorder audit.Recorder,
	logger *zap.Logger,
) *OfferService {
	return &OfferService{
		offerRepo:    offerRepo,
		propertyRepo: propertyRepo,
		recorder:     recorder,
		logger:       logger,
	}
}

// Create places an offer on an open listing for the acting client
func (s *OfferService) Create(ctx context.Context, actor audit.Actor, req CreateOfferRequest) (*OfferResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if !property.IsOpen() {
		return nil, shared.NewDomainError("INVALID_STATE", "Property is not accepting offers")
	}

	offer, err := listing.NewOffer(req.PropertyID, actor.ID, req.Amount, req.Message, req.ExpiresAt)
	if err != nil {
		return nil, err
	}
	if err := s.offerRepo.Save(ctx, offer); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "offer.create", "offer", offer.ID.String(),
		fmt.Sprintf(`{"property_id":%q,"amount":%q}`, req.PropertyID, req.Amount))
	s.logger.Info("Offer placed",
		zap.String("offer_id", offer.ID.String()),
		zap.String("property_id", req.PropertyID.String()))

	resp := ToOfferResponse(offer)
	return &resp, nil
}

// GetByID retrieves an offer by ID
func (s *OfferService) GetByID(ctx context.Context, id uuid.UUID) (*OfferResponse, error) {
	offer, err := s.offerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOfferResponse(offer)
	return &resp, nil
}

// ListByProperty lists the offers made on a property
func (s *OfferService) ListByProperty(ctx context.Context, propertyID uuid.UUID, filter OfferListFilter) ([]OfferResponse, error) {
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

	offers, err := s.offerRepo.FindByProperty(ctx, propertyID, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToOfferResponses(offers), nil
}

// ListByBuyer lists the offers placed by a buyer
func (s *OfferService) ListByBuyer(ctx context.Context, buyerID uuid.UUID, filter OfferListFilter) ([]OfferResponse, error) {
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

	offers, err := s.offerRepo.FindByBuyer(ctx, buyerID, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToOfferResponses(offers), nil
}

// Accept accepts a pending offer, rejects all competing pending offers
// and moves the property under offer
func (s *OfferService) Accept(ctx context.Context, actor audit.Actor, id uuid.UUID) (*OfferResponse, error) {
	offer, err := s.offerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	property, err := s.propertyRepo.FindByID(ctx, offer.PropertyID)
	if err != nil {
		return nil, err
	}

	if err := offer.Accept(); err != nil {
		return nil, err
	}
	if err := property.MarkUnderOffer(); err != nil {
		return nil, err
	}

	competing, err := s.offerRepo.FindPendingByProperty(ctx, offer.PropertyID)
	if err != nil {
		return nil, err
	}
	for i := range competing {
		if competing[i].ID == offer.ID {
			continue
		}
		if err := competing[i].Reject(); err != nil {
			return nil, err
		}
		if err := s.offerRepo.Save(ctx, &competing[i]); err != nil {
			return nil, err
		}
	}

	if err := s.offerRepo.Save(ctx, offer); err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "offer.accept", "offer", id.String(),
		fmt.Sprintf(`{"property_id":%q,"rejected_competing":%d}`, offer.PropertyID, len(competing)-1))
	s.logger.Info("Offer accepted",
		zap.String("offer_id", id.String()),
		zap.Int("competing_rejected", len(competing)-1))

	resp := ToOfferResponse(offer)
	return &resp, nil
}

// Reject rejects a pending offer
func (s *OfferService) Reject(ctx context.Context, actor audit.Actor, id uuid.UUID) (*OfferResponse, error) {
	offer, err := s.offerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := offer.Reject(); err != nil {
		return nil, err
	}
	if err := s.offerRepo.Save(ctx, offer); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "offer.reject", "offer", id.String(), "")
	resp := ToOfferResponse(offer)
	return &resp, nil
}

// Withdraw lets the buyer withdraw their own pending offer
func (s *OfferService) Withdraw(ctx context.Context, actor audit.Actor, id uuid.UUID) (*OfferResponse, error) {
	offer, err := s.offerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if offer.BuyerID != actor.ID {
		return nil, shared.NewDomainError("FORBIDDEN", "Only the buyer can withdraw this offer")
	}
	if err := offer.Withdraw(); err != nil {
		return nil, err
	}
	if err := s.offerRepo.Save(ctx, offer); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "offer.withdraw", "offer", id.String(), "")
	resp := ToOfferResponse(offer)
	return &resp, nil
}
