package listing

import (
	"context"

	"github.com/google/uuid"

	"github.com/realty/backend/internal/domain/shared"
)

// PropertyRepository defines the interface for property persistence
type PropertyRepository interface {
	// FindByID finds a property by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)

	// FindAll finds all properties matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Property, error)

	// FindByAgent finds properties managed by an agent
	FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) ([]Property, error)

	// FindByBranch finds properties belonging to a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]Property, error)

	// FindByStatus finds properties in the given status
	FindByStatus(ctx context.Context, status PropertyStatus, filter shared.Filter) ([]Property, error)

	// Save creates or updates a property
	Save(ctx context.Context, property *Property) error

	// Delete deletes a property
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts properties matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts properties in the given status
	CountByStatus(ctx context.Context, status PropertyStatus) (int64, error)
}

// OfferRepository defines the interface for offer persistence
type OfferRepository interface {
	// FindByID finds an offer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Offer, error)

	// FindByProperty finds offers made on a property
	FindByProperty(ctx context.Context, propertyID uuid.UUID, filter shared.Filter) ([]Offer, error)

	// FindPendingByProperty finds all pending offers on a property
	FindPendingByProperty(ctx context.Context, propertyID uuid.UUID) ([]Offer, error)

	// FindByBuyer finds offers made by a buyer
	FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]Offer, error)

	// Save creates or updates an offer
	Save(ctx context.Context, offer *Offer) error

	// Delete deletes an offer
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts offers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
