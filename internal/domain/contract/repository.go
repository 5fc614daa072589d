package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/realty/backend/internal/domain/shared"
)

// SaleContractRepository defines the interface for sale contract persistence
type SaleContractRepository interface {
	// FindByID finds a sale contract by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*SaleContract, error)

	// FindAll finds sale contracts matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]SaleContract, error)

	// FindByProperty finds sale contracts on a property
	FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]SaleContract, error)

	// FindByParty finds sale contracts where the user is buyer or seller
	FindByParty(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]SaleContract, error)

	// Save creates or updates a sale contract
	Save(ctx context.Context, contract *SaleContract) error

	// Count counts sale contracts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// RentalContractRepository defines the interface for rental contract persistence
type RentalContractRepository interface {
	// FindByID finds a rental contract by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*RentalContract, error)

	// FindAll finds rental contracts matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]RentalContract, error)

	// FindByProperty finds rental contracts on a property
	FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]RentalContract, error)

	// FindByTenant finds a tenant's rental contracts
	FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]RentalContract, error)

	// Save creates or updates a rental contract
	Save(ctx context.Context, contract *RentalContract) error

	// Count counts rental contracts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
