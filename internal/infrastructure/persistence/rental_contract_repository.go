package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/realty/backend/internal/domain/contract"
	"github.com/realty/backend/internal/domain/shared"
)

// GormRentalContractRepository implements RentalContractRepository using GORM
type GormRentalContractRepository struct {
	db *gorm.DB
}

// NewGormRentalContractRepository creates a new GormRentalContractRepository
func NewGormRentalContractRepository(db *gorm.DB) *GormRentalContractRepository {
	return &GormRentalContractRepository{db: db}
}

// FindByID finds a rental contract by its ID
func (r *GormRentalContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*contract.RentalContract, error) {
	var rental contract.RentalContract
	if err := r.db.WithContext(ctx).First(&rental, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rental, nil
}

// FindAll finds rental contracts matching the filter
func (r *GormRentalContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]contract.RentalContract, error) {
	var rentals []contract.RentalContract
	query := r.applyFilter(r.db.WithContext(ctx).Model(&contract.RentalContract{}), filter)

	if err := query.Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

// FindByProperty finds rental contracts on a property
func (r *GormRentalContractRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]contract.RentalContract, error) {
	var rentals []contract.RentalContract
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

// FindByTenant finds a tenant's rental contracts
func (r *GormRentalContractRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]contract.RentalContract, error) {
	var rentals []contract.RentalContract
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&contract.RentalContract{}).Where("tenant_id = ?", tenantID),
		filter,
	)

	if err := query.Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}

// Save creates or updates a rental contract
func (r *GormRentalContractRepository) Save(ctx context.Context, rental *contract.RentalContract) error {
	return r.db.WithContext(ctx).Save(rental).Error
}

// Count counts rental contracts matching the filter
func (r *GormRentalContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&contract.RentalContract{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormRentalContractRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, RentalContractSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormRentalContractRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "agent_id":
			query = query.Where("agent_id = ?", value)
		case "tenant_id":
			query = query.Where("tenant_id = ?", value)
		case "ends_before":
			query = query.Where("end_date < ?", value)
		}
	}

	return query
}

// Ensure GormRentalContractRepository implements RentalContractRepository
var _ contract.RentalContractRepository = (*GormRentalContractRepository)(nil)
