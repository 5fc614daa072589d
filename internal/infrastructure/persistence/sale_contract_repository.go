package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/realty/backend/internal/domain/contract"
	"github.com/realty/backend/internal/domain/shared"
)

// GormSaleContractRepository implements SaleContractRepository using GORM
type GormSaleContractRepository struct {
	db *gorm.DB
}

// NewGormSaleContractRepository creates a new GormSaleContractRepository
func NewGormSaleContractRepository(db *gorm.DB) *GormSaleContractRepository {
	return &GormSaleContractRepository{db: db}
}

// FindByID finds a sale contract by its ID
func (r *GormSaleContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*contract.SaleContract, error) {
	var sale contract.SaleContract
	if err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll finds sale contracts matching the filter
func (r *GormSaleContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]contract.SaleContract, error) {
	var sales []contract.SaleContract
	query := r.applyFilter(r.db.WithContext(ctx).Model(&contract.SaleContract{}), filter)

	if err := query.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// FindByProperty finds sale contracts on a property
func (r *GormSaleContractRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]contract.SaleContract, error) {
	var sales []contract.SaleContract
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// FindByParty finds sale contracts where the user is buyer or seller
func (r *GormSaleContractRepository) FindByParty(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]contract.SaleContract, error) {
	var sales []contract.SaleContract
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&contract.SaleContract{}).
			Where("buyer_id = ? OR seller_id = ?", userID, userID),
		filter,
	)

	if err := query.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// Save creates or updates a sale contract
func (r *GormSaleContractRepository) Save(ctx context.Context, sale *contract.SaleContract) error {
	return r.db.WithContext(ctx).Save(sale).Error
}

// Count counts sale contracts matching the filter
func (r *GormSaleContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&contract.SaleContract{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormSaleContractRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SaleContractSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSaleContractRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "agent_id":
			query = query.Where("agent_id = ?", value)
		case "buyer_id":
			query = query.Where("buyer_id = ?", value)
		}
	}

	return query
}

// Ensure GormSaleContractRepository implements SaleContractRepository
var _ contract.SaleContractRepository = (*GormSaleContractRepository)(nil)
