package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/realty/backend/internal/domain/listing"
	"github.com/realty/backend/internal/domain/shared"
)

// GormPropertyRepository implements PropertyRepository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByID finds a property by its ID
func (r *GormPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Property, error) {
	var property listing.Property
	if err := r.db.WithContext(ctx).First(&property, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &property, nil
}

// FindAll finds all properties matching the filter
func (r *GormPropertyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]listing.Property, error) {
	var properties []listing.Property
	query := r.applyFilter(r.db.WithContext(ctx).Model(&listing.Property{}), filter)

	if err := query.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// FindByAgent finds properties managed by an agent
func (r *GormPropertyRepository) FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) ([]listing.Property, error) {
	var properties []listing.Property
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&listing.Property{}).Where("agent_id = ?", agentID),
		filter,
	)

	if err := query.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// FindByBranch finds properties belonging to a branch
func (r *GormPropertyRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]listing.Property, error) {
	var properties []listing.Property
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&listing.Property{}).Where("branch_id = ?", branchID),
		filter,
	)

	if err := query.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// FindByStatus finds properties in the given status
func (r *GormPropertyRepository) FindByStatus(ctx context.Context, status listing.PropertyStatus, filter shared.Filter) ([]listing.Property, error) {
	var properties []listing.Property
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&listing.Property{}).Where("status = ?", status),
		filter,
	)

	if err := query.Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// Save creates or updates a property
func (r *GormPropertyRepository) Save(ctx context.Context, property *listing.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

// Delete deletes a property
func (r *GormPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&listing.Property{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts properties matching the filter
func (r *GormPropertyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&listing.Property{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts properties in the given status
func (r *GormPropertyRepository) CountByStatus(ctx context.Context, status listing.PropertyStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&listing.Property{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPropertyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PropertySortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPropertyRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR address ILIKE ? OR city ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "listing_type":
			query = query.Where("listing_type = ?", value)
		case "city":
			query = query.Where("city = ?", value)
		case "agent_id":
			query = query.Where("agent_id = ?", value)
		case "branch_id":
			query = query.Where("branch_id = ?", value)
		case "min_price":
			query = query.Where("price >= ?", value)
		case "max_price":
			query = query.Where("price <= ?", value)
		case "min_bedrooms":
			query = query.Where("bedrooms >= ?", value)
		}
	}

	return query
}

// Ensure GormPropertyRepository implements PropertyRepository
var _ listing.PropertyRepository = (*GormPropertyRepository)(nil)
