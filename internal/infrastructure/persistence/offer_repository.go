package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/realty/backend/internal/domain/listing"
	"github.com/realty/backend/internal/domain/shared"
)

// GormOfferRepository implements OfferRepository using GORM
type GormOfferRepository struct {
	db *gorm.DB
}

// NewGormOfferRepository creates a new GormOfferRepository
func NewGormOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

// FindByID finds an offer by its ID
func (r *GormOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Offer, error) {
	var offer listing.Offer
	if err := r.db.WithContext(ctx).First(&offer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &offer, nil
}

// FindByProperty finds offers made on a property
func (r *GormOfferRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID, filter shared.Filter) ([]listing.Offer, error) {
	var offers []listing.Offer
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&listing.Offer{}).Where("property_id = ?", propertyID),
		filter,
	)

	if err := query.Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

// FindPendingByProperty finds all pending offers on a property
func (r *GormOfferRepository) FindPendingByProperty(ctx context.Context, propertyID uuid.UUID) ([]listing.Offer, error) {
	var offers []listing.Offer
	if err := r.db.WithContext(ctx).
		Where("property_id = ? AND status = ?", propertyID, listing.OfferStatusPending).
		Order("created_at ASC").
		Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

// FindByBuyer finds offers made by a buyer
func (r *GormOfferRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]listing.Offer, error) {
	var offers []listing.Offer
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&listing.Offer{}).Where("buyer_id = ?", buyerID),
		filter,
	)

	if err := query.Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

// Save creates or updates an offer
func (r *GormOfferRepository) Save(ctx context.Context, offer *listing.Offer) error {
	return r.db.WithContext(ctx).Save(offer).Error
}

// Delete deletes an offer
func (r *GormOfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&listing.Offer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts offers matching the filter
func (r *GormOfferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&listing.Offer{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormOfferRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, OfferSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOfferRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "buyer_id":
			query = query.Where("buyer_id = ?", value)
		}
	}

	return query
}

// Ensure GormOfferRepository implements OfferRepository
var _ listing.OfferRepository = (*GormOfferRepository)(nil)
