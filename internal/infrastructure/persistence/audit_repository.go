package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/realty/backend/internal/domain/audit"
	"github.com/realty/backend/internal/domain/shared"
)

// GormAuditRepository implements audit.Repository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Save appends an entry
func (r *GormAuditRepository) Save(ctx context.Context, entry *audit.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindAll finds entries matching the filter, newest first
func (r *GormAuditRepository) FindAll(ctx context.Context, filter shared.Filter) ([]audit.Entry, error) {
	var entries []audit.Entry
	query := r.applyFilter(r.db.WithContext(ctx).Model(&audit.Entry{}), filter)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByEntity finds entries touching an entity, newest first
func (r *GormAuditRepository) FindByEntity(ctx context.Context, entityType, entityID string) ([]audit.Entry, error) {
	var entries []audit.Entry
	if err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("occurred_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByActor finds entries produced by an actor, newest first
func (r *GormAuditRepository) FindByActor(ctx context.Context, actorID uuid.UUID, filter shared.Filter) ([]audit.Entry, error) {
	var entries []audit.Entry
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&audit.Entry{}).Where("actor_id = ?", actorID),
		filter,
	)

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Count counts entries matching the filter
func (r *GormAuditRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&audit.Entry{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormAuditRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, AuditSortFields, "occurred_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormAuditRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "action":
			query = query.Where("action = ?", value)
		case "entity_type":
			query = query.Where("entity_type = ?", value)
		case "actor_id":
			query = query.Where("actor_id = ?", value)
		}
	}

	return query
}

// Ensure GormAuditRepository implements audit.Repository
var _ audit.Repository = (*GormAuditRepository)(nil)
