package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/realty/backend/internal/domain/org"
	"github.com/realty/backend/internal/domain/shared"
)

// GormBranchRepository implements BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// FindByID finds a branch by its ID
func (r *GormBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*org.Branch, error) {
	var branch org.Branch
	if err := r.db.WithContext(ctx).First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &branch, nil
}

// FindByCode finds a branch by its unique code
func (r *GormBranchRepository) FindByCode(ctx context.Context, code string) (*org.Branch, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Code cannot be empty")
	}
	var branch org.Branch
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&branch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &branch, nil
}

// FindAll finds branches matching the filter
func (r *GormBranchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]org.Branch, error) {
	var branches []org.Branch
	query := r.applyFilter(r.db.WithContext(ctx).Model(&org.Branch{}), filter)

	if err := query.Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// FindDefault finds the default branch
func (r *GormBranchRepository) FindDefault(ctx context.Context) (*org.Branch, error) {
	var branch org.Branch
	if err := r.db.WithContext(ctx).
		Where("is_default = ?", true).
		First(&branch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &branch, nil
}

// Save creates or updates a branch
func (r *GormBranchRepository) Save(ctx context.Context, branch *org.Branch) error {
	return r.db.WithContext(ctx).Save(branch).Error
}

// Delete deletes a branch
func (r *GormBranchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&org.Branch{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts branches matching the filter
func (r *GormBranchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&org.Branch{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormBranchRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, BranchSortFields, "code")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBranchRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ? OR city ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "city":
			query = query.Where("city = ?", value)
		case "enabled":
			query = query.Where("enabled = ?", value)
		}
	}

	return query
}

// Ensure GormBranchRepository implements BranchRepository
var _ org.BranchRepository = (*GormBranchRepository)(nil)
