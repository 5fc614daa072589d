package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/realty/backend/internal/domain/org"
	"github.com/realty/backend/internal/domain/shared"
)

// GormEmployeeRepository implements EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds an employee by its ID
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*org.Employee, error) {
	var employee org.Employee
	if err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// FindByUser finds the employment record for a user
func (r *GormEmployeeRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*org.Employee, error) {
	var employee org.Employee
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// FindAll finds employees matching the filter
func (r *GormEmployeeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]org.Employee, error) {
	var employees []org.Employee
	query := r.applyFilter(r.db.WithContext(ctx).Model(&org.Employee{}), filter)

	if err := query.Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// FindByBranch finds employees of a branch
func (r *GormEmployeeRepository) FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]org.Employee, error) {
	var employees []org.Employee
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&org.Employee{}).Where("branch_id = ?", branchID),
		filter,
	)

	if err := query.Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *org.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

// Count counts employees matching the filter
func (r *GormEmployeeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&org.Employee{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormEmployeeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, EmployeeSortFields, "hired_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormEmployeeRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("position ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "branch_id":
			query = query.Where("branch_id = ?", value)
		case "position":
			query = query.Where("position = ?", value)
		}
	}

	return query
}

// Ensure GormEmployeeRepository implements EmployeeRepository
var _ org.EmployeeRepository = (*GormEmployeeRepository)(nil)
