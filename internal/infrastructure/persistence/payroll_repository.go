package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/realty/backend/internal/domain/org"
	"github.com/realty/backend/internal/domain/shared"
)

// GormPayrollRepository implements PayrollRepository using GORM
type GormPayrollRepository struct {
	db *gorm.DB
}

// NewGormPayrollRepository creates a new GormPayrollRepository
func NewGormPayrollRepository(db *gorm.DB) *GormPayrollRepository {
	return &GormPayrollRepository{db: db}
}

// FindByID finds a payroll entry by its ID
func (r *GormPayrollRepository) FindByID(ctx context.Context, id uuid.UUID) (*org.Payroll, error) {
	var payroll org.Payroll
	if err := r.db.WithContext(ctx).First(&payroll, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payroll, nil
}

// FindByEmployee finds payroll entries for an employee
func (r *GormPayrollRepository) FindByEmployee(ctx context.Context, employeeID uuid.UUID, filter shared.Filter) ([]org.Payroll, error) {
	var payrolls []org.Payroll
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&org.Payroll{}).Where("employee_id = ?", employeeID),
		filter,
	)

	if err := query.Find(&payrolls).Error; err != nil {
		return nil, err
	}
	return payrolls, nil
}

// FindByPeriod finds all entries of a payroll run
func (r *GormPayrollRepository) FindByPeriod(ctx context.Context, period string, filter shared.Filter) ([]org.Payroll, error) {
	var payrolls []org.Payroll
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&org.Payroll{}).Where("period = ?", period),
		filter,
	)

	if err := query.Find(&payrolls).Error; err != nil {
		return nil, err
	}
	return payrolls, nil
}

// ExistsForPeriod reports whether the employee already has an entry for the period
func (r *GormPayrollRepository) ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, period string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&org.Payroll{}).
		Where("employee_id = ? AND period = ?", employeeID, period).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a payroll entry
func (r *GormPayrollRepository) Save(ctx context.Context, payroll *org.Payroll) error {
	return r.db.WithContext(ctx).Save(payroll).Error
}

// Count counts payroll entries matching the filter
func (r *GormPayrollRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&org.Payroll{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPayrollRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PayrollSortFields, "period")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPayrollRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "period":
			query = query.Where("period = ?", value)
		case "employee_id":
			query = query.Where("employee_id = ?", value)
		}
	}

	return query
}

// Ensure GormPayrollRepository implements PayrollRepository
var _ org.PayrollRepository = (*GormPayrollRepository)(nil)
