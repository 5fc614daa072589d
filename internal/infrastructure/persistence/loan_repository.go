package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/realty/backend/internal/domain/lending"
	"github.com/realty/backend/internal/domain/shared"
)

// loanOpenStatuses are the statuses counted as open exposure
var loanOpenStatuses = []lending.LoanStatus{
	lending.LoanStatusSubmitted,
	lending.LoanStatusUnderReview,
	lending.LoanStatusApproved,
	lending.LoanStatusActive,
}

// GormLoanRepository implements LoanRepository using GORM
type GormLoanRepository struct {
	db *gorm.DB
}

// NewGormLoanRepository creates a new GormLoanRepository
func NewGormLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// FindByID finds a loan by its ID
func (r *GormLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Loan, error) {
	var loan lending.Loan
	if err := r.db.WithContext(ctx).First(&loan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loan, nil
}

// FindAll finds all loans matching the filter
func (r *GormLoanRepository) FindAll(ctx context.Context, filter shared.Filter) ([]lending.Loan, error) {
	var loans []lending.Loan
	query := r.applyFilter(r.db.WithContext(ctx).Model(&lending.Loan{}), filter)

	if err := query.Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// FindByBorrower finds loans belonging to a borrower
func (r *GormLoanRepository) FindByBorrower(ctx context.Context, borrowerID uuid.UUID, filter shared.Filter) ([]lending.Loan, error) {
	var loans []lending.Loan
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&lending.Loan{}).Where("borrower_id = ?", borrowerID),
		filter,
	)

	if err := query.Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// FindByStatus finds loans in the given status
func (r *GormLoanRepository) FindByStatus(ctx context.Context, status lending.LoanStatus, filter shared.Filter) ([]lending.Loan, error) {
	var loans []lending.Loan
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&lending.Loan{}).Where("status = ?", status),
		filter,
	)

	if err := query.Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// CountActiveByBorrower counts the borrower's open loans
func (r *GormLoanRepository) CountActiveByBorrower(ctx context.Context, borrowerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&lending.Loan{}).
		Where("borrower_id = ? AND status IN ?", borrowerID, loanOpenStatuses).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a loan
func (r *GormLoanRepository) Save(ctx context.Context, loan *lending.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

// Delete deletes a loan
func (r *GormLoanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&lending.Loan{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts loans matching the filter
func (r *GormLoanRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&lending.Loan{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormLoanRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, LoanSortFields, "created_at")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormLoanRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "borrower_id":
			query = query.Where("borrower_id = ?", value)
		case "property_id":
			query = query.Where("property_id = ?", value)
		case "min_principal":
			query = query.Where("principal >= ?", value)
		case "max_principal":
			query = query.Where("principal <= ?", value)
		}
	}

	return query
}

// Ensure GormLoanRepository implements LoanRepository
var _ lending.LoanRepository = (*GormLoanRepository)(nil)
