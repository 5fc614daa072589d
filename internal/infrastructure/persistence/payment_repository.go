package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/realty/backend/internal/domain/lending"
	"github.com/realty/backend/internal/domain/shared"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Payment, error) {
	var payment lending.Payment
	if err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByLoan finds the installments of a loan
func (r *GormPaymentRepository) FindByLoan(ctx context.Context, loanID uuid.UUID, filter shared.Filter) ([]lending.Payment, error) {
	var payments []lending.Payment
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&lending.Payment{}).Where("loan_id = ?", loanID),
		filter,
	)

	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// FindOverdue finds scheduled installments past their due date, oldest first
func (r *GormPaymentRepository) FindOverdue(ctx context.Context, asOf time.Time, limit int) ([]lending.Payment, error) {
	var payments []lending.Payment
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", lending.PaymentStatusScheduled, asOf).
		Order("due_date ASC").
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *lending.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// Count counts payments matching the filter
func (r *GormPaymentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&lending.Payment{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PaymentSortFields, "due_date")
	return query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPaymentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "loan_id":
			query = query.Where("loan_id = ?", value)
		case "due_before":
			query = query.Where("due_date < ?", value)
		case "due_after":
			query = query.Where("due_date >= ?", value)
		}
	}

	return query
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ lending.PaymentRepository = (*GormPaymentRepository)(nil)
