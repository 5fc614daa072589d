package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/realty/backend/internal/domain/lending"
	"github.com/realty/backend/internal/domain/shared"
)

// GormCreditEventRepository implements CreditEventRepository using GORM
type GormCreditEventRepository struct {
	db *gorm.DB
}

// NewGormCreditEventRepository creates a new GormCreditEventRepository
func NewGormCreditEventRepository(db *gorm.DB) *GormCreditEventRepository {
	return &GormCreditEventRepository{db: db}
}

// FindByUser finds a borrower's credit events, oldest first
func (r *GormCreditEventRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]lending.CreditEvent, error) {
	var events []lending.CreditEvent
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// Save appends a credit event
func (r *GormCreditEventRepository) Save(ctx context.Context, event *lending.CreditEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// Ensure GormCreditEventRepository implements CreditEventRepository
var _ lending.CreditEventRepository = (*GormCreditEventRepository)(nil)

// GormCreditScoreRepository implements CreditScoreRepository using GORM
type GormCreditScoreRepository struct {
	db *gorm.DB
}

// NewGormCreditScoreRepository creates a new GormCreditScoreRepository
func NewGormCreditScoreRepository(db *gorm.DB) *GormCreditScoreRepository {
	return &GormCreditScoreRepository{db: db}
}

// FindLatestByUser finds the most recent score snapshot for a borrower
func (r *GormCreditScoreRepository) FindLatestByUser(ctx context.Context, userID uuid.UUID) (*lending.CreditScore, error) {
	var score lending.CreditScore
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("computed_at DESC").
		First(&score).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &score, nil
}

// Save stores a score snapshot
func (r *GormCreditScoreRepository) Save(ctx context.Context, score *lending.CreditScore) error {
	return r.db.WithContext(ctx).Save(score).Error
}

// Ensure GormCreditScoreRepository implements CreditScoreRepository
var _ lending.CreditScoreRepository = (*GormCreditScoreRepository)(nil)
