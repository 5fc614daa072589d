package listing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realty/backend/internal/domain/shared"
)

// OfferStatus represents the status of an offer on a property
type OfferStatus string

const (
	OfferStatusPending   OfferStatus = "pending"
	OfferStatusAccepted  OfferStatus = "accepted"
	OfferStatusRejected  OfferStatus = "rejected"
	OfferStatusWithdrawn OfferStatus = "withdrawn"
	OfferStatusExpired   OfferStatus = "expired"
)

// Offer represents a purchase or rental offer made by a client on a property
type Offer struct {
	shared.BaseAggregateRoot
	PropertyID uuid.UUID       `gorm:"type:uuid;not null;index"`
	BuyerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status     OfferStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	Message    string          `gorm:"type:text"`
	ExpiresAt  *time.Time
	DecidedAt  *time.Time
}

// TableName returns the table name for GORM
func (Offer) TableName() string {
	return "offers"
}

// NewOffer creates a pending offer
func NewOffer(propertyID, buyerID uuid.UUID, amount decimal.Decimal, message string, expiresAt *time.Time) (*Offer, error) {
	if propertyID == uuid.Nil || buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Property and buyer are required")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Offer amount must be positive")
	}
	if expiresAt != nil && expiresAt.Before(time.Now()) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Expiry must be in the future")
	}

	return &Offer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PropertyID:        propertyID,
		BuyerID:           buyerID,
		Amount:            amount,
		Status:            OfferStatusPending,
		Message:           message,
		ExpiresAt:         expiresAt,
	}, nil
}

func (o *Offer) decide(status OfferStatus) {
	now := time.Now()
	o.Status = status
	o.DecidedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()
}

// Accept accepts a pending offer
func (o *Offer) Accept() error {
	if o.Status != OfferStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending offers can be accepted")
	}
	if o.IsExpired() {
		return shared.NewDomainError("INVALID_STATE", "Offer has expired")
	}
	o.decide(OfferStatusAccepted)
	return nil
}

// Reject rejects a pending offer
func (o *Offer) Reject() error {
	if o.Status != OfferStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending offers can be rejected")
	}
	o.decide(OfferStatusRejected)
	return nil
}

// Withdraw lets the buyer withdraw a pending offer
func (o *Offer) Withdraw() error {
	if o.Status != OfferStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending offers can be withdrawn")
	}
	o.decide(OfferStatusWithdrawn)
	return nil
}

// MarkExpired expires a pending offer past its deadline
func (o *Offer) MarkExpired() error {
	if o.Status != OfferStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending offers can expire")
	}
	if !o.IsExpired() {
		return shared.NewDomainError("INVALID_STATE", "Offer has not reached its expiry")
	}
	o.decide(OfferStatusExpired)
	return nil
}

// IsExpired reports whether the offer deadline has passed
func (o *Offer) IsExpired() bool {
	return o.ExpiresAt != nil && o.ExpiresAt.Before(time.Now())
}
