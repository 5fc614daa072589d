package contract

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realty/backend/internal/domain/shared"
)

// SaleContractStatus represents the lifecycle status of a sale contract
type SaleContractStatus string

const (
	SaleContractStatusDraft     SaleContractStatus = "draft"
	SaleContractStatusSigned    SaleContractStatus = "signed"
	SaleContractStatusCancelled SaleContractStatus = "cancelled"
)

// SaleContract binds a buyer to the purchase of a property
type SaleContract struct {
	shared.BaseAggregateRoot
	PropertyID  uuid.UUID          `gorm:"type:uuid;not null;index"`
	BuyerID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	SellerID    uuid.UUID          `gorm:"type:uuid;not null"`
	AgentID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	OfferID     *uuid.UUID         `gorm:"type:uuid"`
	Price       decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	Status      SaleContractStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	DocumentKey string             `gorm:"type:varchar(500)"` // storage object key for the signed copy
	SignedAt    *time.Time
	CancelledAt *time.Time
}

// TableName returns the table name for GORM
func (SaleContract) TableName() string {
	return "sale_contracts"
}

// NewSaleContract drafts a sale contract for a property
func NewSaleContract(propertyID, buyerID, sellerID, agentID uuid.UUID, offerID *uuid.UUID, price decimal.Decimal) (*SaleContract, error) {
	if propertyID == uuid.Nil || buyerID == uuid.Nil || sellerID == uuid.Nil || agentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Property, buyer, seller and agent are required")
	}
	if buyerID == sellerID {
		return nil, shared.NewDomainError("INVALID_INPUT", "Buyer and seller must differ")
	}
	if price.IsNegative() || price.IsZero() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}
	return &SaleContract{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PropertyID:        propertyID,
		BuyerID:           buyerID,
		SellerID:          sellerID,
		AgentID:           agentID,
		OfferID:           offerID,
		Price:             price,
		Status:            SaleContractStatusDraft,
	}, nil
}

// Sign executes the contract
func (c *SaleContract) Sign() error {
	if c.Status != SaleContractStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft contracts can be signed")
	}
	now := time.Now()
	c.Status = SaleContractStatusSigned
	c.SignedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}

// Cancel voids a draft contract
func (c *SaleContract) Cancel() error {
	if c.Status != SaleContractStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Signed contracts cannot be cancelled")
	}
	now := time.Now()
	c.Status = SaleContractStatusCancelled
	c.CancelledAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}

// AttachDocument stores the object key of the uploaded contract copy
func (c *SaleContract) AttachDocument(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_INPUT", "Document key is required")
	}
	c.DocumentKey = key
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}
