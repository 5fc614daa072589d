package contract

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realty/backend/internal/domain/shared"
)

// RentalContractStatus represents the lifecycle status of a rental contract
type RentalContractStatus string

const (
	RentalContractStatusDraft      RentalContractStatus = "draft"
	RentalContractStatusActive     RentalContractStatus = "active"
	RentalContractStatusTerminated RentalContractStatus = "terminated"
	RentalContractStatusExpired    RentalContractStatus = "expired"
)

// RentalContract binds a tenant to the lease of a property
type RentalContract struct {
	shared.BaseAggregateRoot
	PropertyID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	TenantID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	LandlordID   uuid.UUID            `gorm:"type:uuid;not null"`
	AgentID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	MonthlyRent  decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Deposit      decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	StartDate    time.Time            `gorm:"not null"`
	EndDate      time.Time            `gorm:"not null"`
	Status       RentalContractStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	DocumentKey  string               `gorm:"type:varchar(500)"`
	SignedAt     *time.Time
	TerminatedAt *time.Time
}

// TableName returns the table name for GORM
func (RentalContract) TableName() string {
	return "rental_contracts"
}

// NewRentalContract drafts a lease for a property
func NewRentalContract(propertyID, tenantID, landlordID, agentID uuid.UUID, monthlyRent, deposit decimal.Decimal, startDate, endDate time.Time) (*RentalContract, error) {
	if propertyID == uuid.Nil || tenantID == uuid.Nil || landlordID == uuid.Nil || agentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Property, tenant, landlord and agent are required")
	}
	if tenantID == landlordID {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tenant and landlord must differ")
	}
	if monthlyRent.IsNegative() || monthlyRent.IsZero() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Monthly rent must be positive")
	}
	if deposit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Deposit cannot be negative")
	}
	if !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "End date must be after start date")
	}
	return &RentalContract{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PropertyID:        propertyID,
		TenantID:          tenantID,
		LandlordID:        landlordID,
		AgentID:           agentID,
		MonthlyRent:       monthlyRent,
		Deposit:           deposit,
		StartDate:         startDate,
		EndDate:           endDate,
		Status:            RentalContractStatusDraft,
	}, nil
}

// Sign activates the lease
func (c *RentalContract) Sign() error {
	if c.Status != RentalContractStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft leases can be signed")
	}
	now := time.Now()
	c.Status = RentalContractStatusActive
	c.SignedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}

// Terminate ends an active lease before its end date
func (c *RentalContract) Terminate() error {
	if c.Status != RentalContractStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active leases can be terminated")
	}
	now := time.Now()
	c.Status = RentalContractStatusTerminated
	c.TerminatedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}

// MarkExpired closes an active lease past its end date
func (c *RentalContract) MarkExpired(now time.Time) error {
	if c.Status != RentalContractStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active leases can expire")
	}
	if !now.After(c.EndDate) {
		return shared.NewDomainError("INVALID_STATE", "Lease has not reached its end date")
	}
	c.Status = RentalContractStatusExpired
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// AttachDocument stores the object key of the uploaded lease copy
func (c *RentalContract) AttachDocument(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_INPUT", "Document key is required")
	}
	c.DocumentKey = key
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}
