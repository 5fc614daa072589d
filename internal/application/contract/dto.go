package contract

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realty/backend/internal/domain/contract"
	"github.com/realty/backend/internal/domain/shared"
)

// DocumentStore is the blob store role for signed contract copies.
type DocumentStore = shared.BlobStore

// CreateSaleContractRequest drafts a sale contract
type CreateSaleContractRequest struct {
	PropertyID uuid.UUID       `json:"property_id" binding:"required"`
	BuyerID    uuid.UUID       `json:"buyer_id" binding:"required"`
	SellerID   uuid.UUID       `json:"seller_id" binding:"required"`
	OfferID    *uuid.UUID      `json:"offer_id"`
	Price      decimal.Decimal `json:"price" binding:"required"`
}

// CreateRentalContractRequest drafts a lease
type CreateRentalContractRequest struct {
	PropertyID  uuid.UUID       `json:"property_id" binding:"required"`
	TenantID    uuid.UUID       `json:"tenant_id" binding:"required"`
	LandlordID  uuid.UUID       `json:"landlord_id" binding:"required"`
	MonthlyRent decimal.Decimal `json:"monthly_rent" binding:"required"`
	Deposit     decimal.Decimal `json:"deposit"`
	StartDate   time.Time       `json:"start_date" binding:"required"`
	EndDate     time.Time       `json:"end_date" binding:"required"`
}

// ContractListFilter represents filter options for contract lists
type ContractListFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SaleContractResponse represents a sale contract in API responses
type SaleContractResponse struct {
	ID          uuid.UUID       `json:"id"`
	PropertyID  uuid.UUID       `json:"property_id"`
	BuyerID     uuid.UUID       `json:"buyer_id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	AgentID     uuid.UUID       `json:"agent_id"`
	OfferID     *uuid.UUID      `json:"offer_id"`
	Price       decimal.Decimal `json:"price"`
	Status      string          `json:"status"`
	DocumentKey string          `json:"document_key,omitempty"`
	SignedAt    *time.Time      `json:"signed_at"`
	CancelledAt *time.Time      `json:"cancelled_at"`
	CreatedAt   time.Time       `json:"created_at"`
	Version     int             `json:"version"`
}

// ToSaleContractResponse converts a domain sale contract
func ToSaleContractResponse(c *contract.SaleContract) SaleContractResponse {
	return SaleContractResponse{
		ID:          c.ID,
		PropertyID:  c.PropertyID,
		BuyerID:     c.BuyerID,
		SellerID:    c.SellerID,
		AgentID:     c.AgentID,
		OfferID:     c.OfferID,
		Price:       c.Price,
		Status:      string(c.Status),
		DocumentKey: c.DocumentKey,
		SignedAt:    c.SignedAt,
		CancelledAt: c.CancelledAt,
		CreatedAt:   c.CreatedAt,
		Version:     c.Version,
	}
}

// ToSaleContractResponses converts a slice of sale contracts
func ToSaleContractResponses(contracts []contract.SaleContract) []SaleContractResponse {
	out := make([]SaleContractResponse, len(contracts))
	for i := range contracts {
		out[i] = ToSaleContractResponse(&contracts[i])
	}
	return out
}

// RentalContractResponse represents a lease in API responses
type RentalContractResponse struct {
	ID           uuid.UUID       `json:"id"`
	PropertyID   uuid.UUID       `json:"property_id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	LandlordID   uuid.UUID       `json:"landlord_id"`
	AgentID      uuid.UUID       `json:"agent_id"`
	MonthlyRent  decimal.Decimal `json:"monthly_rent"`
	Deposit      decimal.Decimal `json:"deposit"`
	StartDate    time.Time       `json:"start_date"`
	EndDate      time.Time       `json:"end_date"`
	Status       string          `json:"status"`
	DocumentKey  string          `json:"document_key,omitempty"`
	SignedAt     *time.Time      `json:"signed_at"`
	TerminatedAt *time.Time      `json:"terminated_at"`
	CreatedAt    time.Time       `json:"created_at"`
	Version      int             `json:"version"`
}

// ToRentalContractResponse converts a domain rental contract
func ToRentalContractResponse(c *contract.RentalContract) RentalContractResponse {
	return RentalContractResponse{
		ID:           c.ID,
		PropertyID:   c.PropertyID,
		TenantID:     c.TenantID,
		LandlordID:   c.LandlordID,
		AgentID:      c.AgentID,
		MonthlyRent:  c.MonthlyRent,
		Deposit:      c.Deposit,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		Status:       string(c.Status),
		DocumentKey:  c.DocumentKey,
		SignedAt:     c.SignedAt,
		TerminatedAt: c.TerminatedAt,
		CreatedAt:    c.CreatedAt,
		Version:      c.Version,
	}
}

// ToRentalContractResponses converts a slice of rental contracts
func ToRentalContractResponses(contracts []contract.RentalContract) []RentalContractResponse {
	out := make([]RentalContractResponse, len(contracts))
	for i := range contracts {
		out[i] = ToRentalContractResponse(&contracts[i])
	}
	return out
}

// DocumentURLResponse carries a time-limited download link
type DocumentURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
