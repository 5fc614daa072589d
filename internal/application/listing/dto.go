package listing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realty/backend/internal/domain/listing"
)

// CreatePropertyRequest represents a request to create a property listing
type CreatePropertyRequest struct {
	Title       string          `json:"title" binding:"required,min=1,max=200"`
	Description string          `json:"description"`
	Type        string          `json:"type" binding:"required,oneof=house apartment condo commercial land"`
	ListingType string          `json:"listing_type" binding:"required,oneof=sale rent"`
	Address     string          `json:"address" binding:"required,min=1,max=500"`
	City        string          `json:"city" binding:"required,min=1,max=100"`
	State       string          `json:"state" binding:"max=100"`
	PostalCode  string          `json:"postal_code" binding:"max=20"`
	Bedrooms    int             `json:"bedrooms" binding:"min=0"`
	Bathrooms   int             `json:"bathrooms" binding:"min=0"`
	AreaSqm     decimal.Decimal `json:"area_sqm"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	BranchID    uuid.UUID       `json:"branch_id" binding:"required"`
}

// UpdatePropertyRequest represents a request to update a property listing
type UpdatePropertyRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Bedrooms    *int             `json:"bedrooms" binding:"omitempty,min=0"`
	Bathrooms   *int             `json:"bathrooms" binding:"omitempty,min=0"`
	AreaSqm     *decimal.Decimal `json:"area_sqm"`
	Price       *decimal.Decimal `json:"price"`
}

// PropertyListFilter represents filter options for the property list
type PropertyListFilter struct {
	Search      string `form:"search"`
	City        string `form:"city"`
	Status      string `form:"status" binding:"omitempty,oneof=draft listed under_offer sold rented withdrawn"`
	Type        string `form:"type" binding:"omitempty,oneof=house apartment condo commercial land"`
	ListingType string `form:"listing_type" binding:"omitempty,oneof=sale rent"`
	AgentID     string `form:"agent_id" binding:"omitempty,uuid"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PropertyResponse represents a property in API responses
type PropertyResponse struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	ListingType string          `json:"listing_type"`
	Status      string          `json:"status"`
	Address     string          `json:"address"`
	City        string          `json:"city"`
	State       string          `json:"state"`
	PostalCode  string          `json:"postal_code"`
	Bedrooms    int             `json:"bedrooms"`
	Bathrooms   int             `json:"bathrooms"`
	AreaSqm     decimal.Decimal `json:"area_sqm"`
	Price       decimal.Decimal `json:"price"`
	AgentID     uuid.UUID       `json:"agent_id"`
	BranchID    uuid.UUID       `json:"branch_id"`
	Photos      string          `json:"photos"`
	ListedAt    *time.Time      `json:"listed_at"`
	ClosedAt    *time.Time      `json:"closed_at"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ToPropertyResponse converts a domain property to its API representation
func ToPropertyResponse(p *listing.Property) PropertyResponse {
	return PropertyResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Type:        string(p.Type),
		ListingType: string(p.ListingType),
		Status:      string(p.Status),
		Address:     p.Address,
		City:        p.City,
		State:       p.State,
		PostalCode:  p.PostalCode,
		Bedrooms:    p.Bedrooms,
		Bathrooms:   p.Bathrooms,
		AreaSqm:     p.AreaSqm,
		Price:       p.Price,
		AgentID:     p.AgentID,
		BranchID:    p.BranchID,
		Photos:      p.Photos,
		ListedAt:    p.ListedAt,
		ClosedAt:    p.ClosedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

// PhotoURLsResponse carries presigned download links for a listing's photos
type PhotoURLsResponse struct {
	URLs      []string  `json:"urls"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToPropertyResponses converts a slice of domain properties
func ToPropertyResponses(props []listing.Property) []PropertyResponse {
	out := make([]PropertyResponse, len(props))
	for i := range props {
		out[i] = ToPropertyResponse(&props[i])
	}
	return out
}

// CreateOfferRequest represents a client's offer on a property
type CreateOfferRequest struct {
	PropertyID uuid.UUID       `json:"property_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Message    string          `json:"message" binding:"max=2000"`
	ExpiresAt  *time.Time      `json:"expires_at"`
}

// OfferListFilter represents filter options for the offer list
type OfferListFilter struct {
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending accepted rejected withdrawn expired"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// OfferResponse represents an offer in API responses
type OfferResponse struct {
	ID         uuid.UUID       `json:"id"`
	PropertyID uuid.UUID       `json:"property_id"`
	BuyerID    uuid.UUID       `json:"buyer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	ExpiresAt  *time.Time      `json:"expires_at"`
	DecidedAt  *time.Time      `json:"decided_at"`
	CreatedAt  time.Time       `json:"created_at"`
	Version    int             `json:"version"`
}

// ToOfferResponse converts a domain offer to its API representation
func ToOfferResponse(o *listing.Offer) OfferResponse {
	return OfferResponse{
		ID:         o.ID,
		PropertyID: o.PropertyID,
		BuyerID:    o.BuyerID,
		Amount:     o.Amount,
		Status:     string(o.Status),
		Message:    o.Message,
		ExpiresAt:  o.ExpiresAt,
		DecidedAt:  o.DecidedAt,
		CreatedAt:  o.CreatedAt,
		Version:    o.Version,
	}
}

// ToOfferResponses converts a slice of domain offers
func ToOfferResponses(offers []listing.Offer) []OfferResponse {
	out := make([]OfferResponse, len(offers))
	for i := range offers {
		out[i] = ToOfferResponse(&offers[i])
	}
	return out
}
