package listing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realty/backend/internal/domain/shared"
)

// PropertyStatus represents the listing status of a property
type PropertyStatus string

const (
	PropertyStatusDraft      PropertyStatus = "draft"
	PropertyStatusListed     PropertyStatus = "listed"
	PropertyStatusUnderOffer PropertyStatus = "under_offer"
	PropertyStatusSold       PropertyStatus = "sold"
	PropertyStatusRented     PropertyStatus = "rented"
	PropertyStatusWithdrawn  PropertyStatus = "withdrawn"
)

// PropertyType represents the kind of property
type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeCondo      PropertyType = "condo"
	PropertyTypeCommercial PropertyType = "commercial"
	PropertyTypeLand       PropertyType = "land"
)

// ListingType distinguishes sale listings from rental listings
type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
)

// Property represents a real-estate listing.
// It is the aggregate root for listing operations.
type Property struct {
	shared.BaseAggregateRoot
	Title       string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Type        PropertyType    `gorm:"type:varchar(20);not null"`
	ListingType ListingType     `gorm:"type:varchar(10);not null"`
	Status      PropertyStatus  `gorm:"type:varchar(20);not null;default:'draft';index"`
	Address     string          `gorm:"type:varchar(500);not null"`
	City        string          `gorm:"type:varchar(100);not null;index"`
	State       string          `gorm:"type:varchar(100)"`
	PostalCode  string          `gorm:"type:varchar(20)"`
	Bedrooms    int             `gorm:"not null;default:0"`
	Bathrooms   int             `gorm:"not null;default:0"`
	AreaSqm     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	AgentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BranchID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Photos      string          `gorm:"type:jsonb;default:'[]'"` // storage object keys
	ListedAt    *time.Time
	ClosedAt    *time.Time
}

// TableName returns the table name for GORM
func (Property) TableName() string {
	return "properties"
}

var validPropertyTypes = map[PropertyType]bool{
	PropertyTypeHouse:      true,
	PropertyTypeApartment:  true,
	PropertyTypeCondo:      true,
	PropertyTypeCommercial: true,
	PropertyTypeLand:       true,
}

// NewProperty creates a new property listing in draft status
func NewProperty(title, address, city string, propertyType PropertyType, listingType ListingType, price decimal.Decimal, agentID, branchID uuid.UUID) (*Property, error) {
	if title == "" || len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title must be 1-200 characters")
	}
	if address == "" || len(address) > 500 {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address must be 1-500 characters")
	}
	if city == "" || len(city) > 100 {
		return nil, shared.NewDomainError("INVALID_CITY", "City must be 1-100 characters")
	}
	if !validPropertyTypes[propertyType] {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown property type: "+string(propertyType))
	}
	if listingType != ListingTypeSale && listingType != ListingTypeRent {
		return nil, shared.NewDomainError("INVALID_TYPE", "Listing type must be sale or rent")
	}
	if price.IsNegative() || price.IsZero() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}
	if agentID == uuid.Nil || branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Agent and branch are required")
	}

	return &Property{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Type:              propertyType,
		ListingType:       listingType,
		Status:            PropertyStatusDraft,
		Address:           address,
		City:              city,
		AreaSqm:           decimal.Zero,
		Price:             price,
		AgentID:           agentID,
		BranchID:          branchID,
		Photos:            "[]",
	}, nil
}

// Update updates the mutable listing details. Allowed while draft or listed.
func (p *Property) Update(title, description string, bedrooms, bathrooms int, areaSqm decimal.Decimal) error {
	if p.Status != PropertyStatusDraft && p.Status != PropertyStatusListed {
		return shared.NewDomainError("INVALID_STATE", "Property details can only change while draft or listed")
	}
	if title == "" || len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be 1-200 characters")
	}
	if bedrooms < 0 || bathrooms < 0 {
		return shared.NewDomainError("INVALID_INPUT", "Room counts cannot be negative")
	}
	if areaSqm.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Area cannot be negative")
	}
	p.Title = title
	p.Description = description
	p.Bedrooms = bedrooms
	p.Bathrooms = bathrooms
	p.AreaSqm = areaSqm
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetPrice updates the asking price. Allowed while draft or listed.
func (p *Property) SetPrice(price decimal.Decimal) error {
	if p.Status != PropertyStatusDraft && p.Status != PropertyStatusListed {
		return shared.NewDomainError("INVALID_STATE", "Price can only change while draft or listed")
	}
	if price.IsNegative() || price.IsZero() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}
	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// List publishes a draft property to the market
func (p *Property) List() error {
	if p.Status != PropertyStatusDraft && p.Status != PropertyStatusWithdrawn {
		return shared.NewDomainError("INVALID_STATE", "Only draft or withdrawn properties can be listed")
	}
	now := time.Now()
	p.Status = PropertyStatusListed
	p.ListedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// MarkUnderOffer moves a listed property to under_offer when an offer is accepted
func (p *Property) MarkUnderOffer() error {
	if p.Status != PropertyStatusListed {
		return shared.NewDomainError("INVALID_STATE", "Only listed properties can go under offer")
	}
	p.Status = PropertyStatusUnderOffer
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// ReturnToMarket relists a property whose accepted offer fell through
func (p *Property) ReturnToMarket() error {
	if p.Status != PropertyStatusUnderOffer {
		return shared.NewDomainError("INVALID_STATE", "Only properties under offer can return to market")
	}
	p.Status = PropertyStatusListed
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// MarkSold closes a sale listing
func (p *Property) MarkSold() error {
	if p.ListingType != ListingTypeSale {
		return shared.NewDomainError("INVALID_STATE", "Only sale listings can be sold")
	}
	if p.Status != PropertyStatusUnderOffer {
		return shared.NewDomainError("INVALID_STATE", "Only properties under offer can be sold")
	}
	now := time.Now()
	p.Status = PropertyStatusSold
	p.ClosedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// MarkRented closes a rental listing
func (p *Property) MarkRented() error {
	if p.ListingType != ListingTypeRent {
		return shared.NewDomainError("INVALID_STATE", "Only rental listings can be rented")
	}
	if p.Status != PropertyStatusUnderOffer {
		return shared.NewDomainError("INVALID_STATE", "Only properties under offer can be rented")
	}
	now := time.Now()
	p.Status = PropertyStatusRented
	p.ClosedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// Withdraw removes the property from the market
func (p *Property) Withdraw() error {
	if p.Status == PropertyStatusSold || p.Status == PropertyStatusRented {
		return shared.NewDomainError("INVALID_STATE", "Closed properties cannot be withdrawn")
	}
	if p.Status == PropertyStatusWithdrawn {
		return shared.NewDomainError("INVALID_STATE", "Property is already withdrawn")
	}
	p.Status = PropertyStatusWithdrawn
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetPhotos replaces the stored photo keys (serialized JSON array)
func (p *Property) SetPhotos(photosJSON string) {
	if photosJSON == "" {
		photosJSON = "[]"
	}
	p.Photos = photosJSON
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsOpen reports whether the listing can still receive offers
func (p *Property) IsOpen() bool {
	return p.Status == PropertyStatusListed
}
