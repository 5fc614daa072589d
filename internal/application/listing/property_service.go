package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/audit"
	"github.com/realty/backend/internal/domain/listing"
	"github.com/realty/backend/internal/domain/shared"
)

const photoURLExpiry = 15 * time.Minute

// PropertyService handles property listing operations
type PropertyService struct {
	propertyRepo listing.PropertyRepository
	photos       shared.BlobStore
	recorder     audit.Recorder
	logger       *zap.Logger
}

// NewPropertyService creates a new property service
func NewPropertyService(propertyRepo listing.PropertyRepository, photos shared.BlobStore, recorder audit.Recorder, logger *zap.Logger) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		photos:       photos,
		recorder:     recorder,
		logger:       logger,
	}
}

// Create creates a draft listing owned by the acting agent
func (s *PropertyService) Create(ctx context.Context, actor audit.Actor, req CreatePropertyRequest) (*PropertyResponse, error) {
	property, err := listing.NewProperty(req.Title, req.Address, req.City,
		listing.PropertyType(req.Type), listing.ListingType(req.ListingType),
		req.Price, actor.ID, req.BranchID)
	if err != nil {
		return nil, err
	}

	property.State = req.State
	property.PostalCode = req.PostalCode
	if req.Description != "" || req.Bedrooms > 0 || req.Bathrooms > 0 || !req.AreaSqm.IsZero() {
		if err := property.Update(req.Title, req.Description, req.Bedrooms, req.Bathrooms, req.AreaSqm); err != nil {
			return nil, err
		}
	}

	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "property.create", "property", property.ID.String(),
		fmt.Sprintf(`{"title":%q,"city":%q}`, property.Title, property.City))
	s.logger.Info("Property created",
		zap.String("property_id", property.ID.String()),
		zap.String("agent_id", actor.ID.String()))

	resp := ToPropertyResponse(property)
	return &resp, nil
}

// GetByID retrieves a property by ID
func (s *PropertyService) GetByID(ctx context.Context, id uuid.UUID) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPropertyResponse(property)
	return &resp, nil
}

// List lists properties with pagination and filters
func (s *PropertyService) List(ctx context.Context, filter PropertyListFilter) ([]PropertyResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.City != "" {
		domainFilter.Filters["city"] = filter.City
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.ListingType != "" {
		domainFilter.Filters["listing_type"] = filter.ListingType
	}
	if filter.AgentID != "" {
		domainFilter.Filters["agent_id"] = filter.AgentID
	}

	properties, err := s.propertyRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.propertyRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPropertyResponses(properties), total, nil
}

// Update updates the mutable fields of a listing
func (s *PropertyService) Update(ctx context.Context, actor audit.Actor, id uuid.UUID, req UpdatePropertyRequest) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	title := property.Title
	if req.Title != nil {
		title = *req.Title
	}
	description := property.Description
	if req.Description != nil {
		description = *req.Description
	}
	bedrooms := property.Bedrooms
	if req.Bedrooms != nil {
		bedrooms = *req.Bedrooms
	}
	bathrooms := property.Bathrooms
	if req.Bathrooms != nil {
		bathrooms = *req.Bathrooms
	}
	areaSqm := property.AreaSqm
	if req.AreaSqm != nil {
		areaSqm = *req.AreaSqm
	}

	if err := property.Update(title, description, bedrooms, bathrooms, areaSqm); err != nil {
		return nil, err
	}
	if req.Price != nil {
		if err := property.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}

	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "property.update", "property", id.String(), "")
	resp := ToPropertyResponse(property)
	return &resp, nil
}

// Publish moves a draft or withdrawn property onto the market
func (s *PropertyService) Publish(ctx context.Context, actor audit.Actor, id uuid.UUID) (*PropertyResponse, error) {
	return s.transition(ctx, actor, id, "property.publish", (*listing.Property).List)
}

// Withdraw removes a property from the market
func (s *PropertyService) Withdraw(ctx context.Context, actor audit.Actor, id uuid.UUID) (*PropertyResponse, error) {
	return s.transition(ctx, actor, id, "property.withdraw", (*listing.Property).Withdraw)
}

// ReturnToMarket relists a property whose accepted offer fell through
func (s *PropertyService) ReturnToMarket(ctx context.Context, actor audit.Actor, id uuid.UUID) (*PropertyResponse, error) {
	return s.transition(ctx, actor, id, "property.return_to_market", (*listing.Property).ReturnToMarket)
}

func (s *PropertyService) transition(ctx context.Context, actor audit.Actor, id uuid.UUID, action string, op func(*listing.Property) error) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(property); err != nil {
		return nil, err
	}
	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, action, "property", id.String(), "")
	resp := ToPropertyResponse(property)
	return &resp, nil
}

// SetPhotos replaces the listing's stored photo keys
func (s *PropertyService) SetPhotos(ctx context.Context, actor audit.Actor, id uuid.UUID, keys []string) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(keys)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid photo keys")
	}
	property.SetPhotos(string(encoded))

	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "property.set_photos", "property", id.String(), "")
	resp := ToPropertyResponse(property)
	return &resp, nil
}

// UploadPhoto stores one photo in the blob store and appends its key
// to the listing
func (s *PropertyService) UploadPhoto(ctx context.Context, actor audit.Actor, id uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("properties/%s/photos/%s", id, path.Base(filename))
	if err := s.photos.Upload(ctx, key, reader, size, contentType); err != nil {
		return nil, shared.NewDomainError("EXTERNAL_SERVICE", "Failed to store photo")
	}

	keys := decodePhotoKeys(property.Photos)
	keys = appendPhotoKey(keys, key)
	encoded, err := json.Marshal(keys)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid photo keys")
	}
	property.SetPhotos(string(encoded))

	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "property.upload_photo", "property", id.String(),
		fmt.Sprintf(`{"key":%q}`, key))
	resp := ToPropertyResponse(property)
	return &resp, nil
}

// PhotoURLs returns time-limited download links for every stored photo
func (s *PropertyService) PhotoURLs(ctx context.Context, id uuid.UUID) (*PhotoURLsResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	keys := decodePhotoKeys(property.Photos)
	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		url, err := s.photos.PresignedURL(ctx, key, photoURLExpiry)
		if err != nil {
			return nil, shared.NewDomainError("EXTERNAL_SERVICE", "Failed to sign photo URL")
		}
		urls = append(urls, url)
	}

	return &PhotoURLsResponse{URLs: urls, ExpiresAt: time.Now().Add(photoURLExpiry)}, nil
}

func decodePhotoKeys(encoded string) []string {
	var keys []string
	if encoded == "" || json.Unmarshal([]byte(encoded), &keys) != nil {
		return nil
	}
	return keys
}

func appendPhotoKey(keys []string, key string) []string {
	for _, k := range keys {
		if k == key {
			return keys
		}
	}
	return append(keys, key)
}

// Delete removes a listing that never reached the market
func (s *PropertyService) Delete(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if property.Status != listing.PropertyStatusDraft && property.Status != listing.PropertyStatusWithdrawn {
		return shared.NewDomainError("INVALID_STATE", "Only draft or withdrawn properties can be deleted")
	}
	if err := s.propertyRepo.Delete(ctx, id); err != nil {
		return err
	}

	audit.Log(ctx, s.recorder, actor, "property.delete", "property", id.String(), "")
	s.logger.Info("Property deleted", zap.String("property_id", id.String()))
	return nil
}
