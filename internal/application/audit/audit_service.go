package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/audit"
	"github.com/realty/backend/internal/domain/shared"
)

// EntryListFilter represents filter options for the audit trail
type EntryListFilter struct {
	Action     string `form:"action"`
	EntityType string `form:"entity_type"`
	ActorID    string `form:"actor_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// EntryResponse represents an audit record in API responses
type EntryResponse struct {
	ID         uuid.UUID `json:"id"`
	ActorID    uuid.UUID `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Payload    string    `json:"payload"`
	IP         string    `json:"ip,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func toEntryResponses(entries []audit.Entry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = EntryResponse{
			ID:         e.ID,
			ActorID:    e.ActorID,
			ActorRole:  e.ActorRole,
			Action:     e.Action,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Payload:    e.Payload,
			IP:         e.IP,
			OccurredAt: e.OccurredAt,
		}
	}
	return out
}

// Service reads the audit trail
type Service struct {
	repo   audit.Repository
	logger *zap.Logger
}

// NewService creates a new audit query service
func NewService(repo audit.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List lists audit entries, newest first
func (s *Service) List(ctx context.Context, filter EntryListFilter) ([]EntryResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "occurred_at"
	domainFilter.OrderDir = "desc"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Action != "" {
		domainFilter.Filters["action"] = filter.Action
	}
	if filter.EntityType != "" {
		domainFilter.Filters["entity_type"] = filter.EntityType
	}
	if filter.ActorID != "" {
		domainFilter.Filters["actor_id"] = filter.ActorID
	}

	entries, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return toEntryResponses(entries), total, nil
}

// ListByEntity lists the trail touching one entity
func (s *Service) ListByEntity(ctx context.Context, entityType, entityID string) ([]EntryResponse, error) {
	if entityType == "" || entityID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Entity type and ID are required")
	}
	entries, err := s.repo.FindByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	return toEntryResponses(entries), nil
}

// ListByActor lists the trail produced by one actor
func (s *Service) ListByActor(ctx context.Context, actorID uuid.UUID) ([]EntryResponse, error) {
	entries, err := s.repo.FindByActor(ctx, actorID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return toEntryResponses(entries), nil
}

// Recorder persists audit entries through the repository. Failures
// are logged and swallowed so they never break the mutation that
// produced them.
type Recorder struct {
	repo   audit.Repository
	logger *zap.Logger
}

// NewRecorder creates a repository-backed audit recorder
func NewRecorder(repo audit.Repository, logger *zap.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Record appends an audit entry
func (r *Recorder) Record(ctx context.Context, entry *audit.Entry) {
	if err := r.repo.Save(ctx, entry); err != nil {
		r.logger.Error("Failed to persist audit entry",
			zap.String("action", entry.Action),
			zap.String("entity_type", entry.EntityType),
			zap.Error(err))
	}
}
