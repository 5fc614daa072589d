package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/realty/backend/internal/domain/shared"
)

// Entry is an append-only audit record of a mutating action
type Entry struct {
	shared.BaseEntity
	ActorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ActorRole  string    `gorm:"type:varchar(20);not null"`
	Action     string    `gorm:"type:varchar(100);not null;index"`
	EntityType string    `gorm:"type:varchar(50);not null;index:idx_audit_entity"`
	EntityID   string    `gorm:"type:varchar(100);not null;index:idx_audit_entity"`
	Payload    string    `gorm:"type:jsonb;default:'{}'"`
	IP         string    `gorm:"type:varchar(45)"`
	OccurredAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "audit_entries"
}

// NewEntry creates an audit record
func NewEntry(actorID uuid.UUID, actorRole, action, entityType, entityID, payload, ip string) (*Entry, error) {
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Actor is required")
	}
	if action == "" || entityType == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Action and entity type are required")
	}
	if payload == "" {
		payload = "{}"
	}
	return &Entry{
		BaseEntity: shared.NewBaseEntity(),
		ActorID:    actorID,
		ActorRole:  actorRole,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    payload,
		IP:         ip,
		OccurredAt: time.Now(),
	}, nil
}

// Recorder is the port mutating services write audit entries through
type Recorder interface {
	// Record appends an audit entry. Failures are logged, never
	// propagated to the caller's transaction.
	Record(ctx context.Context, entry *Entry)
}

// Actor identifies who performed an audited action
type Actor struct {
	ID   uuid.UUID
	Role string
	IP   string
}

// Log builds an entry for the actor and hands it to the recorder.
// Entries that fail validation are dropped.
func Log(ctx context.Context, rec Recorder, actor Actor, action, entityType, entityID, payload string) {
	if rec == nil {
		return
	}
	entry, err := NewEntry(actor.ID, actor.Role, action, entityType, entityID, payload, actor.IP)
	if err != nil {
		return
	}
	rec.Record(ctx, entry)
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, *Entry) {}

// NewNopRecorder returns a Recorder that drops every entry
func NewNopRecorder() Recorder {
	return nopRecorder{}
}

// Repository defines the interface for audit persistence
type Repository interface {
	// Save appends an entry
	Save(ctx context.Context, entry *Entry) error

	// FindAll finds entries matching the filter, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]Entry, error)

	// FindByEntity finds entries touching an entity, newest first
	FindByEntity(ctx context.Context, entityType, entityID string) ([]Entry, error)

	// FindByActor finds entries produced by an actor, newest first
	FindByActor(ctx context.Context, actorID uuid.UUID, filter shared.Filter) ([]Entry, error)

	// Count counts entries matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
