package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realty/backend/internal/domain/shared"
)

// CreditEventType classifies entries in a borrower's credit history
type CreditEventType string

const (
	CreditEventOnTimePayment CreditEventType = "on_time_payment"
	CreditEventLatePayment   CreditEventType = "late_payment"
	CreditEventMissedPayment CreditEventType = "missed_payment"
	CreditEventDefault       CreditEventType = "default"
	CreditEventInquiry       CreditEventType = "inquiry"
	CreditEventAccountOpened CreditEventType = "account_opened"
)

// CreditEvent is an append-only record in a borrower's credit history
type CreditEvent struct {
	shared.BaseEntity
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type       CreditEventType `gorm:"type:varchar(30);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	OccurredAt time.Time       `gorm:"not null;index"`
	Note       string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CreditEvent) TableName() string {
	return "credit_events"
}

var validCreditEvents = map[CreditEventType]bool{
	CreditEventOnTimePayment: true,
	CreditEventLatePayment:   true,
	CreditEventMissedPayment: true,
	CreditEventDefault:       true,
	CreditEventInquiry:       true,
	CreditEventAccountOpened: true,
}

// NewCreditEvent creates a credit history entry
func NewCreditEvent(userID uuid.UUID, eventType CreditEventType, amount decimal.Decimal, occurredAt time.Time, note string) (*CreditEvent, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "User is required")
	}
	if !validCreditEvents[eventType] {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown credit event type: "+string(eventType))
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	return &CreditEvent{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Type:       eventType,
		Amount:     amount,
		OccurredAt: occurredAt,
		Note:       note,
	}, nil
}

// CreditHistory is the scoring input assembled from a borrower's records
type CreditHistory struct {
	UserID          uuid.UUID
	Events          []CreditEvent
	OpenLoans       int
	OutstandingDebt decimal.Decimal
	OldestAccount   *time.Time
}

const (
	ScoreFloor   = 300
	ScoreCeiling = 850
	scoreBase    = 600
)

// Score computes a point-adjusted credit score from the history.
// The result is always within [ScoreFloor, ScoreCeiling].
func Score(h CreditHistory) int {
	score := scoreBase
	recentCutoff := time.Now().AddDate(-1, 0, 0)

	for _, e := range h.Events {
		switch e.Type {
		case CreditEventOnTimePayment:
			score += 5
		case CreditEventLatePayment:
			score -= 30
		case CreditEventMissedPayment:
			score -= 60
		case CreditEventDefault:
			score -= 150
		case CreditEventInquiry:
			if e.OccurredAt.After(recentCutoff) {
				score -= 10
			}
		}
	}

	// account age rewards long histories
	if h.OldestAccount != nil {
		years := int(time.Since(*h.OldestAccount).Hours() / (24 * 365))
		if years > 10 {
			years = 10
		}
		score += years * 5
	}

	// heavy debt load drags the score down
	if h.OutstandingDebt.GreaterThan(decimal.NewFromInt(500000)) {
		score -= 40
	} else if h.OutstandingDebt.GreaterThan(decimal.NewFromInt(100000)) {
		score -= 20
	}

	if h.OpenLoans > 3 {
		score -= (h.OpenLoans - 3) * 10
	}

	if score < ScoreFloor {
		return ScoreFloor
	}
	if score > ScoreCeiling {
		return ScoreCeiling
	}
	return score
}

// CreditScore is a computed snapshot persisted for reporting
type CreditScore struct {
	shared.BaseEntity
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Value      int       `gorm:"not null"`
	ComputedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CreditScore) TableName() string {
	return "credit_scores"
}

// NewCreditScore records a score snapshot for a borrower
func NewCreditScore(userID uuid.UUID, value int) (*CreditScore, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "User is required")
	}
	if value < ScoreFloor || value > ScoreCeiling {
		return nil, shared.NewDomainError("INVALID_SCORE", "Score outside the valid range")
	}
	return &CreditScore{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Value:      value,
		ComputedAt: time.Now(),
	}, nil
}

// Band returns the human-readable score band used on dashboards
func (s *CreditScore) Band() string {
	switch {
	case s.Value >= 800:
		return "excellent"
	case s.Value >= 740:
		return "very_good"
	case s.Value >= 670:
		return "good"
	case s.Value >= 580:
		return "fair"
	default:
		return "poor"
	}
}
