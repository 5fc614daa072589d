package lending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/audit"
	"github.com/realty/backend/internal/domain/lending"
	"github.com/realty/backend/internal/domain/shared"
)

// CreditService maintains borrower credit histories and score snapshots
type CreditService struct {
	loanRepo  lending.LoanRepository
	eventRepo lending.CreditEventRepository
	scoreRepo lending.CreditScoreRepository
	recorder  audit.Recorder
	logger    *zap.Logger
}

// NewCreditService creates a new credit service
func NewCreditService(
	loanRepo lending.LoanRepository,
	eventRepo lending.CreditEventRepository,
	scoreRepo lending.CreditScoreRepository,
	recorder audit.Recorder,
	logger *zap.Logger,
) *CreditService {
	return &CreditService{
		loanRepo:  loanRepo,
		eventRepo: eventRepo,
		scoreRepo: scoreRepo,
		recorder:  recorder,
		logger:    logger,
	}
}

// RecordEvent appends an entry to a borrower's credit history
func (s *CreditService) RecordEvent(ctx context.Context, actor audit.Actor, req RecordCreditEventRequest) (*CreditEventResponse, error) {
	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	event, err := lending.NewCreditEvent(req.UserID, lending.CreditEventType(req.Type), req.Amount, occurredAt, req.Note)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Save(ctx, event); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "credit.record_event", "credit_event", event.ID.String(),
		fmt.Sprintf(`{"user_id":%q,"type":%q}`, req.UserID, req.Type))

	resp := ToCreditEventResponses([]lending.CreditEvent{*event})[0]
	return &resp, nil
}

// History returns a borrower's credit events, oldest first
func (s *CreditService) History(ctx context.Context, userID uuid.UUID) ([]CreditEventResponse, error) {
	events, err := s.eventRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToCreditEventResponses(events), nil
}

// Compute assembles the borrower's history, scores it and persists
// the snapshot
func (s *CreditService) Compute(ctx context.Context, actor audit.Actor, userID uuid.UUID) (*CreditScoreResponse, error) {
	history, err := s.assembleHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	value := lending.Score(history)
	score, err := lending.NewCreditScore(userID, value)
	if err != nil {
		return nil, err
	}
	if err := s.scoreRepo.Save(ctx, score); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "credit.compute", "credit_score", score.ID.String(),
		fmt.Sprintf(`{"user_id":%q,"value":%d}`, userID, value))
	s.logger.Info("Credit score computed",
		zap.String("user_id", userID.String()),
		zap.Int("value", value),
		zap.String("band", score.Band()))

	resp := ToCreditScoreResponse(score)
	return &resp, nil
}

// Latest returns the most recent score snapshot. Borrowers with no
// snapshot yet get one computed on the fly.
func (s *CreditService) Latest(ctx context.Context, actor audit.Actor, userID uuid.UUID) (*CreditScoreResponse, error) {
	score, err := s.scoreRepo.FindLatestByUser(ctx, userID)
	if err != nil {
		var derr *shared.DomainError
		if errors.As(err, &derr) && derr.Code == "NOT_FOUND" {
			return s.Compute(ctx, actor, userID)
		}
		return nil, err
	}
	resp := ToCreditScoreResponse(score)
	return &resp, nil
}

func (s *CreditService) assembleHistory(ctx context.Context, userID uuid.UUID) (lending.CreditHistory, error) {
	events, err := s.eventRepo.FindByUser(ctx, userID)
	if err != nil {
		return lending.CreditHistory{}, err
	}

	openLoans, err := s.loanRepo.CountActiveByBorrower(ctx, userID)
	if err != nil {
		return lending.CreditHistory{}, err
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 500
	loans, err := s.loanRepo.FindByBorrower(ctx, userID, filter)
	if err != nil {
		return lending.CreditHistory{}, err
	}

	debt := decimal.Zero
	for i := range loans {
		if loans[i].Status == lending.LoanStatusActive {
			debt = debt.Add(loans[i].Outstanding)
		}
	}

	var oldest *time.Time
	for i := range events {
		if events[i].Type != lending.CreditEventAccountOpened {
			continue
		}
		if oldest == nil || events[i].OccurredAt.Before(*oldest) {
			t := events[i].OccurredAt
			oldest = &t
		}
	}

	return lending.CreditHistory{
		UserID:          userID,
		Events:          events,
		OpenLoans:       int(openLoans),
		OutstandingDebt: debt,
		OldestAccount:   oldest,
	}, nil
}
