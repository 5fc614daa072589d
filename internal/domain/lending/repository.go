package lending

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/realty/backend/internal/domain/shared"
)

// LoanRepository defines the interface for loan persistence
type LoanRepository interface {
	// FindByID finds a loan by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Loan, error)

	// FindAll finds all loans matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Loan, error)

	// FindByBorrower finds loans belonging to a borrower
	FindByBorrower(ctx context.Context, borrowerID uuid.UUID, filter shared.Filter) ([]Loan, error)

	// FindByStatus finds loans in the given status
	FindByStatus(ctx context.Context, status LoanStatus, filter shared.Filter) ([]Loan, error)

	// CountActiveByBorrower counts the borrower's open loans
	CountActiveByBorrower(ctx context.Context, borrowerID uuid.UUID) (int64, error)

	// Save creates or updates a loan
	Save(ctx context.Context, loan *Loan) error

	// Delete deletes a loan
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts loans matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByLoan finds the installments of a loan
	FindByLoan(ctx context.Context, loanID uuid.UUID, filter shared.Filter) ([]Payment, error)

	// FindOverdue finds scheduled installments whose due date has
	// passed, oldest first, up to limit
	FindOverdue(ctx context.Context, asOf time.Time, limit int) ([]Payment, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *Payment) error

	// Count counts payments matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// CreditEventRepository defines the interface for credit history persistence
type CreditEventRepository interface {
	// FindByUser finds a borrower's credit events, oldest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]CreditEvent, error)

	// Save appends a credit event
	Save(ctx context.Context, event *CreditEvent) error
}

// CreditScoreRepository defines the interface for score snapshots
type CreditScoreRepository interface {
	// FindLatestByUser finds the most recent score snapshot for a borrower
	FindLatestByUser(ctx context.Context, userID uuid.UUID) (*CreditScore, error)

	// Save stores a score snapshot
	Save(ctx context.Context, score *CreditScore) error
}
