package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realty/backend/internal/domain/shared"
)

// LoanStatus represents the lifecycle status of a loan
type LoanStatus string

const (
	LoanStatusDraft       LoanStatus = "draft"
	LoanStatusSubmitted   LoanStatus = "submitted"
	LoanStatusUnderReview LoanStatus = "under_review"
	LoanStatusApproved    LoanStatus = "approved"
	LoanStatusActive      LoanStatus = "active"
	LoanStatusPaidOff     LoanStatus = "paid_off"
	LoanStatusRejected    LoanStatus = "rejected"
	LoanStatusCancelled   LoanStatus = "cancelled"
)

// Loan represents a mortgage or personal loan application and its
// post-disbursement state. It is the aggregate root for lending.
type Loan struct {
	shared.BaseAggregateRoot
	BorrowerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	PropertyID     *uuid.UUID      `gorm:"type:uuid;index"`
	Principal      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	AnnualRatePct  decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	TermMonths     int             `gorm:"not null"`
	Status         LoanStatus      `gorm:"type:varchar(20);not null;default:'draft';index"`
	MonthlyPayment decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Outstanding    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Purpose        string          `gorm:"type:varchar(500)"`
	ReviewerID     *uuid.UUID      `gorm:"type:uuid"`
	RejectReason   string          `gorm:"type:varchar(500)"`
	SubmittedAt    *time.Time
	ApprovedAt     *time.Time
	DisbursedAt    *time.Time
	ClosedAt       *time.Time
}

// TableName returns the table name for GORM
func (Loan) TableName() string {
	return "loans"
}

// NewLoan creates a draft loan application
func NewLoan(borrowerID uuid.UUID, propertyID *uuid.UUID, principal decimal.Decimal, termMonths int, purpose string) (*Loan, error) {
	if borrowerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Borrower is required")
	}
	if principal.IsNegative() || principal.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Principal must be positive")
	}
	if termMonths < 1 || termMonths > 480 {
		return nil, shared.NewDomainError("INVALID_TERM", "Term must be between 1 and 480 months")
	}
	return &Loan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BorrowerID:        borrowerID,
		PropertyID:        propertyID,
		Principal:         principal,
		TermMonths:        termMonths,
		Status:            LoanStatusDraft,
		MonthlyPayment:    decimal.Zero,
		Outstanding:       decimal.Zero,
		Purpose:           purpose,
	}, nil
}

func (l *Loan) touch() {
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// Submit moves a draft application into the review queue
func (l *Loan) Submit() error {
	if l.Status != LoanStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft loans can be submitted")
	}
	now := time.Now()
	l.Status = LoanStatusSubmitted
	l.SubmittedAt = &now
	l.touch()
	return nil
}

// StartReview assigns a reviewer and begins underwriting
func (l *Loan) StartReview(reviewerID uuid.UUID) error {
	if l.Status != LoanStatusSubmitted {
		return shared.NewDomainError("INVALID_STATE", "Only submitted loans can enter review")
	}
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Reviewer is required")
	}
	l.Status = LoanStatusUnderReview
	l.ReviewerID = &reviewerID
	l.touch()
	return nil
}

// Approve sets the interest rate and computes the amortized monthly payment
func (l *Loan) Approve(annualRatePct decimal.Decimal) error {
	if l.Status != LoanStatusUnderReview {
		return shared.NewDomainError("INVALID_STATE", "Only loans under review can be approved")
	}
	if annualRatePct.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Rate cannot be negative")
	}
	now := time.Now()
	l.AnnualRatePct = annualRatePct
	l.MonthlyPayment = AmortizedPayment(l.Principal, annualRatePct, l.TermMonths)
	l.Status = LoanStatusApproved
	l.ApprovedAt = &now
	l.touch()
	return nil
}

// Reject declines a submitted or under-review application
func (l *Loan) Reject(reason string) error {
	if l.Status != LoanStatusSubmitted && l.Status != LoanStatusUnderReview {
		return shared.NewDomainError("INVALID_STATE", "Only pending applications can be rejected")
	}
	now := time.Now()
	l.Status = LoanStatusRejected
	l.RejectReason = reason
	l.ClosedAt = &now
	l.touch()
	return nil
}

// Cancel lets the borrower withdraw before disbursement
func (l *Loan) Cancel() error {
	switch l.Status {
	case LoanStatusDraft, LoanStatusSubmitted, LoanStatusUnderReview, LoanStatusApproved:
	default:
		return shared.NewDomainError("INVALID_STATE", "Disbursed loans cannot be cancelled")
	}
	now := time.Now()
	l.Status = LoanStatusCancelled
	l.ClosedAt = &now
	l.touch()
	return nil
}

// Disburse activates an approved loan and opens the outstanding balance
func (l *Loan) Disburse() error {
	if l.Status != LoanStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only approved loans can be disbursed")
	}
	now := time.Now()
	l.Status = LoanStatusActive
	l.Outstanding = l.Principal
	l.DisbursedAt = &now
	l.touch()
	return nil
}

// ApplyPayment reduces the outstanding balance. The final payment
// transitions the loan to paid_off.
func (l *Loan) ApplyPayment(amount decimal.Decimal) error {
	if l.Status != LoanStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Payments only apply to active loans")
	}
	if amount.IsNegative() || amount.IsZero() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(l.Outstanding) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment exceeds the outstanding balance")
	}
	l.Outstanding = l.Outstanding.Sub(amount)
	if l.Outstanding.IsZero() {
		now := time.Now()
		l.Status = LoanStatusPaidOff
		l.ClosedAt = &now
	}
	l.touch()
	return nil
}

// AmortizedPayment computes the fixed monthly payment for the given
// principal, annual rate (percent) and term. Zero-rate loans divide
// the principal evenly.
func AmortizedPayment(principal, annualRatePct decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 {
		return decimal.Zero
	}
	if annualRatePct.IsZero() {
		return principal.DivRound(decimal.NewFromInt(int64(termMonths)), 2)
	}
	// monthly rate r = annual% / 100 / 12
	r := annualRatePct.Div(decimal.NewFromInt(1200))
	// M = P * r * (1+r)^n / ((1+r)^n - 1)
	growth := decimal.NewFromInt(1).Add(r).Pow(decimal.NewFromInt(int64(termMonths)))
	numerator := principal.Mul(r).Mul(growth)
	denominator := growth.Sub(decimal.NewFromInt(1))
	return numerator.DivRound(denominator, 2)
}
