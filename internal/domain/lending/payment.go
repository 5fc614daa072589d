package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realty/backend/internal/domain/shared"
)

// PaymentStatus represents the status of a scheduled loan payment
type PaymentStatus string

const (
	PaymentStatusScheduled PaymentStatus = "scheduled"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusLate      PaymentStatus = "late"
	PaymentStatusMissed    PaymentStatus = "missed"
)

// Payment is a single installment against a loan
type Payment struct {
	shared.BaseEntity
	LoanID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DueDate time.Time       `gorm:"not null;index"`
	Status  PaymentStatus   `gorm:"type:varchar(20);not null;default:'scheduled';index"`
	PaidAt  *time.Time
	Method  string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment schedules an installment for a loan
func NewPayment(loanID uuid.UUID, amount decimal.Decimal, dueDate time.Time) (*Payment, error) {
	if loanID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Loan is required")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	return &Payment{
		BaseEntity: shared.NewBaseEntity(),
		LoanID:     loanID,
		Amount:     amount,
		DueDate:    dueDate,
		Status:     PaymentStatusScheduled,
	}, nil
}

// MarkPaid settles the installment. Payments settled after the due
// date are recorded as late.
func (p *Payment) MarkPaid(at time.Time, method string) error {
	if p.Status == PaymentStatusPaid || p.Status == PaymentStatusLate {
		return shared.NewDomainError("INVALID_STATE", "Payment is already settled")
	}
	p.PaidAt = &at
	p.Method = method
	if at.After(p.DueDate) {
		p.Status = PaymentStatusLate
	} else {
		p.Status = PaymentStatusPaid
	}
	p.UpdatedAt = time.Now()
	return nil
}

// MarkMissed flags an unsettled installment past its due date
func (p *Payment) MarkMissed(now time.Time) error {
	if p.Status != PaymentStatusScheduled {
		return shared.NewDomainError("INVALID_STATE", "Only scheduled payments can be missed")
	}
	if !now.After(p.DueDate) {
		return shared.NewDomainError("INVALID_STATE", "Payment is not yet due")
	}
	p.Status = PaymentStatusMissed
	p.UpdatedAt = time.Now()
	return nil
}

// IsSettled reports whether money was received for this installment
func (p *Payment) IsSettled() bool {
	return p.Status == PaymentStatusPaid || p.Status == PaymentStatusLate
}
