package org

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realty/backend/internal/domain/shared"
)

// PayrollStatus represents the status of a payroll run entry
type PayrollStatus string

const (
	PayrollStatusDraft    PayrollStatus = "draft"
	PayrollStatusApproved PayrollStatus = "approved"
	PayrollStatusPaid     PayrollStatus = "paid"
)

// Payroll is one employee's pay for one period
type Payroll struct {
	shared.BaseAggregateRoot
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;index:idx_payroll_period,unique"`
	Period     string          `gorm:"type:varchar(7);not null;index:idx_payroll_period,unique"` // YYYY-MM
	Gross      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Deductions decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Bonus      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Net        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status     PayrollStatus   `gorm:"type:varchar(20);not null;default:'draft';index"`
	ApprovedBy *uuid.UUID      `gorm:"type:uuid"`
	PaidAt     *time.Time
}

// TableName returns the table name for GORM
func (Payroll) TableName() string {
	return "payrolls"
}

// NewPayroll drafts a payroll entry. Net pay is gross plus bonus
// minus deductions and must stay positive.
func NewPayroll(employeeID uuid.UUID, period string, gross, deductions, bonus decimal.Decimal) (*Payroll, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Employee is required")
	}
	if _, err := time.Parse("2006-01", period); err != nil {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period must be formatted YYYY-MM")
	}
	if gross.IsNegative() || gross.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Gross pay must be positive")
	}
	if deductions.IsNegative() || bonus.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Deductions and bonus cannot be negative")
	}
	net := gross.Add(bonus).Sub(deductions)
	if net.IsNegative() || net.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Net pay must be positive")
	}
	return &Payroll{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EmployeeID:        employeeID,
		Period:            period,
		Gross:             gross,
		Deductions:        deductions,
		Bonus:             bonus,
		Net:               net,
		Status:            PayrollStatusDraft,
	}, nil
}

// Approve locks the entry for payment
func (p *Payroll) Approve(approverID uuid.UUID) error {
	if p.Status != PayrollStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft payroll can be approved")
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Approver is required")
	}
	p.Status = PayrollStatusApproved
	p.ApprovedBy = &approverID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// MarkPaid records the payout of an approved entry
func (p *Payroll) MarkPaid(at time.Time) error {
	if p.Status != PayrollStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only approved payroll can be paid")
	}
	p.Status = PayrollStatusPaid
	p.PaidAt = &at
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}
