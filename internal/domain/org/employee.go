package org

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realty/backend/internal/domain/shared"
)

// EmployeeStatus represents the employment status
type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "active"
	EmployeeStatusOnLeave    EmployeeStatus = "on_leave"
	EmployeeStatusTerminated EmployeeStatus = "terminated"
)

// Employee is the HR record backing a staff user
type Employee struct {
	shared.BaseAggregateRoot
	UserID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	BranchID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position     string          `gorm:"type:varchar(100);not null"`
	Salary       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status       EmployeeStatus  `gorm:"type:varchar(20);not null;default:'active';index"`
	HiredAt      time.Time       `gorm:"not null"`
	TerminatedAt *time.Time
}

// TableName returns the table name for GORM
func (Employee) TableName() string {
	return "employees"
}

// NewEmployee creates an active employment record
func NewEmployee(userID, branchID uuid.UUID, position string, salary decimal.Decimal, hiredAt time.Time) (*Employee, error) {
	if userID == uuid.Nil || branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "User and branch are required")
	}
	if position == "" || len(position) > 100 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Position must be 1-100 characters")
	}
	if salary.IsNegative() || salary.IsZero() {
		return nil, shared.NewDomainError("INVALID_SALARY", "Salary must be positive")
	}
	return &Employee{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		BranchID:          branchID,
		Position:          position,
		Salary:            salary,
		Status:            EmployeeStatusActive,
		HiredAt:           hiredAt,
	}, nil
}

// Transfer moves the employee to another branch
func (e *Employee) Transfer(branchID uuid.UUID) error {
	if e.Status == EmployeeStatusTerminated {
		return shared.NewDomainError("INVALID_STATE", "Terminated employees cannot transfer")
	}
	if branchID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Branch is required")
	}
	e.BranchID = branchID
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// Promote changes position and salary
func (e *Employee) Promote(position string, salary decimal.Decimal) error {
	if e.Status == EmployeeStatusTerminated {
		return shared.NewDomainError("INVALID_STATE", "Terminated employees cannot be promoted")
	}
	if position == "" {
		return shared.NewDomainError("INVALID_INPUT", "Position is required")
	}
	if salary.IsNegative() || salary.IsZero() {
		return shared.NewDomainError("INVALID_SALARY", "Salary must be positive")
	}
	e.Position = position
	e.Salary = salary
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// StartLeave puts an active employee on leave
func (e *Employee) StartLeave() error {
	if e.Status != EmployeeStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active employees can start leave")
	}
	e.Status = EmployeeStatusOnLeave
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// EndLeave returns an employee from leave
func (e *Employee) EndLeave() error {
	if e.Status != EmployeeStatusOnLeave {
		return shared.NewDomainError("INVALID_STATE", "Employee is not on leave")
	}
	e.Status = EmployeeStatusActive
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// Terminate ends the employment
func (e *Employee) Terminate(at time.Time) error {
	if e.Status == EmployeeStatusTerminated {
		return shared.NewDomainError("INVALID_STATE", "Employee is already terminated")
	}
	e.Status = EmployeeStatusTerminated
	e.TerminatedAt = &at
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}
