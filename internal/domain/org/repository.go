package org

import (
	"context"

	"github.com/google/uuid"

	"github.com/realty/backend/internal/domain/shared"
)

// BranchRepository defines the interface for branch persistence
type BranchRepository interface {
	// FindByID finds a branch by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Branch, error)

	// FindByCode finds a branch by its unique code
	FindByCode(ctx context.Context, code string) (*Branch, error)

	// FindAll finds branches matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Branch, error)

	// FindDefault finds the default branch
	FindDefault(ctx context.Context) (*Branch, error)

	// Save creates or updates a branch
	Save(ctx context.Context, branch *Branch) error

	// Delete deletes a branch
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts branches matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// EmployeeRepository defines the interface for employee persistence
type EmployeeRepository interface {
	// FindByID finds an employee by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)

	// FindByUser finds the employment record for a user
	FindByUser(ctx context.Context, userID uuid.UUID) (*Employee, error)

	// FindAll finds employees matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Employee, error)

	// FindByBranch finds employees of a branch
	FindByBranch(ctx context.Context, branchID uuid.UUID, filter shared.Filter) ([]Employee, error)

	// Save creates or updates an employee
	Save(ctx context.Context, employee *Employee) error

	// Count counts employees matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// PayrollRepository defines the interface for payroll persistence
type PayrollRepository interface {
	// FindByID finds a payroll entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payroll, error)

	// FindByEmployee finds payroll entries for an employee
	FindByEmployee(ctx context.Context, employeeID uuid.UUID, filter shared.Filter) ([]Payroll, error)

	// FindByPeriod finds all entries of a payroll run
	FindByPeriod(ctx context.Context, period string, filter shared.Filter) ([]Payroll, error)

	// ExistsForPeriod reports whether the employee already has an entry for the period
	ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, period string) (bool, error)

	// Save creates or updates a payroll entry
	Save(ctx context.Context, payroll *Payroll) error

	// Count counts payroll entries matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
