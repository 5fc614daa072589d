package org

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/audit"
	"github.com/realty/backend/internal/domain/org"
	"github.com/realty/backend/internal/domain/shared"
)

var monthsPerYear = decimal.NewFromInt(12)

// PayrollService handles payroll runs
type PayrollService struct {
	payrollRepo  org.PayrollRepository
	employeeRepo org.EmployeeRepository
	recorder     audit.Recorder
	logger       *zap.Logger
}

// NewPayrollService creates a new payroll service
func NewPayrollService(
	payrollRepo org.PayrollRepository,
	employeeRepo org.EmployeeRepository,
	recorder audit.Recorder,
	logger *zap.Logger,
) *PayrollService {
	return &PayrollService{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		recorder:     recorder,
		logger:       logger,
	}
}

// Generate drafts one payroll entry per active or on-leave employee
// for the period. Employees already covered by the run are skipped,
// so the operation can be retried.
func (s *PayrollService) Generate(ctx context.Context, actor audit.Actor, req GeneratePayrollRequest) ([]PayrollResponse, error) {
	if _, err := time.Parse("2006-01", req.Period); err != nil {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period must be formatted YYYY-MM")
	}

	filter := shared.DefaultFilter()
	filter.PageSize = 1000
	employees, err := s.employeeRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	created := make([]PayrollResponse, 0, len(employees))
	for i := range employees {
		emp := &employees[i]
		if emp.Status == org.EmployeeStatusTerminated {
			continue
		}

		exists, err := s.payrollRepo.ExistsForPeriod(ctx, emp.ID, req.Period)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		// monthly gross is the annual salary divided over twelve runs
		gross := emp.Salary.DivRound(monthsPerYear, 2)
		entry, err := org.NewPayroll(emp.ID, req.Period, gross, decimal.Zero, decimal.Zero)
		if err != nil {
			return nil, err
		}
		if err := s.payrollRepo.Save(ctx, entry); err != nil {
			return nil, err
		}
		created = append(created, ToPayrollResponse(entry))
	}

	audit.Log(ctx, s.recorder, actor, "payroll.generate", "payroll_run", req.Period,
		fmt.Sprintf(`{"entries":%d}`, len(created)))
	s.logger.Info("Payroll run generated",
		zap.String("period", req.Period),
		zap.Int("entries", len(created)))

	return created, nil
}

// GetByID retrieves a payroll entry by ID
func (s *PayrollService) GetByID(ctx context.Context, id uuid.UUID) (*PayrollResponse, error) {
	entry, err := s.payrollRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPayrollResponse(entry)
	return &resp, nil
}

// ListByPeriod lists the entries of a payroll run
func (s *PayrollService) ListByPeriod(ctx context.Context, period string) ([]PayrollResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 1000
	entries, err := s.payrollRepo.FindByPeriod(ctx, period, filter)
	if err != nil {
		return nil, err
	}
	return ToPayrollResponses(entries), nil
}

// ListByEmployee lists an employee's payroll history
func (s *PayrollService) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]PayrollResponse, error) {
	entries, err := s.payrollRepo.FindByEmployee(ctx, employeeID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	return ToPayrollResponses(entries), nil
}

// Adjust replaces the deductions and bonus of a draft entry
func (s *PayrollService) Adjust(ctx context.Context, actor audit.Actor, id uuid.UUID, req AdjustPayrollRequest) (*PayrollResponse, error) {
	entry, err := s.payrollRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.Status != org.PayrollStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Only draft payroll can be adjusted")
	}

	adjusted, err := org.NewPayroll(entry.EmployeeID, entry.Period, entry.Gross, req.Deductions, req.Bonus)
	if err != nil {
		return nil, err
	}
	entry.Deductions = adjusted.Deductions
	entry.Bonus = adjusted.Bonus
	entry.Net = adjusted.Net
	entry.UpdatedAt = time.Now()
	entry.IncrementVersion()

	if err := s.payrollRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "payroll.adjust", "payroll", id.String(), "")
	resp := ToPayrollResponse(entry)
	return &resp, nil
}

// Approve locks a draft entry for payment
func (s *PayrollService) Approve(ctx context.Context, actor audit.Actor, id uuid.UUID) (*PayrollResponse, error) {
	entry, err := s.payrollRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.Approve(actor.ID); err != nil {
		return nil, err
	}
	if err := s.payrollRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "payroll.approve", "payroll", id.String(), "")
	resp := ToPayrollResponse(entry)
	return &resp, nil
}

// MarkPaid records the payout of an approved entry
func (s *PayrollService) MarkPaid(ctx context.Context, actor audit.Actor, id uuid.UUID) (*PayrollResponse, error) {
	entry, err := s.payrollRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.MarkPaid(time.Now()); err != nil {
		return nil, err
	}
	if err := s.payrollRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "payroll.mark_paid", "payroll", id.String(), "")
	s.logger.Info("Payroll entry paid",
		zap.String("payroll_id", id.String()),
		zap.String("net", entry.Net.String()))

	resp := ToPayrollResponse(entry)
	return &resp, nil
}
