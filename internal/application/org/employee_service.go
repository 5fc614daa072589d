package org

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/audit"
	"github.com/realty/backend/internal/domain/org"
	"github.com/realty/backend/internal/domain/shared"
)

// EmployeeService handles HR employment records
type EmployeeService struct {
	employeeRepo org.EmployeeRepository
	branchRepo   org.BranchRepository
	recorder     audit.Recorder
	logger       *zap.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(
	employeeRepo org.EmployeeRepository,
	branchRepo org.BranchRepository,
	recorder audit.Recorder,
	logger *zap.Logger,
) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		branchRepo:   branchRepo,
		recorder:     recorder,
		logger:       logger,
	}
}

// Hire creates the employment record for a staff user. One record
// per user.
func (s *EmployeeService) Hire(ctx context.Context, actor audit.Actor, req HireEmployeeRequest) (*EmployeeResponse, error) {
	if _, err := s.employeeRepo.FindByUser(ctx, req.UserID); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User already has an employment record")
	} else {
		var derr *shared.DomainError
		if !errors.As(err, &derr) || derr.Code != "NOT_FOUND" {
			return nil, err
		}
	}

	branch, err := s.branchRepo.FindByID(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}
	if !branch.Enabled {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot hire into a disabled branch")
	}

	hiredAt := time.Now()
	if req.HiredAt != nil {
		hiredAt = *req.HiredAt
	}
	employee, err := org.NewEmployee(req.UserID, req.BranchID, req.Position, req.Salary, hiredAt)
	if err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "employee.hire", "employee", employee.ID.String(),
		fmt.Sprintf(`{"user_id":%q,"position":%q}`, req.UserID, req.Position))
	s.logger.Info("Employee hired",
		zap.String("employee_id", employee.ID.String()),
		zap.String("position", req.Position))

	resp := ToEmployeeResponse(employee)
	return &resp, nil
}

// GetByID retrieves an employee by ID
func (s *EmployeeService) GetByID(ctx context.Context, id uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(employee)
	return &resp, nil
}

// GetByUser retrieves the employment record backing a user
func (s *EmployeeService) GetByUser(ctx context.Context, userID uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(employee)
	return &resp, nil
}

// List lists employees with pagination and filters
func (s *EmployeeService) List(ctx context.Context, filter EmployeeListFilter) ([]EmployeeResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.BranchID != "" {
		domainFilter.Filters["branch_id"] = filter.BranchID
	}

	employees, err := s.employeeRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.employeeRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToEmployeeResponses(employees), total, nil
}

// Promote changes an employee's position and salary
func (s *EmployeeService) Promote(ctx context.Context, actor audit.Actor, id uuid.UUID, req PromoteEmployeeRequest) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := employee.Promote(req.Position, req.Salary); err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "employee.promote", "employee", id.String(),
		fmt.Sprintf(`{"position":%q}`, req.Position))
	resp := ToEmployeeResponse(employee)
	return &resp, nil
}

// Transfer moves an employee to another enabled branch
func (s *EmployeeService) Transfer(ctx context.Context, actor audit.Actor, id uuid.UUID, req TransferEmployeeRequest) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	branch, err := s.branchRepo.FindByID(ctx, req.BranchID)
	if err != nil {
		return nil, err
	}
	if !branch.Enabled {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot transfer into a disabled branch")
	}

	if err := employee.Transfer(req.BranchID); err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "employee.transfer", "employee", id.String(),
		fmt.Sprintf(`{"branch_id":%q}`, req.BranchID))
	resp := ToEmployeeResponse(employee)
	return &resp, nil
}

// StartLeave puts an employee on leave
func (s *EmployeeService) StartLeave(ctx context.Context, actor audit.Actor, id uuid.UUID) (*EmployeeResponse, error) {
	return s.transition(ctx, actor, id, "employee.start_leave", (*org.Employee).StartLeave)
}

// EndLeave returns an employee from leave
func (s *EmployeeService) EndLeave(ctx context.Context, actor audit.Actor, id uuid.UUID) (*EmployeeResponse, error) {
	return s.transition(ctx, actor, id, "employee.end_leave", (*org.Employee).EndLeave)
}

// Terminate ends an employment
func (s *EmployeeService) Terminate(ctx context.Context, actor audit.Actor, id uuid.UUID) (*EmployeeResponse, error) {
	return s.transition(ctx, actor, id, "employee.terminate", func(e *org.Employee) error {
		return e.Terminate(time.Now())
	})
}

func (s *EmployeeService) transition(ctx context.Context, actor audit.Actor, id uuid.UUID, action string, op func(*org.Employee) error) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := op(employee); err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, action, "employee", id.String(), "")
	resp := ToEmployeeResponse(employee)
	return &resp, nil
}
