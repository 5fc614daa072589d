package org

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realty/backend/internal/domain/org"
)

// CreateBranchRequest represents a request to open a branch
type CreateBranchRequest struct {
	Code    string `json:"code" binding:"required,min=1,max=20"`
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Address string `json:"address" binding:"max=500"`
	City    string `json:"city" binding:"max=100"`
	Phone   string `json:"phone" binding:"max=50"`
}

// UpdateBranchRequest represents a request to update branch details
type UpdateBranchRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Address string `json:"address" binding:"max=500"`
	City    string `json:"city" binding:"max=100"`
	Phone   string `json:"phone" binding:"max=50"`
}

// BranchListFilter represents filter options for the branch list
type BranchListFilter struct {
	City     string `form:"city"`
	Enabled  *bool  `form:"enabled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// BranchResponse represents a branch in API responses
type BranchResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Phone     string    `json:"phone"`
	Enabled   bool      `json:"enabled"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ToBranchResponse converts a domain branch to its API representation
func ToBranchResponse(b *org.Branch) BranchResponse {
	return BranchResponse{
		ID:        b.ID,
		Code:      b.Code,
		Name:      b.Name,
		Address:   b.Address,
		City:      b.City,
		Phone:     b.Phone,
		Enabled:   b.Enabled,
		IsDefault: b.IsDefault,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
		Version:   b.Version,
	}
}

// ToBranchResponses converts a slice of domain branches
func ToBranchResponses(branches []org.Branch) []BranchResponse {
	out := make([]BranchResponse, len(branches))
	for i := range branches {
		out[i] = ToBranchResponse(&branches[i])
	}
	return out
}

// HireEmployeeRequest creates an employment record for a staff user
type HireEmployeeRequest struct {
	UserID   uuid.UUID       `json:"user_id" binding:"required"`
	BranchID uuid.UUID       `json:"branch_id" binding:"required"`
	Position string          `json:"position" binding:"required,min=1,max=100"`
	Salary   decimal.Decimal `json:"salary" binding:"required"`
	HiredAt  *time.Time      `json:"hired_at"`
}

// PromoteEmployeeRequest changes position and salary
type PromoteEmployeeRequest struct {
	Position string          `json:"position" binding:"required,min=1,max=100"`
	Salary   decimal.Decimal `json:"salary" binding:"required"`
}

// TransferEmployeeRequest moves an employee to another branch
type TransferEmployeeRequest struct {
	BranchID uuid.UUID `json:"branch_id" binding:"required"`
}

// EmployeeListFilter represents filter options for the employee list
type EmployeeListFilter struct {
	BranchID string `form:"branch_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=active on_leave terminated"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	BranchID     uuid.UUID       `json:"branch_id"`
	Position     string          `json:"position"`
	Salary       decimal.Decimal `json:"salary"`
	Status       string          `json:"status"`
	HiredAt      time.Time       `json:"hired_at"`
	TerminatedAt *time.Time      `json:"terminated_at"`
	CreatedAt    time.Time       `json:"created_at"`
	Version      int             `json:"version"`
}

// ToEmployeeResponse converts a domain employee to its API representation
func ToEmployeeResponse(e *org.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		UserID:       e.UserID,
		BranchID:     e.BranchID,
		Position:     e.Position,
		Salary:       e.Salary,
		Status:       string(e.Status),
		HiredAt:      e.HiredAt,
		TerminatedAt: e.TerminatedAt,
		CreatedAt:    e.CreatedAt,
		Version:      e.Version,
	}
}

// ToEmployeeResponses converts a slice of domain employees
func ToEmployeeResponses(employees []org.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, len(employees))
	for i := range employees {
		out[i] = ToEmployeeResponse(&employees[i])
	}
	return out
}

// GeneratePayrollRequest starts a payroll run for one period
type GeneratePayrollRequest struct {
	Period string `json:"period" binding:"required,len=7"`
}

// AdjustPayrollRequest tweaks a draft entry before approval
type AdjustPayrollRequest struct {
	Deductions decimal.Decimal `json:"deductions"`
	Bonus      decimal.Decimal `json:"bonus"`
}

// PayrollResponse represents a payroll entry in API responses
type PayrollResponse struct {
	ID         uuid.UUID       `json:"id"`
	EmployeeID uuid.UUID       `json:"employee_id"`
	Period     string          `json:"period"`
	Gross      decimal.Decimal `json:"gross"`
	Deductions decimal.Decimal `json:"deductions"`
	Bonus      decimal.Decimal `json:"bonus"`
	Net        decimal.Decimal `json:"net"`
	Status     string          `json:"status"`
	ApprovedBy *uuid.UUID      `json:"approved_by"`
	PaidAt     *time.Time      `json:"paid_at"`
	CreatedAt  time.Time       `json:"created_at"`
	Version    int             `json:"version"`
}

// ToPayrollResponse converts a domain payroll entry
func ToPayrollResponse(p *org.Payroll) PayrollResponse {
	return PayrollResponse{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		Period:     p.Period,
		Gross:      p.Gross,
		Deductions: p.Deductions,
		Bonus:      p.Bonus,
		Net:        p.Net,
		Status:     string(p.Status),
		ApprovedBy: p.ApprovedBy,
		PaidAt:     p.PaidAt,
		CreatedAt:  p.CreatedAt,
		Version:    p.Version,
	}
}

// ToPayrollResponses converts a slice of payroll entries
func ToPayrollResponses(entries []org.Payroll) []PayrollResponse {
	out := make([]PayrollResponse, len(entries))
	for i := range entries {
		out[i] = ToPayrollResponse(&entries[i])
	}
	return out
}
