package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realty/backend/internal/domain/lending"
)

// CreateLoanRequest represents a borrower's loan application
type CreateLoanRequest struct {
	PropertyID *uuid.UUID      `json:"property_id"`
	Principal  decimal.Decimal `json:"principal" binding:"required"`
	TermMonths int             `json:"term_months" binding:"required,min=1,max=480"`
	Purpose    string          `json:"purpose" binding:"max=500"`
}

// ApproveLoanRequest carries the underwriter's approved rate
type ApproveLoanRequest struct {
	AnnualRatePct decimal.Decimal `json:"annual_rate_pct" binding:"required"`
}

// RejectLoanRequest carries the rejection reason
type RejectLoanRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// SettlePaymentRequest records how an installment was paid
type SettlePaymentRequest struct {
	Method string `json:"method" binding:"omitempty,oneof=bank_transfer card cash check"`
}

// LoanListFilter represents filter options for the loan list
type LoanListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=draft submitted under_review approved active paid_off rejected cancelled"`
	BorrowerID string `form:"borrower_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID             uuid.UUID       `json:"id"`
	BorrowerID     uuid.UUID       `json:"borrower_id"`
	PropertyID     *uuid.UUID      `json:"property_id"`
	Principal      decimal.Decimal `json:"principal"`
	AnnualRatePct  decimal.Decimal `json:"annual_rate_pct"`
	TermMonths     int             `json:"term_months"`
	Status         string          `json:"status"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	Purpose        string          `json:"purpose"`
	ReviewerID     *uuid.UUID      `json:"reviewer_id"`
	RejectReason   string          `json:"reject_reason,omitempty"`
	SubmittedAt    *time.Time      `json:"submitted_at"`
	ApprovedAt     *time.Time      `json:"approved_at"`
	DisbursedAt    *time.Time      `json:"disbursed_at"`
	ClosedAt       *time.Time      `json:"closed_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// ToLoanResponse converts a domain loan to its API representation
func ToLoanResponse(l *lending.Loan) LoanResponse {
	return LoanResponse{
		ID:             l.ID,
		BorrowerID:     l.BorrowerID,
		PropertyID:     l.PropertyID,
		Principal:      l.Principal,
		AnnualRatePct:  l.AnnualRatePct,
		TermMonths:     l.TermMonths,
		Status:         string(l.Status),
		MonthlyPayment: l.MonthlyPayment,
		Outstanding:    l.Outstanding,
		Purpose:        l.Purpose,
		ReviewerID:     l.ReviewerID,
		RejectReason:   l.RejectReason,
		SubmittedAt:    l.SubmittedAt,
		ApprovedAt:     l.ApprovedAt,
		DisbursedAt:    l.DisbursedAt,
		ClosedAt:       l.ClosedAt,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
		Version:        l.Version,
	}
}

// ToLoanResponses converts a slice of domain loans
func ToLoanResponses(loans []lending.Loan) []LoanResponse {
	out := make([]LoanResponse, len(loans))
	for i := range loans {
		out[i] = ToLoanResponse(&loans[i])
	}
	return out
}

// PaymentResponse represents an installment in API responses
type PaymentResponse struct {
	ID      uuid.UUID       `json:"id"`
	LoanID  uuid.UUID       `json:"loan_id"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate time.Time       `json:"due_date"`
	Status  string          `json:"status"`
	PaidAt  *time.Time      `json:"paid_at"`
	Method  string          `json:"method,omitempty"`
}

// ToPaymentResponse converts a domain payment to its API representation
func ToPaymentResponse(p *lending.Payment) PaymentResponse {
	return PaymentResponse{
		ID:      p.ID,
		LoanID:  p.LoanID,
		Amount:  p.Amount,
		DueDate: p.DueDate,
		Status:  string(p.Status),
		PaidAt:  p.PaidAt,
		Method:  p.Method,
	}
}

// ToPaymentResponses converts a slice of domain payments
func ToPaymentResponses(payments []lending.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(&payments[i])
	}
	return out
}

// RecordCreditEventRequest appends an entry to a borrower's credit history
type RecordCreditEventRequest struct {
	UserID     uuid.UUID       `json:"user_id" binding:"required"`
	Type       string          `json:"type" binding:"required,oneof=on_time_payment late_payment missed_payment default inquiry account_opened"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt *time.Time      `json:"occurred_at"`
	Note       string          `json:"note" binding:"max=500"`
}

// CreditScoreResponse represents a computed score snapshot
type CreditScoreResponse struct {
	UserID     uuid.UUID `json:"user_id"`
	Value      int       `json:"value"`
	Band       string    `json:"band"`
	ComputedAt time.Time `json:"computed_at"`
}

// ToCreditScoreResponse converts a score snapshot to its API representation
func ToCreditScoreResponse(s *lending.CreditScore) CreditScoreResponse {
	return CreditScoreResponse{
		UserID:     s.UserID,
		Value:      s.Value,
		Band:       s.Band(),
		ComputedAt: s.ComputedAt,
	}
}

// CreditEventResponse represents a credit history entry
type CreditEventResponse struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
	Note       string          `json:"note,omitempty"`
}

// ToCreditEventResponses converts a slice of credit events
func ToCreditEventResponses(events []lending.CreditEvent) []CreditEventResponse {
	out := make([]CreditEventResponse, len(events))
	for i, e := range events {
		out[i] = CreditEventResponse{
			ID:         e.ID,
			UserID:     e.UserID,
			Type:       string(e.Type),
			Amount:     e.Amount,
			OccurredAt: e.OccurredAt,
			Note:       e.Note,
		}
	}
	return out
}
