package lending

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/audit"
	"github.com/realty/backend/internal/domain/lending"
	"github.com/realty/backend/internal/domain/shared"
)

// LoanService handles the loan application lifecycle, disbursement
// and installment settlement
type LoanService struct {
	loanRepo    lending.LoanRepository
	paymentRepo lending.PaymentRepository
	eventRepo   lending.CreditEventRepository
	recorder    audit.Recorder
	logger      *zap.Logger
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo lending.LoanRepository,
	paymentRepo lending.PaymentRepository,
	eventRepo lending.CreditEventRepository,
	recorder audit.Recorder,
	logger *zap.Logger,
) *LoanService {
	return &LoanService{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		eventRepo:   eventRepo,
		recorder:    recorder,
		logger:      logger,
	}
}

// Create opens a draft loan application for the acting borrower
func (s *LoanService) Create(ctx context.Context, actor audit.Actor, req CreateLoanRequest) (*LoanResponse, error) {
	loan, err := lending.NewLoan(actor.ID, req.PropertyID, req.Principal, req.TermMonths, req.Purpose)
	if err != nil {
		return nil, err
	}
	if err := s.loanRepo.Save(ctx, loan); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "loan.create", "loan", loan.ID.String(),
		fmt.Sprintf(`{"principal":%q,"term_months":%d}`, req.Principal, req.TermMonths))
	s.logger.Info("Loan application created",
		zap.String("loan_id", loan.ID.String()),
		zap.String("borrower_id", actor.ID.String()))

	resp := ToLoanResponse(loan)
	return &resp, nil
}

// GetByID retrieves a loan by ID
func (s *LoanService) GetByID(ctx context.Context, id uuid.UUID) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToLoanResponse(loan)
	return &resp, nil
}

// List lists loans with pagination and filters
func (s *LoanService) List(ctx context.Context, filter LoanListFilter) ([]LoanResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.BorrowerID != "" {
		domainFilter.Filters["borrower_id"] = filter.BorrowerID
	}

	loans, err := s.loanRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.loanRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToLoanResponses(loans), total, nil
}

// ListByBorrower lists a borrower's loans
func (s *LoanService) ListByBorrower(ctx context.Context, borrowerID uuid.UUID, filter LoanListFilter) ([]LoanResponse, error) {
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

	loans, err := s.loanRepo.FindByBorrower(ctx, borrowerID, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToLoanResponses(loans), nil
}

// Submit queues a draft application for underwriting. Submission
// registers a hard inquiry on the borrower's credit history.
func (s *LoanService) Submit(ctx context.Context, actor audit.Actor, id uuid.UUID) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guardBorrower(actor, loan); err != nil {
		return nil, err
	}
	if err := loan.Submit(); err != nil {
		return nil, err
	}
	if err := s.loanRepo.Save(ctx, loan); err != nil {
		return nil, err
	}

	s.recordCreditEvent(ctx, loan.BorrowerID, lending.CreditEventInquiry, loan.Principal, "Loan application "+loan.ID.String())
	audit.Log(ctx, s.recorder, actor, "loan.submit", "loan", id.String(), "")

	resp := ToLoanResponse(loan)
	return &resp, nil
}

// StartReview assigns the acting underwriter as reviewer
func (s *LoanService) StartReview(ctx context.Context, actor audit.Actor, id uuid.UUID) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := loan.StartReview(actor.ID); err != nil {
		return nil, err
	}
	if err := s.loanRepo.Save(ctx, loan); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "loan.start_review", "loan", id.String(), "")
	resp := ToLoanResponse(loan)
	return &resp, nil
}

// Approve approves a loan under review at the given rate
func (s *LoanService) Approve(ctx context.Context, actor audit.Actor, id uuid.UUID, req ApproveLoanRequest) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := loan.Approve(req.AnnualRatePct); err != nil {
		return nil, err
	}
	if err := s.loanRepo.Save(ctx, loan); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "loan.approve", "loan", id.String(),
		fmt.Sprintf(`{"annual_rate_pct":%q,"monthly_payment":%q}`, req.AnnualRatePct, loan.MonthlyPayment))
	s.logger.Info("Loan approved",
		zap.String("loan_id", id.String()),
		zap.String("monthly_payment", loan.MonthlyPayment.String()))

	resp := ToLoanResponse(loan)
	return &resp, nil
}

// Reject declines a pending application
func (s *LoanService) Reject(ctx context.Context, actor audit.Actor, id uuid.UUID, req RejectLoanRequest) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := loan.Reject(req.Reason); err != nil {
		return nil, err
	}
	if err := s.loanRepo.Save(ctx, loan); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "loan.reject", "loan", id.String(),
		fmt.Sprintf(`{"reason":%q}`, req.Reason))
	resp := ToLoanResponse(loan)
	return &resp, nil
}

// Cancel lets the borrower withdraw an application before disbursement
func (s *LoanService) Cancel(ctx context.Context, actor audit.Actor, id uuid.UUID) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guardBorrower(actor, loan); err != nil {
		return nil, err
	}
	if err := loan.Cancel(); err != nil {
		return nil, err
	}
	if err := s.loanRepo.Save(ctx, loan); err != nil {
		return nil, err
	}

	audit.Log(ctx, s.recorder, actor, "loan.cancel", "loan", id.String(), "")
	resp := ToLoanResponse(loan)
	return &resp, nil
}

// Disburse activates an approved loan, schedules the monthly
// installments and opens the account on the borrower's credit history
func (s *LoanService) Disburse(ctx context.Context, actor audit.Actor, id uuid.UUID) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := loan.Disburse(); err != nil {
		return nil, err
	}
	if err := s.loanRepo.Save(ctx, loan); err != nil {
		return nil, err
	}

	due := loan.DisbursedAt.AddDate(0, 1, 0)
	for i := 0; i < loan.TermMonths; i++ {
		payment, err := lending.NewPayment(loan.ID, loan.MonthlyPayment, due)
		if err != nil {
			return nil, err
		}
		if err := s.paymentRepo.Save(ctx, payment); err != nil {
			return nil, err
		}
		due = due.AddDate(0, 1, 0)
	}

	s.recordCreditEvent(ctx, loan.BorrowerID, lending.CreditEventAccountOpened, loan.Principal, "Loan disbursed")
	audit.Log(ctx, s.recorder, actor, "loan.disburse", "loan", id.String(),
		fmt.Sprintf(`{"installments":%d}`, loan.TermMonths))
	s.logger.Info("Loan disbursed",
		zap.String("loan_id", id.String()),
		zap.Int("installments", loan.TermMonths))

	resp := ToLoanResponse(loan)
	return &resp, nil
}

// ListPayments lists the installments of a loan
func (s *LoanService) ListPayments(ctx context.Context, loanID uuid.UUID) ([]PaymentResponse, error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "due_date"
	filter.OrderDir = "asc"
	filter.PageSize = 500

	payments, err := s.paymentRepo.FindByLoan(ctx, loanID, filter)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponses(payments), nil
}

// SettlePayment marks an installment paid, reduces the loan balance
// and mirrors the outcome onto the borrower's credit history. The
// final installment absorbs rounding and closes the loan.
func (s *LoanService) SettlePayment(ctx context.Context, actor audit.Actor, paymentID uuid.UUID, req SettlePaymentRequest) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	loan, err := s.loanRepo.FindByID(ctx, payment.LoanID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := payment.MarkPaid(now, req.Method); err != nil {
		return nil, err
	}

	applied := payment.Amount
	if applied.GreaterThan(loan.Outstanding) {
		applied = loan.Outstanding
	}
	if err := loan.ApplyPayment(applied); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}
	if err := s.loanRepo.Save(ctx, loan); err != nil {
		return nil, err
	}

	eventType := lending.CreditEventOnTimePayment
	if payment.Status == lending.PaymentStatusLate {
		eventType = lending.CreditEventLatePayment
	}
	s.recordCreditEvent(ctx, loan.BorrowerID, eventType, payment.Amount, "Installment "+payment.ID.String())

	audit.Log(ctx, s.recorder, actor, "payment.settle", "payment", paymentID.String(),
		fmt.Sprintf(`{"loan_id":%q,"status":%q}`, loan.ID, payment.Status))

	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// MarkPaymentMissed flags an overdue installment and records the miss
// on the borrower's credit history
func (s *LoanService) MarkPaymentMissed(ctx context.Context, actor audit.Actor, paymentID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	loan, err := s.loanRepo.FindByID(ctx, payment.LoanID)
	if err != nil {
		return nil, err
	}

	if err := payment.MarkMissed(time.Now()); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.recordCreditEvent(ctx, loan.BorrowerID, lending.CreditEventMissedPayment, payment.Amount, "Installment "+payment.ID.String())
	audit.Log(ctx, s.recorder, actor, "payment.missed", "payment", paymentID.String(), "")

	resp := ToPaymentResponse(payment)
	return &resp, nil
}

// sweepBatchSize bounds one repository page during an overdue sweep.
const sweepBatchSize = 100

// SweepOverduePayments marks every scheduled installment past its due
// date as missed and records the miss on the borrower's credit history.
// Run periodically by the background scheduler; returns the number of
// installments swept.
func (s *LoanService) SweepOverduePayments(ctx context.Context) (int, error) {
	systemActor := audit.Actor{Role: "system"}
	now := time.Now()
	swept := 0
	for {
		payments, err := s.paymentRepo.FindOverdue(ctx, now, sweepBatchSize)
		if err != nil {
			return swept, err
		}
		if len(payments) == 0 {
			return swept, nil
		}
		for i := range payments {
			payment := &payments[i]
			loan, err := s.loanRepo.FindByID(ctx, payment.LoanID)
			if err != nil {
				return swept, err
			}
			if err := payment.MarkMissed(now); err != nil {
				return swept, err
			}
			if err := s.paymentRepo.Save(ctx, payment); err != nil {
				return swept, err
			}
			s.recordCreditEvent(ctx, loan.BorrowerID, lending.CreditEventMissedPayment, payment.Amount, "Installment "+payment.ID.String())
			audit.Log(ctx, s.recorder, systemActor, "payment.missed", "payment", payment.ID.String(), "")
			swept++
		}
	}
}

func (s *LoanService) guardBorrower(actor audit.Actor, loan *lending.Loan) error {
	if actor.Role == "client" && loan.BorrowerID != actor.ID {
		return shared.NewDomainError("FORBIDDEN", "Loan belongs to another borrower")
	}
	return nil
}

// recordCreditEvent appends a credit history entry. History writes
// never fail the settlement that produced them.
func (s *LoanService) recordCreditEvent(ctx context.Context, userID uuid.UUID, eventType lending.CreditEventType, amount decimal.Decimal, note string) {
	event, err := lending.NewCreditEvent(userID, eventType, amount, time.Now(), note)
	if err != nil {
		s.logger.Warn("Skipping invalid credit event", zap.Error(err))
		return
	}
	if err := s.eventRepo.Save(ctx, event); err != nil {
		s.logger.Error("Failed to record credit event",
			zap.String("user_id", userID.String()),
			zap.String("type", string(eventType)),
			zap.Error(err))
	}
}
