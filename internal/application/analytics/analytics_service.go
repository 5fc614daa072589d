package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/analytics"
	"github.com/realty/backend/internal/domain/shared"
)

// ReportQuery selects the month a report covers. Zero values mean
// the current month.
type ReportQuery struct {
	Year  int `form:"year" binding:"omitempty,min=2000,max=2100"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

// Service serves reports and role-scoped dashboard snapshots
type Service struct {
	reader analytics.Reader
	logger *zap.Logger
}

// NewService creates a new analytics service
func NewService(reader analytics.Reader, logger *zap.Logger) *Service {
	return &Service{reader: reader, logger: logger}
}

func (s *Service) period(q ReportQuery) (analytics.Period, error) {
	now := time.Now().UTC()
	year, month := now.Year(), now.Month()
	if q.Year != 0 {
		year = q.Year
	}
	if q.Month != 0 {
		month = time.Month(q.Month)
	}
	p := analytics.MonthPeriod(year, month)
	if p.From.After(now) {
		return analytics.Period{}, shared.NewDomainError("INVALID_PERIOD", "Report period is in the future")
	}
	return p, nil
}

// FinancialReport aggregates money movement for the selected month
func (s *Service) FinancialReport(ctx context.Context, q ReportQuery) (*analytics.FinancialReport, error) {
	period, err := s.period(q)
	if err != nil {
		return nil, err
	}
	return s.reader.FinancialReport(ctx, period)
}

// RiskAnalysis summarizes current portfolio exposure
func (s *Service) RiskAnalysis(ctx context.Context) (*analytics.RiskAnalysis, error) {
	return s.reader.RiskAnalysis(ctx)
}

// MarketAnalysis aggregates listing stats across cities
func (s *Service) MarketAnalysis(ctx context.Context) (*analytics.MarketAnalysis, error) {
	return s.reader.MarketAnalysis(ctx)
}

// AgentPerformance ranks agents by closed business for the selected month
func (s *Service) AgentPerformance(ctx context.Context, q ReportQuery) ([]analytics.AgentPerformance, error) {
	period, err := s.period(q)
	if err != nil {
		return nil, err
	}
	return s.reader.AgentPerformance(ctx, period)
}

// CompanyDashboard backs the ceo dashboard
func (s *Service) CompanyDashboard(ctx context.Context) (*analytics.DashboardMetrics, error) {
	return s.reader.CompanyMetrics(ctx)
}

// BranchDashboard backs the manager dashboard
func (s *Service) BranchDashboard(ctx context.Context, branchID uuid.UUID) (*analytics.DashboardMetrics, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Branch is required")
	}
	return s.reader.BranchMetrics(ctx, branchID)
}

// LendingDashboard backs the supervisor dashboard
func (s *Service) LendingDashboard(ctx context.Context) (*analytics.DashboardMetrics, error) {
	return s.reader.LendingMetrics(ctx)
}

// HRDashboard backs the hr dashboard
func (s *Service) HRDashboard(ctx context.Context) (*analytics.DashboardMetrics, error) {
	return s.reader.HRMetrics(ctx)
}

// SupportDashboard backs the support dashboard
func (s *Service) SupportDashboard(ctx context.Context) (*analytics.DashboardMetrics, error) {
	return s.reader.SupportMetrics(ctx)
}
