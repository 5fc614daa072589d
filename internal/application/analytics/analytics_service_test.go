package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/analytics"
	"github.com/realty/backend/internal/domain/shared"
)

// MockReader is a mock implementation of analytics.Reader
type MockReader struct {
	mock.Mock
}

func (m *MockReader) FinancialReport(ctx context.Context, period analytics.Period) (*analytics.FinancialReport, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.FinancialReport), args.Error(1)
}

func (m *MockReader) RiskAnalysis(ctx context.Context) (*analytics.RiskAnalysis, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.RiskAnalysis), args.Error(1)
}

func (m *MockReader) MarketAnalysis(ctx context.Context) (*analytics.MarketAnalysis, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.MarketAnalysis), args.Error(1)
}

func (m *MockReader) AgentPerformance(ctx context.Context, period analytics.Period) ([]analytics.AgentPerformance, error) {
	args := m.Called(ctx, period)
	return args.Get(0).([]analytics.AgentPerformance), args.Error(1)
}

func (m *MockReader) CompanyMetrics(ctx context.Context) (*analytics.DashboardMetrics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.DashboardMetrics), args.Error(1)
}

func (m *MockReader) BranchMetrics(ctx context.Context, branchID uuid.UUID) (*analytics.DashboardMetrics, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.DashboardMetrics), args.Error(1)
}

func (m *MockReader) LendingMetrics(ctx context.Context) (*analytics.DashboardMetrics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.DashboardMetrics), args.Error(1)
}

func (m *MockReader) HRMetrics(ctx context.Context) (*analytics.DashboardMetrics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.DashboardMetrics), args.Error(1)
}

func (m *MockReader) SupportMetrics(ctx context.Context) (*analytics.DashboardMetrics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.DashboardMetrics), args.Error(1)
}

func TestFinancialReportUsesRequestedMonth(t *testing.T) {
	reader := new(MockReader)
	svc := NewService(reader, zap.NewNop())

	want := analytics.MonthPeriod(2026, time.March)
	reader.On("FinancialReport", mock.Anything, want).Return(&analytics.FinancialReport{Period: want}, nil)

	report, err := svc.FinancialReport(context.Background(), ReportQuery{Year: 2026, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, want, report.Period)
}

func TestFinancialReportRejectsFuturePeriod(t *testing.T) {
	reader := new(MockReader)
	svc := NewService(reader, zap.NewNop())

	future := time.Now().UTC().AddDate(1, 0, 0)
	_, err := svc.FinancialReport(context.Background(), ReportQuery{Year: future.Year(), Month: int(future.Month())})

	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_PERIOD", derr.Code)
	reader.AssertNotCalled(t, "FinancialReport")
}

func TestBranchDashboardRequiresBranch(t *testing.T) {
	reader := new(MockReader)
	svc := NewService(reader, zap.NewNop())

	_, err := svc.BranchDashboard(context.Background(), uuid.Nil)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_INPUT", derr.Code)
}

func TestDashboardsDelegateToReader(t *testing.T) {
	reader := new(MockReader)
	svc := NewService(reader, zap.NewNop())
	branchID := uuid.New()

	reader.On("CompanyMetrics", mock.Anything).Return(&analytics.DashboardMetrics{TotalUsers: 42}, nil)
	reader.On("BranchMetrics", mock.Anything, branchID).Return(&analytics.DashboardMetrics{ActiveListings: 7}, nil)
	reader.On("LendingMetrics", mock.Anything).Return(&analytics.DashboardMetrics{ActiveLoans: 12}, nil)
	reader.On("HRMetrics", mock.Anything).Return(&analytics.DashboardMetrics{Headcount: 9}, nil)
	reader.On("SupportMetrics", mock.Anything).Return(&analytics.DashboardMetrics{OpenTickets: 3}, nil)

	company, err := svc.CompanyDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), company.TotalUsers)

	branch, err := svc.BranchDashboard(context.Background(), branchID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), branch.ActiveListings)

	lendingDash, err := svc.LendingDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), lendingDash.ActiveLoans)

	hr, err := svc.HRDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(9), hr.Headcount)

	desk, err := svc.SupportDashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), desk.OpenTickets)
}
