package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period bounds an aggregation window
type Period struct {
	From time.Time
	To   time.Time
}

// MonthPeriod returns the window covering the given month
func MonthPeriod(year int, month time.Month) Period {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{From: from, To: from.AddDate(0, 1, 0)}
}

// FinancialReport aggregates money movement over a period
type FinancialReport struct {
	Period           Period          `json:"period"`
	LoansOriginated  int64           `json:"loans_originated"`
	PrincipalIssued  decimal.Decimal `json:"principal_issued"`
	PaymentsReceived decimal.Decimal `json:"payments_received"`
	SalesClosed      int64           `json:"sales_closed"`
	SalesVolume      decimal.Decimal `json:"sales_volume"`
	RentalsSigned    int64           `json:"rentals_signed"`
	RentRollMonthly  decimal.Decimal `json:"rent_roll_monthly"`
	PayrollPaid      decimal.Decimal `json:"payroll_paid"`
}

// RiskAnalysis summarizes portfolio exposure
type RiskAnalysis struct {
	ActiveLoans          int64           `json:"active_loans"`
	TotalOutstanding     decimal.Decimal `json:"total_outstanding"`
	DelinquentPayments   int64           `json:"delinquent_payments"`
	DelinquencyRate      float64         `json:"delinquency_rate"`
	AverageCreditScore   float64         `json:"average_credit_score"`
	LargestExposure      decimal.Decimal `json:"largest_exposure"`
	ConcentrationTopFive float64         `json:"concentration_top_five"`
}

// CityMarketStats is the per-city slice of a market analysis
type CityMarketStats struct {
	City          string          `json:"city"`
	ActiveListing int64           `json:"active_listings"`
	AveragePrice  decimal.Decimal `json:"average_price"`
	MedianPrice   decimal.Decimal `json:"median_price"`
	SoldLastMonth int64           `json:"sold_last_month"`
}

// MarketAnalysis aggregates listing price statistics by city
type MarketAnalysis struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Cities      []CityMarketStats `json:"cities"`
}

// AgentPerformance summarizes one agent's closed business
type AgentPerformance struct {
	AgentID        uuid.UUID       `json:"agent_id"`
	AgentName      string          `json:"agent_name"`
	ActiveListings int64           `json:"active_listings"`
	DealsClosed    int64           `json:"deals_closed"`
	SalesVolume    decimal.Decimal `json:"sales_volume"`
	OffersReceived int64           `json:"offers_received"`
}

// DashboardMetrics is the role-scoped snapshot behind each dashboard
type DashboardMetrics struct {
	TotalUsers        int64           `json:"total_users,omitempty"`
	TotalProperties   int64           `json:"total_properties,omitempty"`
	ActiveListings    int64           `json:"active_listings,omitempty"`
	ActiveLoans       int64           `json:"active_loans,omitempty"`
	TotalOutstanding  decimal.Decimal `json:"total_outstanding,omitempty"`
	PendingLoans      int64           `json:"pending_loans,omitempty"`
	OpenTickets       int64           `json:"open_tickets,omitempty"`
	AvgFeedbackRating float64         `json:"avg_feedback_rating,omitempty"`
	Headcount         int64           `json:"headcount,omitempty"`
	PayrollDue        decimal.Decimal `json:"payroll_due,omitempty"`
	BranchCount       int64           `json:"branch_count,omitempty"`
	SalesThisMonth    int64           `json:"sales_this_month,omitempty"`
}

// Reader is the read-side port for reports and dashboards
type Reader interface {
	// FinancialReport aggregates money movement for a period
	FinancialReport(ctx context.Context, period Period) (*FinancialReport, error)

	// RiskAnalysis summarizes current portfolio exposure
	RiskAnalysis(ctx context.Context) (*RiskAnalysis, error)

	// MarketAnalysis aggregates listing stats across cities
	MarketAnalysis(ctx context.Context) (*MarketAnalysis, error)

	// AgentPerformance ranks agents by closed business over a period
	AgentPerformance(ctx context.Context, period Period) ([]AgentPerformance, error)

	// CompanyMetrics backs the ceo dashboard
	CompanyMetrics(ctx context.Context) (*DashboardMetrics, error)

	// BranchMetrics backs the manager dashboard
	BranchMetrics(ctx context.Context, branchID uuid.UUID) (*DashboardMetrics, error)

	// LendingMetrics backs the supervisor dashboard
	LendingMetrics(ctx context.Context) (*DashboardMetrics, error)

	// HRMetrics backs the hr dashboard
	HRMetrics(ctx context.Context) (*DashboardMetrics, error)

	// SupportMetrics backs the support dashboard
	SupportMetrics(ctx context.Context) (*DashboardMetrics, error)
}
