package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/realty/backend/internal/domain/analytics"
	"github.com/realty/backend/internal/domain/support"
)

// crmSampleLimit caps how many CRM rows the dashboards pull per call
const crmSampleLimit = 500

// GormAnalyticsReader implements analytics.Reader with SQL aggregation.
// Ticket and feedback figures come from the CRM store; when it is
// unavailable those fields stay zero rather than failing the dashboard.
type GormAnalyticsReader struct {
	db     *gorm.DB
	crm    support.Store
	logger *zap.Logger
}

// NewGormAnalyticsReader creates a new GormAnalyticsReader. crm may be nil.
func NewGormAnalyticsReader(db *gorm.DB, crm support.Store, logger *zap.Logger) *GormAnalyticsReader {
	return &GormAnalyticsReader{db: db, crm: crm, logger: logger}
}

// FinancialReport aggregates money movement for a period
func (r *GormAnalyticsReader) FinancialReport(ctx context.Context, period analytics.Period) (*analytics.FinancialReport, error) {
	report := &analytics.FinancialReport{Period: period}

	type loanResult struct {
		LoansOriginated int64
		PrincipalIssued decimal.Decimal
	}
	var loans loanResult
	if err := r.db.WithContext(ctx).Table("loans").
		Select(`COUNT(*) as loans_originated, COALESCE(SUM(principal), 0) as principal_issued`).
		Where("disbursed_at >= ? AND disbursed_at < ?", period.From, period.To).
		Scan(&loans).Error; err != nil {
		return nil, err
	}
	report.LoansOriginated = loans.LoansOriginated
	report.PrincipalIssued = loans.PrincipalIssued

	var paymentsReceived decimal.Decimal
	if err := r.db.WithContext(ctx).Table("payments").
		Select(`COALESCE(SUM(amount), 0)`).
		Where("paid_at >= ? AND paid_at < ?", period.From, period.To).
		Scan(&paymentsReceived).Error; err != nil {
		return nil, err
	}
	report.PaymentsReceived = paymentsReceived

	type saleResult struct {
		SalesClosed int64
		SalesVolume decimal.Decimal
	}
	var sales saleResult
	if err := r.db.WithContext(ctx).Table("sale_contracts").
		Select(`COUNT(*) as sales_closed, COALESCE(SUM(price), 0) as sales_volume`).
		Where("signed_at >= ? AND signed_at < ?", period.From, period.To).
		Scan(&sales).Error; err != nil {
		return nil, err
	}
	report.SalesClosed = sales.SalesClosed
	report.SalesVolume = sales.SalesVolume

	type rentalResult struct {
		RentalsSigned   int64
		RentRollMonthly decimal.Decimal
	}
	var rentals rentalResult
	if err := r.db.WithContext(ctx).Table("rental_contracts").
		Select(`COUNT(*) as rentals_signed, COALESCE(SUM(monthly_rent), 0) as rent_roll_monthly`).
		Where("signed_at >= ? AND signed_at < ?", period.From, period.To).
		Scan(&rentals).Error; err != nil {
		return nil, err
	}
	report.RentalsSigned = rentals.RentalsSigned
	report.RentRollMonthly = rentals.RentRollMonthly

	var payrollPaid decimal.Decimal
	if err := r.db.WithContext(ctx).Table("payrolls").
		Select(`COALESCE(SUM(net), 0)`).
		Where("paid_at >= ? AND paid_at < ?", period.From, period.To).
		Scan(&payrollPaid).Error; err != nil {
		return nil, err
	}
	report.PayrollPaid = payrollPaid

	return report, nil
}

// RiskAnalysis summarizes current portfolio exposure
func (r *GormAnalyticsReader) RiskAnalysis(ctx context.Context) (*analytics.RiskAnalysis, error) {
	analysis := &analytics.RiskAnalysis{}

	type exposureResult struct {
		ActiveLoans      int64
		TotalOutstanding decimal.Decimal
		LargestExposure  decimal.Decimal
	}
	var exposure exposureResult
	if err := r.db.WithContext(ctx).Table("loans").
		Select(`
			COUNT(*) as active_loans,
			COALESCE(SUM(outstanding), 0) as total_outstanding,
			COALESCE(MAX(outstanding), 0) as largest_exposure
		`).
		Where("status = ?", "active").
		Scan(&exposure).Error; err != nil {
		return nil, err
	}
	analysis.ActiveLoans = exposure.ActiveLoans
	analysis.TotalOutstanding = exposure.TotalOutstanding
	analysis.LargestExposure = exposure.LargestExposure

	now := time.Now().UTC()

	var dueToDate int64
	if err := r.db.WithContext(ctx).Table("payments").
		Where("due_date < ?", now).
		Count(&dueToDate).Error; err != nil {
		return nil, err
	}

	var delinquent int64
	if err := r.db.WithContext(ctx).Table("payments").
		Where("status = ? OR (status = ? AND due_date < ?)", "missed", "scheduled", now).
		Count(&delinquent).Error; err != nil {
		return nil, err
	}
	analysis.DelinquentPayments = delinquent
	if dueToDate > 0 {
		analysis.DelinquencyRate = float64(delinquent) / float64(dueToDate)
	}

	// latest snapshot per borrower
	var avgScore float64
	if err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(AVG(value), 0)
		FROM (
			SELECT DISTINCT ON (user_id) value
			FROM credit_scores
			ORDER BY user_id, computed_at DESC
		) latest
	`).Scan(&avgScore).Error; err != nil {
		return nil, err
	}
	analysis.AverageCreditScore = avgScore

	var topFive decimal.Decimal
	if err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(borrower_outstanding), 0)
		FROM (
			SELECT SUM(outstanding) as borrower_outstanding
			FROM loans
			WHERE status = 'active'
			GROUP BY borrower_id
			ORDER BY borrower_outstanding DESC
			LIMIT 5
		) top
	`).Scan(&topFive).Error; err != nil {
		return nil, err
	}
	if !analysis.TotalOutstanding.IsZero() {
		ratio, _ := topFive.Div(analysis.TotalOutstanding).Float64()
		analysis.ConcentrationTopFive = ratio
	}

	return analysis, nil
}

// MarketAnalysis aggregates listing price statistics by city
func (r *GormAnalyticsReader) MarketAnalysis(ctx context.Context) (*analytics.MarketAnalysis, error) {
	type cityResult struct {
		City          string
		ActiveListing int64
		AveragePrice  decimal.Decimal
		MedianPrice   decimal.Decimal
	}

	var results []cityResult
	if err := r.db.WithContext(ctx).Table("properties").
		Select(`
			city,
			COUNT(*) as active_listing,
			COALESCE(AVG(price), 0) as average_price,
			COALESCE(PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY price), 0) as median_price
		`).
		Where("status = ?", "listed").
		Group("city").
		Order("active_listing DESC").
		Scan(&results).Error; err != nil {
		return nil, err
	}

	monthAgo := time.Now().UTC().AddDate(0, -1, 0)
	type soldResult struct {
		City string
		Sold int64
	}
	var sold []soldResult
	if err := r.db.WithContext(ctx).Table("properties").
		Select(`city, COUNT(*) as sold`).
		Where("status = ? AND closed_at >= ?", "sold", monthAgo).
		Group("city").
		Scan(&sold).Error; err != nil {
		return nil, err
	}
	soldByCity := make(map[string]int64, len(sold))
	for _, s := range sold {
		soldByCity[s.City] = s.Sold
	}

	cities := make([]analytics.CityMarketStats, len(results))
	for i, c := range results {
		cities[i] = analytics.CityMarketStats{
			City:          c.City,
			ActiveListing: c.ActiveListing,
			AveragePrice:  c.AveragePrice,
			MedianPrice:   c.MedianPrice,
			SoldLastMonth: soldByCity[c.City],
		}
	}

	return &analytics.MarketAnalysis{
		GeneratedAt: time.Now().UTC(),
		Cities:      cities,
	}, nil
}

// AgentPerformance ranks agents by closed business over a period
func (r *GormAnalyticsReader) AgentPerformance(ctx context.Context, period analytics.Period) ([]analytics.AgentPerformance, error) {
	type agentRow struct {
		ID       uuid.UUID
		FullName string
	}
	var agents []agentRow
	if err := r.db.WithContext(ctx).Table("users").
		Select(`id, full_name`).
		Where("role = ?", "agent").
		Order("full_name ASC").
		Scan(&agents).Error; err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return []analytics.AgentPerformance{}, nil
	}

	perf := make([]analytics.AgentPerformance, len(agents))
	index := make(map[uuid.UUID]int, len(agents))
	for i, a := range agents {
		perf[i] = analytics.AgentPerformance{AgentID: a.ID, AgentName: a.FullName}
		index[a.ID] = i
	}

	type agentCount struct {
		AgentID uuid.UUID
		N       int64
	}

	var listings []agentCount
	if err := r.db.WithContext(ctx).Table("properties").
		Select(`agent_id, COUNT(*) as n`).
		Where("status = ?", "listed").
		Group("agent_id").
		Scan(&listings).Error; err != nil {
		return nil, err
	}
	for _, l := range listings {
		if i, ok := index[l.AgentID]; ok {
			perf[i].ActiveListings = l.N
		}
	}

	type agentVolume struct {
		AgentID uuid.UUID
		Deals   int64
		Volume  decimal.Decimal
	}
	var sales []agentVolume
	if err := r.db.WithContext(ctx).Table("sale_contracts").
		Select(`agent_id, COUNT(*) as deals, COALESCE(SUM(price), 0) as volume`).
		Where("signed_at >= ? AND signed_at < ?", period.From, period.To).
		Group("agent_id").
		Scan(&sales).Error; err != nil {
		return nil, err
	}
	for _, s := range sales {
		if i, ok := index[s.AgentID]; ok {
			perf[i].DealsClosed += s.Deals
			perf[i].SalesVolume = perf[i].SalesVolume.Add(s.Volume)
		}
	}

	var rentals []agentCount
	if err := r.db.WithContext(ctx).Table("rental_contracts").
		Select(`agent_id, COUNT(*) as n`).
		Where("signed_at >= ? AND signed_at < ?", period.From, period.To).
		Group("agent_id").
		Scan(&rentals).Error; err != nil {
		return nil, err
	}
	for _, rc := range rentals {
		if i, ok := index[rc.AgentID]; ok {
			perf[i].DealsClosed += rc.N
		}
	}

	var offers []agentCount
	if err := r.db.WithContext(ctx).Table("offers o").
		Select(`p.agent_id as agent_id, COUNT(*) as n`).
		Joins("JOIN properties p ON p.id = o.property_id").
		Where("o.created_at >= ? AND o.created_at < ?", period.From, period.To).
		Group("p.agent_id").
		Scan(&offers).Error; err != nil {
		return nil, err
	}
	for _, o := range offers {
		if i, ok := index[o.AgentID]; ok {
			perf[i].OffersReceived = o.N
		}
	}

	return perf, nil
}

// CompanyMetrics backs the ceo dashboard
func (r *GormAnalyticsReader) CompanyMetrics(ctx context.Context) (*analytics.DashboardMetrics, error) {
	metrics := &analytics.DashboardMetrics{}

	counts := []struct {
		table string
		where string
		args  []interface{}
		dest  *int64
	}{
		{"users", "", nil, &metrics.TotalUsers},
		{"properties", "", nil, &metrics.TotalProperties},
		{"properties", "status = ?", []interface{}{"listed"}, &metrics.ActiveListings},
		{"loans", "status = ?", []interface{}{"active"}, &metrics.ActiveLoans},
		{"branches", "", nil, &metrics.BranchCount},
	}
	for _, c := range counts {
		query := r.db.WithContext(ctx).Table(c.table)
		if c.where != "" {
			query = query.Where(c.where, c.args...)
		}
		if err := query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var outstanding decimal.Decimal
	if err := r.db.WithContext(ctx).Table("loans").
		Select(`COALESCE(SUM(outstanding), 0)`).
		Where("status = ?", "active").
		Scan(&outstanding).Error; err != nil {
		return nil, err
	}
	metrics.TotalOutstanding = outstanding

	monthStart := time.Now().UTC()
	monthStart = time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	if err := r.db.WithContext(ctx).Table("sale_contracts").
		Where("signed_at >= ?", monthStart).
		Count(&metrics.SalesThisMonth).Error; err != nil {
		return nil, err
	}

	r.fillTicketMetrics(ctx, metrics)
	return metrics, nil
}

// BranchMetrics backs the manager dashboard
func (r *GormAnalyticsReader) BranchMetrics(ctx context.Context, branchID uuid.UUID) (*analytics.DashboardMetrics, error) {
	metrics := &analytics.DashboardMetrics{}

	if err := r.db.WithContext(ctx).Table("properties").
		Where("branch_id = ?", branchID).
		Count(&metrics.TotalProperties).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Table("properties").
		Where("branch_id = ? AND status = ?", branchID, "listed").
		Count(&metrics.ActiveListings).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Table("employees").
		Where("branch_id = ? AND status <> ?", branchID, "terminated").
		Count(&metrics.Headcount).Error; err != nil {
		return nil, err
	}

	monthStart := time.Now().UTC()
	monthStart = time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	if err := r.db.WithContext(ctx).Table("sale_contracts sc").
		Joins("JOIN properties p ON p.id = sc.property_id").
		Where("p.branch_id = ? AND sc.signed_at >= ?", branchID, monthStart).
		Count(&metrics.SalesThisMonth).Error; err != nil {
		return nil, err
	}

	return metrics, nil
}

// LendingMetrics backs the supervisor dashboard
func (r *GormAnalyticsReader) LendingMetrics(ctx context.Context) (*analytics.DashboardMetrics, error) {
	metrics := &analytics.DashboardMetrics{}

	if err := r.db.WithContext(ctx).Table("loans").
		Where("status = ?", "active").
		Count(&metrics.ActiveLoans).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Table("loans").
		Where("status IN ?", []string{"submitted", "under_review"}).
		Count(&metrics.PendingLoans).Error; err != nil {
		return nil, err
	}

	var outstanding decimal.Decimal
	if err := r.db.WithContext(ctx).Table("loans").
		Select(`COALESCE(SUM(outstanding), 0)`).
		Where("status = ?", "active").
		Scan(&outstanding).Error; err != nil {
		return nil, err
	}
	metrics.TotalOutstanding = outstanding

	return metrics, nil
}

// HRMetrics backs the hr dashboard
func (r *GormAnalyticsReader) HRMetrics(ctx context.Context) (*analytics.DashboardMetrics, error) {
	metrics := &analytics.DashboardMetrics{}

	if err := r.db.WithContext(ctx).Table("employees").
		Where("status <> ?", "terminated").
		Count(&metrics.Headcount).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Table("branches").
		Count(&metrics.BranchCount).Error; err != nil {
		return nil, err
	}

	var payrollDue decimal.Decimal
	if err := r.db.WithContext(ctx).Table("payrolls").
		Select(`COALESCE(SUM(net), 0)`).
		Where("status = ?", "approved").
		Scan(&payrollDue).Error; err != nil {
		return nil, err
	}
	metrics.PayrollDue = payrollDue

	return metrics, nil
}

// SupportMetrics backs the support dashboard
func (r *GormAnalyticsReader) SupportMetrics(ctx context.Context) (*analytics.DashboardMetrics, error) {
	metrics := &analytics.DashboardMetrics{}

	if err := r.db.WithContext(ctx).Table("users").
		Where("role = ?", "client").
		Count(&metrics.TotalUsers).Error; err != nil {
		return nil, err
	}

	r.fillTicketMetrics(ctx, metrics)
	return metrics, nil
}

// fillTicketMetrics enriches a snapshot from the CRM, best effort
func (r *GormAnalyticsReader) fillTicketMetrics(ctx context.Context, metrics *analytics.DashboardMetrics) {
	if r.crm == nil {
		return
	}

	open := support.TicketStatusOpen
	tickets, err := r.crm.ListTickets(ctx, &open, support.ListOptions{Limit: crmSampleLimit})
	if err != nil {
		r.logger.Warn("CRM ticket lookup failed", zap.Error(err))
	} else {
		metrics.OpenTickets = int64(len(tickets))
	}

	rating, err := r.crm.AverageRating(ctx)
	if err != nil {
		r.logger.Warn("CRM rating lookup failed", zap.Error(err))
		return
	}
	metrics.AvgFeedbackRating = rating
}

// Ensure GormAnalyticsReader implements analytics.Reader
var _ analytics.Reader = (*GormAnalyticsReader)(nil)
