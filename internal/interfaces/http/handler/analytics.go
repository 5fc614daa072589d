package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	analyticsapp "github.com/realty/backend/internal/application/analytics"
	"github.com/realty/backend/internal/interfaces/http/middleware"
	"github.com/realty/backend/internal/interfaces/http/router"
)

// AnalyticsHandler handles report and dashboard endpoints
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *analyticsapp.Service
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *analyticsapp.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Routes mounts the report and dashboard endpoints with their role
// guards. Each dashboard is cut for one role, with the ceo seeing all
// of them.
func (h *AnalyticsHandler) Routes() *router.DomainGroup {
	management := middleware.RequireRole(middleware.Management...)

	g := router.NewDomainGroup("/analytics")
	g.GET("/reports/financial", management, h.FinancialReport)
	g.GET("/reports/risk", middleware.RequireRole("ceo", "supervisor"), h.RiskAnalysis)
	g.GET("/reports/market", middleware.RequireStaff(), h.MarketAnalysis)
	g.GET("/reports/agents", management, h.AgentPerformance)
	g.GET("/dashboards/ceo", middleware.RequireRole("ceo"), h.CompanyDashboard)
	g.GET("/dashboards/manager", management, h.BranchDashboard)
	g.GET("/dashboards/supervisor", middleware.RequireRole("ceo", "supervisor"), h.LendingDashboard)
	g.GET("/dashboards/hr", middleware.RequireRole("ceo", "hr"), h.HRDashboard)
	g.GET("/dashboards/support", middleware.RequireRole("ceo", "manager", "supervisor", "support"), h.SupportDashboard)
	return g
}

// FinancialReport returns revenue and commission figures for a month
func (h *AnalyticsHandler) FinancialReport(c *gin.Context) {
	var q analyticsapp.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}

	report, err := h.analyticsService.FinancialReport(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// RiskAnalysis returns the loan book risk breakdown
func (h *AnalyticsHandler) RiskAnalysis(c *gin.Context) {
	report, err := h.analyticsService.RiskAnalysis(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// MarketAnalysis returns listing inventory and price statistics
func (h *AnalyticsHandler) MarketAnalysis(c *gin.Context) {
	report, err := h.analyticsService.MarketAnalysis(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// AgentPerformance ranks agents by closed sales for a month
func (h *AnalyticsHandler) AgentPerformance(c *gin.Context) {
	var q analyticsapp.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}

	report, err := h.analyticsService.AgentPerformance(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// CompanyDashboard returns the company-wide snapshot
func (h *AnalyticsHandler) CompanyDashboard(c *gin.Context) {
	metrics, err := h.analyticsService.CompanyDashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, metrics)
}

// BranchDashboard returns the snapshot scoped to one branch
func (h *AnalyticsHandler) BranchDashboard(c *gin.Context) {
	branchID := uuid.Nil
	if raw := c.Query("branch_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid branch ID")
			return
		}
		branchID = parsed
	}

	metrics, err := h.analyticsService.BranchDashboard(c.Request.Context(), branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, metrics)
}

// LendingDashboard returns the loan servicing snapshot
func (h *AnalyticsHandler) LendingDashboard(c *gin.Context) {
	metrics, err := h.analyticsService.LendingDashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, metrics)
}

// HRDashboard returns headcount and payroll figures
func (h *AnalyticsHandler) HRDashboard(c *gin.Context) {
	metrics, err := h.analyticsService.HRDashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, metrics)
}

// SupportDashboard returns the support desk snapshot
func (h *AnalyticsHandler) SupportDashboard(c *gin.Context) {
	metrics, err := h.analyticsService.SupportDashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, metrics)
}
