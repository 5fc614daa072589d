package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	analyticsapp "github.com/realty/backend/internal/application/analytics"
	"github.com/realty/backend/internal/domain/analytics"
	"github.com/realty/backend/internal/infrastructure/auth"
	"github.com/realty/backend/internal/interfaces/http/middleware"
	"github.com/realty/backend/internal/interfaces/http/router"
)

// stubAnalyticsReader returns empty metrics for every query
type stubAnalyticsReader struct{}

func (stubAnalyticsReader) FinancialReport(context.Context, analytics.Period) (*analytics.FinancialReport, error) {
	return &analytics.FinancialReport{}, nil
}

func (stubAnalyticsReader) RiskAnalysis(context.Context) (*analytics.RiskAnalysis, error) {
	return &analytics.RiskAnalysis{}, nil
}

func (stubAnalyticsReader) MarketAnalysis(context.Context) (*analytics.MarketAnalysis, error) {
	return &analytics.MarketAnalysis{}, nil
}

func (stubAnalyticsReader) AgentPerformance(context.Context, analytics.Period) ([]analytics.AgentPerformance, error) {
	return nil, nil
}

func (stubAnalyticsReader) CompanyMetrics(context.Context) (*analytics.DashboardMetrics, error) {
	return &analytics.DashboardMetrics{}, nil
}

func (stubAnalyticsReader) BranchMetrics(context.Context, uuid.UUID) (*analytics.DashboardMetrics, error) {
	return &analytics.DashboardMetrics{}, nil
}

func (stubAnalyticsReader) LendingMetrics(context.Context) (*analytics.DashboardMetrics, error) {
	return &analytics.DashboardMetrics{}, nil
}

func (stubAnalyticsReader) HRMetrics(context.Context) (*analytics.DashboardMetrics, error) {
	return &analytics.DashboardMetrics{}, nil
}

func (stubAnalyticsReader) SupportMetrics(context.Context) (*analytics.DashboardMetrics, error) {
	return &analytics.DashboardMetrics{}, nil
}

// setupAnalyticsRouter mounts AnalyticsHandler.Routes the same way the
// server does, behind JWT auth under /api/v1.
func setupAnalyticsRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(testJWTConfig())
	service := analyticsapp.NewService(stubAnalyticsReader{}, zap.NewNop())
	h := NewAnalyticsHandler(service)

	engine := gin.New()
	r := router.NewRouter(engine)
	r.Use(middleware.JWTAuthMiddleware(jwtService))
	r.Register(h.Routes())
	r.Setup()
	return engine, jwtService
}

func getAsRole(t *testing.T, engine *gin.Engine, jwtService *auth.JWTService, role, target string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", "Bearer "+tokenForRole(t, jwtService, role))
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w.Code
}

func TestDashboardRoleGuards(t *testing.T) {
	engine, jwtService := setupAnalyticsRouter(t)

	allRoles := []string{"ceo", "manager", "supervisor", "hr", "support", "agent", "client"}
	dashboards := map[string][]string{
		"/api/v1/analytics/dashboards/ceo":        {"ceo"},
		"/api/v1/analytics/dashboards/manager":    {"ceo", "manager"},
		"/api/v1/analytics/dashboards/supervisor": {"ceo", "supervisor"},
		"/api/v1/analytics/dashboards/hr":         {"ceo", "hr"},
		"/api/v1/analytics/dashboards/support":    {"ceo", "manager", "supervisor", "support"},
	}

	for target, permitted := range dashboards {
		allowed := make(map[string]bool, len(permitted))
		for _, role := range permitted {
			allowed[role] = true
		}

		for _, role := range allRoles {
			code := getAsRole(t, engine, jwtService, role, target)
			if allowed[role] {
				assert.NotEqual(t, http.StatusForbidden, code, "%s should reach %s", role, target)
			} else {
				assert.Equal(t, http.StatusForbidden, code, "%s must be rejected from %s", role, target)
			}
		}
	}
}

func TestDashboardsServeMetricsToPermittedRole(t *testing.T) {
	engine, jwtService := setupAnalyticsRouter(t)

	tests := []struct {
		role   string
		target string
	}{
		{"ceo", "/api/v1/analytics/dashboards/ceo"},
		{"supervisor", "/api/v1/analytics/dashboards/supervisor"},
		{"hr", "/api/v1/analytics/dashboards/hr"},
		{"support", "/api/v1/analytics/dashboards/support"},
		{"manager", "/api/v1/analytics/dashboards/manager?branch_id=" + uuid.NewString()},
	}

	for _, tt := range tests {
		code := getAsRole(t, engine, jwtService, tt.role, tt.target)
		assert.Equal(t, http.StatusOK, code, "%s on %s", tt.role, tt.target)
	}
}

func TestReportRoleGuards(t *testing.T) {
	engine, jwtService := setupAnalyticsRouter(t)

	tests := []struct {
		role      string
		target    string
		forbidden bool
	}{
		{"manager", "/api/v1/analytics/reports/financial", false},
		{"agent", "/api/v1/analytics/reports/financial", true},
		{"supervisor", "/api/v1/analytics/reports/risk", false},
		{"hr", "/api/v1/analytics/reports/risk", true},
		{"agent", "/api/v1/analytics/reports/market", false},
		{"client", "/api/v1/analytics/reports/market", true},
		{"manager", "/api/v1/analytics/reports/agents", false},
		{"support", "/api/v1/analytics/reports/agents", true},
	}

	for _, tt := range tests {
		code := getAsRole(t, engine, jwtService, tt.role, tt.target)
		if tt.forbidden {
			assert.Equal(t, http.StatusForbidden, code, "%s on %s", tt.role, tt.target)
		} else {
			assert.NotEqual(t, http.StatusForbidden, code, "%s on %s", tt.role, tt.target)
		}
	}
}

func TestDashboardRequiresToken(t *testing.T) {
	engine, _ := setupAnalyticsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/dashboards/ceo", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
