package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func requestLog(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	for _, entry := range recorded.All() {
		switch entry.Message {
		case "request served", "request rejected", "request failed":
			return entry
		}
	}
	t.Fatal("no request log entry recorded")
	return observer.LoggedEntry{}
}

func newObservedEngine(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.DebugLevel)
	engine := gin.New()
	engine.Use(RequestLogger(zap.New(core)))
	return engine, recorded
}

func TestRequestLoggerLevelsFollowStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		level   zapcore.Level
		message string
	}{
		{"ok", http.StatusOK, zapcore.InfoLevel, "request served"},
		{"client error", http.StatusNotFound, zapcore.WarnLevel, "request rejected"},
		{"server error", http.StatusBadGateway, zapcore.ErrorLevel, "request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, recorded := newObservedEngine(t)
			engine.GET("/status-check", func(c *gin.Context) {
				c.Status(tt.status)
			})

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status-check", nil))

			entry := requestLog(t, recorded)
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, tt.message, entry.Message)
		})
	}
}

func TestRequestLoggerRecordsRequestFields(t *testing.T) {
	engine, recorded := newObservedEngine(t)
	engine.GET("/listings", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/listings?city=springfield", nil)
	req.Header.Set("User-Agent", "realty-test/1.0")
	engine.ServeHTTP(w, req)

	entry := requestLog(t, recorded)
	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/listings", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "city=springfield", fields["query"])
	assert.Equal(t, "realty-test/1.0", fields["user_agent"])
	assert.Contains(t, fields, "took")
	assert.Contains(t, fields, "ip")
}

func TestRequestLoggerCarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.DebugLevel)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("request_id", "req-42")
		c.Next()
	})
	engine.Use(RequestLogger(zap.New(core)))
	engine.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	entry := requestLog(t, recorded)
	assert.Equal(t, "req-42", entry.ContextMap()["request_id"])
}

func TestRequestLoggerExposesLoggerToHandlers(t *testing.T) {
	engine, _ := newObservedEngine(t)

	var fromCtx *zap.Logger
	engine.GET("/inspect", func(c *gin.Context) {
		fromCtx = FromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/inspect", nil))

	require.NotNil(t, fromCtx)
	assert.True(t, fromCtx.Core().Enabled(zapcore.InfoLevel), "handler should see the real logger, not the no-op fallback")
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	engine := gin.New()
	engine.Use(Recovery(zap.New(core)))
	engine.GET("/boom", func(c *gin.Context) {
		panic("ledger out of balance")
	})

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")

	entries := recorded.All()
	require.NotEmpty(t, entries)
	assert.Equal(t, "panic recovered", entries[0].Message)
	assert.Contains(t, entries[0].ContextMap(), "stack")
}
