package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/realty/backend/internal/infrastructure/persistence"
	"github.com/realty/backend/internal/interfaces/http/dto"
)

// SystemHandler serves health and liveness endpoints
type SystemHandler struct {
	BaseHandler
	db     *persistence.Database
	logger *zap.Logger
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{db: db, logger: logger}
}

// Ping answers without touching any dependency
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{"message": "pong"})
}

// Health reports service and database status
func (h *SystemHandler) Health(c *gin.Context) {
	status := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.db.Ping(); err != nil {
		h.logger.Error("health check failed", zap.Error(err))
		status["status"] = "unhealthy"
		status["database"] = "unreachable"
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse("SERVICE_UNAVAILABLE", "Database is unreachable"))
		return
	}

	if stats, err := h.db.Stats(); err == nil {
		status["database"] = gin.H{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
		}
	}

	h.Success(c, status)
}
