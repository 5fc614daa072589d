package handler

import (
	"github.com/gin-gonic/gin"

	auditapp "github.com/realty/backend/internal/application/audit"
)

// AuditHandler handles audit trail read endpoints
type AuditHandler struct {
	BaseHandler
	auditService *auditapp.Service
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *auditapp.Service) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List returns audit entries matching the filter, newest first
func (h *AuditHandler) List(c *gin.Context) {
	var filter auditapp.EntryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	entries, total, err := h.auditService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, entries, total, page, pageSize)
}

// ListByEntity returns the trail for one entity
func (h *AuditHandler) ListByEntity(c *gin.Context) {
	entityType := c.Param("type")
	entityID := c.Param("id")
	if entityType == "" || entityID == "" {
		h.BadRequest(c, "An entity type and ID are required")
		return
	}

	entries, err := h.auditService.ListByEntity(c.Request.Context(), entityType, entityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// ListByActor returns everything one user did
func (h *AuditHandler) ListByActor(c *gin.Context) {
	actorID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid actor ID")
		return
	}

	entries, err := h.auditService.ListByActor(c.Request.Context(), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}
