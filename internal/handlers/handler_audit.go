package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// auditHandler exposes the audit trail to accounting admins.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
	userService  portssvc.UserSvcFacade
}

// newAuditHandler creates a new auditHandler.
func newAuditHandler(as portssvc.AuditSvcFacade, us portssvc.UserSvcFacade) *auditHandler {
	return &auditHandler{auditService: as, userService: us}
}

// registerAuditRoutes registers the audit trail routes.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade, userService portssvc.UserSvcFacade) {
	h := newAuditHandler(auditService, userService)

	audit := rg.Group("/audit")
	{
		audit.GET("/logs", h.listLogs)
		audit.GET("/stats", h.stats)
	}
}

// requireAuditCapability verifies the caller may read the audit trail.
func (h *auditHandler) requireAuditCapability(c *gin.Context) bool {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return false
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to resolve acting user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authorize"})
		return false
	}
	if !domain.HasCapability(user.Role, domain.CapViewAuditLog) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return false
	}
	return true
}

// listLogs godoc
// @Summary List audit records
// @Description Retrieves recent audit records, newest first, optionally filtered by entity type
// @Tags audit
// @Produce  json
// @Param   entityType query string false "Entity type filter"
// @Param   limit query int false "Maximum rows (default 100, cap 500)"
// @Success 200 {array} domain.AuditLog
// @Failure 403 {object} map[string]string "Missing capability"
// @Failure 500 {object} map[string]string "Failed to list audit records"
// @Security BearerAuth
// @Router /audit/logs [get]
func (h *auditHandler) listLogs(c *gin.Context) {
	if !h.requireAuditCapability(c) {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var entityType *string
	if v := c.Query("entityType"); v != "" {
		entityType = &v
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	logs, err := h.auditService.List(c.Request.Context(), entityType, limit)
	if err != nil {
		logger.Error("Failed to list audit records", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit records"})
		return
	}

	c.JSON(http.StatusOK, logs)
}

// stats godoc
// @Summary Audit statistics
// @Description Returns counts grouped by action, entity type and day for the window (default: last 30 days)
// @Tags audit
// @Produce  json
// @Param   from query string false "Window start (RFC 3339)"
// @Param   to query string false "Window end (RFC 3339)"
// @Success 200 {array} domain.AuditStatRow
// @Failure 400 {object} map[string]string "Invalid window"
// @Failure 403 {object} map[string]string "Missing capability"
// @Failure 500 {object} map[string]string "Failed to compute statistics"
// @Security BearerAuth
// @Router /audit/stats [get]
func (h *auditHandler) stats(c *gin.Context) {
	if !h.requireAuditCapability(c) {
		return
	}
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC 3339"})
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC 3339"})
			return
		}
		to = t
	}

	stats, err := h.auditService.Stats(c.Request.Context(), from, to)
	if err != nil {
		logger.Error("Failed to compute audit stats", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
