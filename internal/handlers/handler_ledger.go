package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/internal/dto"
	"github.com/contaflow/tax_compliance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler exposes the view/notification ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers routes related to the ledger.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	rg.POST("/obligations/:id/views", h.recordView)
	rg.GET("/obligations/:id/views", h.viewHistory)

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/unviewed", h.listUnviewed)
		ledger.GET("/stats", h.stats)
	}
}

// recordView godoc
// @Summary Record a view or download event
// @Description Appends one event to the view ledger; repeated views each insert a new row
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   id path string true "Obligation ID"
// @Param   payload body dto.RecordViewRequest true "Action (VIEW or DOWNLOAD)"
// @Success 201 {object} domain.ObligationView
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Obligation not found"
// @Failure 500 {object} map[string]string "Failed to record view"
// @Security BearerAuth
// @Router /obligations/{id}/views [post]
func (h *ledgerHandler) recordView(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	obligationID := c.Param("id")

	var req dto.RecordViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordView", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	view, err := h.ledgerService.RecordView(c.Request.Context(), obligationID, userID, req.Action)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record view")
		return
	}

	c.JSON(http.StatusCreated, view)
}

// viewHistory godoc
// @Summary View history of an obligation
// @Description Retrieves client-side view events for the obligation; a missing obligation yields an empty list
// @Tags ledger
// @Produce  json
// @Param   id path string true "Obligation ID"
// @Success 200 {array} domain.ViewEntry
// @Failure 500 {object} map[string]string "Failed to retrieve history"
// @Security BearerAuth
// @Router /obligations/{id}/views [get]
func (h *ledgerHandler) viewHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	obligationID := c.Param("id")

	entries, err := h.ledgerService.ClientViewHistory(c.Request.Context(), obligationID)
	if err != nil {
		logger.Error("Failed to get view history", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// listUnviewed godoc
// @Summary List unviewed obligations
// @Description Retrieves obligations with zero view events, excluding NOT_APPLICABLE, with display metadata decoded
// @Tags ledger
// @Produce  json
// @Param   companyId query string false "Company ID"
// @Param   startDate query string false "Due date lower bound (RFC 3339)"
// @Param   endDate query string false "Due date upper bound (RFC 3339)"
// @Success 200 {array} domain.UnviewedObligation
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 500 {object} map[string]string "Failed to list unviewed obligations"
// @Security BearerAuth
// @Router /ledger/unviewed [get]
func (h *ledgerHandler) listUnviewed(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	filters, ok := bindLedgerFilters(c)
	if !ok {
		return
	}

	obligations, err := h.ledgerService.UnviewedObligations(c.Request.Context(), filters)
	if err != nil {
		logger.Error("Failed to list unviewed obligations", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list unviewed obligations"})
		return
	}

	c.JSON(http.StatusOK, obligations)
}

// stats godoc
// @Summary Ledger statistics
// @Description Aggregates notification outcomes and view totals; pending is derived as total minus sent minus failed
// @Tags ledger
// @Produce  json
// @Param   companyId query string false "Company ID"
// @Param   startDate query string false "Due date lower bound (RFC 3339)"
// @Param   endDate query string false "Due date upper bound (RFC 3339)"
// @Success 200 {object} domain.NotificationStats
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 500 {object} map[string]string "Failed to compute statistics"
// @Security BearerAuth
// @Router /ledger/stats [get]
func (h *ledgerHandler) stats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	filters, ok := bindLedgerFilters(c)
	if !ok {
		return
	}

	stats, err := h.ledgerService.NotificationStats(c.Request.Context(), filters)
	if err != nil {
		logger.Error("Failed to compute ledger stats", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// bindLedgerFilters parses the shared query-string filters. On a malformed
// date it writes a 400 response and reports !ok.
func bindLedgerFilters(c *gin.Context) (portsrepo.LedgerFilters, bool) {
	var filters portsrepo.LedgerFilters
	if v := c.Query("companyId"); v != "" {
		filters.CompanyID = &v
	}
	for name, dst := range map[string]**time.Time{
		"startDate": &filters.StartDate,
		"endDate":   &filters.EndDate,
	} {
		v := c.Query(name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be RFC 3339"})
			return filters, false
		}
		*dst = &t
	}
	return filters, true
}
