package handlers

import (
	"log/slog"
	"net/http"
	"regexp"

	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

var refMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// complianceHandler exposes the monthly control report.
type complianceHandler struct {
	complianceService portssvc.ComplianceSvcFacade
}

// newComplianceHandler creates a new complianceHandler.
func newComplianceHandler(cs portssvc.ComplianceSvcFacade) *complianceHandler {
	return &complianceHandler{complianceService: cs}
}

// registerComplianceRoutes registers the compliance report routes.
func registerComplianceRoutes(rg *gin.RouterGroup, complianceService portssvc.ComplianceSvcFacade) {
	h := newComplianceHandler(complianceService)
	rg.GET("/companies/:id/monthly-control", h.monthlyControl)
}

// monthlyControl godoc
// @Summary Monthly control report for a company
// @Description Compares the company's expected tax types against its obligations in the reference month and derives the missing set and completion rate
// @Tags compliance
// @Produce  json
// @Param   id path string true "Company ID"
// @Param   month query string true "Reference month (YYYY-MM)"
// @Success 200 {object} domain.MonthlyControlResult
// @Failure 400 {object} map[string]string "Invalid month"
// @Failure 500 {object} map[string]string "Failed to compute report"
// @Security BearerAuth
// @Router /companies/{id}/monthly-control [get]
func (h *complianceHandler) monthlyControl(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("id")

	month := c.Query("month")
	if !refMonthPattern.MatchString(month) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return
	}

	result, err := h.complianceService.MonthlyControl(c.Request.Context(), companyID, month)
	if err != nil {
		logger.Error("Failed to compute monthly control",
			slog.String("company_id", companyID),
			slog.String("month", month),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute report"})
		return
	}

	c.JSON(http.StatusOK, result)
}
