package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/internal/dto"
	"github.com/contaflow/tax_compliance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// taxProfileHandler manages the declared expected tax set per company.
type taxProfileHandler struct {
	taxProfileService portssvc.TaxProfileSvcFacade
}

// newTaxProfileHandler creates a new taxProfileHandler.
func newTaxProfileHandler(ts portssvc.TaxProfileSvcFacade) *taxProfileHandler {
	return &taxProfileHandler{taxProfileService: ts}
}

// registerTaxProfileRoutes registers routes related to tax profiles.
func registerTaxProfileRoutes(rg *gin.RouterGroup, taxProfileService portssvc.TaxProfileSvcFacade) {
	h := newTaxProfileHandler(taxProfileService)

	profiles := rg.Group("/companies/:id/tax-profiles")
	{
		profiles.GET("", h.listProfiles)
		profiles.POST("", h.addTaxType)
		profiles.PUT("", h.replaceTaxTypes)
		profiles.DELETE("/:taxType", h.removeTaxType)
	}
}

// listProfiles godoc
// @Summary List tax profiles of a company
// @Description Retrieves every profile row, active and deactivated
// @Tags tax-profiles
// @Produce  json
// @Param   id path string true "Company ID"
// @Success 200 {array} dto.TaxProfileResponse
// @Failure 500 {object} map[string]string "Failed to list tax profiles"
// @Security BearerAuth
// @Router /companies/{id}/tax-profiles [get]
func (h *taxProfileHandler) listProfiles(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("id")

	profiles, err := h.taxProfileService.ListTaxProfiles(c.Request.Context(), companyID)
	if err != nil {
		logger.Error("Failed to list tax profiles", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tax profiles"})
		return
	}

	responses := make([]dto.TaxProfileResponse, len(profiles))
	for i, p := range profiles {
		responses[i] = dto.ToTaxProfileResponse(p)
	}
	c.JSON(http.StatusOK, responses)
}

// addTaxType godoc
// @Summary Add an expected tax type
// @Description Activates (or creates) one expected tax type for the company; requires an accounting role
// @Tags tax-profiles
// @Accept  json
// @Produce  json
// @Param   id path string true "Company ID"
// @Param   payload body dto.AddTaxProfileRequest true "Tax type"
// @Success 201 {object} dto.TaxProfileResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Missing capability"
// @Failure 500 {object} map[string]string "Failed to add tax type"
// @Security BearerAuth
// @Router /companies/{id}/tax-profiles [post]
func (h *taxProfileHandler) addTaxType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("id")

	var req dto.AddTaxProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddTaxType", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, err := h.taxProfileService.AddTaxType(c.Request.Context(), companyID, req.TaxType, actorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add tax type")
		return
	}

	logger.Info("Tax type added", slog.String("company_id", companyID), slog.String("tax_type", req.TaxType))
	c.JSON(http.StatusCreated, dto.ToTaxProfileResponse(*profile))
}

// replaceTaxTypes godoc
// @Summary Replace the expected tax set
// @Description Deactivates all profiles and reactivates/creates the supplied set in one transaction; requires an accounting role
// @Tags tax-profiles
// @Accept  json
// @Produce  json
// @Param   id path string true "Company ID"
// @Param   payload body dto.ReplaceTaxProfilesRequest true "New tax set"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Missing capability"
// @Failure 500 {object} map[string]string "Failed to replace tax types"
// @Security BearerAuth
// @Router /companies/{id}/tax-profiles [put]
func (h *taxProfileHandler) replaceTaxTypes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("id")

	var req dto.ReplaceTaxProfilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReplaceTaxTypes", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.taxProfileService.ReplaceTaxTypes(c.Request.Context(), companyID, req.TaxTypes, actorUserID); err != nil {
		respondServiceError(c, logger, err, "Failed to replace tax types")
		return
	}

	logger.Info("Tax set replaced", slog.String("company_id", companyID), slog.Int("count", len(req.TaxTypes)))
	c.JSON(http.StatusOK, gin.H{"message": "Tax set replaced"})
}

// removeTaxType godoc
// @Summary Remove an expected tax type
// @Description Soft-deactivates the (company, taxType) row; requires an accounting role
// @Tags tax-profiles
// @Produce  json
// @Param   id path string true "Company ID"
// @Param   taxType path string true "Tax type"
// @Success 204 "Removed"
// @Failure 403 {object} map[string]string "Missing capability"
// @Failure 404 {object} map[string]string "Profile not found"
// @Failure 500 {object} map[string]string "Failed to remove tax type"
// @Security BearerAuth
// @Router /companies/{id}/tax-profiles/{taxType} [delete]
func (h *taxProfileHandler) removeTaxType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("id")
	taxType := c.Param("taxType")

	actorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.taxProfileService.RemoveTaxType(c.Request.Context(), companyID, taxType, actorUserID); err != nil {
		respondServiceError(c, logger, err, "Failed to remove tax type")
		return
	}

	logger.Info("Tax type removed", slog.String("company_id", companyID), slog.String("tax_type", taxType))
	c.Status(http.StatusNoContent)
}
