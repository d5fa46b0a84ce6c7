package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/apperrors"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/internal/dto"
	"github.com/contaflow/tax_compliance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// obligationHandler handles HTTP requests related to obligations.
type obligationHandler struct {
	obligationService portssvc.ObligationSvcFacade
	dispatchService   portssvc.DispatchSvcFacade
}

// newObligationHandler creates a new obligationHandler.
func newObligationHandler(os portssvc.ObligationSvcFacade, ds portssvc.DispatchSvcFacade) *obligationHandler {
	return &obligationHandler{
		obligationService: os,
		dispatchService:   ds,
	}
}

// registerObligationRoutes registers routes related to obligations.
func registerObligationRoutes(rg *gin.RouterGroup, obligationService portssvc.ObligationSvcFacade, dispatchService portssvc.DispatchSvcFacade, dispatchLimiter gin.HandlerFunc) {
	h := newObligationHandler(obligationService, dispatchService)

	obligations := rg.Group("/obligations")
	{
		obligations.POST("", h.createObligation)
		obligations.GET("", h.listObligations)
		obligations.GET("/:id", h.getObligation)
		obligations.PUT("/:id", h.updateObligation)
		obligations.DELETE("/:id", h.deleteObligation)
		obligations.POST("/:id/not-applicable", h.setNotApplicable)
		obligations.POST("/:id/notify", dispatchLimiter, h.notify)
	}
}

// createObligation godoc
// @Summary Register a new obligation
// @Description Creates a tax obligation for a company in a reference month
// @Tags obligations
// @Accept  json
// @Produce  json
// @Param   obligation body dto.CreateObligationRequest true "Obligation details"
// @Success 201 {object} dto.ObligationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Missing capability"
// @Failure 500 {object} map[string]string "Failed to create obligation"
// @Security BearerAuth
// @Router /obligations [post]
func (h *obligationHandler) createObligation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateObligationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateObligation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	obligation, err := h.obligationService.CreateObligation(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create obligation")
		return
	}

	logger.Info("Obligation created", slog.String("obligation_id", obligation.ObligationID))
	c.JSON(http.StatusCreated, dto.ToObligationResponse(obligation))
}

// listObligations godoc
// @Summary List obligations
// @Description Retrieves obligations filtered by optional company and due-date range (RFC 3339)
// @Tags obligations
// @Produce  json
// @Param   companyId query string false "Company ID"
// @Param   dueFrom query string false "Due date lower bound (RFC 3339)"
// @Param   dueTo query string false "Due date upper bound (RFC 3339)"
// @Success 200 {array} dto.ObligationResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 500 {object} map[string]string "Failed to list obligations"
// @Security BearerAuth
// @Router /obligations [get]
func (h *obligationHandler) listObligations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var companyID *string
	if v := c.Query("companyId"); v != "" {
		companyID = &v
	}
	dueFrom, ok := parseTimeQuery(c, "dueFrom")
	if !ok {
		return
	}
	dueTo, ok := parseTimeQuery(c, "dueTo")
	if !ok {
		return
	}

	obligations, err := h.obligationService.ListObligations(c.Request.Context(), companyID, dueFrom, dueTo)
	if err != nil {
		logger.Error("Failed to list obligations", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list obligations"})
		return
	}

	responses := make([]dto.ObligationResponse, len(obligations))
	for i := range obligations {
		responses[i] = dto.ToObligationResponse(&obligations[i])
	}
	c.JSON(http.StatusOK, responses)
}

// getObligation godoc
// @Summary Get an obligation by ID
// @Tags obligations
// @Produce  json
// @Param   id path string true "Obligation ID"
// @Success 200 {object} dto.ObligationResponse
// @Failure 404 {object} map[string]string "Obligation not found"
// @Failure 500 {object} map[string]string "Failed to retrieve obligation"
// @Security BearerAuth
// @Router /obligations/{id} [get]
func (h *obligationHandler) getObligation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	obligationID := c.Param("id")

	obligation, err := h.obligationService.GetObligationByID(c.Request.Context(), obligationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Obligation not found"})
		} else {
			logger.Error("Failed to get obligation", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve obligation"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToObligationResponse(obligation))
}

// updateObligation godoc
// @Summary Update an obligation
// @Description Applies the mutable fields; status transitions are explicit, never derived
// @Tags obligations
// @Accept  json
// @Produce  json
// @Param   id path string true "Obligation ID"
// @Param   obligation body dto.UpdateObligationRequest true "Fields to update"
// @Success 200 {object} dto.ObligationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Obligation not found"
// @Failure 500 {object} map[string]string "Failed to update obligation"
// @Security BearerAuth
// @Router /obligations/{id} [put]
func (h *obligationHandler) updateObligation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	obligationID := c.Param("id")

	var req dto.UpdateObligationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateObligation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	obligation, err := h.obligationService.UpdateObligation(c.Request.Context(), obligationID, req, actorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update obligation")
		return
	}

	logger.Info("Obligation updated", slog.String("obligation_id", obligationID))
	c.JSON(http.StatusOK, dto.ToObligationResponse(obligation))
}

// deleteObligation godoc
// @Summary Delete an obligation
// @Description Hard-deletes the obligation and cascades to its files, views and notifications
// @Tags obligations
// @Produce  json
// @Param   id path string true "Obligation ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Obligation not found"
// @Failure 500 {object} map[string]string "Failed to delete obligation"
// @Security BearerAuth
// @Router /obligations/{id} [delete]
func (h *obligationHandler) deleteObligation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	obligationID := c.Param("id")

	actorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.obligationService.DeleteObligation(c.Request.Context(), obligationID, actorUserID); err != nil {
		respondServiceError(c, logger, err, "Failed to delete obligation")
		return
	}

	logger.Info("Obligation deleted", slog.String("obligation_id", obligationID))
	c.Status(http.StatusNoContent)
}

// setNotApplicable godoc
// @Summary Mark an obligation as not applicable
// @Description Sets status NOT_APPLICABLE with a mandatory reason; requires an accounting role
// @Tags obligations
// @Accept  json
// @Produce  json
// @Param   id path string true "Obligation ID"
// @Param   payload body dto.SetNotApplicableRequest true "Reason"
// @Success 200 {object} dto.ObligationResponse
// @Failure 400 {object} map[string]string "Missing reason"
// @Failure 403 {object} map[string]string "Missing capability"
// @Failure 404 {object} map[string]string "Obligation not found"
// @Failure 500 {object} map[string]string "Failed to update obligation"
// @Security BearerAuth
// @Router /obligations/{id}/not-applicable [post]
func (h *obligationHandler) setNotApplicable(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	obligationID := c.Param("id")

	var req dto.SetNotApplicableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetNotApplicable", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	obligation, err := h.obligationService.SetNotApplicable(c.Request.Context(), obligationID, req.Reason, actorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update obligation")
		return
	}

	logger.Info("Obligation marked not applicable", slog.String("obligation_id", obligationID))
	c.JSON(http.StatusOK, dto.ToObligationResponse(obligation))
}

// notify godoc
// @Summary Notify the company about a posted obligation document
// @Description Sends the new-document email and records the attempt in the ledger. A company without an email yields success=false with no ledger write.
// @Tags obligations
// @Produce  json
// @Param   id path string true "Obligation ID"
// @Success 200 {object} domain.DispatchResult
// @Failure 404 {object} map[string]string "Obligation not found"
// @Failure 500 {object} map[string]string "Failed to dispatch notification"
// @Security BearerAuth
// @Router /obligations/{id}/notify [post]
func (h *obligationHandler) notify(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	obligationID := c.Param("id")

	senderUserID, ok := middleware.GetUserIDFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.dispatchService.DispatchNewDocument(c.Request.Context(), obligationID, senderUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Obligation not found"})
		} else {
			logger.Error("Failed to dispatch notification", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to dispatch notification"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// parseTimeQuery parses an optional RFC 3339 query parameter. On a malformed
// value it writes a 400 response and reports !ok.
func parseTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	v := c.Query(name)
	if v == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be RFC 3339"})
		return nil, false
	}
	return &t, true
}

// respondServiceError maps common service errors to HTTP responses.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
