package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/contaflow/tax_compliance_app/internal/apperrors"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/internal/dto"
	"github.com/contaflow/tax_compliance_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// authHandler handles login, Google sign-in and the password reset flow.
type authHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	resetService portssvc.PasswordResetSvcFacade
	oauthService portssvc.GoogleOAuthSvcFacade
}

// newAuthHandler creates a new authHandler.
func newAuthHandler(
	userService portssvc.UserSvcFacade,
	tokenService portssvc.TokenSvcFacade,
	resetService portssvc.PasswordResetSvcFacade,
	oauthService portssvc.GoogleOAuthSvcFacade,
) *authHandler {
	return &authHandler{
		userService:  userService,
		tokenService: tokenService,
		resetService: resetService,
		oauthService: oauthService,
	}
}

// registerAuthRoutes registers the public authentication routes.
func registerAuthRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, loginLimiter gin.HandlerFunc) {
	h := newAuthHandler(services.User, services.Token, services.PasswordReset, services.GoogleOAuth)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", loginLimiter, h.login)
		auth.POST("/google/exchange", loginLimiter, h.googleExchange)
		auth.POST("/password-reset/request", loginLimiter, h.passwordResetRequest)
		auth.POST("/password-reset/confirm", loginLimiter, h.passwordResetConfirm)
	}
}

// login godoc
// @Summary Authenticate with email and password
// @Description Verifies credentials and issues a JWT access token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Failed to authenticate"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			logger.Warn("Login rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		} else {
			logger.Error("Failed to authenticate user", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
		}
		return
	}

	token, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user.UserID)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
		return
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}

// googleExchange godoc
// @Summary Exchange a Google authorization code for an access token
// @Description Resolves the Google identity and issues a JWT, creating an accounting staff account on first sign-in
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   payload body dto.ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Code exchange failed"
// @Failure 500 {object} map[string]string "Failed to authenticate"
// @Router /auth/google/exchange [post]
func (h *authHandler) googleExchange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for google exchange", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	email, name, err := h.oauthService.ExchangeCode(c.Request.Context(), req.Code)
	if err != nil {
		logger.Warn("Google code exchange failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google sign-in failed"})
		return
	}

	user, err := h.userService.FindOrCreateOAuthUser(c.Request.Context(), email, name)
	if err != nil {
		logger.Error("Failed to resolve oauth user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
		return
	}

	token, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user.UserID)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate"})
		return
	}

	logger.Info("User logged in via Google", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token})
}

// passwordResetRequest godoc
// @Summary Request a password reset link
// @Description Emails a reset link when the address belongs to an active account; responds 202 either way
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   payload body dto.PasswordResetRequest true "Account email"
// @Success 202 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to process request"
// @Router /auth/password-reset/request [post]
func (h *authHandler) passwordResetRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for password reset request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.resetService.RequestReset(c.Request.Context(), req.Email); err != nil {
		logger.Error("Failed to process password reset request", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		return
	}

	// Uniform response regardless of account existence.
	c.JSON(http.StatusAccepted, gin.H{"message": "If the account exists, a reset link has been sent"})
}

// passwordResetConfirm godoc
// @Summary Confirm a password reset
// @Description Consumes a reset token and sets the new password
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   payload body dto.PasswordResetConfirmRequest true "Token and new password"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid token or input"
// @Failure 500 {object} map[string]string "Failed to reset password"
// @Router /auth/password-reset/confirm [post]
func (h *authHandler) passwordResetConfirm(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for password reset confirm", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.resetService.ConfirmReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Password reset with invalid token")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
		} else {
			logger.Error("Failed to confirm password reset", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
