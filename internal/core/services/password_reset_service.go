package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/apperrors"
	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	"github.com/contaflow/tax_compliance_app/internal/core/ports/providers"
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/internal/utils"
	"github.com/google/uuid"
)

// passwordResetService drives the reset-token flow. Tokens are stored hashed;
// the raw token only ever travels in the reset email.
type passwordResetService struct {
	BaseService
	userRepo        portsrepo.UserRepositoryFacade
	tokenRepo       portsrepo.PasswordResetTokenRepository
	mailer          providers.Mailer
	tokenTTL        time.Duration
	frontendBaseURL string
	defaultFrom     string
}

// NewPasswordResetService creates a new password reset service.
func NewPasswordResetService(
	userRepo portsrepo.UserRepositoryFacade,
	tokenRepo portsrepo.PasswordResetTokenRepository,
	mailer providers.Mailer,
	tokenTTL time.Duration,
	frontendBaseURL string,
	defaultFrom string,
) portssvc.PasswordResetSvcFacade {
	return &passwordResetService{
		userRepo:        userRepo,
		tokenRepo:       tokenRepo,
		mailer:          mailer,
		tokenTTL:        tokenTTL,
		frontendBaseURL: frontendBaseURL,
		defaultFrom:     defaultFrom,
	}
}

var _ portssvc.PasswordResetSvcFacade = (*passwordResetService)(nil)

// RequestReset issues a token and mails the reset link. Unknown emails are a
// silent no-op so the endpoint does not reveal account existence.
func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !user.IsActive || user.DeletedAt != nil {
		s.LogInfo(ctx, "Password reset requested for unknown or inactive email")
		return nil
	}

	rawToken, err := utils.GenerateSecureToken(32)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	now := time.Now().UTC()
	token := domain.PasswordResetToken{
		TokenID:   uuid.NewString(),
		UserID:    user.UserID,
		TokenHash: utils.HashToken(rawToken),
		ExpiresAt: now.Add(s.tokenTTL),
		CreatedAt: now,
	}
	if err := s.tokenRepo.SaveToken(ctx, token); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.frontendBaseURL, url.QueryEscape(rawToken))
	result, err := s.mailer.Send(ctx, providers.MailMessage{
		To:      user.Email,
		From:    s.defaultFrom,
		Subject: "Redefinição de senha",
		HTML:    fmt.Sprintf(`<p>Olá, %s,</p><p>Para redefinir sua senha, acesse: <a href="%s">%s</a></p><p>O link expira em %s.</p>`, user.Name, link, link, s.tokenTTL),
		Text:    fmt.Sprintf("Para redefinir sua senha, acesse: %s", link),
	})
	if err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	if !result.Success {
		s.LogWarn(ctx, "Reset email delivery failed",
			slog.String("user_id", user.UserID),
			slog.String("error", result.Error))
	}
	return nil
}

// ConfirmReset consumes a valid token and sets the new password. The hash
// update and token invalidation are applied atomically by the repository.
func (s *passwordResetService) ConfirmReset(ctx context.Context, rawToken string, newPassword string) error {
	now := time.Now().UTC()
	token, err := s.tokenRepo.FindValidTokenByHash(ctx, utils.HashToken(rawToken), now)
	if err != nil {
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if token == nil {
		return fmt.Errorf("reset token: %w", apperrors.ErrNotFound)
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePasswordAndInvalidateTokens(ctx, token.UserID, hash, now); err != nil {
		s.LogError(ctx, err, "Failed to apply password reset", slog.String("user_id", token.UserID))
		return fmt.Errorf("failed to apply password reset: %w", err)
	}

	s.LogInfo(ctx, "Password reset applied", slog.String("user_id", token.UserID))
	return nil
}
