package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
)

// TokenCleanup sweeps expired and consumed password reset tokens.
type TokenCleanup struct {
	tokenRepo portsrepo.PasswordResetTokenRepository
	logger    *slog.Logger
	interval  time.Duration
}

// NewTokenCleanup creates the reset-token cleanup job.
func NewTokenCleanup(tokenRepo portsrepo.PasswordResetTokenRepository, logger *slog.Logger, interval time.Duration) *TokenCleanup {
	return &TokenCleanup{
		tokenRepo: tokenRepo,
		logger:    logger,
		interval:  interval,
	}
}

// Start runs the job on its interval until ctx is canceled.
func (j *TokenCleanup) Start(ctx context.Context) {
	runLoop(ctx, j.logger, "token_cleanup", j.interval, j.RunOnce)
}

// RunOnce performs a single sweep.
func (j *TokenCleanup) RunOnce(ctx context.Context) error {
	deleted, err := j.tokenRepo.DeleteExpiredOrUsed(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to sweep reset tokens: %w", err)
	}
	if deleted > 0 {
		j.logger.Info("Swept reset tokens", slog.Int64("deleted", deleted))
	}
	return nil
}
