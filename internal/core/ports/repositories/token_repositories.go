package repositories

import (
	"context"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
)

// PasswordResetTokenRepository defines persistence for reset tokens.
type PasswordResetTokenRepository interface {
	// SaveToken persists a new reset token.
	SaveToken(ctx context.Context, token domain.PasswordResetToken) error

	// FindValidTokenByHash retrieves an unused, unexpired token by its hash.
	// Returns nil, nil when no such token exists.
	FindValidTokenByHash(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordResetToken, error)

	// DeleteExpiredOrUsed removes tokens that are expired at now or already
	// used, returning how many rows were deleted.
	DeleteExpiredOrUsed(ctx context.Context, now time.Time) (int64, error)
}
