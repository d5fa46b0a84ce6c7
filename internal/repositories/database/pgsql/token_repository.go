package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTokenRepository struct {
	BaseRepository
}

// newPgxTokenRepository creates a new repository for password reset tokens.
func newPgxTokenRepository(pool *pgxpool.Pool) portsrepo.PasswordResetTokenRepository {
	return &PgxTokenRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.PasswordResetTokenRepository = (*PgxTokenRepository)(nil)

// SaveToken persists a new reset token.
func (r *PgxTokenRepository) SaveToken(ctx context.Context, token domain.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (token_id, user_id, token_hash, expires_at, used_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		token.TokenID,
		token.UserID,
		token.TokenHash,
		token.ExpiresAt,
		token.UsedAt,
		token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}
	return nil
}

// FindValidTokenByHash retrieves an unused, unexpired token by its hash.
// Returns nil, nil when no such token exists.
func (r *PgxTokenRepository) FindValidTokenByHash(ctx context.Context, tokenHash string, now time.Time) (*domain.PasswordResetToken, error) {
	query := `
		SELECT token_id, user_id, token_hash, expires_at, used_at, created_at
		FROM password_reset_tokens
		WHERE token_hash = $1 AND used_at IS NULL AND expires_at > $2;
	`
	var t domain.PasswordResetToken
	err := r.Pool.QueryRow(ctx, query, tokenHash, now).Scan(
		&t.TokenID,
		&t.UserID,
		&t.TokenHash,
		&t.ExpiresAt,
		&t.UsedAt,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find reset token: %w", err)
	}
	return &t, nil
}

// DeleteExpiredOrUsed removes tokens that are expired at now or already used.
func (r *PgxTokenRepository) DeleteExpiredOrUsed(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM password_reset_tokens
		WHERE expires_at <= $1 OR used_at IS NOT NULL;
	`
	tag, err := r.Pool.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
