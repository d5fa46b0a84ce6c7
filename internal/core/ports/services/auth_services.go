package services

import (
	"context"
)

// TokenSvcFacade issues application access tokens.
type TokenSvcFacade interface {
	// GenerateAccessToken issues a signed JWT for the user.
	GenerateAccessToken(ctx context.Context, userID string) (string, error)
}

// PasswordResetSvcFacade drives the password-reset flow.
type PasswordResetSvcFacade interface {
	// RequestReset issues a reset token and emails the reset link. An unknown
	// email is a silent no-op so the endpoint does not leak account existence.
	RequestReset(ctx context.Context, email string) error

	// ConfirmReset consumes a valid token and sets the new password. The
	// password-hash update and token invalidation are applied atomically.
	ConfirmReset(ctx context.Context, rawToken string, newPassword string) error
}

// GoogleOAuthSvcFacade exchanges a Google authorization code for a verified
// user identity (email, name).
type GoogleOAuthSvcFacade interface {
	ExchangeCode(ctx context.Context, code string) (email string, name string, err error)
}
