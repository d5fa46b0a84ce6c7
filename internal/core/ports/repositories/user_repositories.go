package repositories

import (
	"context"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a user by ID. Returns nil, nil when absent.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email. Returns nil, nil when absent.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListActiveClientUsersByCompany retrieves active, non-deleted users with a
	// client role belonging to the company.
	ListActiveClientUsersByCompany(ctx context.Context, companyID string) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new or updated user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdatePasswordAndInvalidateTokens sets the user's password hash and marks
	// every outstanding reset token of the user as used, atomically.
	UpdatePasswordAndInvalidateTokens(ctx context.Context, userID string, passwordHash string, updatedAt time.Time) error

	// MarkUserDeleted soft-deletes a user.
	MarkUserDeleted(ctx context.Context, userID string, deletedBy string, deletedAt time.Time) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
