package repositories

import (
	"context"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
)

// ObligationReader defines read operations for obligation data
type ObligationReader interface {
	// FindObligationByID retrieves a specific obligation by its unique identifier.
	FindObligationByID(ctx context.Context, obligationID string) (*domain.Obligation, error)

	// FindObligationsByCompanyAndMonth retrieves all obligations for a company
	// in a reference month (YYYY-MM), regardless of status.
	FindObligationsByCompanyAndMonth(ctx context.Context, companyID string, referenceMonth string) ([]domain.Obligation, error)

	// ListObligations retrieves obligations filtered by optional company and due-date range.
	ListObligations(ctx context.Context, companyID *string, dueFrom, dueTo *time.Time) ([]domain.Obligation, error)

	// FindDueSoonUnviewed retrieves obligations due within [now, now+window]
	// with status SUBMITTED or PAID, at least one attached file and zero views.
	FindDueSoonUnviewed(ctx context.Context, now time.Time, window time.Duration) ([]domain.Obligation, error)

	// FindStaleUnviewed retrieves obligations created at or before createdBefore,
	// not yet due at now, with status SUBMITTED or PAID, at least one attached
	// file and zero views.
	FindStaleUnviewed(ctx context.Context, createdBefore time.Time, now time.Time) ([]domain.Obligation, error)
}

// ObligationWriter defines write operations for obligation data
type ObligationWriter interface {
	// SaveObligation persists a new obligation.
	SaveObligation(ctx context.Context, obligation domain.Obligation) error

	// UpdateObligation updates a mutable obligation (title, dates, status, amount, notes).
	UpdateObligation(ctx context.Context, obligation domain.Obligation) error

	// DeleteObligation hard-deletes an obligation and cascades to its files,
	// views and notifications within one transaction.
	DeleteObligation(ctx context.Context, obligationID string) error
}

// ObligationRepositoryFacade combines all obligation-related repository interfaces
type ObligationRepositoryFacade interface {
	ObligationReader
	ObligationWriter
}
