package services

import (
	"context"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
)

// LedgerReaderSvc defines the query side of the view/notification ledger
type LedgerReaderSvc interface {
	// UnviewedObligations retrieves obligations without any view event,
	// excluding NOT_APPLICABLE, with display metadata decoded (safe defaults
	// on malformed notes — this never errors on data quality).
	UnviewedObligations(ctx context.Context, filters portsrepo.LedgerFilters) ([]domain.UnviewedObligation, error)

	// ClientViewHistory retrieves view events for an obligation restricted to
	// client-role viewers of the obligation's own company. A missing
	// obligation yields an empty slice, not an error.
	ClientViewHistory(ctx context.Context, obligationID string) ([]domain.ViewEntry, error)

	// NotificationStats aggregates dispatch outcomes and view totals.
	// Pending is derived so that total == sent + failed + pending.
	NotificationStats(ctx context.Context, filters portsrepo.LedgerFilters) (*domain.NotificationStats, error)
}

// LedgerWriterSvc defines the append side of the ledger
type LedgerWriterSvc interface {
	// RecordView appends a view event. Every call inserts a new row.
	RecordView(ctx context.Context, obligationID string, userID string, action domain.ViewAction) (*domain.ObligationView, error)
}

// LedgerSvcFacade combines the ledger service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
