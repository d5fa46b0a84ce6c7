package repositories

import (
	"context"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
)

// LedgerFilters narrows ledger queries by company and due-date range. All
// fields are optional.
type LedgerFilters struct {
	CompanyID *string
	StartDate *time.Time
	EndDate   *time.Time
}

// ViewReader defines read operations for view events
type ViewReader interface {
	// FindViewsByObligationID retrieves all view events for an obligation,
	// joined with viewer identity, newest first.
	FindViewsByObligationID(ctx context.Context, obligationID string) ([]domain.ViewEntry, error)

	// CountViews counts view events matching the filters.
	CountViews(ctx context.Context, filters LedgerFilters) (int, error)

	// ListUnviewedObligations retrieves obligations with zero view events,
	// excluding NOT_APPLICABLE, matching the filters.
	ListUnviewedObligations(ctx context.Context, filters LedgerFilters) ([]domain.Obligation, error)

	// CountUnviewedObligations counts what ListUnviewedObligations would return.
	CountUnviewedObligations(ctx context.Context, filters LedgerFilters) (int, error)
}

// ViewWriter defines write operations for view events
type ViewWriter interface {
	// SaveView appends a view event. Rows are never updated.
	SaveView(ctx context.Context, view domain.ObligationView) error
}

// NotificationReader defines read operations for notification records
type NotificationReader interface {
	// CountNotificationsByStatus returns total/sent/failed counts matching the filters.
	CountNotificationsByStatus(ctx context.Context, filters LedgerFilters) (total int, sent int, failed int, err error)

	// ListNotificationsByObligationID retrieves dispatch records for an obligation, newest first.
	ListNotificationsByObligationID(ctx context.Context, obligationID string) ([]domain.ObligationNotification, error)
}

// NotificationWriter defines write operations for notification records
type NotificationWriter interface {
	// SaveNotification appends one dispatch-attempt record.
	SaveNotification(ctx context.Context, notification domain.ObligationNotification) error
}

// LedgerRepositoryFacade combines the view and notification ledger interfaces
type LedgerRepositoryFacade interface {
	ViewReader
	ViewWriter
	NotificationReader
	NotificationWriter
}
