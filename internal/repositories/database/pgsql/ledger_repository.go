package pgsql

import (
	"context"
	"fmt"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for the view and
// notification ledgers. Both tables are append-only.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// FindViewsByObligationID retrieves all view events for an obligation, joined
// with viewer identity, newest first.
func (r *PgxLedgerRepository) FindViewsByObligationID(ctx context.Context, obligationID string) ([]domain.ViewEntry, error) {
	query := `
		SELECT v.view_id, v.obligation_id, v.user_id, v.action, v.viewed_at,
		       COALESCE(u.name, ''), COALESCE(u.email, '')
		FROM obligation_views v
		LEFT JOIN users u ON u.user_id = v.user_id
		WHERE v.obligation_id = $1
		ORDER BY v.viewed_at DESC, v.view_id;
	`
	rows, err := r.Pool.Query(ctx, query, obligationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query views for obligation %s: %w", obligationID, err)
	}
	defer rows.Close()

	var entries []domain.ViewEntry
	for rows.Next() {
		var e domain.ViewEntry
		err := rows.Scan(
			&e.ViewID,
			&e.ObligationID,
			&e.UserID,
			&e.Action,
			&e.ViewedAt,
			&e.ViewerName,
			&e.ViewerEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan view row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating view rows: %w", err)
	}
	return entries, nil
}

// CountViews counts view events matching the filters.
func (r *PgxLedgerRepository) CountViews(ctx context.Context, filters portsrepo.LedgerFilters) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM obligation_views v
		JOIN obligations o ON o.obligation_id = v.obligation_id
		WHERE ($1::text IS NULL OR o.company_id = $1)
		  AND ($2::timestamptz IS NULL OR o.due_date >= $2)
		  AND ($3::timestamptz IS NULL OR o.due_date <= $3);
	`
	var count int
	err := r.Pool.QueryRow(ctx, query, filters.CompanyID, filters.StartDate, filters.EndDate).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count views: %w", err)
	}
	return count, nil
}

const unviewedPredicate = `
	WHERE o.status <> 'NOT_APPLICABLE'
	  AND NOT EXISTS (SELECT 1 FROM obligation_views v WHERE v.obligation_id = o.obligation_id)
	  AND ($1::text IS NULL OR o.company_id = $1)
	  AND ($2::timestamptz IS NULL OR o.due_date >= $2)
	  AND ($3::timestamptz IS NULL OR o.due_date <= $3)`

// ListUnviewedObligations retrieves obligations with zero view events,
// excluding NOT_APPLICABLE, matching the filters.
func (r *PgxLedgerRepository) ListUnviewedObligations(ctx context.Context, filters portsrepo.LedgerFilters) ([]domain.Obligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM obligations o` + unviewedPredicate + `
		ORDER BY o.due_date, o.obligation_id;
	`
	rows, err := r.Pool.Query(ctx, query, filters.CompanyID, filters.StartDate, filters.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list unviewed obligations: %w", err)
	}
	return collectObligations(rows)
}

// CountUnviewedObligations counts what ListUnviewedObligations would return.
func (r *PgxLedgerRepository) CountUnviewedObligations(ctx context.Context, filters portsrepo.LedgerFilters) (int, error) {
	query := `SELECT COUNT(*) FROM obligations o` + unviewedPredicate + `;`
	var count int
	err := r.Pool.QueryRow(ctx, query, filters.CompanyID, filters.StartDate, filters.EndDate).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unviewed obligations: %w", err)
	}
	return count, nil
}

// SaveView appends a view event.
func (r *PgxLedgerRepository) SaveView(ctx context.Context, view domain.ObligationView) error {
	query := `
		INSERT INTO obligation_views (view_id, obligation_id, user_id, action, viewed_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		view.ViewID,
		view.ObligationID,
		view.UserID,
		view.Action,
		view.ViewedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save view for obligation %s: %w", view.ObligationID, err)
	}
	return nil
}

// CountNotificationsByStatus returns total/sent/failed counts matching the filters.
func (r *PgxLedgerRepository) CountNotificationsByStatus(ctx context.Context, filters portsrepo.LedgerFilters) (int, int, int, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE n.email_status = 'sent'),
		       COUNT(*) FILTER (WHERE n.email_status = 'failed')
		FROM obligation_notifications n
		JOIN obligations o ON o.obligation_id = n.obligation_id
		WHERE ($1::text IS NULL OR o.company_id = $1)
		  AND ($2::timestamptz IS NULL OR o.due_date >= $2)
		  AND ($3::timestamptz IS NULL OR o.due_date <= $3);
	`
	var total, sent, failed int
	err := r.Pool.QueryRow(ctx, query, filters.CompanyID, filters.StartDate, filters.EndDate).Scan(&total, &sent, &failed)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return total, sent, failed, nil
}

// ListNotificationsByObligationID retrieves dispatch records for an obligation, newest first.
func (r *PgxLedgerRepository) ListNotificationsByObligationID(ctx context.Context, obligationID string) ([]domain.ObligationNotification, error) {
	query := `
		SELECT notification_id, obligation_id, recipient_email, sent_by_user_id, sent_at, email_status, email_error
		FROM obligation_notifications
		WHERE obligation_id = $1
		ORDER BY sent_at DESC, notification_id;
	`
	rows, err := r.Pool.Query(ctx, query, obligationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications for obligation %s: %w", obligationID, err)
	}
	defer rows.Close()

	var notifications []domain.ObligationNotification
	for rows.Next() {
		var n domain.ObligationNotification
		err := rows.Scan(
			&n.NotificationID,
			&n.ObligationID,
			&n.RecipientEmail,
			&n.SentByUserID,
			&n.SentAt,
			&n.EmailStatus,
			&n.EmailError,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating notification rows: %w", err)
	}
	return notifications, nil
}

// SaveNotification appends one dispatch-attempt record.
func (r *PgxLedgerRepository) SaveNotification(ctx context.Context, notification domain.ObligationNotification) error {
	query := `
		INSERT INTO obligation_notifications (notification_id, obligation_id, recipient_email, sent_by_user_id, sent_at, email_status, email_error)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		notification.NotificationID,
		notification.ObligationID,
		notification.RecipientEmail,
		notification.SentByUserID,
		notification.SentAt,
		notification.EmailStatus,
		notification.EmailError,
	)
	if err != nil {
		return fmt.Errorf("failed to save notification for obligation %s: %w", notification.ObligationID, err)
	}
	return nil
}
