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

type PgxObligationRepository struct {
	BaseRepository
}

// newPgxObligationRepository creates a new repository for obligation data.
func newPgxObligationRepository(pool *pgxpool.Pool) portsrepo.ObligationRepositoryFacade {
	return &PgxObligationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ObligationRepositoryFacade = (*PgxObligationRepository)(nil)

const obligationColumns = `obligation_id, company_id, tax_type, title, regime, period_start, period_end, due_date,
	status, amount, notes, not_applicable_reason, reference_month,
	created_at, created_by, last_updated_at, last_updated_by`

func scanObligation(row pgx.Row) (*domain.Obligation, error) {
	var o domain.Obligation
	err := row.Scan(
		&o.ObligationID,
		&o.CompanyID,
		&o.TaxType,
		&o.Title,
		&o.Regime,
		&o.PeriodStart,
		&o.PeriodEnd,
		&o.DueDate,
		&o.Status,
		&o.Amount,
		&o.Notes,
		&o.NotApplicableReason,
		&o.ReferenceMonth,
		&o.CreatedAt,
		&o.CreatedBy,
		&o.LastUpdatedAt,
		&o.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectObligations(rows pgx.Rows) ([]domain.Obligation, error) {
	defer rows.Close()
	var obligations []domain.Obligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan obligation row: %w", err)
		}
		obligations = append(obligations, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating obligation rows: %w", err)
	}
	return obligations, nil
}

// FindObligationByID retrieves a specific obligation. Returns nil, nil when absent.
func (r *PgxObligationRepository) FindObligationByID(ctx context.Context, obligationID string) (*domain.Obligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM obligations
		WHERE obligation_id = $1;
	`
	o, err := scanObligation(r.Pool.QueryRow(ctx, query, obligationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find obligation by id %s: %w", obligationID, err)
	}
	return o, nil
}

// FindObligationsByCompanyAndMonth retrieves all obligations for a company in
// a reference month, regardless of status.
func (r *PgxObligationRepository) FindObligationsByCompanyAndMonth(ctx context.Context, companyID string, referenceMonth string) ([]domain.Obligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM obligations
		WHERE company_id = $1 AND reference_month = $2
		ORDER BY due_date, obligation_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, referenceMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to query obligations for company %s month %s: %w", companyID, referenceMonth, err)
	}
	return collectObligations(rows)
}

// ListObligations retrieves obligations filtered by optional company and due-date range.
func (r *PgxObligationRepository) ListObligations(ctx context.Context, companyID *string, dueFrom, dueTo *time.Time) ([]domain.Obligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM obligations
		WHERE ($1::text IS NULL OR company_id = $1)
		  AND ($2::timestamptz IS NULL OR due_date >= $2)
		  AND ($3::timestamptz IS NULL OR due_date <= $3)
		ORDER BY due_date, obligation_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, dueFrom, dueTo)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	return collectObligations(rows)
}

// FindDueSoonUnviewed retrieves obligations due within [now, now+window] with
// status SUBMITTED or PAID, at least one attached file and zero views.
func (r *PgxObligationRepository) FindDueSoonUnviewed(ctx context.Context, now time.Time, window time.Duration) ([]domain.Obligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM obligations o
		WHERE o.due_date >= $1 AND o.due_date <= $2
		  AND o.status IN ('SUBMITTED', 'PAID')
		  AND EXISTS (SELECT 1 FROM obligation_files f WHERE f.obligation_id = o.obligation_id)
		  AND NOT EXISTS (SELECT 1 FROM obligation_views v WHERE v.obligation_id = o.obligation_id)
		ORDER BY o.due_date, o.obligation_id;
	`
	rows, err := r.Pool.Query(ctx, query, now, now.Add(window))
	if err != nil {
		return nil, fmt.Errorf("failed to query due-soon unviewed obligations: %w", err)
	}
	return collectObligations(rows)
}

// FindStaleUnviewed retrieves obligations created at or before createdBefore,
// not yet due at now, with status SUBMITTED or PAID, at least one attached
// file and zero views.
func (r *PgxObligationRepository) FindStaleUnviewed(ctx context.Context, createdBefore time.Time, now time.Time) ([]domain.Obligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM obligations o
		WHERE o.created_at <= $1 AND o.due_date >= $2
		  AND o.status IN ('SUBMITTED', 'PAID')
		  AND EXISTS (SELECT 1 FROM obligation_files f WHERE f.obligation_id = o.obligation_id)
		  AND NOT EXISTS (SELECT 1 FROM obligation_views v WHERE v.obligation_id = o.obligation_id)
		ORDER BY o.due_date, o.obligation_id;
	`
	rows, err := r.Pool.Query(ctx, query, createdBefore, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale unviewed obligations: %w", err)
	}
	return collectObligations(rows)
}

// SaveObligation persists a new obligation.
func (r *PgxObligationRepository) SaveObligation(ctx context.Context, obligation domain.Obligation) error {
	query := `
		INSERT INTO obligations (obligation_id, company_id, tax_type, title, regime, period_start, period_end,
			due_date, status, amount, notes, not_applicable_reason, reference_month,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		obligation.ObligationID,
		obligation.CompanyID,
		obligation.TaxType,
		obligation.Title,
		obligation.Regime,
		obligation.PeriodStart,
		obligation.PeriodEnd,
		obligation.DueDate,
		obligation.Status,
		obligation.Amount,
		obligation.Notes,
		obligation.NotApplicableReason,
		obligation.ReferenceMonth,
		obligation.CreatedAt,
		obligation.CreatedBy,
		obligation.LastUpdatedAt,
		obligation.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save obligation %s: %w", obligation.ObligationID, err)
	}
	return nil
}

// UpdateObligation updates a mutable obligation.
func (r *PgxObligationRepository) UpdateObligation(ctx context.Context, obligation domain.Obligation) error {
	query := `
		UPDATE obligations SET
			tax_type = $2,
			title = $3,
			regime = $4,
			period_start = $5,
			period_end = $6,
			due_date = $7,
			status = $8,
			amount = $9,
			notes = $10,
			not_applicable_reason = $11,
			reference_month = $12,
			last_updated_at = $13,
			last_updated_by = $14
		WHERE obligation_id = $1;
	`
	_, err := r.Pool.Exec(ctx, query,
		obligation.ObligationID,
		obligation.TaxType,
		obligation.Title,
		obligation.Regime,
		obligation.PeriodStart,
		obligation.PeriodEnd,
		obligation.DueDate,
		obligation.Status,
		obligation.Amount,
		obligation.Notes,
		obligation.NotApplicableReason,
		obligation.ReferenceMonth,
		obligation.LastUpdatedAt,
		obligation.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update obligation %s: %w", obligation.ObligationID, err)
	}
	return nil
}

// DeleteObligation hard-deletes an obligation and cascades to its files,
// views and notifications within one transaction.
func (r *PgxObligationRepository) DeleteObligation(ctx context.Context, obligationID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	for _, stmt := range []string{
		`DELETE FROM obligation_files WHERE obligation_id = $1;`,
		`DELETE FROM obligation_views WHERE obligation_id = $1;`,
		`DELETE FROM obligation_notifications WHERE obligation_id = $1;`,
		`DELETE FROM obligations WHERE obligation_id = $1;`,
	} {
		if _, err := tx.Exec(ctx, stmt, obligationID); err != nil {
			return fmt.Errorf("failed to delete obligation %s: %w", obligationID, err)
		}
	}

	return r.Commit(ctx, tx)
}
