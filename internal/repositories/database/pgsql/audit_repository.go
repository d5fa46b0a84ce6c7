package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditLogRepository struct {
	BaseRepository
}

// newPgxAuditLogRepository creates a new repository for the audit trail.
func newPgxAuditLogRepository(pool *pgxpool.Pool) portsrepo.AuditLogRepository {
	return &PgxAuditLogRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.AuditLogRepository = (*PgxAuditLogRepository)(nil)

// SaveAuditLog appends one audit record.
func (r *PgxAuditLogRepository) SaveAuditLog(ctx context.Context, entry domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (audit_id, user_id, action, entity_type, entity_id, metadata, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		entry.AuditID,
		entry.UserID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.Metadata,
		entry.IPAddress,
		entry.UserAgent,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit log: %w", err)
	}
	return nil
}

// ListAuditLogs retrieves audit records, newest first, optionally filtered by
// entity type and bounded by limit.
func (r *PgxAuditLogRepository) ListAuditLogs(ctx context.Context, entityType *string, limit int) ([]domain.AuditLog, error) {
	query := `
		SELECT audit_id, user_id, action, entity_type, entity_id, metadata, ip_address, user_agent, created_at
		FROM audit_logs
		WHERE ($1::text IS NULL OR entity_type = $1)
		ORDER BY created_at DESC, audit_id
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, entityType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditLog
	for rows.Next() {
		var e domain.AuditLog
		err := rows.Scan(
			&e.AuditID,
			&e.UserID,
			&e.Action,
			&e.EntityType,
			&e.EntityID,
			&e.Metadata,
			&e.IPAddress,
			&e.UserAgent,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating audit log rows: %w", err)
	}
	return entries, nil
}

// GetAuditStats returns counts grouped by (action, entityType, day) for the window.
func (r *PgxAuditLogRepository) GetAuditStats(ctx context.Context, from, to time.Time) ([]domain.AuditStatRow, error) {
	query := `
		SELECT action, entity_type, date_trunc('day', created_at) AS day, COUNT(*)
		FROM audit_logs
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY action, entity_type, day
		ORDER BY day DESC, action, entity_type;
	`
	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.AuditStatRow
	for rows.Next() {
		var s domain.AuditStatRow
		if err := rows.Scan(&s.Action, &s.EntityType, &s.Day, &s.Count); err != nil {
			return nil, fmt.Errorf("failed to scan audit stat row: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating audit stat rows: %w", err)
	}
	return stats, nil
}
