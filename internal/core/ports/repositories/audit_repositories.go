package repositories

import (
	"context"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
)

// AuditLogRepository defines persistence for the append-only audit trail.
type AuditLogRepository interface {
	// SaveAuditLog appends one audit record.
	SaveAuditLog(ctx context.Context, entry domain.AuditLog) error

	// ListAuditLogs retrieves audit records, newest first, optionally filtered
	// by entity type and bounded by limit.
	ListAuditLogs(ctx context.Context, entityType *string, limit int) ([]domain.AuditLog, error)

	// GetAuditStats returns counts grouped by (action, entityType, day) for the window.
	GetAuditStats(ctx context.Context, from, to time.Time) ([]domain.AuditStatRow, error)
}
