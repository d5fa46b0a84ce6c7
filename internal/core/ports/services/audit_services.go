package services

import (
	"context"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
)

// AuditEntry describes a privileged action to record.
type AuditEntry struct {
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Metadata   *string
	IPAddress  string
	UserAgent  string
}

// AuditSvcFacade is the append-only audit recorder plus its read side.
type AuditSvcFacade interface {
	// Record appends an audit entry. Recording is best-effort: a storage
	// failure is logged and swallowed, never returned, so it can never fail
	// the business operation it describes.
	Record(ctx context.Context, entry AuditEntry)

	// List retrieves recent audit records, optionally filtered by entity type.
	List(ctx context.Context, entityType *string, limit int) ([]domain.AuditLog, error)

	// Stats returns grouped counts by (action, entityType, day) for the window.
	Stats(ctx context.Context, from, to time.Time) ([]domain.AuditStatRow, error)
}
