package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/google/uuid"
)

// auditService is the append-only audit recorder. Recording never fails the
// operation it describes.
type auditService struct {
	BaseService
	auditRepo portsrepo.AuditLogRepository
}

// NewAuditService creates a new audit service.
func NewAuditService(auditRepo portsrepo.AuditLogRepository) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// Record appends an audit entry. Storage failures are logged and swallowed.
func (s *auditService) Record(ctx context.Context, entry portssvc.AuditEntry) {
	log := domain.AuditLog{
		AuditID:    uuid.NewString(),
		UserID:     entry.UserID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   entry.Metadata,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.auditRepo.SaveAuditLog(ctx, log); err != nil {
		s.LogWarn(ctx, "Audit record dropped",
			slog.String("action", entry.Action),
			slog.String("entity_type", entry.EntityType),
			slog.String("entity_id", entry.EntityID),
			slog.String("error", err.Error()))
	}
}

func (s *auditService) List(ctx context.Context, entityType *string, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	logs, err := s.auditRepo.ListAuditLogs(ctx, entityType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	if logs == nil {
		return []domain.AuditLog{}, nil
	}
	return logs, nil
}

func (s *auditService) Stats(ctx context.Context, from, to time.Time) ([]domain.AuditStatRow, error) {
	rows, err := s.auditRepo.GetAuditStats(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get audit stats: %w", err)
	}
	if rows == nil {
		return []domain.AuditStatRow{}, nil
	}
	return rows, nil
}
