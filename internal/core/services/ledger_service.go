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

// ledgerService implements the view/notification ledger on top of the
// append-only ledger repository.
type ledgerService struct {
	BaseService
	ledgerRepo     portsrepo.LedgerRepositoryFacade
	obligationRepo portsrepo.ObligationReader
	companyRepo    portsrepo.CompanyRepository
	userRepo       portsrepo.UserReader
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	obligationRepo portsrepo.ObligationReader,
	companyRepo portsrepo.CompanyRepository,
	userRepo portsrepo.UserReader,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:     ledgerRepo,
		obligationRepo: obligationRepo,
		companyRepo:    companyRepo,
		userRepo:       userRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// RecordView appends a new view event. History is append-only: N calls for
// the same (obligation, user) produce N rows.
func (s *ledgerService) RecordView(ctx context.Context, obligationID string, userID string, action domain.ViewAction) (*domain.ObligationView, error) {
	view := domain.ObligationView{
		ViewID:       uuid.NewString(),
		ObligationID: obligationID,
		UserID:       userID,
		Action:       action,
		ViewedAt:     time.Now().UTC(),
	}

	if err := s.ledgerRepo.SaveView(ctx, view); err != nil {
		s.LogError(ctx, err, "Failed to record view",
			slog.String("obligation_id", obligationID),
			slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to record view: %w", err)
	}
	return &view, nil
}

// UnviewedObligations lists obligations without any view event, with the
// notes side-channel decoded into display metadata. Malformed notes degrade
// to company-derived defaults and empty strings; this path never errors on
// data quality.
func (s *ledgerService) UnviewedObligations(ctx context.Context, filters portsrepo.LedgerFilters) ([]domain.UnviewedObligation, error) {
	obligations, err := s.ledgerRepo.ListUnviewedObligations(ctx, filters)
	if err != nil {
		s.LogError(ctx, err, "Failed to list unviewed obligations")
		return nil, fmt.Errorf("failed to list unviewed obligations: %w", err)
	}

	// Per-company fallback names, fetched lazily once per distinct company.
	companyCache := make(map[string]*domain.Company)

	result := make([]domain.UnviewedObligation, 0, len(obligations))
	for _, o := range obligations {
		meta := domain.DecodeObligationMeta(o.Notes)
		if meta.CompanyCode == "" || meta.CompanyName == "" {
			company, cached := companyCache[o.CompanyID]
			if !cached {
				company, err = s.companyRepo.FindCompanyByID(ctx, o.CompanyID)
				if err != nil {
					s.LogWarn(ctx, "Failed to resolve company for unviewed obligation",
						slog.String("company_id", o.CompanyID),
						slog.String("error", err.Error()))
					company = nil
				}
				companyCache[o.CompanyID] = company
			}
			if company != nil {
				if meta.CompanyCode == "" {
					meta.CompanyCode = company.Code
				}
				if meta.CompanyName == "" {
					meta.CompanyName = company.Name
				}
			}
		}
		result = append(result, domain.UnviewedObligation{
			Obligation:  o,
			CompanyCode: meta.CompanyCode,
			CompanyName: meta.CompanyName,
			DocType:     meta.DocType,
			Competence:  meta.Competence,
		})
	}
	return result, nil
}

// ClientViewHistory lists view events restricted to client-role viewers whose
// company matches the obligation's company. A missing obligation yields an
// empty slice.
func (s *ledgerService) ClientViewHistory(ctx context.Context, obligationID string) ([]domain.ViewEntry, error) {
	obligation, err := s.obligationRepo.FindObligationByID(ctx, obligationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load obligation for view history", slog.String("obligation_id", obligationID))
		return nil, fmt.Errorf("failed to load obligation: %w", err)
	}
	if obligation == nil {
		return []domain.ViewEntry{}, nil
	}

	entries, err := s.ledgerRepo.FindViewsByObligationID(ctx, obligationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load view history", slog.String("obligation_id", obligationID))
		return nil, fmt.Errorf("failed to load view history: %w", err)
	}

	// Cross-tenant guard: a stale viewer ID from another company is dropped
	// even if the row exists.
	filtered := make([]domain.ViewEntry, 0, len(entries))
	for _, entry := range entries {
		viewer, err := s.userRepo.FindUserByID(ctx, entry.UserID)
		if err != nil {
			s.LogWarn(ctx, "Failed to resolve viewer for view history",
				slog.String("user_id", entry.UserID),
				slog.String("error", err.Error()))
			continue
		}
		if viewer == nil || !domain.IsClientRole(viewer.Role) || viewer.CompanyID != obligation.CompanyID {
			continue
		}
		entry.ViewerName = viewer.Name
		entry.ViewerEmail = viewer.Email
		filtered = append(filtered, entry)
	}
	return filtered, nil
}

// NotificationStats aggregates dispatch outcomes and view totals. Pending is
// derived, never stored: total == sent + failed + pending always holds.
func (s *ledgerService) NotificationStats(ctx context.Context, filters portsrepo.LedgerFilters) (*domain.NotificationStats, error) {
	total, sent, failed, err := s.ledgerRepo.CountNotificationsByStatus(ctx, filters)
	if err != nil {
		s.LogError(ctx, err, "Failed to count notifications")
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	viewTotal, err := s.ledgerRepo.CountViews(ctx, filters)
	if err != nil {
		s.LogError(ctx, err, "Failed to count views")
		return nil, fmt.Errorf("failed to count views: %w", err)
	}

	unviewed, err := s.ledgerRepo.CountUnviewedObligations(ctx, filters)
	if err != nil {
		s.LogError(ctx, err, "Failed to count unviewed obligations")
		return nil, fmt.Errorf("failed to count unviewed obligations: %w", err)
	}

	return &domain.NotificationStats{
		Notifications: domain.NotificationCounts{
			Total:   total,
			Sent:    sent,
			Failed:  failed,
			Pending: total - sent - failed,
		},
		Views:    domain.ViewCounts{Total: viewTotal},
		Unviewed: unviewed,
	}, nil
}
