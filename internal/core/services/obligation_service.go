package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/apperrors"
	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// obligationService implements obligation CRUD with capability checks for
// privileged transitions.
type obligationService struct {
	BaseService
	obligationRepo portsrepo.ObligationRepositoryFacade
	userRepo       portsrepo.UserReader
	auditSvc       portssvc.AuditSvcFacade
}

// NewObligationService creates a new obligation service.
func NewObligationService(
	obligationRepo portsrepo.ObligationRepositoryFacade,
	userRepo portsrepo.UserReader,
	auditSvc portssvc.AuditSvcFacade,
) portssvc.ObligationSvcFacade {
	return &obligationService{
		obligationRepo: obligationRepo,
		userRepo:       userRepo,
		auditSvc:       auditSvc,
	}
}

var _ portssvc.ObligationSvcFacade = (*obligationService)(nil)

func (s *obligationService) CreateObligation(ctx context.Context, req dto.CreateObligationRequest, creatorUserID string) (*domain.Obligation, error) {
	now := time.Now().UTC()

	obligation := domain.Obligation{
		ObligationID:   uuid.NewString(),
		CompanyID:      req.CompanyID,
		TaxType:        req.TaxType,
		Title:          req.Title,
		Regime:         req.Regime,
		PeriodStart:    req.PeriodStart,
		PeriodEnd:      req.PeriodEnd,
		DueDate:        req.DueDate,
		Status:         domain.StatusPending,
		Notes:          req.Notes,
		ReferenceMonth: req.ReferenceMonth,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if req.Amount != nil {
		obligation.Amount = decimal.NewNullDecimal(*req.Amount)
	}

	if err := s.obligationRepo.SaveObligation(ctx, obligation); err != nil {
		s.LogError(ctx, err, "Failed to create obligation", slog.String("company_id", req.CompanyID))
		return nil, fmt.Errorf("failed to create obligation: %w", err)
	}

	s.auditSvc.Record(ctx, portssvc.AuditEntry{
		UserID:     creatorUserID,
		Action:     "CREATE",
		EntityType: "obligation",
		EntityID:   obligation.ObligationID,
	})

	return &obligation, nil
}

func (s *obligationService) GetObligationByID(ctx context.Context, obligationID string) (*domain.Obligation, error) {
	obligation, err := s.obligationRepo.FindObligationByID(ctx, obligationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get obligation: %w", err)
	}
	if obligation == nil {
		return nil, fmt.Errorf("obligation %s: %w", obligationID, apperrors.ErrNotFound)
	}
	return obligation, nil
}

func (s *obligationService) ListObligations(ctx context.Context, companyID *string, dueFrom, dueTo *time.Time) ([]domain.Obligation, error) {
	obligations, err := s.obligationRepo.ListObligations(ctx, companyID, dueFrom, dueTo)
	if err != nil {
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}
	if obligations == nil {
		return []domain.Obligation{}, nil
	}
	return obligations, nil
}

func (s *obligationService) UpdateObligation(ctx context.Context, obligationID string, req dto.UpdateObligationRequest, actorUserID string) (*domain.Obligation, error) {
	obligation, err := s.GetObligationByID(ctx, obligationID)
	if err != nil {
		return nil, err
	}

	statusChanged := false
	if req.Title != nil {
		obligation.Title = *req.Title
	}
	if req.DueDate != nil {
		obligation.DueDate = *req.DueDate
	}
	if req.Status != nil && *req.Status != obligation.Status {
		// NOT_APPLICABLE has its own path with a mandatory reason.
		if *req.Status == domain.StatusNotApplicable {
			return nil, apperrors.NewBadRequestError("use the not-applicable endpoint to set NOT_APPLICABLE")
		}
		obligation.Status = *req.Status
		statusChanged = true
	}
	if req.Amount != nil {
		obligation.Amount = decimal.NewNullDecimal(*req.Amount)
	}
	if req.Notes != nil {
		obligation.Notes = req.Notes
	}
	obligation.LastUpdatedAt = time.Now().UTC()
	obligation.LastUpdatedBy = actorUserID

	if err := s.obligationRepo.UpdateObligation(ctx, *obligation); err != nil {
		s.LogError(ctx, err, "Failed to update obligation", slog.String("obligation_id", obligationID))
		return nil, fmt.Errorf("failed to update obligation: %w", err)
	}

	action := "UPDATE"
	if statusChanged {
		action = "STATUS_CHANGE"
	}
	s.auditSvc.Record(ctx, portssvc.AuditEntry{
		UserID:     actorUserID,
		Action:     action,
		EntityType: "obligation",
		EntityID:   obligationID,
	})

	return obligation, nil
}

// SetNotApplicable is the only automatic status override in the system. It
// requires CapSetNotApplicable and a non-empty reason.
func (s *obligationService) SetNotApplicable(ctx context.Context, obligationID string, reason string, actorUserID string) (*domain.Obligation, error) {
	if reason == "" {
		return nil, apperrors.NewBadRequestError("a reason is required to mark an obligation not applicable")
	}

	if err := s.requireCapability(ctx, actorUserID, domain.CapSetNotApplicable); err != nil {
		return nil, err
	}

	obligation, err := s.GetObligationByID(ctx, obligationID)
	if err != nil {
		return nil, err
	}

	obligation.Status = domain.StatusNotApplicable
	obligation.NotApplicableReason = &reason
	obligation.LastUpdatedAt = time.Now().UTC()
	obligation.LastUpdatedBy = actorUserID

	if err := s.obligationRepo.UpdateObligation(ctx, *obligation); err != nil {
		s.LogError(ctx, err, "Failed to set obligation not applicable", slog.String("obligation_id", obligationID))
		return nil, fmt.Errorf("failed to update obligation: %w", err)
	}

	s.auditSvc.Record(ctx, portssvc.AuditEntry{
		UserID:     actorUserID,
		Action:     "STATUS_CHANGE",
		EntityType: "obligation",
		EntityID:   obligationID,
		Metadata:   &reason,
	})

	return obligation, nil
}

func (s *obligationService) DeleteObligation(ctx context.Context, obligationID string, actorUserID string) error {
	if err := s.requireCapability(ctx, actorUserID, domain.CapManageObligations); err != nil {
		return err
	}

	if _, err := s.GetObligationByID(ctx, obligationID); err != nil {
		return err
	}

	if err := s.obligationRepo.DeleteObligation(ctx, obligationID); err != nil {
		s.LogError(ctx, err, "Failed to delete obligation", slog.String("obligation_id", obligationID))
		return fmt.Errorf("failed to delete obligation: %w", err)
	}

	s.auditSvc.Record(ctx, portssvc.AuditEntry{
		UserID:     actorUserID,
		Action:     "DELETE",
		EntityType: "obligation",
		EntityID:   obligationID,
	})

	return nil
}

func (s *obligationService) requireCapability(ctx context.Context, actorUserID string, cap domain.Capability) error {
	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return fmt.Errorf("failed to load acting user: %w", err)
	}
	if actor == nil {
		return fmt.Errorf("user %s: %w", actorUserID, apperrors.ErrNotFound)
	}
	if !domain.HasCapability(actor.Role, cap) {
		s.LogWarn(ctx, "Capability check failed",
			slog.String("user_id", actorUserID),
			slog.String("role", string(actor.Role)),
			slog.String("capability", string(cap)))
		return fmt.Errorf("role %s lacks capability %s: %w", actor.Role, cap, apperrors.ErrForbidden)
	}
	return nil
}
