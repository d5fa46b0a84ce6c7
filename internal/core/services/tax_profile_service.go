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
	"github.com/google/uuid"
)

// taxProfileService manages the declared expected tax set per company.
type taxProfileService struct {
	BaseService
	taxProfileRepo portsrepo.TaxProfileRepositoryFacade
	userRepo       portsrepo.UserReader
	auditSvc       portssvc.AuditSvcFacade
}

// NewTaxProfileService creates a new tax profile service.
func NewTaxProfileService(
	taxProfileRepo portsrepo.TaxProfileRepositoryFacade,
	userRepo portsrepo.UserReader,
	auditSvc portssvc.AuditSvcFacade,
) portssvc.TaxProfileSvcFacade {
	return &taxProfileService{
		taxProfileRepo: taxProfileRepo,
		userRepo:       userRepo,
		auditSvc:       auditSvc,
	}
}

var _ portssvc.TaxProfileSvcFacade = (*taxProfileService)(nil)

func (s *taxProfileService) AddTaxType(ctx context.Context, companyID string, taxType string, actorUserID string) (*domain.CompanyTaxProfile, error) {
	if err := s.requireManageCapability(ctx, actorUserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile := domain.CompanyTaxProfile{
		ProfileID: uuid.NewString(),
		CompanyID: companyID,
		TaxType:   taxType,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	if err := s.taxProfileRepo.UpsertTaxProfile(ctx, profile); err != nil {
		s.LogError(ctx, err, "Failed to add tax type",
			slog.String("company_id", companyID),
			slog.String("tax_type", taxType))
		return nil, fmt.Errorf("failed to add tax type: %w", err)
	}

	s.auditSvc.Record(ctx, portssvc.AuditEntry{
		UserID:     actorUserID,
		Action:     "UPDATE",
		EntityType: "tax_profile",
		EntityID:   companyID,
		Metadata:   &taxType,
	})

	return &profile, nil
}

func (s *taxProfileService) RemoveTaxType(ctx context.Context, companyID string, taxType string, actorUserID string) error {
	if err := s.requireManageCapability(ctx, actorUserID); err != nil {
		return err
	}

	if err := s.taxProfileRepo.DeactivateTaxProfile(ctx, companyID, taxType, actorUserID); err != nil {
		s.LogError(ctx, err, "Failed to remove tax type",
			slog.String("company_id", companyID),
			slog.String("tax_type", taxType))
		return fmt.Errorf("failed to remove tax type: %w", err)
	}

	s.auditSvc.Record(ctx, portssvc.AuditEntry{
		UserID:     actorUserID,
		Action:     "UPDATE",
		EntityType: "tax_profile",
		EntityID:   companyID,
		Metadata:   &taxType,
	})

	return nil
}

// ReplaceTaxTypes swaps the whole expected set atomically: deactivate all,
// then reactivate/create the supplied types.
func (s *taxProfileService) ReplaceTaxTypes(ctx context.Context, companyID string, taxTypes []string, actorUserID string) error {
	if err := s.requireManageCapability(ctx, actorUserID); err != nil {
		return err
	}

	if err := s.taxProfileRepo.ReplaceTaxProfiles(ctx, companyID, taxTypes, actorUserID); err != nil {
		s.LogError(ctx, err, "Failed to replace tax types", slog.String("company_id", companyID))
		return fmt.Errorf("failed to replace tax types: %w", err)
	}

	s.auditSvc.Record(ctx, portssvc.AuditEntry{
		UserID:     actorUserID,
		Action:     "UPDATE",
		EntityType: "tax_profile",
		EntityID:   companyID,
	})

	return nil
}

func (s *taxProfileService) ListActiveTaxTypes(ctx context.Context, companyID string) ([]string, error) {
	taxTypes, err := s.taxProfileRepo.ListActiveTaxTypes(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tax types: %w", err)
	}
	if taxTypes == nil {
		return []string{}, nil
	}
	return taxTypes, nil
}

func (s *taxProfileService) ListTaxProfiles(ctx context.Context, companyID string) ([]domain.CompanyTaxProfile, error) {
	profiles, err := s.taxProfileRepo.ListTaxProfiles(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax profiles: %w", err)
	}
	if profiles == nil {
		return []domain.CompanyTaxProfile{}, nil
	}
	return profiles, nil
}

func (s *taxProfileService) requireManageCapability(ctx context.Context, actorUserID string) error {
	actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
	if err != nil {
		return fmt.Errorf("failed to load acting user: %w", err)
	}
	if actor == nil {
		return fmt.Errorf("user %s: %w", actorUserID, apperrors.ErrNotFound)
	}
	if !domain.HasCapability(actor.Role, domain.CapManageTaxProfile) {
		return fmt.Errorf("role %s lacks capability %s: %w", actor.Role, domain.CapManageTaxProfile, apperrors.ErrForbidden)
	}
	return nil
}
