package services

import (
	"context"
	"fmt"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/apperrors"
	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/internal/dto"
	"github.com/google/uuid"
)

type companyService struct {
	BaseService
	companyRepo portsrepo.CompanyRepository
}

// NewCompanyService creates a new company service.
func NewCompanyService(companyRepo portsrepo.CompanyRepository) portssvc.CompanySvcFacade {
	return &companyService{companyRepo: companyRepo}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

func (s *companyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	now := time.Now().UTC()
	company := domain.Company{
		CompanyID: uuid.NewString(),
		Name:      req.Name,
		Code:      req.Code,
		CNPJ:      req.CNPJ,
		Email:     req.Email,
		Regime:    req.Regime,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.companyRepo.SaveCompany(ctx, company); err != nil {
		s.LogError(ctx, err, "Failed to create company")
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return &company, nil
}

func (s *companyService) GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	if company == nil {
		return nil, fmt.Errorf("company %s: %w", companyID, apperrors.ErrNotFound)
	}
	return company, nil
}

func (s *companyService) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	companies, err := s.companyRepo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	if companies == nil {
		return []domain.Company{}, nil
	}
	return companies, nil
}
