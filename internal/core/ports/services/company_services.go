package services

import (
	"context"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	"github.com/contaflow/tax_compliance_app/internal/dto"
)

// CompanySvcFacade manages client companies.
type CompanySvcFacade interface {
	// CreateCompany registers a client company.
	CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error)

	// GetCompanyByID retrieves a company, or apperrors.ErrNotFound.
	GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// ListCompanies retrieves all companies.
	ListCompanies(ctx context.Context) ([]domain.Company, error)
}
