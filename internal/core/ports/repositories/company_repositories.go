package repositories

import (
	"context"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
)

// CompanyRepository defines persistence for client companies and the firm record.
type CompanyRepository interface {
	// FindCompanyByID retrieves a company by ID. Returns nil, nil when absent.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// FindAccountingFirm retrieves the designated internal accounting-firm
	// record, or nil when none is configured.
	FindAccountingFirm(ctx context.Context) (*domain.Company, error)

	// SaveCompany persists a new or updated company.
	SaveCompany(ctx context.Context, company domain.Company) error

	// ListCompanies retrieves all companies.
	ListCompanies(ctx context.Context) ([]domain.Company, error)
}
