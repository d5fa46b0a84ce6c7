package repositories

import (
	"context"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
)

// TaxProfileReader defines read operations for company tax profiles
type TaxProfileReader interface {
	// ListActiveTaxTypes retrieves the active expected tax-type codes for a company.
	ListActiveTaxTypes(ctx context.Context, companyID string) ([]string, error)

	// ListTaxProfiles retrieves all profile rows for a company, active or not.
	ListTaxProfiles(ctx context.Context, companyID string) ([]domain.CompanyTaxProfile, error)
}

// TaxProfileWriter defines write operations for company tax profiles
type TaxProfileWriter interface {
	// UpsertTaxProfile activates (or creates) the (companyID, taxType) row.
	// The upsert is keyed on (companyID, taxType) and transactionally consistent.
	UpsertTaxProfile(ctx context.Context, profile domain.CompanyTaxProfile) error

	// DeactivateTaxProfile soft-deactivates the (companyID, taxType) row.
	// Returns apperrors.ErrNotFound when no such row exists.
	DeactivateTaxProfile(ctx context.Context, companyID string, taxType string, updatedBy string) error

	// ReplaceTaxProfiles deactivates every profile of the company, then
	// reactivates/creates the supplied set, all within one transaction.
	ReplaceTaxProfiles(ctx context.Context, companyID string, taxTypes []string, updatedBy string) error
}

// TaxProfileRepositoryFacade combines all tax-profile repository interfaces
type TaxProfileRepositoryFacade interface {
	TaxProfileReader
	TaxProfileWriter
}
