package services

import (
	"context"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
)

// TaxProfileSvcFacade manages the declared expected tax set per company.
// All mutations require CapManageTaxProfile on the acting user.
type TaxProfileSvcFacade interface {
	// AddTaxType activates (or creates) one expected tax type for a company.
	AddTaxType(ctx context.Context, companyID string, taxType string, actorUserID string) (*domain.CompanyTaxProfile, error)

	// RemoveTaxType soft-deactivates one expected tax type.
	RemoveTaxType(ctx context.Context, companyID string, taxType string, actorUserID string) error

	// ReplaceTaxTypes swaps the whole expected set in one transaction:
	// deactivate all, then reactivate/create the supplied types.
	ReplaceTaxTypes(ctx context.Context, companyID string, taxTypes []string, actorUserID string) error

	// ListActiveTaxTypes retrieves the active expected tax-type codes.
	ListActiveTaxTypes(ctx context.Context, companyID string) ([]string, error)

	// ListTaxProfiles retrieves every profile row for a company.
	ListTaxProfiles(ctx context.Context, companyID string) ([]domain.CompanyTaxProfile, error)
}
