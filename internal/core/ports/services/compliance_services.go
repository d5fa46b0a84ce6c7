package services

import (
	"context"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
)

// ComplianceSvcFacade computes due-state reports from tax profiles and
// obligation records. It is read-only and side-effect free.
type ComplianceSvcFacade interface {
	// MonthlyControl compares a company's active expected tax types against
	// its obligations in the reference month (YYYY-MM) and derives the missing
	// set and completion rate. An unknown company yields a nil CompanyName,
	// not an error.
	MonthlyControl(ctx context.Context, companyID string, referenceMonth string) (*domain.MonthlyControlResult, error)
}
