package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
)

// complianceService implements the ComplianceSvcFacade interface. It is a
// pure read path: identical inputs with no intervening writes yield
// identical output.
type complianceService struct {
	BaseService
	taxProfileRepo portsrepo.TaxProfileReader
	obligationRepo portsrepo.ObligationReader
	fileRepo       portsrepo.FileRepository
	companyRepo    portsrepo.CompanyRepository
}

// NewComplianceService creates a new compliance evaluator.
func NewComplianceService(
	taxProfileRepo portsrepo.TaxProfileReader,
	obligationRepo portsrepo.ObligationReader,
	fileRepo portsrepo.FileRepository,
	companyRepo portsrepo.CompanyRepository,
) portssvc.ComplianceSvcFacade {
	return &complianceService{
		taxProfileRepo: taxProfileRepo,
		obligationRepo: obligationRepo,
		fileRepo:       fileRepo,
		companyRepo:    companyRepo,
	}
}

var _ portssvc.ComplianceSvcFacade = (*complianceService)(nil)

// MonthlyControl derives the due-state of a company for a reference month.
// Missing is the set difference expectedTaxes - {taxType of present
// obligations}; an obligation of any status counts as present. The rate is 1
// when nothing is expected.
func (s *complianceService) MonthlyControl(ctx context.Context, companyID string, referenceMonth string) (*domain.MonthlyControlResult, error) {
	expected, err := s.taxProfileRepo.ListActiveTaxTypes(ctx, companyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load expected tax types", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to load expected tax types: %w", err)
	}

	obligations, err := s.obligationRepo.FindObligationsByCompanyAndMonth(ctx, companyID, referenceMonth)
	if err != nil {
		s.LogError(ctx, err, "Failed to load obligations for month",
			slog.String("company_id", companyID),
			slog.String("reference_month", referenceMonth))
		return nil, fmt.Errorf("failed to load obligations: %w", err)
	}

	obligationIDs := make([]string, len(obligations))
	for i, o := range obligations {
		obligationIDs[i] = o.ObligationID
	}
	fileCounts := map[string]int{}
	if len(obligationIDs) > 0 {
		fileCounts, err = s.fileRepo.CountFilesByObligationIDs(ctx, obligationIDs)
		if err != nil {
			s.LogError(ctx, err, "Failed to count obligation files", slog.String("company_id", companyID))
			return nil, fmt.Errorf("failed to count obligation files: %w", err)
		}
	}

	// First obligation per tax type wins; duplicates in the same period are
	// tolerated but only one is surfaced.
	present := make(map[string]bool, len(obligations))
	annotated := make([]domain.MonthlyControlObligation, 0, len(obligations))
	for _, o := range obligations {
		if o.TaxType != nil {
			if present[*o.TaxType] {
				continue
			}
			present[*o.TaxType] = true
		}
		annotated = append(annotated, domain.MonthlyControlObligation{
			Obligation: o,
			HasFile:    fileCounts[o.ObligationID] > 0,
		})
	}

	missing := make([]string, 0)
	for _, taxType := range expected {
		if !present[taxType] {
			missing = append(missing, taxType)
		}
	}

	completionRate := 1.0
	if len(expected) > 0 {
		completionRate = float64(len(expected)-len(missing)) / float64(len(expected))
	}

	result := &domain.MonthlyControlResult{
		CompanyID:      companyID,
		ReferenceMonth: referenceMonth,
		ExpectedTaxes:  expected,
		Obligations:    annotated,
		Missing:        missing,
		CompletionRate: completionRate,
	}

	// An unknown company is not an error here; the name just stays nil.
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		s.LogWarn(ctx, "Failed to resolve company name for monthly control",
			slog.String("company_id", companyID),
			slog.String("error", err.Error()))
	} else if company != nil {
		result.CompanyName = &company.Name
	}

	return result, nil
}
