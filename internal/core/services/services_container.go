package services

import (
	"github.com/contaflow/tax_compliance_app/internal/core/ports/providers"
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	mailer providers.Mailer,
	store providers.ObjectStore,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Audit first since most write paths record through it.
	container.Audit = NewAuditService(repos.AuditRepo)

	container.Compliance = NewComplianceService(
		repos.TaxProfileRepo,
		repos.ObligationRepo,
		repos.FileRepo,
		repos.CompanyRepo,
	)
	container.Ledger = NewLedgerService(
		repos.LedgerRepo,
		repos.ObligationRepo,
		repos.CompanyRepo,
		repos.UserRepo,
	)
	container.Dispatch = NewDispatchService(
		repos.ObligationRepo,
		repos.CompanyRepo,
		repos.LedgerRepo,
		mailer,
		cfg.DefaultMailFrom,
	)
	container.Obligation = NewObligationService(repos.ObligationRepo, repos.UserRepo, container.Audit)
	container.TaxProfile = NewTaxProfileService(repos.TaxProfileRepo, repos.UserRepo, container.Audit)
	container.User = NewUserService(repos.UserRepo, repos.CompanyRepo)
	container.Company = NewCompanyService(repos.CompanyRepo)
	container.File = NewFileService(repos.FileRepo, repos.ObligationRepo, store, container.Audit)

	container.Token = NewTokenService(cfg)
	container.PasswordReset = NewPasswordResetService(
		repos.UserRepo,
		repos.TokenRepo,
		mailer,
		cfg.ResetTokenTTL,
		cfg.FrontendBaseURL,
		cfg.DefaultMailFrom,
	)
	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	return container
}
