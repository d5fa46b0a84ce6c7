package repositories

// RepositoryProvider holds instances of all repositories, assembled once at
// process start and handed to the service container.
type RepositoryProvider struct {
	ObligationRepo ObligationRepositoryFacade
	TaxProfileRepo TaxProfileRepositoryFacade
	LedgerRepo     LedgerRepositoryFacade
	AuditRepo      AuditLogRepository
	CompanyRepo    CompanyRepository
	UserRepo       UserRepositoryFacade
	TokenRepo      PasswordResetTokenRepository
	FileRepo       FileRepository
}
