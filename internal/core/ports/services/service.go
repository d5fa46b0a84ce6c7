package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and is
// used throughout the application, particularly in the handlers and jobs.
type ServiceContainer struct {
	Compliance    ComplianceSvcFacade
	Ledger        LedgerSvcFacade
	Dispatch      DispatchSvcFacade
	Obligation    ObligationSvcFacade
	TaxProfile    TaxProfileSvcFacade
	Audit         AuditSvcFacade
	User          UserSvcFacade
	Company       CompanySvcFacade
	File          FileSvcFacade
	Token         TokenSvcFacade
	PasswordReset PasswordResetSvcFacade
	GoogleOAuth   GoogleOAuthSvcFacade
}
