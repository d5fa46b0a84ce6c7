package pgsql

import (
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ObligationRepo: newPgxObligationRepository(dbPool),
		TaxProfileRepo: newPgxTaxProfileRepository(dbPool),
		LedgerRepo:     newPgxLedgerRepository(dbPool),
		AuditRepo:      newPgxAuditLogRepository(dbPool),
		CompanyRepo:    newPgxCompanyRepository(dbPool),
		UserRepo:       newPgxUserRepository(dbPool),
		TokenRepo:      newPgxTokenRepository(dbPool),
		FileRepo:       newPgxFileRepository(dbPool),
	}
}
