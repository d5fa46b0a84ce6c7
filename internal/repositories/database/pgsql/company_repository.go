package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCompanyRepository struct {
	BaseRepository
}

// newPgxCompanyRepository creates a new repository for company data.
func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepository {
	return &PgxCompanyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.CompanyRepository = (*PgxCompanyRepository)(nil)

const companyColumns = `company_id, name, code, cnpj, email, regime, is_accounting_firm,
	created_at, created_by, last_updated_at, last_updated_by`

func scanCompany(row pgx.Row) (*domain.Company, error) {
	var c domain.Company
	err := row.Scan(
		&c.CompanyID,
		&c.Name,
		&c.Code,
		&c.CNPJ,
		&c.Email,
		&c.Regime,
		&c.IsAccountingFirm,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindCompanyByID retrieves a company by ID. Returns nil, nil when absent.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE company_id = $1;
	`
	c, err := scanCompany(r.Pool.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find company by id %s: %w", companyID, err)
	}
	return c, nil
}

// FindAccountingFirm retrieves the designated internal accounting-firm
// record, or nil when none is configured.
func (r *PgxCompanyRepository) FindAccountingFirm(ctx context.Context) (*domain.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE is_accounting_firm = TRUE
		ORDER BY created_at
		LIMIT 1;
	`
	c, err := scanCompany(r.Pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find accounting firm: %w", err)
	}
	return c, nil
}

// SaveCompany persists a new or updated company.
func (r *PgxCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	query := `
		INSERT INTO companies (company_id, name, code, cnpj, email, regime, is_accounting_firm,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (company_id) DO UPDATE SET
			name = EXCLUDED.name,
			code = EXCLUDED.code,
			cnpj = EXCLUDED.cnpj,
			email = EXCLUDED.email,
			regime = EXCLUDED.regime,
			is_accounting_firm = EXCLUDED.is_accounting_firm,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		company.CompanyID,
		company.Name,
		company.Code,
		company.CNPJ,
		company.Email,
		company.Regime,
		company.IsAccountingFirm,
		company.CreatedAt,
		company.CreatedBy,
		company.LastUpdatedAt,
		company.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save company %s: %w", company.CompanyID, err)
	}
	return nil
}

// ListCompanies retrieves all companies.
func (r *PgxCompanyRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		ORDER BY name, company_id;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company row: %w", err)
		}
		companies = append(companies, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating company rows: %w", err)
	}
	return companies, nil
}
