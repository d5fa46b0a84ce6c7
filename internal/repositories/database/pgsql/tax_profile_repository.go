package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/apperrors"
	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTaxProfileRepository struct {
	BaseRepository
}

// newPgxTaxProfileRepository creates a new repository for company tax profiles.
func newPgxTaxProfileRepository(pool *pgxpool.Pool) portsrepo.TaxProfileRepositoryFacade {
	return &PgxTaxProfileRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.TaxProfileRepositoryFacade = (*PgxTaxProfileRepository)(nil)

// ListActiveTaxTypes retrieves the active expected tax-type codes for a company.
func (r *PgxTaxProfileRepository) ListActiveTaxTypes(ctx context.Context, companyID string) ([]string, error) {
	query := `
		SELECT tax_type
		FROM company_tax_profiles
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY tax_type;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tax types for company %s: %w", companyID, err)
	}
	defer rows.Close()

	var taxTypes []string
	for rows.Next() {
		var taxType string
		if err := rows.Scan(&taxType); err != nil {
			return nil, fmt.Errorf("failed to scan tax type row: %w", err)
		}
		taxTypes = append(taxTypes, taxType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating tax type rows: %w", err)
	}
	return taxTypes, nil
}

// ListTaxProfiles retrieves all profile rows for a company, active or not.
func (r *PgxTaxProfileRepository) ListTaxProfiles(ctx context.Context, companyID string) ([]domain.CompanyTaxProfile, error) {
	query := `
		SELECT profile_id, company_id, tax_type, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM company_tax_profiles
		WHERE company_id = $1
		ORDER BY tax_type;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax profiles for company %s: %w", companyID, err)
	}
	defer rows.Close()

	var profiles []domain.CompanyTaxProfile
	for rows.Next() {
		var p domain.CompanyTaxProfile
		err := rows.Scan(
			&p.ProfileID,
			&p.CompanyID,
			&p.TaxType,
			&p.IsActive,
			&p.CreatedAt,
			&p.CreatedBy,
			&p.LastUpdatedAt,
			&p.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax profile row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating tax profile rows: %w", err)
	}
	return profiles, nil
}

// UpsertTaxProfile activates (or creates) the (companyID, taxType) row. The
// upsert is keyed on the (company_id, tax_type) unique constraint so repeated
// adds converge on one active row.
func (r *PgxTaxProfileRepository) UpsertTaxProfile(ctx context.Context, profile domain.CompanyTaxProfile) error {
	query := `
		INSERT INTO company_tax_profiles (profile_id, company_id, tax_type, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (company_id, tax_type) DO UPDATE SET
			is_active = EXCLUDED.is_active,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		profile.ProfileID,
		profile.CompanyID,
		profile.TaxType,
		profile.IsActive,
		profile.CreatedAt,
		profile.CreatedBy,
		profile.LastUpdatedAt,
		profile.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert tax profile %s/%s: %w", profile.CompanyID, profile.TaxType, err)
	}
	return nil
}

// DeactivateTaxProfile soft-deactivates the (companyID, taxType) row.
func (r *PgxTaxProfileRepository) DeactivateTaxProfile(ctx context.Context, companyID string, taxType string, updatedBy string) error {
	query := `
		UPDATE company_tax_profiles
		SET is_active = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1 AND tax_type = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, companyID, taxType, time.Now().UTC(), updatedBy)
	if err != nil {
		return fmt.Errorf("failed to deactivate tax profile %s/%s: %w", companyID, taxType, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ReplaceTaxProfiles deactivates every profile of the company, then
// reactivates/creates the supplied set, all within one transaction.
func (r *PgxTaxProfileRepository) ReplaceTaxProfiles(ctx context.Context, companyID string, taxTypes []string, updatedBy string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	now := time.Now().UTC()

	deactivate := `
		UPDATE company_tax_profiles
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE company_id = $1 AND is_active = TRUE;
	`
	if _, err := tx.Exec(ctx, deactivate, companyID, now, updatedBy); err != nil {
		return fmt.Errorf("failed to deactivate tax profiles for company %s: %w", companyID, err)
	}

	upsert := `
		INSERT INTO company_tax_profiles (profile_id, company_id, tax_type, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, TRUE, $4, $5, $4, $5)
		ON CONFLICT (company_id, tax_type) DO UPDATE SET
			is_active = TRUE,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	for _, taxType := range taxTypes {
		if _, err := tx.Exec(ctx, upsert, uuid.NewString(), companyID, taxType, now, updatedBy); err != nil {
			return fmt.Errorf("failed to upsert tax profile %s/%s: %w", companyID, taxType, err)
		}
	}

	return r.Commit(ctx, tx)
}
