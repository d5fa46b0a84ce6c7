package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/contaflow/tax_compliance_app/internal/apperrors"
	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxFileRepository struct {
	BaseRepository
}

// newPgxFileRepository creates a new repository for obligation file metadata.
func newPgxFileRepository(pool *pgxpool.Pool) portsrepo.FileRepository {
	return &PgxFileRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.FileRepository = (*PgxFileRepository)(nil)

const fileColumns = `file_id, obligation_id, storage_key, file_name, content_type, size_bytes,
	created_at, created_by, last_updated_at, last_updated_by`

func scanFile(row pgx.Row) (*domain.ObligationFile, error) {
	var f domain.ObligationFile
	err := row.Scan(
		&f.FileID,
		&f.ObligationID,
		&f.StorageKey,
		&f.FileName,
		&f.ContentType,
		&f.SizeBytes,
		&f.CreatedAt,
		&f.CreatedBy,
		&f.LastUpdatedAt,
		&f.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// SaveFile persists metadata for an uploaded document.
func (r *PgxFileRepository) SaveFile(ctx context.Context, file domain.ObligationFile) error {
	query := `
		INSERT INTO obligation_files (file_id, obligation_id, storage_key, file_name, content_type, size_bytes,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		file.FileID,
		file.ObligationID,
		file.StorageKey,
		file.FileName,
		file.ContentType,
		file.SizeBytes,
		file.CreatedAt,
		file.CreatedBy,
		file.LastUpdatedAt,
		file.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save file %s: %w", file.FileID, err)
	}
	return nil
}

// FindFileByID retrieves one file row. Returns nil, nil when absent.
func (r *PgxFileRepository) FindFileByID(ctx context.Context, fileID string) (*domain.ObligationFile, error) {
	query := `
		SELECT ` + fileColumns + `
		FROM obligation_files
		WHERE file_id = $1;
	`
	f, err := scanFile(r.Pool.QueryRow(ctx, query, fileID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find file by id %s: %w", fileID, err)
	}
	return f, nil
}

// ListFilesByObligationID retrieves all file rows for an obligation.
func (r *PgxFileRepository) ListFilesByObligationID(ctx context.Context, obligationID string) ([]domain.ObligationFile, error) {
	query := `
		SELECT ` + fileColumns + `
		FROM obligation_files
		WHERE obligation_id = $1
		ORDER BY created_at, file_id;
	`
	rows, err := r.Pool.Query(ctx, query, obligationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files for obligation %s: %w", obligationID, err)
	}
	defer rows.Close()

	var files []domain.ObligationFile
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file row: %w", err)
		}
		files = append(files, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating file rows: %w", err)
	}
	return files, nil
}

// CountFilesByObligationIDs returns per-obligation file counts for the given IDs.
// Obligations without files are absent from the map.
func (r *PgxFileRepository) CountFilesByObligationIDs(ctx context.Context, obligationIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(obligationIDs))
	if len(obligationIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT obligation_id, COUNT(*)
		FROM obligation_files
		WHERE obligation_id = ANY($1)
		GROUP BY obligation_id;
	`
	rows, err := r.Pool.Query(ctx, query, obligationIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var obligationID string
		var count int
		if err := rows.Scan(&obligationID, &count); err != nil {
			return nil, fmt.Errorf("failed to scan file count row: %w", err)
		}
		counts[obligationID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating file count rows: %w", err)
	}
	return counts, nil
}

// DeleteFile removes one file row, returning the deleted row so the caller
// can clean up the stored object.
func (r *PgxFileRepository) DeleteFile(ctx context.Context, fileID string) (*domain.ObligationFile, error) {
	query := `
		DELETE FROM obligation_files
		WHERE file_id = $1
		RETURNING ` + fileColumns + `;
	`
	f, err := scanFile(r.Pool.QueryRow(ctx, query, fileID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}
	return f, nil
}
