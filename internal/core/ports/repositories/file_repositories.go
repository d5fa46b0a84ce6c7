package repositories

import (
	"context"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
)

// FileRepository defines persistence for obligation file metadata.
type FileRepository interface {
	// SaveFile persists metadata for an uploaded document.
	SaveFile(ctx context.Context, file domain.ObligationFile) error

	// FindFileByID retrieves one file row. Returns nil, nil when absent.
	FindFileByID(ctx context.Context, fileID string) (*domain.ObligationFile, error)

	// ListFilesByObligationID retrieves all file rows for an obligation.
	ListFilesByObligationID(ctx context.Context, obligationID string) ([]domain.ObligationFile, error)

	// CountFilesByObligationIDs returns per-obligation file counts for the given IDs.
	CountFilesByObligationIDs(ctx context.Context, obligationIDs []string) (map[string]int, error)

	// DeleteFile removes one file row. Returns apperrors.ErrNotFound when absent.
	DeleteFile(ctx context.Context, fileID string) (*domain.ObligationFile, error)
}
