package services

import (
	"context"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
)

// FileSvcFacade manages obligation documents in the object store.
type FileSvcFacade interface {
	// UploadFile stores the document bytes (upload retried on transient
	// failures) and persists the file metadata row.
	UploadFile(ctx context.Context, obligationID string, fileName string, contentType string, data []byte, uploaderUserID string) (*domain.ObligationFile, error)

	// SignedDownloadURL returns a pre-signed URL for a stored document.
	SignedDownloadURL(ctx context.Context, fileID string, ttl time.Duration, forceDownload bool) (string, error)

	// DeleteFile removes the metadata row and the stored object.
	DeleteFile(ctx context.Context, fileID string, actorUserID string) error
}
