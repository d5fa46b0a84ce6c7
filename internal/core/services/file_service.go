package services

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/apperrors"
	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	"github.com/contaflow/tax_compliance_app/internal/core/ports/providers"
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/internal/utils/retry"
	"github.com/google/uuid"
)

// fileService stores obligation documents in the object store and their
// metadata rows in the database.
type fileService struct {
	BaseService
	fileRepo       portsrepo.FileRepository
	obligationRepo portsrepo.ObligationReader
	store          providers.ObjectStore
	auditSvc       portssvc.AuditSvcFacade
	retryCfg       retry.Config
}

// NewFileService creates a new file service.
func NewFileService(
	fileRepo portsrepo.FileRepository,
	obligationRepo portsrepo.ObligationReader,
	store providers.ObjectStore,
	auditSvc portssvc.AuditSvcFacade,
) portssvc.FileSvcFacade {
	return &fileService{
		fileRepo:       fileRepo,
		obligationRepo: obligationRepo,
		store:          store,
		auditSvc:       auditSvc,
		retryCfg:       retry.DefaultConfig(),
	}
}

var _ portssvc.FileSvcFacade = (*fileService)(nil)

// UploadFile stores the document bytes and persists a metadata row. The
// object upload is retried on transient storage failures.
func (s *fileService) UploadFile(ctx context.Context, obligationID string, fileName string, contentType string, data []byte, uploaderUserID string) (*domain.ObligationFile, error) {
	if len(data) == 0 {
		return nil, apperrors.NewBadRequestError("file content is empty")
	}

	obligation, err := s.obligationRepo.FindObligationByID(ctx, obligationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find obligation %s: %w", obligationID, err)
	}
	if obligation == nil {
		return nil, fmt.Errorf("obligation %s: %w", obligationID, apperrors.ErrNotFound)
	}

	fileID := uuid.NewString()
	key := path.Join("obligations", obligationID, fileID+path.Ext(fileName))

	result, err := retry.Do(ctx, s.retryCfg, func(ctx context.Context) (providers.PutResult, error) {
		return s.store.Put(ctx, data, key, contentType)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to upload document",
			slog.String("obligation_id", obligationID),
			slog.String("file_name", fileName))
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}

	now := time.Now().UTC()
	file := domain.ObligationFile{
		FileID:       fileID,
		ObligationID: obligationID,
		StorageKey:   result.Key,
		FileName:     fileName,
		ContentType:  contentType,
		SizeBytes:    int64(len(data)),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     uploaderUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: uploaderUserID,
		},
	}
	if err := s.fileRepo.SaveFile(ctx, file); err != nil {
		// Metadata insert failed after the object landed. Best effort cleanup
		// so the bucket does not accumulate orphans.
		if _, delErr := s.store.Delete(ctx, result.Key); delErr != nil {
			s.LogWarn(ctx, "Failed to clean up orphaned object after metadata failure",
				slog.String("storage_key", result.Key),
				slog.String("error", delErr.Error()))
		}
		return nil, fmt.Errorf("failed to save file metadata: %w", err)
	}

	s.auditSvc.Record(ctx, portssvc.AuditEntry{
		UserID:     uploaderUserID,
		Action:     "UPLOAD",
		EntityType: "obligation_file",
		EntityID:   fileID,
	})
	s.LogInfo(ctx, "Document uploaded",
		slog.String("file_id", fileID),
		slog.String("obligation_id", obligationID),
		slog.Int64("size_bytes", file.SizeBytes))
	return &file, nil
}

// SignedDownloadURL returns a pre-signed URL for a stored document.
func (s *fileService) SignedDownloadURL(ctx context.Context, fileID string, ttl time.Duration, forceDownload bool) (string, error) {
	file, err := s.findFile(ctx, fileID)
	if err != nil {
		return "", err
	}

	url, err := s.store.SignedURL(ctx, file.StorageKey, ttl, forceDownload)
	if err != nil {
		return "", fmt.Errorf("failed to sign download URL: %w", err)
	}
	return url, nil
}

// DeleteFile removes the metadata row and the stored object.
func (s *fileService) DeleteFile(ctx context.Context, fileID string, actorUserID string) error {
	file, err := s.fileRepo.DeleteFile(ctx, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}

	if _, err := s.store.Delete(ctx, file.StorageKey); err != nil {
		// The row is gone; a dangling object is tolerable, a dangling row is not.
		s.LogWarn(ctx, "Failed to delete stored object",
			slog.String("storage_key", file.StorageKey),
			slog.String("error", err.Error()))
	}

	s.auditSvc.Record(ctx, portssvc.AuditEntry{
		UserID:     actorUserID,
		Action:     "DELETE",
		EntityType: "obligation_file",
		EntityID:   fileID,
	})
	return nil
}

func (s *fileService) findFile(ctx context.Context, fileID string) (*domain.ObligationFile, error) {
	file, err := s.fileRepo.FindFileByID(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to find file %s: %w", fileID, err)
	}
	if file == nil {
		return nil, fmt.Errorf("file %s: %w", fileID, apperrors.ErrNotFound)
	}
	return file, nil
}
