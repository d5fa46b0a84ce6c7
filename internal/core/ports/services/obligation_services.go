package services

import (
	"context"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	"github.com/contaflow/tax_compliance_app/internal/dto"
)

// ObligationReaderSvc defines read operations for obligations
type ObligationReaderSvc interface {
	// GetObligationByID retrieves an obligation, or apperrors.ErrNotFound.
	GetObligationByID(ctx context.Context, obligationID string) (*domain.Obligation, error)

	// ListObligations retrieves obligations filtered by optional company and due-date range.
	ListObligations(ctx context.Context, companyID *string, dueFrom, dueTo *time.Time) ([]domain.Obligation, error)
}

// ObligationWriterSvc defines write operations for obligations
type ObligationWriterSvc interface {
	// CreateObligation registers a new obligation with status PENDING unless
	// the creator supplies a status explicitly.
	CreateObligation(ctx context.Context, req dto.CreateObligationRequest, creatorUserID string) (*domain.Obligation, error)

	// UpdateObligation applies the mutable fields of an obligation.
	UpdateObligation(ctx context.Context, obligationID string, req dto.UpdateObligationRequest, actorUserID string) (*domain.Obligation, error)

	// SetNotApplicable marks an obligation NOT_APPLICABLE. The actor must hold
	// CapSetNotApplicable and supply a reason.
	SetNotApplicable(ctx context.Context, obligationID string, reason string, actorUserID string) (*domain.Obligation, error)

	// DeleteObligation hard-deletes an obligation, cascading to files, views
	// and notifications.
	DeleteObligation(ctx context.Context, obligationID string, actorUserID string) error
}

// ObligationSvcFacade combines the obligation service interfaces
type ObligationSvcFacade interface {
	ObligationReaderSvc
	ObligationWriterSvc
}
