package services

import (
	"context"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
)

// NotificationKind selects the rendered template for a dispatch.
type NotificationKind string

const (
	KindNewDocument   NotificationKind = "new_document"
	KindDueReminder   NotificationKind = "due_reminder"
	KindUnviewedAlert NotificationKind = "unviewed_alert"
)

// RecipientBatch groups the obligations destined for one recipient email.
// The batch dispatcher issues a single send per batch.
type RecipientBatch struct {
	Email       string
	UserID      string
	Obligations []domain.Obligation
}

// DispatchSvcFacade issues outbound notifications and records their outcome
// in the ledger. One ledger row per obligation per attempt.
type DispatchSvcFacade interface {
	// DispatchNewDocument notifies the obligation's company that a document
	// was posted. A company without an email short-circuits with a
	// Success=false result and no ledger write. A transport failure records a
	// failed ledger row. A missing obligation is an ErrNotFound error.
	DispatchNewDocument(ctx context.Context, obligationID string, senderUserID string) (*domain.DispatchResult, error)

	// DispatchBatch sends one aggregated email per recipient batch, recording
	// ledger rows for every obligation in the batch. A failing recipient does
	// not abort the remaining batches.
	DispatchBatch(ctx context.Context, kind NotificationKind, batches []RecipientBatch, senderUserID string) (*domain.DispatchResult, error)
}
