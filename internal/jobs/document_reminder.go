package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
)

// DocumentReminder emails clients about filed obligations that are coming due
// and have never been opened. An obligation qualifies when it is due within
// the window, has status SUBMITTED or PAID, carries at least one document and
// has zero view events.
type DocumentReminder struct {
	obligationRepo portsrepo.ObligationReader
	userRepo       portsrepo.UserReader
	dispatchSvc    portssvc.DispatchSvcFacade
	logger         *slog.Logger
	interval       time.Duration
	window         time.Duration
}

// NewDocumentReminder creates the due-soon reminder job.
func NewDocumentReminder(
	obligationRepo portsrepo.ObligationReader,
	userRepo portsrepo.UserReader,
	dispatchSvc portssvc.DispatchSvcFacade,
	logger *slog.Logger,
	interval time.Duration,
	window time.Duration,
) *DocumentReminder {
	return &DocumentReminder{
		obligationRepo: obligationRepo,
		userRepo:       userRepo,
		dispatchSvc:    dispatchSvc,
		logger:         logger,
		interval:       interval,
		window:         window,
	}
}

// Start runs the job on its interval until ctx is canceled.
func (j *DocumentReminder) Start(ctx context.Context) {
	runLoop(ctx, j.logger, "document_reminder", j.interval, j.RunOnce)
}

// RunOnce performs a single reminder sweep.
func (j *DocumentReminder) RunOnce(ctx context.Context) error {
	now := time.Now().UTC()

	obligations, err := j.obligationRepo.FindDueSoonUnviewed(ctx, now, j.window)
	if err != nil {
		return fmt.Errorf("failed to find due-soon unviewed obligations: %w", err)
	}
	if len(obligations) == 0 {
		j.logger.Debug("No due-soon unviewed obligations")
		return nil
	}

	batches, skipped := buildRecipientBatches(ctx, j.logger, j.userRepo, obligations)
	if len(batches) == 0 {
		j.logger.Warn("Due-soon obligations found but no reachable recipients",
			slog.Int("obligations", len(obligations)),
			slog.Int("skipped_companies", skipped))
		return nil
	}

	result, err := j.dispatchSvc.DispatchBatch(ctx, portssvc.KindDueReminder, batches, systemUserID)
	if err != nil {
		return fmt.Errorf("failed to dispatch due reminders: %w", err)
	}

	j.logger.Info("Due reminder sweep finished",
		slog.Int("obligations", len(obligations)),
		slog.Int("recipients", len(batches)),
		slog.Int("sent", result.Sent),
		slog.Int("total", result.Total),
		slog.Int("skipped_companies", skipped))
	return nil
}
