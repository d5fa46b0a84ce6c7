package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
)

// UnviewedAlert emails clients about documented obligations that have sat
// unopened past the age threshold but are not yet due.
type UnviewedAlert struct {
	obligationRepo portsrepo.ObligationReader
	userRepo       portsrepo.UserReader
	dispatchSvc    portssvc.DispatchSvcFacade
	logger         *slog.Logger
	interval       time.Duration
	threshold      time.Duration
}

// NewUnviewedAlert creates the stale-unviewed alert job.
func NewUnviewedAlert(
	obligationRepo portsrepo.ObligationReader,
	userRepo portsrepo.UserReader,
	dispatchSvc portssvc.DispatchSvcFacade,
	logger *slog.Logger,
	interval time.Duration,
	threshold time.Duration,
) *UnviewedAlert {
	return &UnviewedAlert{
		obligationRepo: obligationRepo,
		userRepo:       userRepo,
		dispatchSvc:    dispatchSvc,
		logger:         logger,
		interval:       interval,
		threshold:      threshold,
	}
}

// Start runs the job on its interval until ctx is canceled.
func (j *UnviewedAlert) Start(ctx context.Context) {
	runLoop(ctx, j.logger, "unviewed_alert", j.interval, j.RunOnce)
}

// RunOnce performs a single alert sweep.
func (j *UnviewedAlert) RunOnce(ctx context.Context) error {
	now := time.Now().UTC()

	obligations, err := j.obligationRepo.FindStaleUnviewed(ctx, now.Add(-j.threshold), now)
	if err != nil {
		return fmt.Errorf("failed to find stale unviewed obligations: %w", err)
	}
	if len(obligations) == 0 {
		j.logger.Debug("No stale unviewed obligations")
		return nil
	}

	batches, skipped := buildRecipientBatches(ctx, j.logger, j.userRepo, obligations)
	if len(batches) == 0 {
		j.logger.Warn("Stale obligations found but no reachable recipients",
			slog.Int("obligations", len(obligations)),
			slog.Int("skipped_companies", skipped))
		return nil
	}

	result, err := j.dispatchSvc.DispatchBatch(ctx, portssvc.KindUnviewedAlert, batches, systemUserID)
	if err != nil {
		return fmt.Errorf("failed to dispatch unviewed alerts: %w", err)
	}

	j.logger.Info("Unviewed alert sweep finished",
		slog.Int("obligations", len(obligations)),
		slog.Int("recipients", len(batches)),
		slog.Int("sent", result.Sent),
		slog.Int("total", result.Total),
		slog.Int("skipped_companies", skipped))
	return nil
}
