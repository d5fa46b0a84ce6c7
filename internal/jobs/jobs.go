// Package jobs holds the background batch jobs. Each job runs on its own
// ticker and catches its own failures; a bad cycle never takes the process
// down or blocks the next cycle.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
)

// systemUserID is recorded as the sender on job-originated notifications.
const systemUserID = "system"

// runLoop drives a job on a fixed interval until the context is canceled.
func runLoop(ctx context.Context, logger *slog.Logger, name string, interval time.Duration, runOnce func(context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Job started", slog.String("job", name), slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Job stopped", slog.String("job", name))
			return
		case <-ticker.C:
			if err := runOnce(ctx); err != nil {
				logger.Error("Job run failed",
					slog.String("job", name),
					slog.String("error", err.Error()))
			}
		}
	}
}

// buildRecipientBatches fans obligations out to the active client users of
// their companies, one batch per recipient email. Companies without reachable
// users are skipped and counted.
func buildRecipientBatches(
	ctx context.Context,
	logger *slog.Logger,
	userRepo portsrepo.UserReader,
	obligations []domain.Obligation,
) ([]portssvc.RecipientBatch, int) {
	byCompany := make(map[string][]domain.Obligation)
	for _, o := range obligations {
		byCompany[o.CompanyID] = append(byCompany[o.CompanyID], o)
	}

	byEmail := make(map[string]*portssvc.RecipientBatch)
	var order []string
	skippedCompanies := 0

	for companyID, companyObligations := range byCompany {
		users, err := userRepo.ListActiveClientUsersByCompany(ctx, companyID)
		if err != nil {
			logger.Error("Failed to list recipients for company",
				slog.String("company_id", companyID),
				slog.String("error", err.Error()))
			skippedCompanies++
			continue
		}
		reachable := false
		for _, u := range users {
			if u.Email == "" {
				continue
			}
			reachable = true
			batch, ok := byEmail[u.Email]
			if !ok {
				batch = &portssvc.RecipientBatch{Email: u.Email, UserID: u.UserID}
				byEmail[u.Email] = batch
				order = append(order, u.Email)
			}
			batch.Obligations = append(batch.Obligations, companyObligations...)
		}
		if !reachable {
			logger.Warn("Company has no reachable client users", slog.String("company_id", companyID))
			skippedCompanies++
		}
	}

	batches := make([]portssvc.RecipientBatch, 0, len(order))
	for _, email := range order {
		batches = append(batches, *byEmail[email])
	}
	return batches, skippedCompanies
}
