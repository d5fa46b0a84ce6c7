package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/apperrors"
	"github.com/contaflow/tax_compliance_app/internal/core/domain"
	"github.com/contaflow/tax_compliance_app/internal/core/ports/providers"
	portsrepo "github.com/contaflow/tax_compliance_app/internal/core/ports/repositories"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/internal/utils/retry"
	"github.com/google/uuid"
)

// msgCompanyWithoutEmail is the user-visible outcome when dispatch
// short-circuits before any send attempt.
const msgCompanyWithoutEmail = "Empresa sem email cadastrado"

// dispatchService orchestrates one notification attempt:
// resolve recipient -> render -> send (retry-wrapped) -> record.
type dispatchService struct {
	BaseService
	obligationRepo portsrepo.ObligationReader
	companyRepo    portsrepo.CompanyRepository
	ledgerRepo     portsrepo.NotificationWriter
	mailer         providers.Mailer
	retryCfg       retry.Config
	defaultFrom    string
}

// DispatchServiceOption is a functional option for configuring the dispatcher
type DispatchServiceOption func(*dispatchService)

// WithRetryConfig overrides the retry policy used around the mail transport.
func WithRetryConfig(cfg retry.Config) DispatchServiceOption {
	return func(s *dispatchService) {
		s.retryCfg = cfg
	}
}

// NewDispatchService creates a new notification dispatcher. defaultFrom is
// the configured sender fallback used when no accounting-firm record carries
// an email.
func NewDispatchService(
	obligationRepo portsrepo.ObligationReader,
	companyRepo portsrepo.CompanyRepository,
	ledgerRepo portsrepo.NotificationWriter,
	mailer providers.Mailer,
	defaultFrom string,
	options ...DispatchServiceOption,
) portssvc.DispatchSvcFacade {
	svc := &dispatchService{
		obligationRepo: obligationRepo,
		companyRepo:    companyRepo,
		ledgerRepo:     ledgerRepo,
		mailer:         mailer,
		retryCfg:       retry.DefaultConfig(),
		defaultFrom:    defaultFrom,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.DispatchSvcFacade = (*dispatchService)(nil)

// DispatchNewDocument notifies the obligation's company email that a new
// document was posted.
func (s *dispatchService) DispatchNewDocument(ctx context.Context, obligationID string, senderUserID string) (*domain.DispatchResult, error) {
	obligation, err := s.obligationRepo.FindObligationByID(ctx, obligationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load obligation for dispatch", slog.String("obligation_id", obligationID))
		return nil, fmt.Errorf("failed to load obligation: %w", err)
	}
	if obligation == nil {
		return nil, fmt.Errorf("obligation %s: %w", obligationID, apperrors.ErrNotFound)
	}

	company, err := s.companyRepo.FindCompanyByID(ctx, obligation.CompanyID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load company for dispatch", slog.String("company_id", obligation.CompanyID))
		return nil, fmt.Errorf("failed to load company: %w", err)
	}

	// No email on file: short-circuit before SEND, no ledger write.
	if company == nil || company.Email == nil || *company.Email == "" {
		s.LogWarn(ctx, "Dispatch skipped, company has no registered email",
			slog.String("obligation_id", obligationID),
			slog.String("company_id", obligation.CompanyID))
		return &domain.DispatchResult{Success: false, Sent: 0, Total: 1, Message: msgCompanyWithoutEmail}, nil
	}

	subject, htmlBody, textBody, err := renderPayload(portssvc.KindNewDocument, company.Name, []domain.Obligation{*obligation})
	if err != nil {
		return nil, err
	}

	msg := providers.MailMessage{
		To:      *company.Email,
		From:    s.resolveSender(ctx),
		Subject: subject,
		HTML:    htmlBody,
		Text:    textBody,
	}

	outcome := s.send(ctx, msg)
	if err := s.record(ctx, obligation.ObligationID, msg.To, senderUserID, outcome); err != nil {
		return nil, err
	}

	if !outcome.ok {
		return &domain.DispatchResult{Success: false, Sent: 0, Total: 1, Message: outcome.errText}, nil
	}
	return &domain.DispatchResult{Success: true, Sent: 1, Total: 1}, nil
}

// DispatchBatch issues one aggregated email per recipient batch. A failing
// recipient is recorded and skipped; the remaining batches still go out.
func (s *dispatchService) DispatchBatch(ctx context.Context, kind portssvc.NotificationKind, batches []portssvc.RecipientBatch, senderUserID string) (*domain.DispatchResult, error) {
	if len(batches) == 0 {
		return &domain.DispatchResult{Success: true, Sent: 0, Total: 0}, nil
	}

	from := s.resolveSender(ctx)
	sent := 0
	for _, batch := range batches {
		subject, htmlBody, textBody, err := renderPayload(kind, "", batch.Obligations)
		if err != nil {
			s.LogError(ctx, err, "Failed to render batch payload", slog.String("recipient", batch.Email))
			continue
		}

		msg := providers.MailMessage{
			To:      batch.Email,
			From:    from,
			Subject: subject,
			HTML:    htmlBody,
			Text:    textBody,
		}

		outcome := s.send(ctx, msg)
		// One ledger row per obligation in the batch, all with this
		// attempt's outcome.
		for _, obligation := range batch.Obligations {
			if err := s.record(ctx, obligation.ObligationID, batch.Email, senderUserID, outcome); err != nil {
				s.LogError(ctx, err, "Failed to record batch notification",
					slog.String("obligation_id", obligation.ObligationID),
					slog.String("recipient", batch.Email))
			}
		}

		if outcome.ok {
			sent++
		} else {
			s.LogWarn(ctx, "Batch notification failed for recipient",
				slog.String("recipient", batch.Email),
				slog.String("error", outcome.errText))
		}
	}

	return &domain.DispatchResult{
		Success: sent == len(batches),
		Sent:    sent,
		Total:   len(batches),
	}, nil
}

// sendOutcome captures a single transport attempt result.
type sendOutcome struct {
	ok        bool
	messageID string
	errText   string
}

// send pushes the message through the mailer, wrapped in the retry executor.
// Transport exceptions and failure outcomes both map to a failed outcome.
func (s *dispatchService) send(ctx context.Context, msg providers.MailMessage) sendOutcome {
	result, err := retry.Do(ctx, s.retryCfg, func(ctx context.Context) (providers.SendResult, error) {
		return s.mailer.Send(ctx, msg)
	})
	if err != nil {
		return sendOutcome{ok: false, errText: err.Error()}
	}
	if !result.Success {
		errText := result.Error
		if errText == "" {
			errText = "delivery failed"
		}
		return sendOutcome{ok: false, errText: errText}
	}
	return sendOutcome{ok: true, messageID: result.MessageID}
}

// record appends one dispatch-attempt row to the ledger.
func (s *dispatchService) record(ctx context.Context, obligationID, recipient, senderUserID string, outcome sendOutcome) error {
	notification := domain.ObligationNotification{
		NotificationID: uuid.NewString(),
		ObligationID:   obligationID,
		RecipientEmail: recipient,
		SentByUserID:   senderUserID,
		SentAt:         time.Now().UTC(),
		EmailStatus:    domain.EmailSent,
	}
	if !outcome.ok {
		notification.EmailStatus = domain.EmailFailed
		errText := outcome.errText
		notification.EmailError = &errText
	}

	if err := s.ledgerRepo.SaveNotification(ctx, notification); err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return nil
}

// resolveSender returns the accounting firm's email when one is configured,
// else the configured default sender.
func (s *dispatchService) resolveSender(ctx context.Context) string {
	firm, err := s.companyRepo.FindAccountingFirm(ctx)
	if err != nil {
		s.LogWarn(ctx, "Failed to resolve accounting firm sender", slog.String("error", err.Error()))
		return s.defaultFrom
	}
	if firm != nil && firm.Email != nil && *firm.Email != "" {
		return *firm.Email
	}
	return s.defaultFrom
}
