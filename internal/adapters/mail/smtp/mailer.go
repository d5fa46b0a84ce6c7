// Package smtp implements the Mailer provider over plain SMTP with STARTTLS.
package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/contaflow/tax_compliance_app/internal/core/ports/providers"
	"github.com/google/uuid"
)

const (
	dialTimeout = 8 * time.Second
	connTimeout = 15 * time.Second
)

// Mailer delivers mail through a single SMTP relay.
type Mailer struct {
	host        string
	port        string
	user        string
	password    string
	defaultFrom string
	logger      *slog.Logger
}

// NewMailer builds an SMTP mailer. Returns an error when the relay host or
// credentials are missing, so misconfiguration surfaces at startup.
func NewMailer(host, port, user, password, defaultFrom string, logger *slog.Logger) (*Mailer, error) {
	if host == "" {
		return nil, errors.New("smtp: relay host is not configured")
	}
	if user == "" || password == "" {
		return nil, errors.New("smtp: relay credentials are not configured")
	}
	if port == "" {
		port = "587"
	}
	return &Mailer{
		host:        host,
		port:        port,
		user:        user,
		password:    password,
		defaultFrom: defaultFrom,
		logger:      logger,
	}, nil
}

var _ providers.Mailer = (*Mailer)(nil)

// Send delivers one message. Transport failures come back as an unsuccessful
// SendResult; the error return is reserved for invalid messages.
func (m *Mailer) Send(ctx context.Context, msg providers.MailMessage) (providers.SendResult, error) {
	if msg.To == "" {
		return providers.SendResult{}, errors.New("smtp: message has no recipient")
	}
	from := msg.From
	if from == "" {
		from = m.defaultFrom
	}
	if from == "" {
		return providers.SendResult{}, errors.New("smtp: message has no sender and no default is configured")
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), m.host)
	raw := m.buildMessage(from, messageID, msg)

	m.logger.DebugContext(ctx, "Sending mail",
		slog.String("to", msg.To),
		slog.String("relay", net.JoinHostPort(m.host, m.port)))

	if err := m.deliver(ctx, from, msg.To, raw); err != nil {
		m.logger.WarnContext(ctx, "Mail delivery failed",
			slog.String("to", msg.To),
			slog.String("error", err.Error()))
		return providers.SendResult{Success: false, MessageID: messageID, Error: err.Error()}, nil
	}

	return providers.SendResult{Success: true, MessageID: messageID}, nil
}

func (m *Mailer) buildMessage(from string, messageID string, msg providers.MailMessage) []byte {
	body := msg.HTML
	contentType := `text/html; charset="UTF-8"`
	if body == "" {
		body = msg.Text
		contentType = `text/plain; charset="UTF-8"`
	}

	lines := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", msg.To),
		fmt.Sprintf("Subject: %s", mime.QEncoding.Encode("utf-8", msg.Subject)),
		fmt.Sprintf("Message-ID: %s", messageID),
		fmt.Sprintf("Date: %s", time.Now().UTC().Format(time.RFC1123Z)),
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: %s", contentType),
		"",
		body,
	}
	return []byte(strings.Join(lines, "\r\n"))
}

func (m *Mailer) deliver(ctx context.Context, from, to string, raw []byte) error {
	addr := net.JoinHostPort(m.host, m.port)

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	// Deadline covers the whole SMTP conversation so a stalled relay cannot
	// hang the caller.
	_ = conn.SetDeadline(time.Now().Add(connTimeout))

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return err
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	if err := c.Auth(auth); err != nil {
		return err
	}

	if err := c.Mail(extractAddress(from)); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// extractAddress strips an optional display name, so "Nome <a@b>" becomes "a@b".
func extractAddress(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		return strings.TrimSuffix(from[i+1:], ">")
	}
	return from
}
