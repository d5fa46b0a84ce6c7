package providers

import "context"

// MailMessage is one outbound email. From may be empty, in which case the
// transport uses its configured default sender.
type MailMessage struct {
	To      string
	From    string
	Subject string
	HTML    string
	Text    string
}

// SendResult reports the transport-level delivery outcome. A failed delivery
// is a result, not an error; implementations return a non-nil error only for
// programmer/configuration faults (missing credentials, bad message).
type SendResult struct {
	Success   bool
	MessageID string
	Error     string
}

// Mailer sends email through an external transport.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) (SendResult, error)
}
