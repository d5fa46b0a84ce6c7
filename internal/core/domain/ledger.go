package domain

import "time"

// ViewAction distinguishes a plain view from a file download.
type ViewAction string

const (
	ActionView     ViewAction = "VIEW"
	ActionDownload ViewAction = "DOWNLOAD"
)

// ObligationView is one append-only view event. Repeated views by the same
// user each produce a new row; an obligation with zero rows is "unviewed".
type ObligationView struct {
	ViewID       string     `json:"viewID"`
	ObligationID string     `json:"obligationID"`
	UserID       string     `json:"userID"`
	Action       ViewAction `json:"action"`
	ViewedAt     time.Time  `json:"viewedAt"`
}

// ViewEntry is a view event enriched with viewer identity, as surfaced to
// accounting staff inspecting a client's view history.
type ViewEntry struct {
	ObligationView
	ViewerName  string `json:"viewerName"`
	ViewerEmail string `json:"viewerEmail"`
}

// EmailStatus is the delivery outcome recorded for a notification attempt.
type EmailStatus string

const (
	EmailSent   EmailStatus = "sent"
	EmailFailed EmailStatus = "failed"
)

// ObligationNotification is one append-only dispatch-attempt record.
type ObligationNotification struct {
	NotificationID string      `json:"notificationID"`
	ObligationID   string      `json:"obligationID"`
	RecipientEmail string      `json:"recipientEmail"`
	SentByUserID   string      `json:"sentByUserID"`
	SentAt         time.Time   `json:"sentAt"`
	EmailStatus    EmailStatus `json:"emailStatus"`
	EmailError     *string     `json:"emailError,omitempty"`
}

// NotificationCounts aggregates dispatch outcomes. Pending is always derived
// as Total - Sent - Failed, never stored.
type NotificationCounts struct {
	Total   int `json:"total"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Pending int `json:"pending"`
}

// ViewCounts aggregates view events.
type ViewCounts struct {
	Total int `json:"total"`
}

// NotificationStats is the aggregate surfaced by the ledger.
type NotificationStats struct {
	Notifications NotificationCounts `json:"notifications"`
	Views         ViewCounts         `json:"views"`
	Unviewed      int                `json:"unviewed"`
}

// UnviewedObligation is an obligation with zero view events, annotated with
// the decoded display metadata (safe defaults on malformed notes).
type UnviewedObligation struct {
	Obligation
	CompanyCode string `json:"companyCode"`
	CompanyName string `json:"companyName"`
	DocType     string `json:"docType"`
	Competence  string `json:"competence"`
}

// DispatchResult is the structured outcome of a dispatch operation. Expected
// business failures (missing email, nothing to send) surface here with
// Success=false rather than as errors.
type DispatchResult struct {
	Success bool   `json:"success"`
	Sent    int    `json:"sent"`
	Total   int    `json:"total"`
	Message string `json:"message,omitempty"`
}
