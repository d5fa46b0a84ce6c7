package domain

import "time"

// AuditLog is one append-only record of a privileged action. Recording is
// best-effort; a failed write never fails the action it describes.
type AuditLog struct {
	AuditID    string    `json:"auditID"`
	UserID     string    `json:"userID"`
	Action     string    `json:"action"` // CREATE, UPDATE, DELETE, VIEW, LOGIN, STATUS_CHANGE, ...
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityID"`
	Metadata   *string   `json:"metadata,omitempty"` // JSON payload
	IPAddress  string    `json:"ipAddress"`
	UserAgent  string    `json:"userAgent"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AuditStatRow is one grouped count in the audit statistics report.
type AuditStatRow struct {
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	Day        time.Time `json:"day"`
	Count      int       `json:"count"`
}
