package domain

// ObligationFile is metadata for a document stored in the object store under
// StorageKey. Obligations with at least one file are "documented" for the
// reminder jobs.
type ObligationFile struct {
	FileID       string `json:"fileID"`
	ObligationID string `json:"obligationID"`
	StorageKey   string `json:"storageKey"`
	FileName     string `json:"fileName"`
	ContentType  string `json:"contentType"`
	SizeBytes    int64  `json:"sizeBytes"`
	AuditFields
}
