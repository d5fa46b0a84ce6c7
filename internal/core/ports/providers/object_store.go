package providers

import (
	"context"
	"time"
)

// PutResult identifies a stored object.
type PutResult struct {
	Key string
	URL string
}

// ObjectStore abstracts the document storage backend.
type ObjectStore interface {
	// Put uploads data under key with the given content type.
	Put(ctx context.Context, data []byte, key string, contentType string) (PutResult, error)

	// SignedURL returns a pre-signed download URL valid for ttl.
	// forceDownload sets a content-disposition attachment header.
	SignedURL(ctx context.Context, key string, ttl time.Duration, forceDownload bool) (string, error)

	// Delete removes the object; it reports whether a delete was issued.
	Delete(ctx context.Context, key string) (bool, error)

	// Exists reports whether the object is present.
	Exists(ctx context.Context, key string) (bool, error)
}
