// Package s3 implements the ObjectStore provider on top of AWS S3.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/contaflow/tax_compliance_app/internal/core/ports/providers"
)

// ObjectStore stores obligation documents in a single S3 bucket.
type ObjectStore struct {
	bucket  string
	client  *s3.Client
	presign *s3.PresignClient
}

// NewObjectStore builds the store from the default AWS credential chain.
func NewObjectStore(ctx context.Context, region, bucket string) (*ObjectStore, error) {
	if bucket == "" {
		return nil, errors.New("s3: bucket name is not configured")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("s3: failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &ObjectStore{
		bucket:  bucket,
		client:  client,
		presign: s3.NewPresignClient(client),
	}, nil
}

var _ providers.ObjectStore = (*ObjectStore)(nil)

// Put uploads data under key with the given content type.
func (s *ObjectStore) Put(ctx context.Context, data []byte, key string, contentType string) (providers.PutResult, error) {
	if key == "" {
		return providers.PutResult{}, errors.New("s3: object key is empty")
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return providers.PutResult{}, fmt.Errorf("s3: failed to put object %s: %w", key, err)
	}

	return providers.PutResult{
		Key: key,
		URL: fmt.Sprintf("s3://%s/%s", s.bucket, key),
	}, nil
}

// SignedURL returns a pre-signed GET URL valid for ttl. With forceDownload
// the response carries a content-disposition attachment header so browsers
// save instead of render.
func (s *ObjectStore) SignedURL(ctx context.Context, key string, ttl time.Duration, forceDownload bool) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if forceDownload {
		name := key
		if i := strings.LastIndex(key, "/"); i >= 0 {
			name = key[i+1:]
		}
		input.ResponseContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", name))
	}

	req, err := s.presign.PresignGetObject(ctx, input, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("s3: failed to presign object %s: %w", key, err)
	}
	return req.URL, nil
}

// Delete removes the object. S3 deletes are idempotent, so the call reports
// success even when the key was already gone.
func (s *ObjectStore) Delete(ctx context.Context, key string) (bool, error) {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return false, fmt.Errorf("s3: failed to delete object %s: %w", key, err)
	}
	return true, nil
}

// Exists reports whether the object is present.
func (s *ObjectStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var respErr interface{ HTTPStatusCode() int }
		if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("s3: failed to head object %s: %w", key, err)
	}
	return true, nil
}
