package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotConfigured is returned when publishing is attempted without a bucket.
var ErrNotConfigured = errors.New("object storage is not configured")

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}
