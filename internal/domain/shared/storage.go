package shared

import (
	"context"
	"io"
	"time"
)

// BlobStore is the port to the object storage that keeps uploaded
// files. Contract documents and listing photos both go through it.
type BlobStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
