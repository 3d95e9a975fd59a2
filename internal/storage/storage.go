package storage

import (
	"context"
	"io"
)

// ObjectStorage is the image hosting backend. Put stores an object under a
// key; URL returns the public address clients can load it from.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	URL(key string) string
}
