// Package filestore defines the object storage the dashboard archives
// exported reports to.
//
// Providers implement the Store interface. Callers depend only on this
// package, never on a specific provider package.
//
// Usage:
//
//	cfg := filestore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin")
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	info, err := store.PutObject(ctx, "reports", "join/report.xlsx", r, size, filestore.PutOptions{})
package filestore

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes a single object stored in a bucket.
type ObjectInfo struct {
	// Key is the full object path within the bucket (e.g. "reports/join/x.xlsx").
	Key string

	// Size is the byte size of the object. -1 if unknown.
	Size int64

	// ContentType is the MIME type.
	ContentType string

	// ETag is the object's entity tag / hash, as returned by the backend.
	ETag string

	// LastModified is when the object was last written.
	LastModified time.Time
}

// PutOptions controls how an object is written.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Store is the interface all file storage providers implement.
type Store interface {
	// Ping verifies the storage backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// EnsureBucket creates bucket if it does not exist.
	EnsureBucket(ctx context.Context, bucket string) error

	// PutObject uploads size bytes from r to key inside bucket.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts PutOptions) (*ObjectInfo, error)

	// PresignGetURL returns a time-limited URL that allows anyone to download
	// the object at key inside bucket without credentials.
	PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
