// Package minio stores archived reports in a MinIO (or any S3-compatible)
// bucket.
package minio

import (
	"context"
	"io"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/koustreak/chococrunch/internal/errs"
	"github.com/koustreak/chococrunch/internal/filestore"
)

// Driver implements filestore.Store. Safe for concurrent use.
type Driver struct {
	client *miniogo.Client
	region string
}

var _ filestore.Store = (*Driver)(nil)

// New builds a client for cfg and pings the server before returning.
func New(ctx context.Context, cfg *filestore.Config) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create minio client", err)
	}

	d := &Driver{client: client, region: cfg.Region}
	if err := d.Ping(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// Ping lists buckets, which fails fast on bad credentials or an unreachable
// endpoint.
func (d *Driver) Ping(ctx context.Context) error {
	if _, err := d.client.ListBuckets(ctx); err != nil {
		return mapError(err, "minio ping failed")
	}
	return nil
}

// Close does nothing; the SDK keeps no connection state worth releasing.
func (d *Driver) Close() error { return nil }

func (d *Driver) EnsureBucket(ctx context.Context, bucket string) error {
	ok, err := d.client.BucketExists(ctx, bucket)
	switch {
	case err != nil:
		return mapError(err, "failed to check bucket "+bucket)
	case ok:
		return nil
	}
	if err := d.client.MakeBucket(ctx, bucket, miniogo.MakeBucketOptions{Region: d.region}); err != nil {
		return mapError(err, "failed to create bucket "+bucket)
	}
	return nil
}

func (d *Driver) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts filestore.PutOptions) (*filestore.ObjectInfo, error) {
	up, err := d.client.PutObject(ctx, bucket, key, r, size, miniogo.PutObjectOptions{
		ContentType:  opts.ContentType,
		UserMetadata: opts.Metadata,
	})
	if err != nil {
		return nil, mapError(err, "failed to upload "+key)
	}
	return &filestore.ObjectInfo{
		Key:          up.Key,
		Size:         up.Size,
		ContentType:  opts.ContentType,
		ETag:         up.ETag,
		LastModified: up.LastModified,
	}, nil
}

// PresignGetURL signs a download link for key valid for ttl.
func (d *Driver) PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	u, err := d.client.PresignedGetObject(ctx, bucket, key, ttl, nil)
	if err != nil {
		return "", mapError(err, "failed to presign "+key)
	}
	return u.String(), nil
}
