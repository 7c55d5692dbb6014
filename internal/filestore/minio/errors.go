package minio

import (
	"context"
	"errors"
	"net/http"

	miniogo "github.com/minio/minio-go/v7"

	"github.com/koustreak/chococrunch/internal/errs"
)

// s3Codes classifies the S3 error codes a report upload or presign can hit.
var s3Codes = map[string]errs.ErrKind{
	"NoSuchBucket":          errs.ErrKindNotFound,
	"NoSuchKey":             errs.ErrKindNotFound,
	"AccessDenied":          errs.ErrKindPermissionDenied,
	"InvalidAccessKeyId":    errs.ErrKindPermissionDenied,
	"SignatureDoesNotMatch": errs.ErrKindPermissionDenied,
	"InvalidBucketName":     errs.ErrKindInvalidInput,
	"InvalidObjectName":     errs.ErrKindInvalidInput,
	"KeyTooLongError":       errs.ErrKindInvalidInput,
	"EntityTooLarge":        errs.ErrKindInvalidInput,
	"RequestTimeout":        errs.ErrKindTimeout,
	"SlowDown":              errs.ErrKindTimeout,
}

// mapError translates a MinIO SDK error into a *errs.Error, the same way the
// mysql driver classifies server errors.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	var resp miniogo.ErrorResponse
	if !errors.As(err, &resp) {
		// dial failures, resets, DNS
		return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	case http.StatusForbidden, http.StatusUnauthorized:
		return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
	case http.StatusBadRequest:
		return errs.Wrap(errs.ErrKindInvalidInput, msg, err)
	}
	if kind, ok := s3Codes[resp.Code]; ok {
		return errs.Wrap(kind, msg, err)
	}
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
