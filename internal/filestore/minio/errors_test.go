package minio

import (
	"context"
	"errors"
	"net/http"
	"testing"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"

	"github.com/koustreak/chococrunch/internal/errs"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.ErrKind
	}{
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"404", miniogo.ErrorResponse{StatusCode: http.StatusNotFound}, errs.ErrKindNotFound},
		{"403", miniogo.ErrorResponse{StatusCode: http.StatusForbidden}, errs.ErrKindPermissionDenied},
		{"400", miniogo.ErrorResponse{StatusCode: http.StatusBadRequest}, errs.ErrKindInvalidInput},
		{"no such bucket", miniogo.ErrorResponse{Code: "NoSuchBucket"}, errs.ErrKindNotFound},
		{"bad signature", miniogo.ErrorResponse{Code: "SignatureDoesNotMatch"}, errs.ErrKindPermissionDenied},
		{"slow down", miniogo.ErrorResponse{Code: "SlowDown"}, errs.ErrKindTimeout},
		{"too large", miniogo.ErrorResponse{Code: "EntityTooLarge"}, errs.ErrKindInvalidInput},
		{"unknown code", miniogo.ErrorResponse{Code: "InternalError"}, errs.ErrKindConnectionFailed},
		{"other", errors.New("connection reset"), errs.ErrKindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "op failed")
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, "op failed", got.Message)
		})
	}

	assert.Nil(t, mapError(nil, "x"))
}
