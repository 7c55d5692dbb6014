package export

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/koustreak/chococrunch/internal/errs"
	"github.com/koustreak/chococrunch/internal/filestore"
	"github.com/koustreak/chococrunch/internal/frame"
	"github.com/koustreak/chococrunch/internal/logger"
)

// Archived describes a stored report.
type Archived struct {
	Bucket    string    `json:"bucket"`
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Archiver stores workbooks in an object bucket and hands out presigned
// download links. A nil *Archiver is valid and reports ErrKindDisabled.
type Archiver struct {
	store  filestore.Store
	bucket string
	ttl    time.Duration
	log    *logger.Logger
	now    func() time.Time
}

// NewArchiver returns an Archiver writing into bucket. Links stay valid for ttl.
func NewArchiver(store filestore.Store, bucket string, ttl time.Duration, log *logger.Logger) *Archiver {
	if log == nil {
		log = logger.Nop()
	}
	return &Archiver{store: store, bucket: bucket, ttl: ttl, log: log, now: time.Now}
}

// Archive uploads f as reports/<domain>/<slug>-<timestamp>.xlsx and returns
// where it went.
func (a *Archiver) Archive(ctx context.Context, domain, label string, f *frame.Frame) (*Archived, error) {
	if a == nil || a.store == nil {
		return nil, errs.New(errs.ErrKindDisabled, "report archive is not configured")
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, fmt.Sprintf("%s-%s", domain, Slug(label)), f); err != nil {
		return nil, errs.Wrap(errs.ErrKindRenderFailed, "failed to build workbook", err)
	}

	now := a.now().UTC()
	key := fmt.Sprintf("reports/%s/%s-%s.xlsx", domain, Slug(label), now.Format("20060102T150405Z"))
	info, err := a.store.PutObject(ctx, a.bucket, key, &buf, int64(buf.Len()), filestore.PutOptions{
		ContentType: ContentType,
		Metadata:    map[string]string{"domain": domain, "rows": fmt.Sprint(f.Len())},
	})
	if err != nil {
		return nil, err
	}

	url, err := a.store.PresignGetURL(ctx, a.bucket, key, a.ttl)
	if err != nil {
		return nil, err
	}

	a.log.Zerolog().Info().
		Str("bucket", a.bucket).
		Str("key", key).
		Int64("size", info.Size).
		Msg("report archived")

	return &Archived{
		Bucket:    a.bucket,
		Key:       key,
		Size:      info.Size,
		URL:       url,
		ExpiresAt: now.Add(a.ttl),
	}, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a label into a lower-case, dash separated file name stem:
// "5. Number of unique brands" becomes "5-number-of-unique-brands".
func Slug(label string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(label), "-"), "-")
}
