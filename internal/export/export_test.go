package export

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/koustreak/chococrunch/internal/errs"
	"github.com/koustreak/chococrunch/internal/filestore"
	"github.com/koustreak/chococrunch/internal/frame"
)

func sample() *frame.Frame {
	f := frame.New(
		frame.Column{Name: "brand", Kind: frame.KindText},
		frame.Column{Name: "avg_sugars", Kind: frame.KindFloat},
		frame.Column{Name: "ultra_count", Kind: frame.KindInt},
	)
	f.Append("Milka", 48.5, int64(12))
	f.Append(nil, 30.0, int64(3))
	return f
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "join-5", sample()))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, "join-5", book.GetSheetName(0))
	rows, err := book.GetRows("join-5")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"brand", "avg_sugars", "ultra_count"},
		{"Milka", "48.5", "12"},
		{"", "30", "3"},
	}, rows)
}

func TestWriteXLSX_EmptyFrameKeepsHeader(t *testing.T) {
	var buf bytes.Buffer
	f := frame.New(frame.Column{Name: "fat_count", Kind: frame.KindInt})
	require.NoError(t, WriteXLSX(&buf, "", f))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"fat_count"}}, rows)
}

func TestWriteXLSX_TooManyColumns(t *testing.T) {
	f := frame.New()
	for i := 0; i <= excelize.MaxColumns; i++ {
		f.Columns = append(f.Columns, frame.Column{Name: "c", Kind: frame.KindInt})
	}

	var buf bytes.Buffer
	err := WriteXLSX(&buf, "wide", f)
	require.Error(t, err)
	assert.Zero(t, buf.Len(), "nothing written for a failed workbook")
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", SheetName("  "))
	assert.Equal(t, "join_6", SheetName("join/6"))
	assert.Len(t, []rune(SheetName("product-6-products-with-code-starting-with-3")), 31)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "5-number-of-unique-brands", Slug("5. Number of unique brands"))
	assert.Equal(t, "6-products-with-code-starting-with-3", Slug("6. Products with code starting with '3'"))
	assert.Equal(t, "6-products-with-fruits-vegetables-nuts-per-calorie-category",
		Slug("6. Products with fruits/vegetables/nuts per calorie_category"))
}

type fakeStore struct {
	filestore.Store
	bucket, key string
	body        []byte
	opts        filestore.PutOptions
	ttl         time.Duration
	putErr      error
}

func (s *fakeStore) PutObject(_ context.Context, bucket, key string, r io.Reader, size int64, opts filestore.PutOptions) (*filestore.ObjectInfo, error) {
	if s.putErr != nil {
		return nil, s.putErr
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.bucket, s.key, s.body, s.opts = bucket, key, body, opts
	return &filestore.ObjectInfo{Key: key, Size: size}, nil
}

func (s *fakeStore) PresignGetURL(_ context.Context, bucket, key string, ttl time.Duration) (string, error) {
	s.ttl = ttl
	return "https://s3.local/" + bucket + "/" + key + "?sig=x", nil
}

func TestArchive(t *testing.T) {
	store := &fakeStore{}
	a := NewArchiver(store, "chococrunch-reports", time.Hour, nil)
	a.now = func() time.Time { return time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC) }

	got, err := a.Archive(context.Background(), "join", "5. Average sugar value per brand (Ultra-Processed Products)", sample())
	require.NoError(t, err)

	wantKey := "reports/join/5-average-sugar-value-per-brand-ultra-processed-products-20250301T123000Z.xlsx"
	assert.Equal(t, wantKey, got.Key)
	assert.Equal(t, "chococrunch-reports", store.bucket)
	assert.Equal(t, wantKey, store.key)
	assert.Equal(t, ContentType, store.opts.ContentType)
	assert.Equal(t, "2", store.opts.Metadata["rows"])
	assert.Equal(t, int64(len(store.body)), got.Size)
	assert.Equal(t, time.Hour, store.ttl)
	assert.Equal(t, "https://s3.local/chococrunch-reports/"+wantKey+"?sig=x", got.URL)
	assert.Equal(t, time.Date(2025, 3, 1, 13, 30, 0, 0, time.UTC), got.ExpiresAt)

	book, err := excelize.OpenReader(bytes.NewReader(store.body))
	require.NoError(t, err)
	defer book.Close()
	assert.Equal(t, "join-5-average-sugar-value-per-", book.GetSheetName(0))
}

func TestArchive_Disabled(t *testing.T) {
	var a *Archiver
	_, err := a.Archive(context.Background(), "join", "1. x", sample())
	assert.True(t, errs.IsDisabled(err))
}

func TestArchive_StoreFailure(t *testing.T) {
	store := &fakeStore{putErr: errs.New(errs.ErrKindPermissionDenied, "denied")}
	_, err := NewArchiver(store, "b", time.Minute, nil).Archive(context.Background(), "join", "1. x", sample())
	assert.True(t, errs.IsPermissionDenied(err))
}
