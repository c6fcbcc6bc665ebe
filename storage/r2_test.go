package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucket answers the handful of S3 calls the R2 drive makes.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]int
	deny    atomic.Bool
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if b.deny.Load() {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusForbidden)
		if r.Method != http.MethodHead {
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`)
		}
		return
	}

	key := strings.TrimPrefix(r.URL.Path, "/docs/")
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.Method == http.MethodPut:
		n, _ := io.Copy(io.Discard, r.Body)
		b.objects[key] = int(n)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodHead:
		if _, ok := b.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet && r.URL.Query().Get("list-type") == "2":
		prefix := r.URL.Query().Get("prefix")
		var keys []string
		for k := range b.objects {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		var sb strings.Builder
		sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">`)
		fmt.Fprintf(&sb, "<Name>docs</Name><Prefix>%s</Prefix><KeyCount>%d</KeyCount><MaxKeys>1000</MaxKeys><IsTruncated>false</IsTruncated>", prefix, len(keys))
		for _, k := range keys {
			fmt.Fprintf(&sb, "<Contents><Key>%s</Key><Size>%d</Size></Contents>", k, b.objects[k])
		}
		sb.WriteString("</ListBucketResult>")
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, sb.String())
	default:
		w.WriteHeader(http.StatusNotImplemented)
	}
}

func newFakeR2(t *testing.T) (*R2Drive, *fakeBucket) {
	t.Helper()
	bucket := &fakeBucket{objects: make(map[string]int)}
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	drive, err := NewR2Drive(context.Background(), R2Config{
		Bucket:          "docs",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Endpoint:        srv.URL,
	})
	require.NoError(t, err)
	return drive, bucket
}

func TestR2DriveRoundTrip(t *testing.T) {
	ctx := context.Background()
	drive, bucket := newFakeR2(t)
	s := NewStore(drive, nil, nil)

	_, err := s.Upload(ctx, "invoices", "INV_20250701_000005_91.pdf", []byte("%PDF-1.3 a"))
	require.NoError(t, err)
	_, err = s.Upload(ctx, "invoices", "INV_20250702_000003_91.pdf", []byte("%PDF-1.3 b"))
	require.NoError(t, err)
	_, err = s.Upload(ctx, "quotes", "QUO_20250702_000001_91.pdf", []byte("%PDF-1.3 c"))
	require.NoError(t, err)

	bucket.mu.Lock()
	_, marker := bucket.objects["invoices/"]
	bucket.mu.Unlock()
	assert.True(t, marker)

	names, err := s.ListNames(ctx, "invoices", "INV_")
	require.NoError(t, err)
	assert.Equal(t, []string{"INV_20250701_000005_91.pdf", "INV_20250702_000003_91.pdf"}, names)

	id, err := drive.FindFolder(ctx, "quotes")
	require.NoError(t, err)
	assert.Equal(t, "quotes/", id)

	_, err = drive.FindFolder(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestR2DriveAccessDenied(t *testing.T) {
	ctx := context.Background()
	drive, bucket := newFakeR2(t)
	s := NewStore(drive, nil, nil)
	_, err := s.Folder(ctx, "invoices")
	require.NoError(t, err)

	bucket.deny.Store(true)
	_, err = s.Upload(ctx, "invoices", "INV_20250701_000001_91.pdf", []byte("x"))

	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, UploadAuth, ue.Kind)
}

func TestNewR2DriveNeedsBucket(t *testing.T) {
	_, err := NewR2Drive(context.Background(), R2Config{AccountID: "acc"})
	assert.Error(t, err)
	_, err = NewR2Drive(context.Background(), R2Config{Bucket: "docs"})
	assert.Error(t, err)
}
