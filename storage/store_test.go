package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDrive struct {
	*MemoryDrive
	finds, creates int
}

func (d *countingDrive) FindFolder(ctx context.Context, name string) (string, error) {
	d.finds++
	return d.MemoryDrive.FindFolder(ctx, name)
}

func (d *countingDrive) CreateFolder(ctx context.Context, name string) (string, error) {
	d.creates++
	return d.MemoryDrive.CreateFolder(ctx, name)
}

func TestFolderCreatedOnceAndCached(t *testing.T) {
	ctx := context.Background()
	drive := &countingDrive{MemoryDrive: NewMemoryDrive()}
	s := NewStore(drive, nil, nil)

	id, err := s.Folder(ctx, "invoices")
	require.NoError(t, err)
	again, err := s.Folder(ctx, "invoices")
	require.NoError(t, err)

	assert.Equal(t, id, again)
	assert.Equal(t, 1, drive.finds)
	assert.Equal(t, 1, drive.creates)

	require.NoError(t, s.Reset(ctx))
	again, err = s.Folder(ctx, "invoices")
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, 2, drive.finds)
	assert.Equal(t, 1, drive.creates)
}

func TestListNamesFiltersPrefixAndTrash(t *testing.T) {
	ctx := context.Background()
	drive := NewMemoryDrive()
	drive.Put("invoices", "INV_20250701_000005_919876543210.pdf", []byte("a"))
	drive.Put("invoices", "INV_20250702_000003_919876543210.pdf", []byte("b"))
	drive.Put("invoices", "INV_20250703_000009_919876543210.pdf", []byte("c"))
	drive.Put("invoices", "notes.txt", []byte("d"))
	drive.Trash("invoices", "INV_20250703_000009_919876543210.pdf")

	names, err := NewStore(drive, nil, nil).ListNames(ctx, "invoices", "INV_")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"INV_20250701_000005_919876543210.pdf",
		"INV_20250702_000003_919876543210.pdf",
	}, names)
}

func TestUploadStoresContent(t *testing.T) {
	drive := NewMemoryDrive()
	s := NewStore(drive, nil, nil)

	f, err := s.Upload(context.Background(), "quotes", "QUO_20250714_000001_91.pdf", []byte("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), f.Size)
	assert.NotEmpty(t, f.ID)

	got, ok := drive.Content("quotes", "QUO_20250714_000001_91.pdf")
	require.True(t, ok)
	assert.Equal(t, []byte("%PDF-1.3"), got)
}

func TestUploadErrorsAreClassified(t *testing.T) {
	drive := NewMemoryDrive()
	s := NewStore(drive, nil, nil)
	_, err := s.Folder(context.Background(), "invoices")
	require.NoError(t, err)

	drive.Fail(ErrQuotaExceeded)
	_, err = s.Upload(context.Background(), "invoices", "x.pdf", nil)

	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, UploadQuota, ue.Kind)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestRedisFolderCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := NewRedisFolderCache(client, "", time.Hour)
	_, ok, err := cache.Get(ctx, "invoices")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "invoices", "folder-1"))
	id, ok, err := cache.Get(ctx, "invoices")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "folder-1", id)
	assert.Greater(t, mr.TTL("invoicepro:folders"), time.Duration(0))

	require.NoError(t, cache.Clear(ctx))
	_, ok, err = cache.Get(ctx, "invoices")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStoreSurvivesBrokenCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	s := NewStore(NewMemoryDrive(), NewRedisFolderCache(client, "", 0), nil)
	id, err := s.Folder(context.Background(), "invoices")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestListFailurePropagates(t *testing.T) {
	drive := NewMemoryDrive()
	drive.Fail(errors.New("offline"))
	_, err := NewStore(drive, nil, nil).ListNames(context.Background(), "invoices", "INV_")
	assert.Error(t, err)
}
