package storage

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closedPostgres returns a handle whose every query fails without a server.
func closedPostgres(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("postgres", "postgres://invoicepro@127.0.0.1:1/invoicepro?sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, db.Close())
	return db
}

func TestPostgresDriveErrors(t *testing.T) {
	ctx := context.Background()
	d := NewPostgresDrive(closedPostgres(t))

	_, err := d.FindFolder(ctx, "invoices")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound), "a broken connection is not a missing folder")
	assert.Contains(t, err.Error(), "find folder invoices")

	_, err = d.CreateFolder(ctx, "invoices")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create folder invoices")

	_, err = d.ListNames(ctx, "folder-1", "INV_")
	assert.Error(t, err)

	f, err := d.Upload(ctx, "folder-1", "INV_20250714_000001_919876543210.pdf", MimePDF, []byte("%PDF-1.3"))
	assert.Error(t, err)
	assert.Empty(t, f.ID)
}
