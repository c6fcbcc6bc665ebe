package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// PostgresDrive keeps folders and file contents in the drive_folder and
// drive_file tables created by the db migrations.
type PostgresDrive struct {
	DB *sql.DB
}

var _ Drive = (*PostgresDrive)(nil)

func NewPostgresDrive(db *sql.DB) *PostgresDrive {
	return &PostgresDrive{DB: db}
}

func (d *PostgresDrive) FindFolder(ctx context.Context, name string) (string, error) {
	var id string
	err := d.DB.QueryRowContext(ctx, `SELECT id FROM drive_folder WHERE name = $1`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find folder %s: %w", name, err)
	}
	return id, nil
}

// CreateFolder returns the existing id when another process created the
// folder first.
func (d *PostgresDrive) CreateFolder(ctx context.Context, name string) (string, error) {
	_, err := d.DB.ExecContext(ctx, `
		INSERT INTO drive_folder (id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
	`, uuid.NewString(), name, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("create folder %s: %w", name, err)
	}
	return d.FindFolder(ctx, name)
}

// ListNames compares the name head literally; LIKE would treat "_" in the
// INV_/QUO_ prefixes as a wildcard.
func (d *PostgresDrive) ListNames(ctx context.Context, folderID, prefix string) ([]string, error) {
	rows, err := d.DB.QueryContext(ctx, `
		SELECT name FROM drive_file
		WHERE folder_id = $1 AND left(name, length($2)) = $2 AND NOT trashed
	`, folderID, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (d *PostgresDrive) Upload(ctx context.Context, folderID, name, mimeType string, content []byte) (File, error) {
	f := File{
		ID:        uuid.NewString(),
		FolderID:  folderID,
		Name:      name,
		Size:      int64(len(content)),
		CreatedAt: time.Now().UTC(),
	}
	_, err := d.DB.ExecContext(ctx, `
		INSERT INTO drive_file (id, folder_id, name, mime_type, content, size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, f.ID, f.FolderID, f.Name, mimeType, content, f.Size, f.CreatedAt)
	if err != nil {
		return File{}, err
	}
	return f, nil
}
