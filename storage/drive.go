// Package storage is the remote drive behind exported documents: one folder
// per document kind, prefix listings for numbering, and PDF uploads.
package storage

import (
	"context"
	"errors"
	"time"
)

const MimePDF = "application/pdf"

var ErrNotFound = errors.New("storage: not found")

// File describes an uploaded document.
type File struct {
	ID        string    `json:"id" bson:"_id"`
	FolderID  string    `json:"folder_id" bson:"folderId"`
	Name      string    `json:"name" bson:"name"`
	Size      int64     `json:"size" bson:"size"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}

// Drive is a flat store of named folders holding named files.
//
// FindFolder returns ErrNotFound when no folder has the name. ListNames
// returns the names of non-trashed files in the folder starting with prefix,
// in no particular order.
type Drive interface {
	FindFolder(ctx context.Context, name string) (string, error)
	CreateFolder(ctx context.Context, name string) (string, error)
	ListNames(ctx context.Context, folderID, prefix string) ([]string, error)
	Upload(ctx context.Context, folderID, name, mimeType string, content []byte) (File, error)
}
