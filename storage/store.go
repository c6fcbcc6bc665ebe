package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Store resolves folders by name on top of a Drive. Folder ids are created
// on first use and cached until Reset.
type Store struct {
	drive  Drive
	cache  FolderCache
	logger *slog.Logger

	// mu serializes folder resolution so one process never creates the
	// same folder twice.
	mu sync.Mutex
}

func NewStore(drive Drive, cache FolderCache, logger *slog.Logger) *Store {
	if cache == nil {
		cache = NewMemoryFolderCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{drive: drive, cache: cache, logger: logger.With("component", "storage")}
}

// Folder returns the id of the named folder, creating it when absent.
func (s *Store) Folder(ctx context.Context, name string) (string, error) {
	if id, ok, err := s.cache.Get(ctx, name); err != nil {
		s.logger.Warn("folder cache read failed", "folder", name, "error", err)
	} else if ok {
		return id, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok, err := s.cache.Get(ctx, name); err == nil && ok {
		return id, nil
	}

	id, err := s.drive.FindFolder(ctx, name)
	if errors.Is(err, ErrNotFound) {
		id, err = s.drive.CreateFolder(ctx, name)
		if err == nil {
			s.logger.Info("folder created", "folder", name, "id", id)
		}
	}
	if err != nil {
		return "", fmt.Errorf("resolve folder %s: %w", name, err)
	}
	if err := s.cache.Set(ctx, name, id); err != nil {
		s.logger.Warn("folder cache write failed", "folder", name, "error", err)
	}
	return id, nil
}

// ListNames lists non-trashed file names in the named folder that start
// with prefix.
func (s *Store) ListNames(ctx context.Context, folder, prefix string) ([]string, error) {
	id, err := s.Folder(ctx, folder)
	if err != nil {
		return nil, err
	}
	names, err := s.drive.ListNames(ctx, id, prefix)
	if err != nil {
		return nil, fmt.Errorf("list %s/%s*: %w", folder, prefix, err)
	}
	return names, nil
}

// Upload stores a PDF in the named folder. Failures are returned as
// *UploadError.
func (s *Store) Upload(ctx context.Context, folder, name string, content []byte) (File, error) {
	id, err := s.Folder(ctx, folder)
	if err != nil {
		return File{}, ClassifyUpload(err)
	}
	f, err := s.drive.Upload(ctx, id, name, MimePDF, content)
	if err != nil {
		err = ClassifyUpload(err)
		s.logger.Error("upload failed", "folder", folder, "name", name, "error", err)
		return File{}, err
	}
	s.logger.Info("file uploaded", "folder", folder, "name", name, "id", f.ID, "size", f.Size)
	return f, nil
}

// Reset forgets cached folder ids, e.g. after sign-out.
func (s *Store) Reset(ctx context.Context) error {
	return s.cache.Clear(ctx)
}
