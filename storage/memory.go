package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryFile struct {
	File
	content []byte
	trashed bool
}

// MemoryDrive keeps everything in process memory. Fail makes every call
// return the given error until cleared.
type MemoryDrive struct {
	mu      sync.Mutex
	folders map[string]string
	files   map[string][]*memoryFile
	fail    error
	now     func() time.Time
}

func NewMemoryDrive() *MemoryDrive {
	return &MemoryDrive{
		folders: make(map[string]string),
		files:   make(map[string][]*memoryFile),
		now:     time.Now,
	}
}

func (d *MemoryDrive) Fail(err error) {
	d.mu.Lock()
	d.fail = err
	d.mu.Unlock()
}

func (d *MemoryDrive) FindFolder(_ context.Context, name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail != nil {
		return "", d.fail
	}
	id, ok := d.folders[name]
	if !ok {
		return "", ErrNotFound
	}
	return id, nil
}

func (d *MemoryDrive) CreateFolder(_ context.Context, name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail != nil {
		return "", d.fail
	}
	id := uuid.NewString()
	d.folders[name] = id
	return id, nil
}

func (d *MemoryDrive) ListNames(_ context.Context, folderID, prefix string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail != nil {
		return nil, d.fail
	}
	var names []string
	for _, f := range d.files[folderID] {
		if !f.trashed && strings.HasPrefix(f.Name, prefix) {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (d *MemoryDrive) Upload(_ context.Context, folderID, name, _ string, content []byte) (File, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail != nil {
		return File{}, d.fail
	}
	f := &memoryFile{
		File: File{
			ID:        uuid.NewString(),
			FolderID:  folderID,
			Name:      name,
			Size:      int64(len(content)),
			CreatedAt: d.now().UTC(),
		},
		content: append([]byte(nil), content...),
	}
	d.files[folderID] = append(d.files[folderID], f)
	return f.File, nil
}

// Put adds a file directly to a folder by folder name, creating the folder.
func (d *MemoryDrive) Put(folder, name string, content []byte) {
	d.mu.Lock()
	id, ok := d.folders[folder]
	if !ok {
		id = uuid.NewString()
		d.folders[folder] = id
	}
	d.mu.Unlock()
	_, _ = d.Upload(context.Background(), id, name, MimePDF, content)
}

// Trash marks every file with the name in the folder as trashed.
func (d *MemoryDrive) Trash(folder, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, f := range d.files[d.folders[folder]] {
		if f.Name == name {
			f.trashed = true
		}
	}
}

// Content returns the bytes of the newest file with the name in the folder.
func (d *MemoryDrive) Content(folder, name string) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	files := d.files[d.folders[folder]]
	for i := len(files) - 1; i >= 0; i-- {
		if files[i].Name == name {
			return files[i].content, true
		}
	}
	return nil, false
}
