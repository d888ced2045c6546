package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const DefaultUploadDir = "./uploaded_pdfs"

// localStorage keeps uploads as files under a single directory, named by key verbatim.
// Concurrent writes to the same key are not coordinated; the last writer wins.
type localStorage struct {
	dir string
}

var _ FileStorage = (*localStorage)(nil)

// NewLocal returns a FileStorage rooted at dir. The directory is created on first write.
func NewLocal(dir string) FileStorage {
	if dir == "" {
		dir = DefaultUploadDir
	}
	return &localStorage{dir: dir}
}

func (l *localStorage) Path(key string) string {
	return filepath.Join(l.dir, key)
}

// Put writes r to the key's file, truncating any previous content.
func (l *localStorage) Put(_ context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return ObjectInfo{}, fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(l.Path(key))
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("write file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return ObjectInfo{}, fmt.Errorf("sync file: %w", err)
	}

	st, err := f.Stat()
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("stat file: %w", err)
	}
	return ObjectInfo{
		Key:          key,
		Size:         n,
		ContentType:  opt.ContentType,
		LastModified: st.ModTime(),
		Metadata:     opt.Metadata,
	}, nil
}

func (l *localStorage) Get(_ context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	f, err := os.Open(l.Path(key))
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("open file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("stat file: %w", err)
	}
	return f, ObjectInfo{Key: key, Size: st.Size(), LastModified: st.ModTime()}, nil
}
