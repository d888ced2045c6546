package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions define optional parameters for storing objects.
// Size should be the exact number of bytes if known, otherwise -1.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is a write-once key/value blob store for uploaded files. Objects are never removed.
type Storage interface {
	// Put stores the reader's content under key, replacing anything already there.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
}

// FileStorage is a Storage whose objects are plain files that other code can open by path.
type FileStorage interface {
	Storage
	// Path returns the filesystem location of key.
	Path(key string) string
}
