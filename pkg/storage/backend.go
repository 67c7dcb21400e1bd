package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo holds metadata about a stored file
type FileInfo struct {
	// Path is the absolute path on the backend
	Path string
	// RelativePath is the path relative to the backend root
	RelativePath string
	// Size is the file size in bytes
	Size int64
	// ModTime is the last modification time
	ModTime time.Time
	// IsDir indicates if this is a directory
	IsDir bool
}

// Backend abstracts the mirror destination filesystem.
// Paths are always relative to the backend root.
type Backend interface {
	// Read opens a file for reading
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write creates or overwrites a file with the given content,
	// creating parent directories as needed
	Write(ctx context.Context, path string, data []byte) error

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// Stat returns file metadata
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// List returns all files under path recursively
	List(ctx context.Context, path string) ([]FileInfo, error)

	// Close releases resources
	Close() error
}
