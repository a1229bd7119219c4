package ports

import "time"

// FileSystem is the filesystem collaborator used for path resolution and loading.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Exists reports whether path names an existing file or directory.
	Exists(path string) bool
	// IsDir reports whether path names an existing directory.
	IsDir(path string) bool
	// ReadFile returns the full content of the file at path.
	ReadFile(path string) ([]byte, error)
	// ModTime returns the last modification time of path.
	ModTime(path string) (time.Time, error)
	// ListDirectory returns the entry names of the directory at path.
	ListDirectory(path string) ([]string, error)
	// RealPath resolves symbolic links. It reports false when path does not exist.
	RealPath(path string) (string, bool)
}
