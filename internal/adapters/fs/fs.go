// Package fs provides file system adapters for loading and walking chtl sources.
package fs

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/chtl/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*FileSystem)(nil)

// FileSystem implements ports.FileSystem on the host file system.
// Paths are accepted in slash form and converted with filepath.FromSlash.
type FileSystem struct{}

// NewFileSystem creates a new FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{}
}

// Exists reports whether path names an existing file or directory.
func (f *FileSystem) Exists(path string) bool {
	_, err := os.Stat(filepath.FromSlash(path))
	return err == nil
}

// IsDir reports whether path names an existing directory.
func (f *FileSystem) IsDir(path string) bool {
	info, err := os.Stat(filepath.FromSlash(path))
	return err == nil && info.IsDir()
}

// ReadFile returns the content of the file at path.
func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.FromSlash(path))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read file"), "path", path)
	}
	return data, nil
}

// ModTime returns the modification time of path.
func (f *FileSystem) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(filepath.FromSlash(path))
	if err != nil {
		return time.Time{}, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}
	return info.ModTime(), nil
}

// ListDirectory returns the sorted entry names of the directory at path.
func (f *FileSystem) ListDirectory(path string) ([]string, error) {
	entries, err := os.ReadDir(filepath.FromSlash(path))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to list directory"), "path", path)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}

// RealPath resolves symbolic links in path and returns it in slash form.
func (f *FileSystem) RealPath(path string) (string, bool) {
	resolved, err := filepath.EvalSymlinks(filepath.FromSlash(path))
	if err != nil {
		return "", false
	}
	if abs, err := filepath.Abs(resolved); err == nil {
		resolved = abs
	}
	return filepath.ToSlash(resolved), true
}
