// Package filestore caches file content keyed by canonical path.
package filestore

import (
	"bytes"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/chtl/internal/core/ports"
	"go.trai.ch/zerr"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Store is a modification-time aware content cache in front of a ports.FileSystem.
// It is safe for concurrent use so a watcher may invalidate entries from its own goroutine.
type Store struct {
	fs ports.FileSystem

	mu      sync.Mutex
	entries map[domain.CanonicalPath]domain.CachedFile
	reads   int
}

// New creates an empty Store.
func New(fs ports.FileSystem) *Store {
	return &Store{
		fs:      fs,
		entries: make(map[domain.CanonicalPath]domain.CachedFile),
	}
}

// Load returns the content of p.
// A cached entry is returned without reading when its modification time matches the
// file's current one; otherwise the file is read and the entry replaced.
// The returned slice is a copy the caller may modify.
func (s *Store) Load(p domain.CanonicalPath) ([]byte, error) {
	if p.IsZero() {
		return nil, zerr.Wrap(domain.ErrInvalidRequest, "empty path")
	}
	name := p.String()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fs.Exists(name) || s.fs.IsDir(name) {
		return nil, domain.PathError(domain.ErrNotFound, name)
	}

	modTime, err := s.fs.ModTime(name)
	if err != nil {
		return nil, zerr.With(domain.PathError(domain.ErrUnreadable, name), "cause", err.Error())
	}

	if entry, ok := s.entries[p]; ok && entry.ModTime.Equal(modTime) {
		return bytes.Clone(entry.Content), nil
	}

	s.reads++
	data, err := s.fs.ReadFile(name)
	if err != nil {
		return nil, zerr.With(domain.PathError(domain.ErrUnreadable, name), "cause", err.Error())
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(data) == 0 {
		return nil, domain.PathError(domain.ErrInvalidContent, name)
	}

	s.entries[p] = domain.CachedFile{
		Path:    p,
		Content: data,
		ModTime: modTime,
		Digest:  xxhash.Sum64(data),
	}

	return bytes.Clone(data), nil
}

// Peek returns the cached content of p without any I/O.
func (s *Store) Peek(p domain.CanonicalPath) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[p]
	if !ok {
		return nil, false
	}
	return bytes.Clone(entry.Content), true
}

// Entry returns a copy of the cache entry for p.
func (s *Store) Entry(p domain.CanonicalPath) (domain.CachedFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[p]
	if !ok {
		return domain.CachedFile{}, false
	}
	entry.Content = bytes.Clone(entry.Content)
	return entry, true
}

// Digest returns the xxhash of the cached content of p.
func (s *Store) Digest(p domain.CanonicalPath) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[p]
	return entry.Digest, ok
}

// Refresh rereads a cached p and reports whether its content changed.
// Content is compared by digest, so a touch or an identical rewrite is not a change.
// An uncached p counts as changed. A file that disappeared or became unreadable or
// empty loses its entry and counts as changed.
func (s *Store) Refresh(p domain.CanonicalPath) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[p]
	if !ok {
		return true
	}
	name := p.String()

	modTime, err := s.fs.ModTime(name)
	if err != nil {
		delete(s.entries, p)
		return true
	}

	s.reads++
	data, err := s.fs.ReadFile(name)
	if err != nil {
		delete(s.entries, p)
		return true
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(data) == 0 {
		delete(s.entries, p)
		return true
	}

	digest := xxhash.Sum64(data)
	s.entries[p] = domain.CachedFile{
		Path:    p,
		Content: data,
		ModTime: modTime,
		Digest:  digest,
	}
	return digest != entry.Digest
}

// Invalidate drops the entry for p.
func (s *Store) Invalidate(p domain.CanonicalPath) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, p)
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
}

// Size returns the number of cached entries.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Reads returns how many times the store read through to the filesystem.
func (s *Store) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}
