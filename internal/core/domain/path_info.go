package domain

import "time"

// PathInfo is the diagnostic view of one path spelling.
type PathInfo struct {
	Original   string
	Normalized string
	Canonical  CanonicalPath
	FileName   string
	Extension  string
	Directory  string
	IsAbsolute bool
	IsModule   bool
	Exists     bool
}

// CachedFile is one FileStore entry. It is replaced, never mutated, on invalidation.
type CachedFile struct {
	Path    CanonicalPath
	Content []byte
	ModTime time.Time
	Digest  uint64
}
