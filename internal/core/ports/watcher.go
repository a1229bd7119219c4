package ports

import (
	"context"
	"iter"
)

// WatchOp is the kind of change reported for a watched file.
type WatchOp uint8

const (
	// OpCreate reports a new file or directory.
	OpCreate WatchOp = iota
	// OpWrite reports modified file content.
	OpWrite
	// OpRemove reports a deleted file or directory.
	OpRemove
	// OpRename reports a file or directory moved away from Path.
	OpRename
)

// WatchEvent is one change below a watched source root.
type WatchEvent struct {
	// Path is the absolute, slash-separated path that changed.
	Path      string
	Operation WatchOp
}

// Watcher reports changes to source and module files so cached contents can be evicted.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start watches every directory below each root.
	Start(ctx context.Context, roots ...string) error
	// Stop releases the watcher. It is safe to call before Start.
	Stop() error
	// Events yields changes until the watcher stops or the Start context is done.
	Events() iter.Seq[WatchEvent]
}
