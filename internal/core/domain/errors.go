package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrInvalidRequest is returned when an import description yields no usable path.
	ErrInvalidRequest = zerr.New("invalid import request")

	// ErrNotFound is returned when an import target does not exist.
	ErrNotFound = zerr.New("import target not found")

	// ErrUnreadable is returned when an import target exists but cannot be read.
	ErrUnreadable = zerr.New("import target unreadable")

	// ErrInvalidContent is returned when an import target was read but its content is unusable.
	ErrInvalidContent = zerr.New("import target has invalid content")

	// ErrCircularDependency is returned when an import would close a cycle in the dependency graph.
	ErrCircularDependency = zerr.New("circular dependency detected")

	// ErrInvalidConfig is returned when chtl.yaml fails validation.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrUnsupportedFormat is returned when an output format is not recognized.
	ErrUnsupportedFormat = zerr.New("unsupported output format")

	// ErrNoEntries is returned when a compilation run is started without entry files.
	ErrNoEntries = zerr.New("no entry files specified")

	// ErrImportsFailed is returned when at least one import of a run did not resolve.
	ErrImportsFailed = zerr.New("one or more imports failed")

	// ErrInvalidChain is returned when an entry's imports would form a cycle.
	ErrInvalidChain = zerr.New("import chain is circular")
)

// ErrorKind classifies a failed import.
type ErrorKind uint8

const (
	// KindNone marks a successful import.
	KindNone ErrorKind = iota
	// KindInvalidRequest marks an import description that yielded no usable path.
	KindInvalidRequest
	// KindNotFound marks a target that does not exist.
	KindNotFound
	// KindUnreadable marks a target that exists but could not be read.
	KindUnreadable
	// KindInvalidContent marks a target whose content is unusable.
	KindInvalidContent
	// KindCircularDependency marks an import that would close a cycle.
	KindCircularDependency
)

var kindNames = [...]string{
	KindNone:               "none",
	KindInvalidRequest:     "invalid-request",
	KindNotFound:           "not-found",
	KindUnreadable:         "unreadable",
	KindInvalidContent:     "invalid-content",
	KindCircularDependency: "circular-dependency",
}

// String returns the kebab-case name of the kind.
func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Sentinel returns the sentinel error for the kind, or nil for KindNone.
func (k ErrorKind) Sentinel() error {
	switch k {
	case KindInvalidRequest:
		return ErrInvalidRequest
	case KindNotFound:
		return ErrNotFound
	case KindUnreadable:
		return ErrUnreadable
	case KindInvalidContent:
		return ErrInvalidContent
	case KindCircularDependency:
		return ErrCircularDependency
	default:
		return nil
	}
}

// KindOf recovers the ErrorKind carried by err.
// Errors that match none of the import sentinels are reported as KindUnreadable.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalidRequest
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidContent):
		return KindInvalidContent
	case errors.Is(err, ErrCircularDependency):
		return KindCircularDependency
	default:
		return KindUnreadable
	}
}

// PathError attaches path metadata to a sentinel while keeping it matchable with errors.Is.
func PathError(sentinel error, path string) error {
	return zerr.With(zerr.Wrap(sentinel, ""), "path", path)
}

// CycleError builds ErrCircularDependency carrying the rendered chain as "cycle" metadata.
func CycleError(chain []CanonicalPath) error {
	return zerr.With(zerr.Wrap(ErrCircularDependency, ""), "cycle", JoinPaths(chain))
}
