package domain

import (
	"path"
	"slices"
	"strings"
	"unique"
)

// CanonicalPath is the normalized identity of a file.
// Two spellings that refer to the same file produce equal CanonicalPath values,
// so the type is safe to use as a map key. The zero value means "no path".
type CanonicalPath struct {
	h unique.Handle[string]
}

// NewCanonicalPath wraps an already normalized path string.
// It is reserved for the canonicalizer and for tests; everything else obtains
// paths through canonical.Canonicalizer.
func NewCanonicalPath(s string) CanonicalPath {
	if s == "" {
		return CanonicalPath{}
	}
	return CanonicalPath{h: unique.Make(s)}
}

// String returns the underlying path string.
func (p CanonicalPath) String() string {
	var zero unique.Handle[string]
	if p.h == zero {
		return ""
	}
	return p.h.Value()
}

// IsZero reports whether p is the "no path" value.
func (p CanonicalPath) IsZero() bool {
	var zero unique.Handle[string]
	return p.h == zero
}

// Dir returns the directory containing the file.
func (p CanonicalPath) Dir() string {
	if p.IsZero() {
		return ""
	}
	return path.Dir(p.String())
}

// Base returns the file name.
func (p CanonicalPath) Base() string {
	if p.IsZero() {
		return ""
	}
	return path.Base(p.String())
}

// Ext returns the file extension including the leading dot.
func (p CanonicalPath) Ext() string {
	return path.Ext(p.String())
}

// MarshalText implements encoding.TextMarshaler.
func (p CanonicalPath) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *CanonicalPath) UnmarshalText(text []byte) error {
	*p = NewCanonicalPath(string(text))
	return nil
}

// ComparePaths orders paths by their string form.
func ComparePaths(a, b CanonicalPath) int {
	return strings.Compare(a.String(), b.String())
}

// SortPaths sorts paths in place by their string form.
func SortPaths(paths []CanonicalPath) {
	slices.SortFunc(paths, ComparePaths)
}

// JoinPaths renders a path sequence such as a cycle chain as "a -> b -> a".
func JoinPaths(paths []CanonicalPath) string {
	parts := make([]string, len(paths))
	for i, p := range paths {
		parts[i] = p.String()
	}
	return strings.Join(parts, " -> ")
}
