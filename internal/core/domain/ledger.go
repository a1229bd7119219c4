package domain

import (
	"cmp"
	"maps"
	"slices"
	"time"
)

// ImportRecord is one (target, source) import relationship seen during a run.
type ImportRecord struct {
	Target    CanonicalPath
	Source    CanonicalPath
	Spelling  string
	CreatedAt time.Time
	UpdatedAt time.Time
	Resolved  bool
	// Hits counts every time the pair was recorded.
	Hits int
	// CacheHits counts the requests for the pair that were served from the content cache.
	CacheHits int

	seq uint64
}

type importKey struct {
	target CanonicalPath
	source CanonicalPath
}

// ImportLedger tracks which files imported which targets, keyed by (target, source).
// Two indexes, by source and by target, keep per-file queries O(1).
type ImportLedger struct {
	records  map[importKey]*ImportRecord
	bySource map[CanonicalPath][]importKey
	byTarget map[CanonicalPath][]importKey
	now      func() time.Time
	seq      uint64
}

// LedgerOption configures an ImportLedger.
type LedgerOption func(*ImportLedger)

// WithClock replaces the ledger's time source.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *ImportLedger) {
		l.now = now
	}
}

// NewImportLedger creates an empty ledger.
func NewImportLedger(opts ...LedgerOption) *ImportLedger {
	l := &ImportLedger{
		records:  make(map[importKey]*ImportRecord),
		bySource: make(map[CanonicalPath][]importKey),
		byTarget: make(map[CanonicalPath][]importKey),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record inserts the (target, source) pair or refreshes it when already present.
// A refresh bumps Hits and UpdatedAt and replaces the spelling; Resolved is kept.
func (l *ImportLedger) Record(target, source CanonicalPath, spelling string) ImportRecord {
	key := importKey{target: target, source: source}
	now := l.now()

	if rec, ok := l.records[key]; ok {
		rec.Hits++
		rec.UpdatedAt = now
		rec.Spelling = spelling
		return *rec
	}

	l.seq++
	rec := &ImportRecord{
		Target:    target,
		Source:    source,
		Spelling:  spelling,
		CreatedAt: now,
		UpdatedAt: now,
		Hits:      1,
		seq:       l.seq,
	}
	l.records[key] = rec
	l.bySource[source] = append(l.bySource[source], key)
	l.byTarget[target] = append(l.byTarget[target], key)
	return *rec
}

// Lookup returns the record for the pair.
func (l *ImportLedger) Lookup(target, source CanonicalPath) (ImportRecord, bool) {
	rec, ok := l.records[importKey{target: target, source: source}]
	if !ok {
		return ImportRecord{}, false
	}
	return *rec, true
}

// IsImported reports whether source already imported target.
func (l *ImportLedger) IsImported(target, source CanonicalPath) bool {
	_, ok := l.records[importKey{target: target, source: source}]
	return ok
}

// IsImportedAnywhere reports whether any file imported target.
func (l *ImportLedger) IsImportedAnywhere(target CanonicalPath) bool {
	return len(l.byTarget[target]) > 0
}

// FindDuplicates returns every record for target across all source files.
func (l *ImportLedger) FindDuplicates(target CanonicalPath) []ImportRecord {
	return l.collect(l.byTarget[target])
}

// ImportsOf is an alias of FindDuplicates.
func (l *ImportLedger) ImportsOf(target CanonicalPath) []ImportRecord {
	return l.FindDuplicates(target)
}

// ImportsFor returns every record whose source file is source.
func (l *ImportLedger) ImportsFor(source CanonicalPath) []ImportRecord {
	return l.collect(l.bySource[source])
}

func (l *ImportLedger) collect(keys []importKey) []ImportRecord {
	if len(keys) == 0 {
		return nil
	}
	out := make([]ImportRecord, 0, len(keys))
	for _, k := range keys {
		if rec, ok := l.records[k]; ok {
			out = append(out, *rec)
		}
	}
	return out
}

// All returns every record in first-seen order.
func (l *ImportLedger) All() []ImportRecord {
	out := make([]ImportRecord, 0, len(l.records))
	for _, rec := range l.records {
		out = append(out, *rec)
	}
	slices.SortFunc(out, func(a, b ImportRecord) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return out
}

// Count returns the number of distinct (target, source) pairs.
func (l *ImportLedger) Count() int {
	return len(l.records)
}

// TotalHits returns the number of recorded imports, repeats included.
func (l *ImportLedger) TotalHits() int {
	n := 0
	for _, rec := range l.records {
		n += rec.Hits
	}
	return n
}

// UniqueTargets returns the number of distinct imported targets.
func (l *ImportLedger) UniqueTargets() int {
	return len(l.byTarget)
}

// DuplicateCount returns the number of repeated requests for an already recorded pair.
func (l *ImportLedger) DuplicateCount() int {
	n := 0
	for _, rec := range l.records {
		n += rec.Hits - 1
	}
	return n
}

// CacheHits returns the number of requests served from the content cache.
func (l *ImportLedger) CacheHits() int {
	n := 0
	for _, rec := range l.records {
		n += rec.CacheHits
	}
	return n
}

// DuplicateRecords returns the records that were requested more than once, in first-seen order.
func (l *ImportLedger) DuplicateRecords() []ImportRecord {
	var out []ImportRecord
	for _, rec := range l.All() {
		if rec.Hits > 1 {
			out = append(out, rec)
		}
	}
	return out
}

// Frequency aggregates Hits per target.
func (l *ImportLedger) Frequency() map[CanonicalPath]int {
	freq := make(map[CanonicalPath]int, len(l.byTarget))
	for _, rec := range l.records {
		freq[rec.Target] += rec.Hits
	}
	return freq
}

// MostImported returns targets by descending frequency, ties broken by path.
func (l *ImportLedger) MostImported() []CanonicalPath {
	freq := l.Frequency()
	targets := slices.Collect(maps.Keys(freq))
	slices.SortFunc(targets, func(a, b CanonicalPath) int {
		if c := cmp.Compare(freq[b], freq[a]); c != 0 {
			return c
		}
		return ComparePaths(a, b)
	})
	return targets
}

// ImportOrder returns distinct targets in the order they were first recorded.
func (l *ImportLedger) ImportOrder() []CanonicalPath {
	seen := make(map[CanonicalPath]struct{}, len(l.byTarget))
	var out []CanonicalPath
	for _, rec := range l.All() {
		if _, ok := seen[rec.Target]; ok {
			continue
		}
		seen[rec.Target] = struct{}{}
		out = append(out, rec.Target)
	}
	return out
}

// MarkResolved flags the pair as resolved. It reports whether the pair exists.
func (l *ImportLedger) MarkResolved(target, source CanonicalPath) bool {
	rec, ok := l.records[importKey{target: target, source: source}]
	if ok {
		rec.Resolved = true
	}
	return ok
}

// MarkCacheHit counts one cache-served request for the pair.
func (l *ImportLedger) MarkCacheHit(target, source CanonicalPath) bool {
	rec, ok := l.records[importKey{target: target, source: source}]
	if ok {
		rec.CacheHits++
	}
	return ok
}

// Remove deletes the pair and its index entries. It reports whether the pair existed.
func (l *ImportLedger) Remove(target, source CanonicalPath) bool {
	key := importKey{target: target, source: source}
	if _, ok := l.records[key]; !ok {
		return false
	}
	delete(l.records, key)
	l.bySource[source] = dropKey(l.bySource[source], key)
	if len(l.bySource[source]) == 0 {
		delete(l.bySource, source)
	}
	l.byTarget[target] = dropKey(l.byTarget[target], key)
	if len(l.byTarget[target]) == 0 {
		delete(l.byTarget, target)
	}
	return true
}

func dropKey(keys []importKey, key importKey) []importKey {
	return slices.DeleteFunc(keys, func(k importKey) bool { return k == key })
}

// ClearForFile removes every record imported by source and returns how many were removed.
func (l *ImportLedger) ClearForFile(source CanonicalPath) int {
	keys := slices.Clone(l.bySource[source])
	n := 0
	for _, k := range keys {
		if l.Remove(k.target, k.source) {
			n++
		}
	}
	return n
}

// ClearBefore removes every record last updated before t and returns how many were removed.
func (l *ImportLedger) ClearBefore(t time.Time) int {
	var stale []importKey
	for k, rec := range l.records {
		if rec.UpdatedAt.Before(t) {
			stale = append(stale, k)
		}
	}
	for _, k := range stale {
		l.Remove(k.target, k.source)
	}
	return len(stale)
}

// Clear removes every record.
func (l *ImportLedger) Clear() {
	clear(l.records)
	clear(l.bySource)
	clear(l.byTarget)
}

// Clone returns an independent copy of the ledger sharing its clock.
func (l *ImportLedger) Clone() *ImportLedger {
	c := NewImportLedger(WithClock(l.now))
	c.seq = l.seq
	for k, rec := range l.records {
		cp := *rec
		c.records[k] = &cp
	}
	for k, keys := range l.bySource {
		c.bySource[k] = slices.Clone(keys)
	}
	for k, keys := range l.byTarget {
		c.byTarget[k] = slices.Clone(keys)
	}
	return c
}
