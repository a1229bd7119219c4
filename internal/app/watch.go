package app

import (
	"context"
	"path/filepath"
	"strings"

	"go.trai.ch/chtl/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/chtl/internal/engine/filestore"
	"go.trai.ch/zerr"
)

// watchedEntry is the latest run of one entry plus the store it keeps across runs.
type watchedEntry struct {
	entry   string
	store   *filestore.Store
	session *Session
	report  EntryReport
}

// affected reports whether any changed path is part of the entry's last run.
// An entry with failed imports is always rerun, since a change may fix them.
func (w *watchedEntry) affected(paths []domain.CanonicalPath) bool {
	if w.report.Failed() {
		return true
	}
	for _, p := range paths {
		if p == w.report.Entry || w.report.Graph.HasNode(p) {
			return true
		}
	}
	return false
}

// refresh rereads the changed files held in the entry's store and reports whether
// any content differs. A failed last run always counts as changed, since a new file
// may satisfy a missing import.
func (w *watchedEntry) refresh(paths []domain.CanonicalPath) bool {
	changed := w.report.Failed()
	for _, p := range paths {
		if w.store.Refresh(p) {
			changed = true
		}
	}
	return changed
}

// Watch resolves entries, then reruns every entry touched by a file change until
// ctx is done. Changed files are reread into the entry's file store, and an entry
// whose files kept the same content is not rerun.
func (a *App) Watch(ctx context.Context, cfg domain.Config, entries []string, onReport func(EntryReport)) error {
	if len(entries) == 0 {
		return domain.ErrNoEntries
	}

	watched := make([]*watchedEntry, 0, len(entries))
	for _, entry := range entries {
		w := &watchedEntry{entry: entry, store: filestore.New(a.fs)}
		if err := a.rerun(ctx, cfg, w); err != nil {
			return err
		}
		onReport(w.report)
		watched = append(watched, w)
	}

	if err := a.watcher.Start(ctx, watchRoots(cfg)...); err != nil {
		return zerr.Wrap(err, "failed to start watcher")
	}
	defer func() {
		if err := a.watcher.Stop(); err != nil {
			a.logger.Error(err)
		}
	}()

	batches := make(chan []string)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		select {
		case batches <- paths:
		case <-ctx.Done():
		}
	})

	go func() {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-batches:
			a.logger.Debug("files changed, rerunning affected entries")
			for _, w := range watched {
				changed := make([]domain.CanonicalPath, 0, len(paths))
				for _, p := range paths {
					changed = append(changed, w.session.Canon.Normalize(p))
				}
				if !w.affected(changed) || !w.refresh(changed) {
					continue
				}
				if err := a.rerun(ctx, cfg, w); err != nil {
					a.logger.Error(err)
					continue
				}
				onReport(w.report)
			}
		}
	}
}

// rerun starts a fresh session for w over its existing store.
func (a *App) rerun(ctx context.Context, cfg domain.Config, w *watchedEntry) error {
	session, err := a.newSession(cfg, w.store)
	if err != nil {
		return err
	}
	report, err := session.Run(ctx, w.entry)
	if err != nil {
		return err
	}
	w.session = session
	w.report = report
	return nil
}

func watchRoots(cfg domain.Config) []string {
	wd := filepath.FromSlash(cfg.WorkingDir)
	roots := []string{wd}

	root := filepath.FromSlash(cfg.ModuleRoot)
	if !filepath.IsAbs(root) {
		root = filepath.Join(wd, root)
	}
	if rel, err := filepath.Rel(wd, root); err != nil || strings.HasPrefix(rel, "..") {
		roots = append(roots, root)
	}
	return roots
}
