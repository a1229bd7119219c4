package app_test

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"testing/synctest"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chtl/internal/adapters/catalog"
	"go.trai.ch/chtl/internal/adapters/extractor"
	"go.trai.ch/chtl/internal/adapters/fs"
	"go.trai.ch/chtl/internal/adapters/graphviz"
	"go.trai.ch/chtl/internal/adapters/metrics"
	"go.trai.ch/chtl/internal/adapters/telemetry"
	"go.trai.ch/chtl/internal/adapters/watcher"
	"go.trai.ch/chtl/internal/app"
	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/chtl/internal/core/ports"
	"go.trai.ch/chtl/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func setupProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	for name, content := range files {
		writeFile(t, filepath.Join(dir, filepath.FromSlash(name)), content)
	}
	return dir
}

func newApp(t *testing.T, w ports.Watcher) (*app.App, *metrics.Collector) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	if w == nil {
		w = mocks.NewMockWatcher(ctrl)
	}

	collector := metrics.NewCollector()
	a := app.New(
		log,
		fs.NewFileSystem(),
		catalog.NewFactory(fs.NewWalker()),
		extractor.New(),
		telemetry.NewNoOpTracer(),
		w,
		collector,
		graphviz.NewRenderer("test"),
	)
	return a, collector
}

func TestApp_ResolveEntries(t *testing.T) {
	dir := setupProject(t, map[string]string{
		"index.chtl":        "[Import] @Chtl from ./layout.chtl\n[Import] @Style from ./theme.css",
		"about.chtl":        "[Import] @Chtl from ./layout.chtl\n[Import] @Chtl from ./missing.chtl",
		"layout.chtl":       "[Import] @Style from ./theme.css",
		"theme.css":         "body {}",
		"module/button.css": ".btn {}",
	})
	a, collector := newApp(t, nil)
	cfg := domain.DefaultConfig(dir)

	reports, err := a.ResolveEntries(context.Background(), cfg, []string{
		filepath.Join(dir, "index.chtl"),
		filepath.Join(dir, "about.chtl"),
	})
	require.NoError(t, err)
	require.Len(t, reports, 2)

	index, about := reports[0], reports[1]
	assert.Equal(t, filepath.ToSlash(dir)+"/index.chtl", index.Entry.String())
	assert.NotEqual(t, index.RunID, about.RunID)

	assert.False(t, index.Failed())
	assert.Len(t, index.Outcomes, 2)
	assert.Equal(t, 2, index.Statistics.UniqueTargets)
	assert.True(t, index.Graph.HasEdge(index.Entry, domain.NewCanonicalPath(filepath.ToSlash(dir)+"/layout.chtl")))
	assert.Contains(t, index.DOT, "layout.chtl")

	assert.True(t, about.Failed())
	var kinds []domain.ErrorKind
	for _, o := range about.Outcomes {
		kinds = append(kinds, o.Kind)
	}
	assert.Contains(t, kinds, domain.KindNotFound)

	assert.Equal(t, 2, testutil.CollectAndCount(collector, "chtl_imports_total"))
}

func TestApp_ResolveEntries_NoEntries(t *testing.T) {
	a, _ := newApp(t, nil)

	_, err := a.ResolveEntries(context.Background(), domain.DefaultConfig(t.TempDir()), nil)
	assert.ErrorIs(t, err, domain.ErrNoEntries)
}

func TestApp_ResolveEntries_MissingEntry(t *testing.T) {
	dir := setupProject(t, nil)
	a, _ := newApp(t, nil)

	_, err := a.ResolveEntries(context.Background(), domain.DefaultConfig(dir), []string{filepath.Join(dir, "nope.chtl")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApp_ValidateEntry(t *testing.T) {
	dir := setupProject(t, map[string]string{
		"ok.chtl":   "[Import] @Style from ./theme.css",
		"self.chtl": "[Import] @Chtl from ./self.chtl",
		"theme.css": "",
	})
	a, _ := newApp(t, nil)
	cfg := domain.DefaultConfig(dir)

	valid, err := a.ValidateEntry(context.Background(), cfg, filepath.Join(dir, "ok.chtl"))
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = a.ValidateEntry(context.Background(), cfg, filepath.Join(dir, "self.chtl"))
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestApp_ResolveEntries_DottedFileNames(t *testing.T) {
	dir := setupProject(t, map[string]string{
		"index.chtl":    "[Import] @Style from theme.min.css\n[Import] @Chtl from notes.txt",
		"theme.min.css": "body {}",
		"notes.txt":     "todo",
	})
	a, _ := newApp(t, nil)

	reports, err := a.ResolveEntries(context.Background(), domain.DefaultConfig(dir), []string{filepath.Join(dir, "index.chtl")})
	require.NoError(t, err)
	require.Len(t, reports, 1)

	r := reports[0]
	assert.False(t, r.Failed(), r.Errors)
	root := filepath.ToSlash(dir)
	assert.True(t, r.Graph.HasEdge(r.Entry, domain.NewCanonicalPath(root+"/theme.min.css")))
	assert.True(t, r.Graph.HasEdge(r.Entry, domain.NewCanonicalPath(root+"/notes.txt")))
}

func TestApp_NewSession_ModuleRoot(t *testing.T) {
	dir := setupProject(t, map[string]string{
		"lib/ui/button.chtl": "",
	})
	a, _ := newApp(t, nil)
	cfg := domain.DefaultConfig(dir)
	cfg.ModuleRoot = "lib"

	session, err := a.NewSession(cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)

	got := session.Canon.ResolveFrom("ui.button", domain.NewCanonicalPath(filepath.ToSlash(dir)+"/index.chtl"))
	assert.Equal(t, filepath.ToSlash(dir)+"/lib/ui/button.chtl", got.String())
}

func TestApp_Watch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		dir := setupProject(t, map[string]string{
			"main.chtl":  "[Import] @Chtl from ./part.chtl",
			"part.chtl":  "div {}",
			"extra.chtl": "span {}",
		})
		part := filepath.Join(dir, "part.chtl")

		ctrl := gomock.NewController(t)
		w := mocks.NewMockWatcher(ctrl)
		w.EXPECT().Start(gomock.Any(), gomock.Any()).Return(nil)
		w.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
			writeFile(t, part, "[Import] @Chtl from ./extra.chtl")
			yield(ports.WatchEvent{Path: filepath.ToSlash(part), Operation: ports.OpWrite})
		}))
		w.EXPECT().Stop().Return(nil)

		a, _ := newApp(t, w)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var reports []app.EntryReport
		err := a.Watch(ctx, domain.DefaultConfig(dir), []string{filepath.Join(dir, "main.chtl")}, func(r app.EntryReport) {
			reports = append(reports, r)
			if len(reports) == 2 {
				cancel()
			}
		})
		require.NoError(t, err)
		require.Len(t, reports, 2)

		extra := domain.NewCanonicalPath(filepath.ToSlash(dir) + "/extra.chtl")
		assert.False(t, reports[0].Graph.HasNode(extra))
		assert.True(t, reports[1].Graph.HasNode(extra))
		assert.NotEqual(t, reports[0].RunID, reports[1].RunID)
	})
}

func TestApp_Watch_SkipsUnchangedContent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		dir := setupProject(t, map[string]string{
			"main.chtl":  "[Import] @Chtl from ./part.chtl",
			"part.chtl":  "div {}",
			"extra.chtl": "span {}",
		})
		part := filepath.Join(dir, "part.chtl")
		event := ports.WatchEvent{Path: filepath.ToSlash(part), Operation: ports.OpWrite}

		ctrl := gomock.NewController(t)
		w := mocks.NewMockWatcher(ctrl)
		w.EXPECT().Start(gomock.Any(), gomock.Any()).Return(nil)
		w.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
			// Rewriting identical content produces an event but no rerun.
			writeFile(t, part, "div {}")
			if !yield(event) {
				return
			}
			time.Sleep(2 * watcher.DefaultDebounceWindow)

			writeFile(t, part, "[Import] @Chtl from ./extra.chtl")
			yield(event)
		}))
		w.EXPECT().Stop().Return(nil)

		a, _ := newApp(t, w)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var reports []app.EntryReport
		err := a.Watch(ctx, domain.DefaultConfig(dir), []string{filepath.Join(dir, "main.chtl")}, func(r app.EntryReport) {
			reports = append(reports, r)
			if len(reports) == 2 {
				cancel()
			}
		})
		require.NoError(t, err)
		require.Len(t, reports, 2)

		extra := domain.NewCanonicalPath(filepath.ToSlash(dir) + "/extra.chtl")
		assert.True(t, reports[1].Graph.HasNode(extra))
	})
}

func TestApp_Watch_NoEntries(t *testing.T) {
	a, _ := newApp(t, nil)
	err := a.Watch(context.Background(), domain.DefaultConfig(t.TempDir()), nil, func(app.EntryReport) {})
	assert.ErrorIs(t, err, domain.ErrNoEntries)
}
