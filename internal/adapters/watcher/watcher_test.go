package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chtl/internal/adapters/watcher"
	"go.trai.ch/chtl/internal/core/ports"
	"go.trai.ch/chtl/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestWatcher_ReportsWrites(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	sub := filepath.Join(dir, "ui")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	file := filepath.Join(sub, "button.chtl")
	require.NoError(t, os.WriteFile(file, []byte("button {}"), 0o600))

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := watcher.NewWatcher(log)
	require.NoError(t, w.Start(ctx, dir))
	defer func() { _ = w.Stop() }()
	require.Error(t, w.Start(ctx, dir), "second start must fail")

	require.NoError(t, os.WriteFile(file, []byte("button { color: red; }"), 0o600))

	found := make(chan ports.WatchEvent, 1)
	go func() {
		for ev := range w.Events() {
			if ev.Path == filepath.ToSlash(file) {
				found <- ev
				return
			}
		}
	}()

	select {
	case ev := <-found:
		assert.Contains(t, []ports.WatchOp{ports.OpWrite, ports.OpCreate}, ev.Operation)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for write event")
	}
}

func TestWatcher_StopBeforeStart(t *testing.T) {
	w := watcher.NewWatcher(nil)
	assert.NoError(t, w.Stop())
}

func TestWatcher_RestartAfterStop(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := watcher.NewWatcher(nil)
	require.NoError(t, w.Start(ctx, dir))
	events := w.Events()
	require.NoError(t, w.Stop())

	drained := make(chan struct{})
	go func() {
		for range events {
		}
		close(drained)
	}()

	select {
	case <-drained:
	case <-time.After(5 * time.Second):
		t.Fatal("events did not end after stop")
	}

	require.NoError(t, w.Start(ctx, dir))
	require.NoError(t, w.Stop())
}
