package logger_test

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/chtl/internal/adapters/logger"
	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/zerr"
)

// captureStderr captures output written to os.Stderr during the execution of fn.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	original := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	defer func() { os.Stderr = original }()

	done := make(chan string, 1)
	go func() {
		buf, _ := io.ReadAll(r)
		done <- string(buf)
	}()

	fn()

	require.NoError(t, w.Close())
	output := <-done
	require.NoError(t, r.Close())
	return output
}

func TestLogger_WritesToStderr(t *testing.T) {
	output := captureStderr(t, func() {
		// Created inside the capture so it binds the redirected stderr.
		logger.New().Info("resolving imports")
	})

	assert.Contains(t, output, "resolving imports")
	assert.Contains(t, output, "INFO")
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(*logger.Logger)
		level string
		text  string
	}{
		{"warn", func(l *logger.Logger) { l.Warn("duplicate import") }, "WARN", "duplicate import"},
		{"error", func(l *logger.Logger) { l.Error(os.ErrPermission) }, "ERROR", "permission denied"},
		{"error with sentinel", func(l *logger.Logger) {
			l.Error(zerr.With(domain.ErrNotFound, "path", "/x.chtl"))
		}, "ERROR", "import target not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			lg := logger.New()
			lg.SetOutput(&buf)

			tt.log(lg)

			assert.Contains(t, buf.String(), tt.level)
			assert.Contains(t, buf.String(), tt.text)
		})
	}
}

func TestLogger_DebugRequiresVerbose(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)

	lg.Debug("hidden")
	assert.Empty(t, buf.String())

	lg.SetVerbose(true)
	lg.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "DEBUG")

	buf.Reset()
	lg.SetLevel(slog.LevelError)
	lg.Warn("suppressed")
	assert.Empty(t, buf.String())
}
