package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

var _ slog.Handler = (*Handler)(nil)

// Handler writes one "LEVEL message key=value" line per record.
// Warnings and errors are colored when the output is a color terminal;
// NO_COLOR and non-terminal writers get plain text.
type Handler struct {
	out   *termenv.Output
	mu    *sync.Mutex
	level slog.Leveler
	attrs []string
	group string
}

// NewHandler creates a Handler writing to w at the given level.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	return &Handler{
		out:   termenv.NewOutput(w),
		mu:    &sync.Mutex{},
		level: level,
	}
}

// Enabled reports whether records at level are written.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes r as a single line.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Level.String())
	b.WriteByte(' ')
	b.WriteString(r.Message)
	for _, attr := range h.attrs {
		b.WriteByte(' ')
		b.WriteString(attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		b.WriteByte(' ')
		b.WriteString(formatAttr(h.group, attr))
		return true
	})

	line := h.out.String(b.String())
	switch {
	case r.Level >= slog.LevelError:
		line = line.Foreground(h.out.Color("1"))
	case r.Level >= slog.LevelWarn:
		line = line.Foreground(h.out.Color("3"))
	case r.Level < slog.LevelInfo:
		line = line.Faint()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.WriteString(line.String() + "\n")
	return err
}

// WithAttrs returns a Handler that writes attrs on every line.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]string, len(h.attrs), len(h.attrs)+len(attrs))
	copy(next.attrs, h.attrs)
	for _, attr := range attrs {
		next.attrs = append(next.attrs, formatAttr(h.group, attr))
	}
	return &next
}

// WithGroup returns a Handler that qualifies later attribute keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	next.group = name
	return &next
}

func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	return key + "=" + attr.Value.String()
}
