package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// Entry is one captured log record.
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

type capture struct {
	mu      sync.Mutex
	entries []Entry
}

// CaptureHandler records every log call so tests can assert on them.
// Handlers derived with WithAttrs share the same capture buffer.
type CaptureHandler struct {
	c     *capture
	attrs []slog.Attr
	t     *testing.T
}

// NewTestLogger returns a logger writing into a fresh CaptureHandler.
func NewTestLogger(t *testing.T) (*slog.Logger, *CaptureHandler) {
	h := &CaptureHandler{c: &capture{}, t: t}
	return slog.New(h), h
}

// Enabled implements slog.Handler.
func (h *CaptureHandler) Enabled(context.Context, slog.Level) bool { return true }

// Handle implements slog.Handler.
func (h *CaptureHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.c.mu.Lock()
	h.c.entries = append(h.c.entries, Entry{Level: r.Level, Message: r.Message, Attrs: attrs})
	h.c.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &CaptureHandler{c: h.c, attrs: merged, t: h.t}
}

// WithGroup implements slog.Handler. Groups are flattened.
func (h *CaptureHandler) WithGroup(string) slog.Handler { return h }

// Entries returns a copy of everything captured so far.
func (h *CaptureHandler) Entries() []Entry {
	h.c.mu.Lock()
	defer h.c.mu.Unlock()
	out := make([]Entry, len(h.c.entries))
	copy(out, h.c.entries)
	return out
}

// Has reports whether a record at level contains message.
func (h *CaptureHandler) Has(level slog.Level, message string) bool {
	for _, e := range h.Entries() {
		if e.Level == level && strings.Contains(e.Message, message) {
			return true
		}
	}
	return false
}

// HasAttr reports whether any record carries key=value.
func (h *CaptureHandler) HasAttr(key string, value any) bool {
	for _, e := range h.Entries() {
		if v, ok := e.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}

// AssertLogged fails the test if no record at level contains message.
func AssertLogged(t *testing.T, h *CaptureHandler, level slog.Level, message string) {
	t.Helper()
	if !h.Has(level, message) {
		t.Errorf("expected %s log containing %q", level, message)
		for _, e := range h.Entries() {
			t.Logf("  [%s] %s", e.Level, e.Message)
		}
	}
}
