package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
)

// MaxAttrLen is the maximum length of a string attribute before truncation.
// Long enough to keep a useful snippet, short enough that one log line
// stays one terminal line-ish.
const MaxAttrLen = 256

// Ellipsis marks a truncated attribute value.
const Ellipsis = "..."

// CrawlHandler wraps an slog.Handler to keep crawl logs readable and free
// of accidental credentials. It truncates oversized string attributes and
// strips user-info from URL-shaped values before passing records to the
// underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites stay oblivious; they log raw values
type CrawlHandler struct {
	// handler is the underlying slog handler that receives cleaned records.
	handler slog.Handler
}

// NewCrawlHandler creates a CrawlHandler wrapping the given handler.
// If handler is nil, the returned CrawlHandler uses slog.Default().Handler().
func NewCrawlHandler(handler slog.Handler) *CrawlHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &CrawlHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *CrawlHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle cleans the record's attributes and passes it to the underlying
// handler.
func (h *CrawlHandler) Handle(ctx context.Context, r slog.Record) error {
	cleaned := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		cleaned.AddAttrs(h.cleanAttr(a))
		return true
	})

	return h.handler.Handle(ctx, cleaned)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are cleaned before being added.
func (h *CrawlHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cleaned := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		cleaned[i] = h.cleanAttr(a)
	}
	return &CrawlHandler{handler: h.handler.WithAttrs(cleaned)}
}

// WithGroup returns a new handler with the given group name.
func (h *CrawlHandler) WithGroup(name string) slog.Handler {
	return &CrawlHandler{handler: h.handler.WithGroup(name)}
}

// cleanAttr cleans a single attribute, recursively handling groups.
func (h *CrawlHandler) cleanAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		cleaned := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			cleaned[i] = h.cleanAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(cleaned...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	val := a.Value.String()
	if cleaned := stripURLUserInfo(val); cleaned != val {
		val = cleaned
	}
	if len(val) > MaxAttrLen {
		val = val[:MaxAttrLen] + Ellipsis
	}
	if val == a.Value.String() {
		return a
	}
	return slog.String(a.Key, val)
}

// stripURLUserInfo removes the user-info component from URL-shaped
// strings. Non-URL strings are returned unchanged.
func stripURLUserInfo(s string) string {
	if !strings.Contains(s, "://") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil || u.User == nil {
		return s
	}
	u.User = nil
	return u.String()
}

// NewCrawlLogger creates a slog.Logger with crawl-friendly handling.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Info
//
// Returns a *slog.Logger suitable for slog.SetDefault() or for passing
// to components that accept *slog.Logger.
func NewCrawlLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewCrawlHandler(textHandler))
}
