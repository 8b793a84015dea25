package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// sensitiveKeys contains attribute keys whose values are always masked.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"password":            true,
	"secret":              true,
	"token":               true,
}

// sensitivePatterns match credential-looking values under any key.
//
// Design decision: long hex strings are deliberately absent. Report
// digests are logged as 64 hex characters and must stay readable.
var sensitivePatterns = []*regexp.Regexp{
	// JWT tokens
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),

	// Bearer tokens
	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// Basic auth
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
}

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// Handler wraps an slog.Handler and rewrites attribute values before they
// reach it: the user's home directory prefix becomes "~" and credentials
// are masked.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because it keeps every caller on plain *slog.Logger and works with both
// the text and the JSON handler.
type Handler struct {
	// handler is the underlying slog handler that receives rewritten records.
	handler slog.Handler

	// home is the home directory prefix to shorten. Empty disables shortening.
	home string
}

// NewHandler creates a new Handler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used. The home directory
// is looked up once; if it cannot be determined paths are left as they are.
func NewHandler(handler slog.Handler) *Handler {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return newHandler(handler, home)
}

func newHandler(handler slog.Handler, home string) *Handler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	home = strings.TrimRight(home, string(filepath.Separator))
	return &Handler{handler: handler, home: home}
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's attributes and passes it to the underlying handler.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	rewritten := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.rewriteAttr(a))
		return true
	})
	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewritten := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewritten[i] = h.rewriteAttr(a)
	}
	return &Handler{handler: h.handler.WithAttrs(rewritten), home: h.home}
}

// WithGroup returns a new handler with the given group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{handler: h.handler.WithGroup(name), home: h.home}
}

// rewriteAttr rewrites a single attribute, recursively handling groups.
func (h *Handler) rewriteAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		rewritten := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			rewritten[i] = h.rewriteAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewritten...)}
	}

	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	value := a.Value.String()
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return slog.String(a.Key, MaskValue)
		}
	}
	return slog.String(a.Key, h.shortenPath(value))
}

// shortenPath replaces a leading home directory with "~".
// Only whole path components match, so "/home/al" does not shorten "/home/alice".
func (h *Handler) shortenPath(value string) string {
	if h.home == "" {
		return value
	}
	if value == h.home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(value, h.home+string(filepath.Separator)); ok {
		return "~" + string(filepath.Separator) + rest
	}
	return value
}

// Options configures NewLogger.
type Options struct {
	// Verbose sets the level to Debug instead of Warn.
	Verbose bool

	// JSON selects the JSON handler instead of the text handler.
	JSON bool
}

// NewLogger creates a new slog.Logger writing to w through a Handler.
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or passed
// to components that accept *slog.Logger.
func NewLogger(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{
		Level: level,
	}

	var base slog.Handler
	if opts.JSON {
		base = slog.NewJSONHandler(w, handlerOpts)
	} else {
		base = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(NewHandler(base))
}
