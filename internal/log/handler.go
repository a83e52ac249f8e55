package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// textKeys contains attribute keys whose values carry recognized screen
// text. These are truncated rather than masked: a short excerpt is useful
// for debugging, the full capture is not worth the exposure.
var textKeys = map[string]bool{
	"text":      true,
	"ocr_text":  true,
	"clipboard": true,
}

// sensitivePatterns contains regex patterns that indicate a value is a
// credential rather than ordinary screen text. Values matching these
// patterns are masked entirely, regardless of key name. Screens routinely
// show tokens and keys, and OCR faithfully reproduces them.
var sensitivePatterns = []*regexp.Regexp{
	// JWT tokens
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),

	// Bearer / Basic auth headers
	regexp.MustCompile(`(?i)\b(bearer|basic)\s+[A-Za-z0-9+/=_-]{8,}`),

	// AWS access keys
	regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`),

	// Private key markers
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
}

// sensitiveKeywords are attribute-key substrings that indicate the value
// is a credential independent of its shape.
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "credential", "api_key",
}

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// MaxTextAttrLen is the maximum rune length of a text attribute before it
// is truncated.
const MaxTextAttrLen = 120

// SanitizingHandler wraps an slog.Handler to keep recognized screen text
// out of logs. It truncates text-carrying attributes and masks values that
// look like credentials before passing records to the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Callers throughout the codebase can log attempt details without
//     each call site deciding what is safe to include
type SanitizingHandler struct {
	// handler is the underlying slog handler that receives sanitized records.
	handler slog.Handler
}

// NewSanitizingHandler creates a SanitizingHandler wrapping the given handler.
// If handler is nil, the returned handler uses slog.Default().Handler().
func NewSanitizingHandler(handler slog.Handler) *SanitizingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SanitizingHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *SanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it to the underlying handler.
func (h *SanitizingHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are sanitized before being added.
func (h *SanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SanitizingHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SanitizingHandler) WithGroup(name string) slog.Handler {
	return &SanitizingHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *SanitizingHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}

	keyLower := strings.ToLower(a.Key)
	value := a.Value.String()

	if containsSensitiveKeyword(keyLower) || isSensitiveValue(value) {
		return slog.String(a.Key, MaskValue)
	}

	if textKeys[keyLower] {
		return slog.String(a.Key, truncate(value, MaxTextAttrLen))
	}

	return a
}

// containsSensitiveKeyword checks if the key contains credential keywords.
func containsSensitiveKeyword(key string) bool {
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// isSensitiveValue checks if a value matches credential patterns.
func isSensitiveValue(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// truncate shortens s to at most n runes, marking the cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…(truncated)"
}

// NewLogger creates a new slog.Logger with sanitized text output.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewSanitizingHandler(textHandler))
}

// NewJSONLogger creates a new slog.Logger with sanitized JSON output.
// Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	return slog.New(NewSanitizingHandler(jsonHandler))
}
