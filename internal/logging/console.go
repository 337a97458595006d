package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// runIDWidth is how much of a run id the console prints.
const runIDWidth = 8

// consoleHandler writes one human-readable line per record:
//
//	2024-05-06T07:08:09Z INFO workflow/scan (3f2a9c1b): tracking new file path=/v/a.mp4
//
// The component, phase and run id attributes form the line prefix instead of
// trailing key=value pairs.
type consoleHandler struct {
	out    *lockedWriter
	level  slog.Leveler
	source bool
	labels levelLabels

	scope  scope
	fields []byte
	prefix string
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) write(p []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.w.Write(p)
	return err
}

func newConsoleHandler(w io.Writer, level slog.Leveler, source, colorize bool) *consoleHandler {
	return &consoleHandler{
		out:    &lockedWriter{w: w},
		level:  level,
		source: source,
		labels: newLevelLabels(colorize),
	}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	sc := h.scope
	var attrs []byte
	record.Attrs(func(attr slog.Attr) bool {
		attrs = appendAttr(attrs, &sc, h.prefix, attr)
		return true
	})

	stamp := record.Time
	if stamp.IsZero() {
		stamp = time.Now()
	}

	line := make([]byte, 0, 96+len(h.fields)+len(attrs))
	line = stamp.UTC().AppendFormat(line, time.RFC3339)
	line = append(line, ' ')
	line = append(line, h.labels.pick(record.Level)...)
	line = append(line, ' ')
	if label := sc.label(); label != "" {
		line = append(line, label...)
		line = append(line, ": "...)
	}
	if msg := strings.TrimSpace(record.Message); msg != "" {
		line = append(line, msg...)
	} else {
		line = append(line, "(no message)"...)
	}
	if h.source {
		if src := record.Source(); src != nil {
			line = fmt.Appendf(line, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	line = append(line, h.fields...)
	line = append(line, attrs...)
	line = append(line, '\n')
	return h.out.write(line)
}

// WithAttrs formats attrs once so later records only copy the bytes.
func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.fields = append([]byte(nil), h.fields...)
	for _, attr := range attrs {
		clone.fields = appendAttr(clone.fields, &clone.scope, h.prefix, attr)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// scope holds the attributes that identify where a line came from.
type scope struct {
	component string
	phase     string
	runID     string
}

// capture records top-level identity attributes and reports whether attr was
// one of them.
func (s *scope) capture(attr slog.Attr) bool {
	switch attr.Key {
	case FieldComponent:
		s.component = attr.Value.String()
	case FieldPhase:
		s.phase = attr.Value.String()
	case FieldRunID:
		s.runID = attr.Value.String()
	default:
		return false
	}
	return true
}

func (s scope) label() string {
	var b strings.Builder
	b.WriteString(s.component)
	if s.phase != "" {
		if b.Len() > 0 {
			b.WriteByte('/')
		}
		b.WriteString(s.phase)
	}
	if s.runID != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		id := s.runID
		if len(id) > runIDWidth {
			id = id[:runIDWidth]
		}
		b.WriteString("(" + id + ")")
	}
	return b.String()
}

func appendAttr(dst []byte, sc *scope, prefix string, attr slog.Attr) []byte {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			prefix += attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			dst = appendAttr(dst, sc, prefix, member)
		}
		return dst
	}
	if prefix == "" && sc.capture(attr) {
		return dst
	}
	dst = append(dst, ' ')
	dst = append(dst, prefix...)
	dst = append(dst, attr.Key...)
	dst = append(dst, '=')
	return appendValue(dst, attr.Value)
}

func appendValue(dst []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindString:
		return appendText(dst, v.String())
	case slog.KindTime:
		return v.Time().UTC().AppendFormat(dst, time.RFC3339)
	case slog.KindDuration:
		return append(dst, v.Duration().String()...)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return appendText(dst, err.Error())
		}
		return appendText(dst, fmt.Sprint(v.Any()))
	default:
		return append(dst, v.String()...)
	}
}

// appendText quotes values that would otherwise break key=value parsing.
func appendText(dst []byte, s string) []byte {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.AppendQuote(dst, s)
	}
	return append(dst, s...)
}

type levelLabels struct {
	debug, info, warn, err string
}

func newLevelLabels(colorize bool) levelLabels {
	paint := func(label string, attr color.Attribute) string {
		if !colorize {
			return label
		}
		c := color.New(attr)
		c.EnableColor()
		return c.Sprint(label)
	}
	return levelLabels{
		debug: paint("DEBUG", color.FgHiBlack),
		info:  paint("INFO", color.FgBlue),
		warn:  paint("WARN", color.FgYellow),
		err:   paint("ERROR", color.FgRed),
	}
}

func (l levelLabels) pick(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return l.err
	case level >= slog.LevelWarn:
		return l.warn
	case level >= slog.LevelInfo:
		return l.info
	default:
		return l.debug
	}
}
