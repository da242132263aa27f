// Package logging builds the slog loggers used by the relink tools.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gookit/color"
)

// Mode controls the handler style used when constructing a logger.
type Mode string

const (
	// ModeCLI renders records as terse, optionally coloured lines.
	ModeCLI Mode = "cli"
	// ModeJSON renders records as JSON.
	ModeJSON Mode = "json"
)

var (
	errUnknownMode  = errors.New("unknown log format")
	errUnknownLevel = errors.New("unknown log level")
)

// ParseMode parses "cli" or "json".
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCLI, "":
		return ModeCLI, nil
	case ModeJSON:
		return ModeJSON, nil
	default:
		return "", fmt.Errorf("%w: %q (want cli or json)", errUnknownMode, s)
	}
}

// ParseLevel parses debug, info, warn/warning and error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q (want debug, info, warning or error)", errUnknownLevel, s)
	}
}

// Options configures New.
type Options struct {
	Mode  Mode
	Level slog.Leveler
	// Color enables coloured level labels in CLI mode.
	Color bool
}

// New constructs a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	if w == nil {
		panic("logging: writer must not be nil")
	}

	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}

	if opts.Mode == ModeJSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(&cliHandler{
		writer: w,
		level:  level,
		color:  opts.Color,
		mu:     new(sync.Mutex),
	})
}

// Ensure returns the provided logger or the process default if nil.
func Ensure(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}

	return slog.Default()
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// ----------------------------------------------------- CLI HANDLER ------------------------------------------------ //

var levelColors = map[slog.Level]color.Color{
	slog.LevelDebug: color.Gray,
	slog.LevelInfo:  color.Cyan,
	slog.LevelWarn:  color.Yellow,
	slog.LevelError: color.Red,
}

type cliHandler struct {
	writer io.Writer
	level  slog.Leveler
	color  bool

	// shared by every handler derived from the same root
	mu     *sync.Mutex
	// attrs holds the WithAttrs attributes, rendered with the groups open
	// when they were added.
	attrs  string
	groups []string
}

func (h *cliHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *cliHandler) Handle(_ context.Context, record slog.Record) error {
	var builder strings.Builder

	builder.WriteString(h.label(record.Level))
	builder.WriteString(" | ")
	builder.WriteString(record.Message)

	builder.WriteString(h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		h.appendAttr(&builder, h.groups, attr)
		return true
	})

	builder.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.writer, builder.String())

	return err
}

func (h *cliHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var builder strings.Builder
	for _, attr := range attrs {
		h.appendAttr(&builder, h.groups, attr)
	}

	out := h.clone()
	out.attrs += builder.String()

	return out
}

func (h *cliHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	out := h.clone()
	out.groups = append(out.groups, name)

	return out
}

func (h *cliHandler) clone() *cliHandler {
	return &cliHandler{
		writer: h.writer,
		level:  h.level,
		color:  h.color,
		mu:     h.mu,
		attrs:  h.attrs,
		groups: append([]string(nil), h.groups...),
	}
}

func (h *cliHandler) label(level slog.Level) string {
	label := fmt.Sprintf("%-5s", strings.ToUpper(level.String()))
	if !h.color {
		return label
	}

	c, ok := levelColors[level]
	if !ok {
		return label
	}

	return c.Sprint(label)
}

func (h *cliHandler) appendAttr(builder *strings.Builder, groups []string, attr slog.Attr) {
	value := attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	if value.Kind() == slog.KindGroup {
		nested := append(append([]string(nil), groups...), attr.Key)
		for _, a := range value.Group() {
			h.appendAttr(builder, nested, a)
		}

		return
	}

	key := attr.Key
	if len(groups) > 0 {
		key = strings.Join(append(append([]string(nil), groups...), key), ".")
	}

	builder.WriteByte(' ')
	builder.WriteString(key)
	builder.WriteByte('=')
	builder.WriteString(formatValue(value))
}

func formatValue(value slog.Value) string {
	var s string

	switch value.Kind() {
	case slog.KindString:
		s = value.String()
	case slog.KindDuration:
		s = value.Duration().String()
	case slog.KindTime:
		s = value.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := value.Any().(error); ok && err != nil {
			s = err.Error()
		} else {
			s = fmt.Sprint(value.Any())
		}
	default:
		s = value.String()
	}

	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}

	return s
}
