package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyBase holds the state shared by both pretty handlers.
type prettyBase struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	groups     []string
}

func (h *prettyBase) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// prefix qualifies a key with the open groups.
func (h *prettyBase) prefix(key string) string {
	if len(h.groups) == 0 {
		return key
	}

	return strings.Join(h.groups, ".") + "." + key
}

// fields returns the standard fields followed by handler and record attrs.
func (h *prettyBase) fields(r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if s := h.formatTime(r.Time); s != "" {
			out = append(out, slog.String(slog.TimeKey, s))
		}
	}

	out = append(out, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			out = append(out, slog.String(slog.SourceKey,
				fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	out = append(out, slog.String(slog.MessageKey, r.Message))
	out = append(out, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		a.Key = h.prefix(a.Key)
		out = append(out, a)

		return true
	})

	return out
}

func (h *prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	next := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(next, h.attrs)

	for _, a := range attrs {
		a.Key = h.prefix(a.Key)
		next = append(next, a)
	}

	h.attrs = next

	return h
}

func (h prettyBase) withGroup(name string) prettyBase {
	h.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return h
}

// levelColor returns the color used for a level value.
func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed

	case level >= slog.LevelWarn:
		return colorYellow

	case level >= slog.LevelInfo:
		return colorGreen

	default:
		return colorBlue
	}
}

// colorize renders a value with a color chosen by its kind.
func colorize(v slog.Value) string {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return colorCyan + v.String() + colorReset

	case slog.KindInt64:
		return colorYellow + strconv.FormatInt(v.Int64(), 10) + colorReset

	case slog.KindUint64:
		return colorYellow + strconv.FormatUint(v.Uint64(), 10) + colorReset

	case slog.KindFloat64:
		return colorYellow + strconv.FormatFloat(v.Float64(), 'g', -1, 64) + colorReset

	case slog.KindBool:
		if v.Bool() {
			return colorGreen + "true" + colorReset
		}

		return colorRed + "false" + colorReset

	case slog.KindDuration:
		return colorMagenta + v.Duration().String() + colorReset

	case slog.KindTime:
		return colorBlue + v.Time().String() + colorReset

	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, a := range v.Group() {
			parts = append(parts, colorGray+a.Key+colorReset+"="+colorize(a.Value))
		}

		return "{" + strings.Join(parts, " ") + "}"

	default:
		if level, ok := v.Any().(slog.Level); ok {
			name := strings.ToUpper(Level(level).String())

			return levelColor(level) + name + colorReset
		}

		return colorCyan + v.String() + colorReset
	}
}

// prettyTextHandler implements a colorized key=value handler.
type prettyTextHandler struct{ prettyBase }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{prettyBase{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.fields(r) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(colorGray + a.Key + colorReset + "=")
		buf.WriteString(colorize(a.Value))
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler implements an indented, colorized JSON-like handler.
type prettyJSONHandler struct{ prettyBase }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{prettyBase{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{")

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString("\n  " + colorGray + strconv.Quote(a.Key) + colorReset + ": ")
		buf.WriteString(jsonValue(a.Value))
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

// jsonValue renders v as colorized JSON.
func jsonValue(v slog.Value) string {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return colorCyan + strconv.Quote(v.String()) + colorReset

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindBool:
		return colorize(v)

	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, a := range v.Group() {
			parts = append(parts, strconv.Quote(a.Key)+": "+jsonValue(a.Value))
		}

		return "{" + strings.Join(parts, ", ") + "}"

	default:
		if level, ok := v.Any().(slog.Level); ok {
			return levelColor(level) +
				strconv.Quote(strings.ToUpper(Level(level).String())) + colorReset
		}

		data, err := json.Marshal(v.Any())
		if err != nil {
			return colorCyan + strconv.Quote(v.String()) + colorReset
		}

		return colorCyan + string(data) + colorReset
	}
}
