package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. Styles are bound to
// a renderer for the handler's writer, so output to anything other than a
// color terminal is plain text.
type palette struct {
	key, str, num, yes, no, null, other lipgloss.Style
	level                               map[Level]lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		null:  fg("8").Italic(true),
		other: fg("4"),
		level: map[Level]lipgloss.Style{
			LevelTrace: fg("5"),
			LevelDebug: fg("4"),
			LevelInfo:  fg("2"),
			LevelWarn:  fg("3").Bold(true),
			LevelError: fg("1").Bold(true),
		},
	}
}

// levelStyle returns the style of the nearest named level at or below l.
func (p *palette) levelStyle(l Level) lipgloss.Style {
	for _, named := range []Level{LevelError, LevelWarn, LevelInfo, LevelDebug} {
		if l >= named {
			return p.level[named]
		}
	}

	return p.level[LevelTrace]
}

// prettyBase carries the state shared by both pretty handlers: options,
// a write lock shared with all derived handlers, attributes bound by
// WithAttrs, and the current group prefix.
type prettyBase struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	pal    *palette
	prefix string
	attrs  []slog.Attr
}

func newPrettyBase(w io.Writer, opts *slog.HandlerOptions) prettyBase {
	return prettyBase{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
		pal:  newPalette(w),
	}
}

func (b prettyBase) enabled(level slog.Level) bool {
	threshold := slog.LevelInfo
	if b.opts.Level != nil {
		threshold = b.opts.Level.Level()
	}

	return level >= threshold
}

func (b prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	bound := make([]slog.Attr, len(b.attrs), len(b.attrs)+len(attrs))
	copy(bound, b.attrs)

	b.attrs = flatten(bound, b.prefix, attrs)

	return b
}

func (b prettyBase) withGroup(name string) prettyBase {
	if name != "" {
		b.prefix += name + "."
	}

	return b
}

// builtins returns the time, level, source, and message attributes of r
// after ReplaceAttr.
func (b prettyBase) builtins(r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, 4)

	add := func(a slog.Attr) {
		if b.opts.ReplaceAttr != nil {
			a = b.opts.ReplaceAttr(nil, a)
		}

		if !a.Equal(slog.Attr{}) {
			out = append(out, a)
		}
	}

	if !r.Time.IsZero() {
		add(slog.Time(slog.TimeKey, r.Time))
	}

	add(slog.Any(slog.LevelKey, r.Level))

	if b.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			add(slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	add(slog.String(slog.MessageKey, r.Message))

	return out
}

// fields returns every attribute of r, qualified by group, in output order.
func (b prettyBase) fields(r slog.Record) []slog.Attr {
	out := make([]slog.Attr, 0, len(b.attrs)+r.NumAttrs())
	out = append(out, b.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		out = flatten(out, b.prefix, []slog.Attr{a})

		return true
	})

	return out
}

func (b prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.w.Write(buf.Bytes())

	return err
}

// flatten resolves attrs and appends them to dst with keys qualified by
// prefix. Groups are expanded into dotted keys; empty attributes are
// dropped.
func flatten(dst []slog.Attr, prefix string, attrs []slog.Attr) []slog.Attr {
	for _, a := range attrs {
		a.Value = a.Value.Resolve()

		if a.Equal(slog.Attr{}) {
			continue
		}

		if a.Value.Kind() == slog.KindGroup {
			inner := prefix
			if a.Key != "" {
				inner += a.Key + "."
			}

			dst = flatten(dst, inner, a.Value.Group())

			continue
		}

		a.Key = prefix + a.Key
		dst = append(dst, a)
	}

	return dst
}

// prettyTextHandler writes one line of styled key=value pairs per record.
type prettyTextHandler struct {
	prettyBase
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{newPrettyBase(w, opts)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	for _, a := range h.builtins(r) {
		if a.Key == slog.LevelKey {
			h.writeKey(&buf, a.Key)
			buf.WriteString(h.pal.levelStyle(Level(r.Level)).Render(a.Value.String()))

			continue
		}

		h.writeAttr(&buf, a)
	}

	for _, a := range h.fields(r) {
		h.writeAttr(&buf, a)
	}

	return h.write(&buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

func (h *prettyTextHandler) writeKey(buf *bytes.Buffer, key string) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.pal.key.Render(key))
	buf.WriteByte('=')
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, a slog.Attr) {
	h.writeKey(buf, a.Key)

	v := a.Value

	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(h.pal.str.Render(v.String()))

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		buf.WriteString(h.pal.num.Render(v.String()))

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(h.pal.yes.Render("true"))
		} else {
			buf.WriteString(h.pal.no.Render("false"))
		}

	case slog.KindTime:
		buf.WriteString(h.pal.other.Render(v.Time().Format(time.RFC3339)))

	default:
		if v.Any() == nil {
			buf.WriteString(h.pal.null.Render("<nil>"))
		} else {
			buf.WriteString(h.pal.other.Render(v.String()))
		}
	}
}

// prettyJSONHandler writes each record as an indented, styled JSON object.
type prettyJSONHandler struct {
	prettyBase
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{newPrettyBase(w, opts)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteString("{")

	attrs := append(h.builtins(r), h.fields(r)...)

	for i, a := range attrs {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString("\n  ")
		buf.WriteString(h.pal.key.Render(strconv.Quote(a.Key)))
		buf.WriteString(": ")

		if a.Key == slog.LevelKey {
			buf.WriteString(h.pal.levelStyle(Level(r.Level)).Render(jsonText(a.Value)))

			continue
		}

		h.writeValue(&buf, a.Value)
	}

	buf.WriteString("\n}")

	return h.write(&buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

func (h *prettyJSONHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	text := jsonText(v)

	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(h.pal.str.Render(text))

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		buf.WriteString(h.pal.num.Render(text))

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(h.pal.yes.Render(text))
		} else {
			buf.WriteString(h.pal.no.Render(text))
		}

	default:
		if text == "null" {
			buf.WriteString(h.pal.null.Render(text))
		} else {
			buf.WriteString(h.pal.other.Render(text))
		}
	}
}

// jsonText encodes v as JSON. Values encoding/json rejects, such as
// non-finite floats, are encoded as strings.
func jsonText(v slog.Value) string {
	var x any

	switch v.Kind() {
	case slog.KindDuration:
		x = v.Duration().String()
	case slog.KindTime:
		x = v.Time().Format(time.RFC3339Nano)
	default:
		x = v.Any()
	}

	if err, ok := x.(error); ok {
		x = err.Error()
	}

	data, err := json.Marshal(x)
	if err != nil {
		return strconv.Quote(v.String())
	}

	return string(data)
}
