package log

import (
	"io"
	"iter"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Level represents the severity of a log message.
type Level slog.Level

// Log levels. Trace sits below slog's Debug and is used for per-token and
// per-node diagnostics.
const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

var levelName = map[Level]string{
	LevelTrace: "trace",
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

// String returns the lowercase level name. Levels between the named ones
// are rendered relative to the nearest lower name, e.g. "info+2".
func (l Level) String() string {
	if name, ok := levelName[l]; ok {
		return name
	}

	base := LevelTrace
	for _, named := range []Level{LevelError, LevelWarn, LevelInfo, LevelDebug} {
		if l > named {
			base = named

			break
		}
	}

	delta := int(l) - int(base)
	if delta >= 0 {
		return levelName[base] + "+" + strconv.Itoa(delta)
	}

	return levelName[base] + strconv.Itoa(delta)
}

// Levels returns an iterator over the names of all defined log levels,
// most verbose first.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, level := range []Level{
			LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError,
		} {
			if !yield(level.String()) {
				return
			}
		}
	}
}

// ParseLevel parses a level name, case-insensitively. Besides "trace", any
// string accepted by [slog.Level.UnmarshalText] is valid, such as "warn" or
// "info+2". Unrecognized strings yield [DefaultLevel].
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)

	if strings.EqualFold(s, levelName[LevelTrace]) {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format represents the output format for log messages.
type Format int

// Log formats.
const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatText

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
}

// Formats returns an iterator over the names of all defined log formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range []Format{FormatText, FormatJSON} {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat parses a format name, case-insensitively. Unrecognized
// strings yield [DefaultFormat].
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	default:
		return DefaultFormat
	}
}

// DefaultTimeLayout is the timestamp layout used when none is configured.
const DefaultTimeLayout = "none"

// DefaultCaller is the default setting for including caller information.
const DefaultCaller = false

// DefaultPretty is the default setting for styled log output.
const DefaultPretty = true

// config holds the configuration of a Logger. It is copied by value, so a
// Logger never observes changes made to another Logger's config.
type config struct {
	output     io.Writer
	timeLayout string
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

func defaultConfig(w io.Writer) config {
	if w == nil {
		w = io.Discard
	}

	return config{
		output:     w,
		timeLayout: DefaultTimeLayout,
		level:      DefaultLevel,
		format:     DefaultFormat,
		caller:     DefaultCaller,
		pretty:     DefaultPretty,
	}
}

// Option modifies the configuration of a Logger.
type Option func(*config)

func (c config) with(opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

// WithOutput sets the writer receiving log records. A nil writer discards
// all output.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	}
}

// WithLevel sets the minimum level of emitted records.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return func(c *config) { c.format = format }
}

// WithTimeLayout sets the timestamp layout. The layout may name one of the
// [time] package layouts ("RFC3339", "Kitchen", "StampMilli", ...) in any
// case, or be a literal layout string. An empty layout or "none" omits
// timestamps.
func WithTimeLayout(layout string) Option {
	return func(c *config) { c.timeLayout = layout }
}

// WithCaller controls whether records include the calling source location.
func WithCaller(enable bool) Option {
	return func(c *config) { c.caller = enable }
}

// WithPretty controls whether records are styled for terminals.
func WithPretty(enable bool) Option {
	return func(c *config) { c.pretty = enable }
}

// WithStderr is shorthand for WithOutput(os.Stderr).
func WithStderr() Option {
	return WithOutput(os.Stderr)
}

var namedLayout = map[string]string{
	"none":        "",
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"datetime":    time.DateTime,
	"timeonly":    time.TimeOnly,
	"kitchen":     time.Kitchen,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"stampmicro":  time.StampMicro,
	"stampnano":   time.StampNano,
}

// formatTime returns the configured timestamp formatter, or nil if
// timestamps are disabled.
func (c config) formatTime() func(time.Time) string {
	layout := strings.TrimSpace(c.timeLayout)

	if std, ok := namedLayout[strings.ToLower(layout)]; ok {
		layout = std
	}

	if layout == "" {
		return nil
	}

	return func(t time.Time) string { return t.Format(layout) }
}

// handler builds the slog.Handler described by c.
func (c config) handler() slog.Handler {
	formatTime := c.formatTime()

	opts := &slog.HandlerOptions{
		AddSource: c.caller,
		Level:     slog.Level(c.level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}

			switch a.Key {
			case slog.TimeKey:
				if formatTime == nil {
					return slog.Attr{}
				}

				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(formatTime(t))
				}

			case slog.LevelKey:
				if level, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(strings.ToUpper(Level(level).String()))
				}
			}

			return a
		},
	}

	switch {
	case c.format == FormatJSON && c.pretty:
		return newPrettyJSONHandler(c.output, opts)
	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)
	case c.pretty:
		return newPrettyTextHandler(c.output, opts)
	default:
		return slog.NewTextHandler(c.output, opts)
	}
}
