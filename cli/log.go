package cli

import (
	"context"
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/calc/log"
)

// logFormat configures the logger format as a side effect of parsing via
// encoding.TextUnmarshaler, so errors kong reports while parsing the rest
// of the command line already use it.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevelDefault}"  enum:"${logLevelEnum}"  help:"Set log level (${enum})."`
	Format     logFormat `default:"${logFormatDefault}" enum:"${logFormatEnum}" help:"Set log format (${enum})."`
	TimeLayout string    `default:"${logTimeDefault}"                           help:"Set timestamp layout, or 'none'."`
	Caller     bool      `default:"false"                                       help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                        help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelDefault":  log.DefaultLevel.String(),
		"logLevelEnum":     join(log.Levels()),
		"logFormatDefault": log.DefaultFormat.String(),
		"logFormatEnum":    join(log.Formats()),
		"logTimeDefault":   log.DefaultTimeLayout,
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{
		Key:   "log",
		Title: "Logging options",
	}
}

func (f *logConfig) options() []log.Option {
	return []log.Option{
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	}
}

// start applies every logger flag, including those that do not pass through
// a TextUnmarshaler.
func (f *logConfig) start(ctx context.Context) {
	log.Config(f.options()...)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies logger flags found in args before kong begins parsing.
// Flags are recognized in the forms --log-NAME=VALUE and --log-NAME VALUE,
// and boolean flags also as --log-NAME and --no-log-NAME.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			return
		}

		name, negated := strings.CutPrefix(arg, "--no-log-")
		if !negated {
			var ok bool
			if name, ok = strings.CutPrefix(arg, "--log-"); !ok {
				continue
			}
		}

		name, value, assigned := strings.Cut(name, "=")

		// next consumes the following argument as the value of a
		// non-boolean flag.
		next := func() string {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return value
		}

		var opt log.Option

		switch {
		case name == "level" && !negated:
			_ = f.Level.UnmarshalText([]byte(next()))

		case name == "format" && !negated:
			_ = f.Format.UnmarshalText([]byte(next()))

		case name == "time-layout" && !negated:
			f.TimeLayout = next()
			opt = log.WithTimeLayout(f.TimeLayout)

		case name == "pretty":
			if v, ok := scanBool(value, assigned, negated); ok {
				f.Pretty = v
				opt = log.WithPretty(v)
			}

		case name == "caller":
			if v, ok := scanBool(value, assigned, negated); ok {
				f.Caller = v
				opt = log.WithCaller(v)
			}
		}

		if opt != nil {
			log.Config(opt)
		}
	}
}

// scanBool interprets a boolean flag. A bare flag is true and a negated flag
// inverts its value. It reports false if an assigned value is malformed.
func scanBool(value string, assigned, negated bool) (bool, bool) {
	v := true

	if assigned {
		var err error
		if v, err = strconv.ParseBool(value); err != nil {
			return false, false
		}
	}

	return v != negated, true
}

func join(seq iter.Seq[string]) string {
	return strings.Join(slices.Collect(seq), ",")
}
