package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{" Info ", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", LevelInfo + 2},
		{"verbose", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LevelInfo + 2, "info+2"},
		{LevelError + 4, "error+4"},
		{LevelTrace - 2, "trace-2"},
		{LevelTrace + 1, "trace+1"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}

	var names []string
	for name := range Levels() {
		names = append(names, name)
	}

	if got := strings.Join(names, ","); got != "trace,debug,info,warn,error" {
		t.Errorf("Levels() = %s", got)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{"yaml", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}

	for name := range Formats() {
		if got := ParseFormat(name).String(); got != name {
			t.Errorf("ParseFormat(%q).String() = %q", name, got)
		}
	}
}

func TestMake_Defaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := Make(&buf)

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", logger.Format(), DefaultFormat)
	}

	if logger.caller != DefaultCaller || logger.pretty != DefaultPretty {
		t.Errorf("caller, pretty = %v, %v", logger.caller, logger.pretty)
	}

	if logger.Output() != &buf {
		t.Error("Output() is not the writer passed to Make")
	}
}

// jsonLogger returns a plain JSON logger writing into buf.
func jsonLogger(buf *bytes.Buffer, opts ...Option) Logger {
	return Make(buf, append([]Option{WithFormat(FormatJSON), WithPretty(false)}, opts...)...)
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON record %q: %v", buf.String(), err)
	}

	return rec
}

func TestLogger_LevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := jsonLogger(&buf, WithLevel(LevelWarn))

	logger.Debug("hidden")
	logger.Info("hidden")

	if buf.Len() > 0 {
		t.Fatalf("records below level were written: %s", buf.String())
	}

	logger.Warn("shown", slog.Int("n", 3))

	rec := decodeRecord(t, &buf)
	if rec["msg"] != "shown" || rec["level"] != "WARN" || rec["n"] != float64(3) {
		t.Errorf("record = %v", rec)
	}
}

func TestLogger_Trace(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := jsonLogger(&buf, WithLevel(LevelTrace))

	if !logger.Enabled(t.Context(), LevelTrace) {
		t.Fatal("Enabled(trace) = false at trace level")
	}

	logger.TraceContext(t.Context(), "step", slog.String("mode", "run"))

	rec := decodeRecord(t, &buf)
	if rec["level"] != "TRACE" || rec["mode"] != "run" {
		t.Errorf("record = %v", rec)
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	t.Parallel()

	var logger Logger

	logger.Info("dropped")
	logger.TraceContext(t.Context(), "dropped")
	logger = logger.With(slog.String("k", "v"))

	if logger.Enabled(t.Context(), LevelError) {
		t.Error("zero Logger reports enabled")
	}

	if logger.Level() != DefaultLevel || logger.Format() != DefaultFormat {
		t.Error("zero Logger does not report defaults")
	}
}

func TestLogger_WithAndWrap(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	base := jsonLogger(&buf)
	scoped := base.With(slog.String("component", "repl"))

	scoped.Info("hello")

	rec := decodeRecord(t, &buf)
	if rec["component"] != "repl" {
		t.Errorf("record = %v, want bound attribute", rec)
	}

	buf.Reset()
	base.Info("plain")

	if strings.Contains(buf.String(), "component") {
		t.Errorf("With modified the parent logger: %s", buf.String())
	}

	buf.Reset()

	quiet := base.Wrap(WithLevel(LevelError))
	quiet.Warn("hidden")
	base.Warn("shown")

	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("Wrap affected the parent logger: %q", buf.String())
	}
}

func TestLogger_Caller(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := jsonLogger(&buf, WithCaller(true))
	logger.Info("where")

	rec := decodeRecord(t, &buf)

	src, ok := rec["source"].(map[string]any)
	if !ok {
		t.Fatalf("record has no source: %v", rec)
	}

	if file, _ := src["file"].(string); !strings.HasSuffix(file, "log_test.go") {
		t.Errorf("source file = %q, want log_test.go", file)
	}
}

func TestLogger_TimeLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		layout  string
		hasTime bool
	}{
		{"", false},
		{"none", false},
		{"RFC3339", true},
		{"kitchen", true},
		{"2006", true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer

		jsonLogger(&buf, WithTimeLayout(tt.layout)).Info("tick")

		rec := decodeRecord(t, &buf)
		if _, ok := rec["time"]; ok != tt.hasTime {
			t.Errorf("layout %q: time present = %v, want %v", tt.layout, ok, tt.hasTime)
		}
	}
}

func TestPrettyText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithPretty(true)).
		With(slog.String("a", "x y"))

	logger.Info("hello",
		slog.Group("g", slog.Int("n", 2), slog.Bool("ok", false)),
		slog.Any("err", errors.New("boom")),
		slog.Any("none", nil),
	)

	want := "level=INFO msg=hello a=x y g.n=2 g.ok=false err=boom none=<nil>\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

type secret string

func (secret) LogValue() slog.Value { return slog.StringValue("***") }

func TestPrettyText_GroupsAndValuers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText))

	grouped := Logger{
		Logger: slog.New(logger.Handler().WithGroup("req").WithAttrs(
			[]slog.Attr{slog.Any("token", secret("hunter2"))},
		)),
		config: logger.config,
	}

	grouped.Warn("denied", slog.Int("code", 403))

	want := "level=WARN msg=denied req.token=*** req.code=403\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestPrettyJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(true), WithLevel(LevelTrace))

	logger.Trace("value",
		slog.Float64("result", math.Inf(1)),
		slog.Group("position", slog.Int("line", 1), slog.Int("column", 4)),
		slog.Bool("verified", true),
	)

	if !strings.Contains(buf.String(), "\n  \"msg\": \"value\"") {
		t.Errorf("output is not indented:\n%s", buf.String())
	}

	rec := decodeRecord(t, &buf)

	for key, want := range map[string]any{
		"level":           "TRACE",
		"msg":             "value",
		"result":          "+Inf",
		"position.line":   float64(1),
		"position.column": float64(4),
		"verified":        true,
	} {
		if rec[key] != want {
			t.Errorf("%s = %#v, want %#v", key, rec[key], want)
		}
	}
}

func TestDefaultLogger(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(jsonLogger(&buf, WithLevel(LevelDebug)))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			rec := decodeRecord(t, &buf)
			if rec["level"] != tt.level || rec["key"] != "value" {
				t.Errorf("record = %v", rec)
			}
		})
	}

	buf.Reset()
	Config(WithLevel(LevelError))
	Warn("hidden")

	if buf.Len() > 0 {
		t.Errorf("Config did not apply level: %s", buf.String())
	}

	buf.Reset()
	With(slog.String("scope", "test")).Error("bound")

	if rec := decodeRecord(t, &buf); rec["scope"] != "test" {
		t.Errorf("record = %v", rec)
	}
}
