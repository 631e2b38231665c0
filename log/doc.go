// Package log provides leveled structured logging built on [log/slog].
//
// A [Logger] is configured once with functional options and is immutable
// afterward, so it can be shared freely between goroutines. The zero
// Logger discards everything.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339"),
//	)
//	logger.Info("evaluated", slog.Float64("result", 7))
//
// # Levels
//
// [LevelTrace] extends the slog levels below Debug. Trace records carry the
// step-by-step decisions of the expression pipeline and are only useful
// when diagnosing the tree builder.
//
// # Pretty Output
//
// With [WithPretty] (the default), records are rendered by handlers that
// style keys, values, and levels with lipgloss. Styles follow the color
// profile of the output writer, so redirected output is plain text.
//
// # Package-Level Logger
//
// The functions [Debug], [Info], [Warn], [Error], and their Context
// variants write through a package-level Logger that writes to standard
// error. Reconfigure it with [Config] or replace it with [SetDefault].
package log
