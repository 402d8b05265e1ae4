package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/tmpl/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none"), log.WithPretty(false))
	logger.Info("template parsed", slog.Int("nodes", 3))
	// Output:
	// {"level":"INFO","msg":"template parsed","nodes":3}
}

func Example_textFormat() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"),
		log.WithPretty(false))
	logger.Warn("unknown transform", slog.String("name", "shout"))
	// Output:
	// level=WARN msg="unknown transform" name=shout
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithTimeLayout("none"),
		log.WithPretty(false))

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warning message")
	// Output:
	// {"level":"WARN","msg":"warning message"}
}

func Example_withContext() {
	type requestIDKey struct{}

	ctx := context.WithValue(context.Background(), requestIDKey{}, "req-789")

	logger := log.Make(os.Stdout, log.WithLevel(log.LevelDebug))
	logger.InfoContext(ctx, "processing request with context")
	logger.DebugContext(ctx, "request details", slog.String("method", "POST"))
}
