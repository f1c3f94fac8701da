package logging

import (
	"log/slog"
	"os"
)

// Setup installs the global slog logger with JSON output to stdout.
// Development environments log at debug level, everything else at info.
func Setup(env string) {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
