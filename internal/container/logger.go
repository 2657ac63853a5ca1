package container

import (
	"log/slog"
	"os"
)

// SetupLogger настраивает slog: JSON в проде, текст с уровнем debug при разработке.
func SetupLogger(development bool) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if development {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)
	return logger
}
