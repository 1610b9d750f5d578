package tokenauth

import (
	"io"
	"log/slog"
)

// NewLogger builds the JSON boundary logger for cfg. Unknown levels fall back to info; call
// Config.Validate first to reject them.
func NewLogger(cfg LogConfig, w io.Writer) *slog.Logger {
	level, _ := ParseLogLevel(cfg.Level)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
