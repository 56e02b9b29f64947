package app

import (
	"io"
	"log/slog"
)

// newLogger builds the app's isolated logger writing to outW. It never
// touches the process-wide default, so tests can run apps side by side.
// Level names are the slog spellings; anything unparsable means info.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
