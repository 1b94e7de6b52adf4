// Package logger holds the process-wide structured logger shared by the
// backend services, handlers and storage layers.
//
// Log is ready after package initialization, writing text records at info
// level to stdout. Binaries reconfigure it from the loaded config with
// Initialize before serving.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log is the shared logger. It is also installed as the slog default, so
// code calling slog.Info directly lands in the same stream.
var Log *slog.Logger

func init() {
	// usable before main reads config, and in tests that never call Initialize
	Initialize("info", false)
}

// Initialize replaces Log with a stdout logger at the given level. useJSON
// selects JSON records; otherwise logfmt-style text is written.
func Initialize(level string, useJSON bool) {
	InitializeWriter(os.Stdout, level, useJSON)
}

// InitializeWriter is Initialize with an explicit destination.
// Records carry their source file and line.
func InitializeWriter(w io.Writer, level string, useJSON bool) {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}

	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

// Staff returns a child of Log tagged with the acting staff member, so every
// record written while handling their request names who did it and from where.
func Staff(username, ip string) *slog.Logger {
	return Log.With("user", username, "ip", ip)
}

// parseLevel maps a config level name, case-insensitively, to a slog level.
// Unknown names fall back to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
