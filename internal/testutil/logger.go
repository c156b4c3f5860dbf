package testutil

import (
	"bytes"
	"log/slog"
)

// NewBufferLogger returns a debug-level slog logger backed by a buffer, so SQL
// traces and request logs can be asserted on.
func NewBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, &buf
}
