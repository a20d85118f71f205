// Package cmd holds the pieces shared by the looptunes commands.
package cmd

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// NewLogger returns a text logger tagged with a fresh session id, so that
// the lines of one run can be told apart in a shared log.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With(slog.String("session", uuid.NewString()))
}
