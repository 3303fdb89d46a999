package logger

import (
	"log/slog"
	"os"
)

// New returns a structured logger: JSON in production, text elsewhere.
func New(env string) *slog.Logger {
	if env == "prod" || env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
