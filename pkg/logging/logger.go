// Package logging builds the zerolog loggers used across gamehdr.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/ssargent/gamehdr/pkg/config"
)

// New builds a logger writing to out at the configured level and format.
// An empty level means info and an empty format means console.
func New(cfg config.Logging, out io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	switch strings.ToLower(cfg.Format) {
	case "", "console":
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q", cfg.Format)
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", "gamehdr").
		Logger(), nil
}
