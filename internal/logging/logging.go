package logging

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/ecarden/repo-indexer/internal/config"
)

// New builds the process-wide structured logger at the configured level
func New(level config.LogLevel) zerolog.Logger {
	return zerolog.New(os.Stderr).
		Level(toZerologLevel(level)).
		With().
		Timestamp().
		Logger()
}

func toZerologLevel(level config.LogLevel) zerolog.Level {
	switch level {
	case config.LogLevelDebug:
		return zerolog.DebugLevel
	case config.LogLevelInfo:
		return zerolog.InfoLevel
	case config.LogLevelWarn:
		return zerolog.WarnLevel
	case config.LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
