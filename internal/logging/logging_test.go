package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/ecarden/repo-indexer/internal/config"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level config.LogLevel
		want  zerolog.Level
	}{
		{config.LogLevelDebug, zerolog.DebugLevel},
		{config.LogLevelInfo, zerolog.InfoLevel},
		{config.LogLevelWarn, zerolog.WarnLevel},
		{config.LogLevelError, zerolog.ErrorLevel},
		{config.LogLevel("bogus"), zerolog.InfoLevel},
	}

	for _, tt := range tests {
		logger := New(tt.level)
		assert.Equal(t, tt.want, logger.GetLevel(), "level %s", tt.level)
	}
}
