package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  slog.Level
	}{
		{name: "debug", level: "debug", want: slog.LevelDebug},
		{name: "info", level: "INFO", want: slog.LevelInfo},
		{name: "warn", level: "warn", want: slog.LevelWarn},
		{name: "error", level: " error ", want: slog.LevelError},
		{name: "unknown", level: "loud", want: slog.LevelWarn},
		{name: "empty", level: "", want: slog.LevelWarn},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level)
			require.NotNil(t, log)
			assert.True(t, log.Enabled(ctx, tt.want))
			assert.False(t, log.Enabled(ctx, tt.want-1))
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	log.Debug("hidden")
	log.Info("store opened", "path", "passwords.db")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "store opened")
	assert.Contains(t, buf.String(), "path=passwords.db")
}
