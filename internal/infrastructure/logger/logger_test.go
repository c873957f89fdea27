package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/shop/backend/internal/infrastructure/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LogConfig
	}{
		{name: "json to stdout", cfg: config.LogConfig{Level: "info", Format: "json", Output: "stdout"}},
		{name: "console to stderr", cfg: config.LogConfig{Level: "debug", Format: "console", Output: "stderr"}},
		{name: "empty output defaults to stdout", cfg: config.LogConfig{Level: "warn", Format: "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, l)
			assert.NotPanics(t, func() { l.Info("test entry") })
		})
	}
}

func TestNewForEnvironment(t *testing.T) {
	dev, err := NewForEnvironment("development")
	require.NoError(t, err)
	assert.NotNil(t, dev)

	prod, err := NewForEnvironment("production")
	require.NoError(t, err)
	assert.NotNil(t, prod)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"WARN", zapcore.WarnLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseLevel(tt.input), "level %q", tt.input)
	}
}

func TestNewWriterFallsBackToStdout(t *testing.T) {
	// Unwritable path must not fail logger construction.
	w := newWriter("/nonexistent-dir/shop.log")
	assert.NotNil(t, w)
}
