package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"CRITICAL", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: LevelWarn, Out: &buf})

	l.Info(context.Background(), "hidden")
	assert.Empty(t, buf.String())

	l.Warn(context.Background(), "shown", map[string]interface{}{"symbol": "AAPL"})
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "symbol=AAPL")
}

func TestLoggerJSONIncludesError(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: LevelDebug, JSON: true, Out: &buf})

	l.Error(context.Background(), errors.New("boom"), "submit failed", map[string]interface{}{"op": "SubmitOrder"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "submit failed", entry["msg"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "SubmitOrder", entry["op"])
	assert.Equal(t, "error", entry["level"])
}
