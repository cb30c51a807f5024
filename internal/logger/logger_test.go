package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		return nil
	}
	return entry
}

func TestProperty_LogsAreStructured(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("all log entries are in structured JSON format", prop.ForAll(
		func(message string, level string) bool {
			var buf bytes.Buffer
			logger := NewJSON(zapcore.AddSync(&buf), zapcore.DebugLevel)
			defer logger.Sync()

			switch level {
			case "debug":
				logger.Debug(message)
			case "info":
				logger.Info(message)
			case "warn":
				logger.Warn(message)
			case "error":
				logger.Error(message)
			}

			entry := decodeLine(t, &buf)
			if entry == nil {
				return false
			}
			for _, key := range []string{"level", "timestamp", "message"} {
				if _, ok := entry[key]; !ok {
					return false
				}
			}
			return entry["message"] == message && entry["level"] == level
		},
		gen.AnyString(),
		gen.OneConstOf("debug", "info", "warn", "error"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_ErrorLogsIncludeContext(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("error logs carry their fields and a stacktrace", prop.ForAll(
		func(message string, errorMsg string) bool {
			var buf bytes.Buffer
			logger := NewJSON(zapcore.AddSync(&buf), zapcore.DebugLevel)
			defer logger.Sync()

			logger.Error(message, zap.String("error", errorMsg))

			entry := decodeLine(t, &buf)
			if entry == nil {
				return false
			}
			_, hasStack := entry["stacktrace"]
			return entry["error"] == errorMsg && hasStack
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestNewJSON_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSON(zapcore.AddSync(&buf), zapcore.WarnLevel)

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew(t *testing.T) {
	logger, err := New("production", "warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = New("development", "")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = New("production", "loud")
	assert.Error(t, err)
}
