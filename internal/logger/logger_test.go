package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("unknown"))
}

func TestProductionUsesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "production", Level: slog.LevelInfo})

	log.Info("server started", "port", "3000")

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"msg":"server started"`)
	assert.Contains(t, out, `"port":"3000"`)
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "development", Level: slog.LevelDebug})

	log.Warn("cache miss", "key", "user-123")

	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "cache miss")
	assert.Contains(t, out, "key=user-123")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "development", Level: slog.LevelWarn})

	log.Info("should be dropped")
	log.Error("should appear")

	out := buf.String()
	assert.NotContains(t, out, "should be dropped")
	assert.Contains(t, out, "should appear")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "development", Level: slog.LevelInfo})

	log.WithError(assert.AnError).Error("operation failed")

	assert.Contains(t, buf.String(), "error="+assert.AnError.Error())
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "development", Level: slog.LevelInfo})

	log.WithField("collection_id", "coll-abc").Info("collection created")

	assert.Contains(t, buf.String(), "collection_id=coll-abc")
}
