package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONWithServiceAttrs(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultLogConfig()
	cfg.Format = LogFormatJSON
	cfg.Output = &buf

	NewLogger(cfg).With("task_id", "t1").Info("drag finished", "changed", true)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "drag finished", entry["msg"])
	assert.Equal(t, "gantt", entry["service"])
	assert.Equal(t, "dev", entry["version"])
	assert.Equal(t, "t1", entry["task_id"])
	assert.Equal(t, true, entry["changed"])
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultLogConfig()
	cfg.Output = &buf
	cfg.Level = LogLevelWarn

	logger := NewLogger(cfg)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "service=gantt")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gantt.log")

	logger, closeFn, err := OpenFile(DefaultLogConfig(), path)
	require.NoError(t, err)
	LogDuration(logger, "render", time.Now())
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "operation=render")
}

func TestOpenFile_EmptyPathDiscards(t *testing.T) {
	logger, closeFn, err := OpenFile(DefaultLogConfig(), "")
	require.NoError(t, err)
	logger.Error("nowhere")
	assert.NoError(t, closeFn())
}
