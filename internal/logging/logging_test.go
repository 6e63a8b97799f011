package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/todoci/pkg/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.WarnLevel},
		{"chatty", log.WarnLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(&buf, config.LogConfig{Level: "warn"})
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("cannot scan file", "path", "a.rs")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "cannot scan file")
	assert.Contains(t, out, "a.rs")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(&buf, config.LogConfig{Level: "debug", Format: "json"})
	defer closer.Close()

	logger.Debug("scanned file", "items", 2)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "scanned file", record["msg"])
	assert.Equal(t, "debug", record["level"])
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo-ci.log")

	var buf bytes.Buffer
	logger, closer := New(&buf, config.LogConfig{Level: "info", File: path})
	logger.Info("webhook sent", "webhook", "ci")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "webhook sent")
	assert.True(t, strings.Contains(buf.String(), "webhook sent"), "stderr copy missing")
}
