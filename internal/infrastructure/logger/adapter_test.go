package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "serve", sanitize("serve"))
	assert.Equal(t, "a_b", sanitize("a b"))
	assert.Equal(t, "goalhk", sanitize("爆水管"))
	assert.Len(t, sanitize(strings.Repeat("a", 100)), 60)
}

func TestNewLoggerAdapter_InvalidLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "loud"

	_, err := NewLoggerAdapter(cfg)
	assert.Error(t, err)
}

func TestNewLoggerAdapter_WritesFile(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Dir = dir
	cfg.FileName = "test run"

	log, err := NewLoggerAdapter(cfg)
	require.NoError(t, err)

	log.WithField("task", "T-1").Info("Task created", "status", "MODE_SELECTION")
	log.WithFields(map[string]any{"job": "j1"}).Debug("hidden at info level")
	require.NoError(t, log.Close())

	matches, err := filepath.Glob(filepath.Join(dir, "*_test_run.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	f, err := os.Open(matches[0])
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		lines = append(lines, entry)
	}

	require.Len(t, lines, 1)
	assert.Equal(t, "Task created", lines[0]["message"])
	assert.Equal(t, "T-1", lines[0]["task"])
	assert.Equal(t, "MODE_SELECTION", lines[0]["status"])
	assert.Equal(t, "info", lines[0]["level"])
}

func TestNop(t *testing.T) {
	log := NewNop()
	log.Info("ignored", "k", "v")
	assert.NoError(t, log.Close())
}
