package logger

import (
	"bytes"
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
	assert.Equal(t, "run_Mumbai_Business_Lunch", sanitize("run Mumbai/Business Lunch"))
	assert.Equal(t, "nexaplan", sanitize("///"))
	assert.Len(t, sanitize(strings.Repeat("a", 100)), 60)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, "info", level.String())

	level, err = ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, "debug", level.String())

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestLoggerAdapter_WritesJSONFile(t *testing.T) {
	dir := t.TempDir()

	log, err := NewLoggerAdapter(Options{Dir: dir, Name: "test run", Level: "debug"})
	require.NoError(t, err)

	log.WithFields(map[string]any{"run": "abc", "role": "scout"}).Info("Stage completed", "stage", 1)
	log.Debug("details")
	require.NoError(t, log.Close())

	files, err := filepath.Glob(filepath.Join(dir, "*_test_run.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "Stage completed", entry["message"])
	assert.Equal(t, "abc", entry["run"])
	assert.Equal(t, "scout", entry["role"])
	assert.EqualValues(t, 1, entry["stage"])
	assert.NotEmpty(t, entry["timestamp"])
}

func TestLoggerAdapter_LevelFiltersConsole(t *testing.T) {
	var buf bytes.Buffer

	log, err := NewLoggerAdapter(Options{Level: "warn", Console: &buf})
	require.NoError(t, err)

	log.Info("hidden")
	log.WithField("tool", "hyper_local_search").Warn("shown")
	require.NoError(t, log.Close())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "hyper_local_search")
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Info("nothing", "k", "v")
	assert.NoError(t, log.Close())
}
