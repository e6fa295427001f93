package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_InvalidLevel(t *testing.T) {
	assert.Error(t, Init(Config{Level: "loud"}))
}

func TestWithComponent(t *testing.T) {
	require.NoError(t, Init(Config{Level: "debug"}))

	var buf bytes.Buffer
	SetOutput(&buf)

	l := WithComponent("session")
	l.Info().Str("sessionId", "abc").Msg("created")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "session", line["component"])
	assert.Equal(t, "abc", line["sessionId"])
	assert.Equal(t, "created", line["message"])
	assert.Equal(t, "info", line["level"])
}

func TestInit_LevelFilters(t *testing.T) {
	require.NoError(t, Init(Config{Level: "WARN"}))

	var buf bytes.Buffer
	SetOutput(&buf)

	Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestInit_FileOutputAndTimeFormat(t *testing.T) {
	defer func() { zerolog.TimeFieldFormat = time.RFC3339 }()
	path := filepath.Join(t.TempDir(), "logs", "server.log")

	require.NoError(t, Init(Config{Level: "info", Output: path, TimeFormat: time.DateOnly}))
	Error().Msg("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &line))
	assert.Equal(t, "to file", line["message"])
	assert.Equal(t, time.Now().Format(time.DateOnly), line["time"])
}

func TestInit_BadOutput(t *testing.T) {
	// a directory cannot be opened for writing
	assert.Error(t, Init(Config{Output: t.TempDir()}))
}
