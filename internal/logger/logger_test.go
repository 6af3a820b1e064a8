package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/deppfellow/usercheck/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterJSON(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "test"

	var buf bytes.Buffer
	log := NewWithWriter(cfg, &buf)

	log.Debug().Msg("hidden")
	log.Info().Str("user_id", "42").Msg("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "usercheck", entry["service"])
	assert.Equal(t, "test", entry["environment"])
	assert.Equal(t, "42", entry["user_id"])
}

func TestNewWithWriterConsole(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Format = "console"
	cfg.Logging.Level = "debug"

	var buf bytes.Buffer
	log := NewWithWriter(cfg, &buf)
	log.Debug().Msg("shown")

	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "{")
}
