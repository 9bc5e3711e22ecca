package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(Config{Env: "production", Level: "warn"}, &buf)

	l.Info().Msg("dropped")
	l.Warn().Str("product_id", "000001").Msg("kept")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "000001", entry["product_id"])
	assert.Equal(t, "kept", entry["message"])
}

func TestNewLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(Config{Env: "production", Level: "verbose"}, &buf)
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())

	l = newLogger(Config{Env: "production"}, &buf)
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())
}
