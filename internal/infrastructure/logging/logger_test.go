package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterProduction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "production", false)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())

	logger.Debug().Msg("hidden")
	logger.Info().Str("file_path", "/srv/uploads/a.png").Msg("image uploaded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "image uploaded", entry["message"])
	assert.Equal(t, "/srv/uploads/a.png", entry["file_path"])
	assert.Contains(t, entry, "time")
}

func TestNewWithWriterLevels(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, zerolog.DebugLevel, NewWithWriter(&buf, "production", true).GetLevel())

	dev := NewWithWriter(&buf, "development", false)
	assert.Equal(t, zerolog.DebugLevel, dev.GetLevel())
	dev.Info().Msg("console")
	assert.Contains(t, buf.String(), "console")
}
