package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ssargent/gamehdr/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(config.Logging{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("speed", "blitz").Msg("header appended")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "gamehdr", entry["app"])
	assert.Equal(t, "blitz", entry["speed"])
	assert.Equal(t, "header appended", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(config.Logging{Level: "debug", Format: "console"}, &buf)
	require.NoError(t, err)

	logger.Debug().Msg("opened header log")
	assert.Contains(t, buf.String(), "opened header log")
	assert.Contains(t, buf.String(), "app=gamehdr")
}

func TestNew_Defaults(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(config.Logging{}, &buf)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	logger.Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(config.Logging{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New(config.Logging{Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}
