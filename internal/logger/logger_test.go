package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWriter_JSON(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	require.NoError(t, InitWriter(&buf, "warn", "json"))

	log.Info().Msg("hidden")
	serverLog := Component("server")
	serverLog.Warn().Str("conn_id", "abc").Msg("shown")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "server", entry["component"])
	assert.Equal(t, "abc", entry["conn_id"])
	assert.Contains(t, entry, "caller")
}

func TestInitWriter_BadLevel(t *testing.T) {
	assert.Error(t, InitWriter(&bytes.Buffer{}, "loud", "json"))
}
