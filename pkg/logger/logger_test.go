package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jhoicas/stock-ledger-api/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, logger.ParseLevel(in), "nivel %q", in)
	}
}

func TestComponent_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	l.Info().Msg("descartado")
	comp := l.Component("notify")
	comp.Warn().Str("product_id", "p1").Msg("cola llena")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), "solo debe quedar una línea JSON")
	assert.Equal(t, "notify", entry["component"])
	assert.Equal(t, "p1", entry["product_id"])
	assert.Equal(t, "warn", entry["level"])
}
