package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quik-bars/internal/session"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "csv", cfg.SaveFormat)
	assert.False(t, cfg.GapReport)

	w, err := cfg.Window()
	require.NoError(t, err)
	assert.Equal(t, session.DefaultWindow, w)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("QUIK_SAVE_FORMAT", "parquet")
	t.Setenv("QUIK_GAP_REPORT", "true")
	t.Setenv("QUIK_SESSION_OPEN", "07:00")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "parquet", cfg.SaveFormat)
	assert.True(t, cfg.GapReport)

	w, err := cfg.Window()
	require.NoError(t, err)
	assert.Equal(t, session.NewClock(7, 0, 0), w.Open)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"QUIK_SAVE_FORMAT":   "xlsx",
		"QUIK_LOG_FORMAT":    "yaml",
		"QUIK_SESSION_CLOSE": "09:00",
		"QUIK_SESSION_OPEN":  "ten",
		"QUIK_GAP_REPORT":    "sometimes",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestProvideSeriesSaver(t *testing.T) {
	s, err := ProvideSeriesSaver(&Config{SaveFormat: "json"})
	require.NoError(t, err)
	assert.Equal(t, "json", s.Extension())

	_, err = ProvideSeriesSaver(&Config{SaveFormat: "xml"})
	assert.Error(t, err)
}
