package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "https://google.serper.dev", cfg.Serper.BaseURL)
	assert.Equal(t, "file", cfg.Cache.Driver)
	assert.Equal(t, "search_cache.json", cfg.Cache.Path)
	assert.Equal(t, 0.85, cfg.Match.SimilarityThreshold)
	assert.Equal(t, 3, cfg.Search.Workers)
	assert.Equal(t, 10, cfg.Extract.FirstResultBonus)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("OUTREACH_LOG_LEVEL", "debug")
	t.Setenv("OUTREACH_CACHE_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Cache.Driver)
}

func TestInitLogger_BadLevel(t *testing.T) {
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}

func TestInitLogger_Console(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
