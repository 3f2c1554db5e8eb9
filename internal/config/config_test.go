package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordchain/internal/game"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":12345", cfg.ListenAddr)
	assert.Equal(t, ":5175", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.DictionaryCaseSensitive)
	assert.Empty(t, cfg.DictionaryFile)
	assert.Equal(t, "./data/wordchain.db", cfg.DatabasePath)
	assert.True(t, cfg.StatusEnabled())
	assert.True(t, cfg.PersistPlays())
	assert.Equal(t, game.DefaultRules(), cfg.Rules())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", "127.0.0.1:9000")
	t.Setenv("HTTP_ADDR", "off")
	t.Setenv("MAX_PLAYERS", "8")
	t.Setenv("TURN_TIMEOUT", "10s")
	t.Setenv("WIN_SCORE", "20")
	t.Setenv("DICTIONARY_CASE_SENSITIVE", "false")
	t.Setenv("DATABASE_PATH", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	assert.False(t, cfg.StatusEnabled())
	assert.False(t, cfg.PersistPlays())
	assert.False(t, cfg.DictionaryCaseSensitive)

	rules := cfg.Rules()
	assert.Equal(t, 8, rules.MaxPlayers)
	assert.Equal(t, 10*time.Second, rules.TurnTimeout)
	assert.Equal(t, 20, rules.WinScore)
}

func TestEmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("DATABASE_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":5175", cfg.HTTPAddr)
	assert.Equal(t, "./data/wordchain.db", cfg.DatabasePath)
	assert.True(t, cfg.PersistPlays(), "empty DATABASE_PATH still uses SQLite")
}

func TestLoadErrors(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("TURN_TIMEOUT", "soon")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse env:")
	})
	t.Run("too few players", func(t *testing.T) {
		t.Setenv("MAX_PLAYERS", "1")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MAX_PLAYERS")
	})
	t.Run("zero win score", func(t *testing.T) {
		t.Setenv("WIN_SCORE", "0")
		_, err := Load()
		require.Error(t, err)
	})
}
