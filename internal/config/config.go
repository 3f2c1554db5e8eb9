// internal/config/config.go
//
// Process configuration read from the environment. main loads a .env file
// first (godotenv), so every field can also be set there.

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/robalobadob/wordchain/internal/game"
)

// Config is the full server configuration.
type Config struct {
	ListenAddr   string `env:"LISTEN_ADDR" envDefault:":12345"`
	HTTPAddr     string `env:"HTTP_ADDR" envDefault:":5175"` // "off" disables the status API
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	DictionaryFile          string `env:"DICTIONARY_FILE"` // empty uses the embedded list
	DictionaryCaseSensitive bool   `env:"DICTIONARY_CASE_SENSITIVE" envDefault:"true"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/wordchain.db"` // "memory" keeps plays in memory

	MaxPlayers     int           `env:"MAX_PLAYERS" envDefault:"5"`
	TurnTimeout    time.Duration `env:"TURN_TIMEOUT" envDefault:"30s"`
	EarlyWindow    time.Duration `env:"EARLY_WINDOW" envDefault:"5s"`
	EarlyBonus     int           `env:"EARLY_BONUS" envDefault:"2"`
	TimeoutPenalty int           `env:"TIMEOUT_PENALTY" envDefault:"2"`
	InvalidPenalty int           `env:"INVALID_PENALTY" envDefault:"1"`
	WinScore       int           `env:"WIN_SCORE" envDefault:"50"`
	SendTimeout    time.Duration `env:"SEND_TIMEOUT" envDefault:"100ms"`
	PromptTimeout  time.Duration `env:"PROMPT_TIMEOUT" envDefault:"1s"`
}

// Empty variables fall back to their defaults, so switching a feature off
// takes an explicit value.
const (
	Off         = "off"
	MemoryStore = "memory"
)

// Load parses the environment into a Config and sanity-checks it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ListenAddr == "" {
		return Config{}, fmt.Errorf("LISTEN_ADDR must not be empty")
	}
	if cfg.MaxPlayers < 2 {
		return Config{}, fmt.Errorf("MAX_PLAYERS must be at least 2, got %d", cfg.MaxPlayers)
	}
	if cfg.TurnTimeout <= 0 {
		return Config{}, fmt.Errorf("TURN_TIMEOUT must be positive, got %s", cfg.TurnTimeout)
	}
	if cfg.WinScore <= 0 {
		return Config{}, fmt.Errorf("WIN_SCORE must be positive, got %d", cfg.WinScore)
	}
	return cfg, nil
}

// StatusEnabled reports whether the HTTP status API should run.
func (c Config) StatusEnabled() bool { return c.HTTPAddr != Off }

// PersistPlays reports whether plays go to SQLite rather than memory.
func (c Config) PersistPlays() bool { return c.DatabasePath != MemoryStore }

// Rules maps the game settings onto game.Rules.
func (c Config) Rules() game.Rules {
	return game.Rules{
		MaxPlayers:     c.MaxPlayers,
		TurnTimeout:    c.TurnTimeout,
		EarlyWindow:    c.EarlyWindow,
		EarlyBonus:     c.EarlyBonus,
		TimeoutPenalty: c.TimeoutPenalty,
		InvalidPenalty: c.InvalidPenalty,
		WinScore:       c.WinScore,
		SendTimeout:    c.SendTimeout,
		PromptTimeout:  c.PromptTimeout,
	}
}
