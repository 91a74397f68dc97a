// Package config provides configuration helpers for go-voicebridge commands.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/teslashibe/go-voicebridge/pkg/bridge"
	"github.com/teslashibe/go-voicebridge/pkg/resolve"
	"github.com/teslashibe/go-voicebridge/pkg/scene"
)

// Config holds process-level settings read from VOICEBRIDGE_* variables.
// Flags in cmd/voicebridge override these after Load.
type Config struct {
	ListenAddr string `env:"VOICEBRIDGE_LISTEN" envDefault:":8090"`
	STTURL     string `env:"VOICEBRIDGE_STT_URL"`
	ScenePath  string `env:"VOICEBRIDGE_SCENE" envDefault:"scene.yaml"`
	Scope      string `env:"VOICEBRIDGE_SCOPE"`
	LogLevel   string `env:"VOICEBRIDGE_LOG_LEVEL" envDefault:"info"`

	MaxReach        float64       `env:"VOICEBRIDGE_MAX_REACH" envDefault:"1.5"`
	Cooldown        time.Duration `env:"VOICEBRIDGE_COOLDOWN" envDefault:"1s"`
	ObserveDelay    time.Duration `env:"VOICEBRIDGE_OBSERVE_DELAY" envDefault:"500ms"`
	ReactivateDelay time.Duration `env:"VOICEBRIDGE_REACTIVATE_DELAY" envDefault:"250ms"`
	TickRate        time.Duration `env:"VOICEBRIDGE_TICK_RATE" envDefault:"33ms"`
	RefreshInterval time.Duration `env:"VOICEBRIDGE_REFRESH_INTERVAL" envDefault:"0s"`

	PreferLabel   bool   `env:"VOICEBRIDGE_PREFER_LABEL" envDefault:"true"`
	PickPolicy    string `env:"VOICEBRIDGE_PICK_POLICY" envDefault:"first"`
	PreferredHand string `env:"VOICEBRIDGE_PREFERRED_HAND" envDefault:"right"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks values that the environment parser cannot.
func (c *Config) Validate() error {
	if c.MaxReach <= 0 {
		return &Error{Field: "MaxReach", Message: "must be positive"}
	}
	if c.TickRate <= 0 {
		return &Error{Field: "TickRate", Message: "must be positive"}
	}
	if c.Cooldown < 0 {
		return &Error{Field: "Cooldown", Message: "must not be negative"}
	}
	switch c.PickPolicy {
	case "first", "nearest":
	default:
		return &Error{Field: "PickPolicy", Message: "must be \"first\" or \"nearest\""}
	}
	switch c.PreferredHand {
	case "left", "right":
	default:
		return &Error{Field: "PreferredHand", Message: "must be \"left\" or \"right\""}
	}
	return nil
}

// Bridge returns the controller settings. Call Validate first; invalid
// policy or hand names fall back to the defaults.
func (c *Config) Bridge() bridge.Config {
	b := bridge.DefaultConfig()
	b.Scope = c.Scope
	b.PreferLabel = c.PreferLabel
	b.MaxReach = c.MaxReach
	b.Cooldown = c.Cooldown
	b.ObserveDelay = c.ObserveDelay
	b.ReactivateDelay = c.ReactivateDelay
	b.RefreshInterval = c.RefreshInterval
	if r, ok := resolve.ParseRanking(c.PickPolicy); ok {
		b.Ranking = r
	}
	if h, ok := scene.ParseHand(c.PreferredHand); ok {
		b.PreferredHand = h
	}
	return b
}

// Error represents a configuration validation error.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Message)
}
