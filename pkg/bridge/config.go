package bridge

import (
	"errors"
	"time"

	"github.com/teslashibe/go-voicebridge/pkg/resolve"
	"github.com/teslashibe/go-voicebridge/pkg/scene"
)

// Config holds controller settings.
type Config struct {
	// Scope limits the registry to one sub-tree of the scene ("" is the
	// whole scene).
	Scope string

	// PreferLabel uses a control's visible label over its own name.
	PreferLabel bool

	// MaxReach is the furthest a grab candidate may be from the nearer
	// hand, in meters, when several share a name. Zero disables it.
	MaxReach float64

	// Ranking chooses among several usable non-grab candidates.
	Ranking resolve.Ranking

	// PreferredHand is tried first when a grab names no hand.
	PreferredHand scene.Hand

	Cooldown        time.Duration // default per-command cooldown
	ObserveDelay    time.Duration // click to scene re-check
	ReactivateDelay time.Duration // listening ended to reactivation
	RefreshInterval time.Duration // periodic registry rebuild, 0 disables
}

// DefaultConfig returns default settings.
func DefaultConfig() Config {
	return Config{
		PreferLabel:     true,
		MaxReach:        1.5,
		Ranking:         resolve.PickFirst,
		PreferredHand:   scene.Right,
		Cooldown:        time.Second,
		ObserveDelay:    500 * time.Millisecond,
		ReactivateDelay: 250 * time.Millisecond,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.MaxReach < 0 {
		return errors.New("bridge: max reach must not be negative")
	}
	if c.Cooldown < 0 {
		return errors.New("bridge: cooldown must not be negative")
	}
	if c.ObserveDelay < 0 || c.ReactivateDelay < 0 || c.RefreshInterval < 0 {
		return errors.New("bridge: delays must not be negative")
	}
	if c.PreferredHand != scene.Left && c.PreferredHand != scene.Right {
		return errors.New("bridge: preferred hand must be left or right")
	}
	if c.Ranking != resolve.PickFirst && c.Ranking != resolve.PickNearest {
		return errors.New("bridge: unknown ranking")
	}
	return nil
}
