package config

import (
	"errors"
	"testing"
	"time"

	"github.com/teslashibe/go-voicebridge/pkg/resolve"
	"github.com/teslashibe/go-voicebridge/pkg/scene"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":8090" {
		t.Errorf("ListenAddr = %q, want :8090", cfg.ListenAddr)
	}
	if cfg.MaxReach != 1.5 {
		t.Errorf("MaxReach = %v, want 1.5", cfg.MaxReach)
	}
	if cfg.Cooldown != time.Second {
		t.Errorf("Cooldown = %v, want 1s", cfg.Cooldown)
	}
	if !cfg.PreferLabel {
		t.Error("PreferLabel should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("VOICEBRIDGE_MAX_REACH", "2.25")
	t.Setenv("VOICEBRIDGE_COOLDOWN", "5s")
	t.Setenv("VOICEBRIDGE_PICK_POLICY", "nearest")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxReach != 2.25 {
		t.Errorf("MaxReach = %v, want 2.25", cfg.MaxReach)
	}
	if cfg.Cooldown != 5*time.Second {
		t.Errorf("Cooldown = %v, want 5s", cfg.Cooldown)
	}
	if cfg.PickPolicy != "nearest" {
		t.Errorf("PickPolicy = %q, want nearest", cfg.PickPolicy)
	}
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("VOICEBRIDGE_COOLDOWN", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	base, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		name  string
		mut   func(*Config)
		field string
	}{
		{"zero reach", func(c *Config) { c.MaxReach = 0 }, "MaxReach"},
		{"zero tick", func(c *Config) { c.TickRate = 0 }, "TickRate"},
		{"negative cooldown", func(c *Config) { c.Cooldown = -time.Second }, "Cooldown"},
		{"bad policy", func(c *Config) { c.PickPolicy = "random" }, "PickPolicy"},
		{"bad hand", func(c *Config) { c.PreferredHand = "both" }, "PreferredHand"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mut(&cfg)
			err := cfg.Validate()
			var cerr *Error
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cerr.Field, tt.field)
			}
		})
	}
}

func TestBridge(t *testing.T) {
	t.Setenv("VOICEBRIDGE_SCOPE", "room/panel")
	t.Setenv("VOICEBRIDGE_PICK_POLICY", "nearest")
	t.Setenv("VOICEBRIDGE_PREFERRED_HAND", "left")
	t.Setenv("VOICEBRIDGE_PREFER_LABEL", "false")
	t.Setenv("VOICEBRIDGE_OBSERVE_DELAY", "1s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b := cfg.Bridge()

	if b.Scope != "room/panel" {
		t.Errorf("Scope = %q, want room/panel", b.Scope)
	}
	if b.Ranking != resolve.PickNearest {
		t.Errorf("Ranking = %v, want nearest", b.Ranking)
	}
	if b.PreferredHand != scene.Left {
		t.Errorf("PreferredHand = %v, want left", b.PreferredHand)
	}
	if b.PreferLabel {
		t.Error("PreferLabel should be false")
	}
	if b.ObserveDelay != time.Second {
		t.Errorf("ObserveDelay = %v, want 1s", b.ObserveDelay)
	}
	if err := b.Validate(); err != nil {
		t.Errorf("bridge config should validate: %v", err)
	}
}
