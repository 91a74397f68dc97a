package cooldown

import (
	"testing"
	"time"
)

func TestGate_Window(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g := New()
	g.Register("grab", 5*time.Second, t0)

	steps := []struct {
		at   time.Duration
		want bool
	}{
		{0, true},
		{4900 * time.Millisecond, false},
		{5 * time.Second, true},
		{6 * time.Second, false},
		{10 * time.Second, true},
	}
	for _, s := range steps {
		if got := g.TryFire("grab", t0.Add(s.at)); got != s.want {
			t.Errorf("TryFire at %v = %v, want %v", s.at, got, s.want)
		}
	}
}

func TestGate_FailedFireLeavesState(t *testing.T) {
	t0 := time.Now()
	g := New()
	g.Register("click", time.Second, t0)
	g.TryFire("click", t0)

	before, _ := g.LastFired("click")
	g.TryFire("click", t0.Add(500*time.Millisecond))
	after, _ := g.LastFired("click")
	if !before.Equal(after) {
		t.Errorf("failed fire changed state: %v -> %v", before, after)
	}
}

func TestGate_PerCommand(t *testing.T) {
	t0 := time.Now()
	g := New()
	g.Register("grab", time.Second, t0)
	g.Register("drop", time.Second, t0)

	if !g.TryFire("grab", t0) {
		t.Fatal("first grab should fire")
	}
	if !g.TryFire("drop", t0) {
		t.Error("drop should not be throttled by grab")
	}
}

func TestGate_FirstUtteranceNeverSuppressed(t *testing.T) {
	t0 := time.Now()
	g := New()
	g.Register("refresh", time.Hour, t0)
	if !g.TryFire("refresh", t0) {
		t.Error("first fire at registration time should succeed")
	}
}

func TestGate_Remaining(t *testing.T) {
	t0 := time.Now()
	g := New()
	g.Register("grab", 2*time.Second, t0)
	if r := g.Remaining("grab", t0); r != 0 {
		t.Errorf("before first fire: got %v", r)
	}
	g.TryFire("grab", t0)
	if r := g.Remaining("grab", t0.Add(500*time.Millisecond)); r != 1500*time.Millisecond {
		t.Errorf("got %v, want 1.5s", r)
	}
	if r := g.Remaining("unknown", t0); r != 0 {
		t.Errorf("unknown: got %v", r)
	}
}

func TestGate_UnknownAlwaysFires(t *testing.T) {
	g := New()
	now := time.Now()
	if !g.TryFire("x", now) || !g.TryFire("x", now) {
		t.Error("unregistered commands are not throttled")
	}
}
