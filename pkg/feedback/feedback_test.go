package feedback

import (
	"errors"
	"math"
	"testing"

	"github.com/teslashibe/go-voicebridge/pkg/interact"
	"github.com/teslashibe/go-voicebridge/pkg/outcome"
	"github.com/teslashibe/go-voicebridge/pkg/scene"
)

func TestSuccess(t *testing.T) {
	tests := []struct {
		name string
		r    outcome.Result
		want string
	}{
		{"grab", outcome.Result{Action: outcome.ActionGrab, Name: "Key", Hand: scene.Left}, "Picked up Key with your left hand."},
		{"release", outcome.Result{Action: outcome.ActionRelease, Name: "Key"}, "Released Key."},
		{"click", outcome.Result{Action: outcome.ActionClick, Name: "Start"}, "Pressed Start."},
		{"check", outcome.Result{Action: outcome.ActionToggle, Name: "Ready", State: true}, "Ready checked."},
		{"uncheck", outcome.Result{Action: outcome.ActionToggle, Name: "Ready"}, "Ready unchecked."},
		{"already checked", outcome.Result{Action: outcome.ActionToggle, Name: "Ready", State: true, Unchanged: true}, "Ready is already checked."},
		{"already unchecked", outcome.Result{Action: outcome.ActionToggle, Name: "Ready", Unchanged: true}, "Ready is already unchecked."},
		{"group select", outcome.Result{Action: outcome.ActionToggle, Name: "Easy", State: true, Grouped: true}, "Easy selected."},
		{"group already", outcome.Result{Action: outcome.ActionToggle, Name: "Easy", State: true, Grouped: true, Unchanged: true}, "Easy is already selected."},
		{"slider whole", outcome.Result{Action: outcome.ActionSlide, Name: "Volume", Value: 7}, "Volume set to 7."},
		{"slider fraction", outcome.Result{Action: outcome.ActionSlide, Name: "Speed", Value: 2.5}, "Speed set to 2.5."},
		{"select", outcome.Result{Action: outcome.ActionSelect, Name: "Color", Option: "Green"}, "Color set to Green."},
		{"already selected", outcome.Result{Action: outcome.ActionSelect, Name: "Color", Option: "Red", Unchanged: true}, "Red is already selected."},
		{"refresh", outcome.Result{Action: outcome.ActionRefresh, Count: 12}, "Found 12 controls."},
		{"refresh one", outcome.Result{Action: outcome.ActionRefresh, Count: 1}, "Found 1 control."},
		{"empty hands", outcome.Result{Action: outcome.ActionInventory}, "Your hands are empty."},
		{"one hand", outcome.Result{Action: outcome.ActionInventory, Held: [2]string{"", "Cup"}}, "You're holding Cup in your right hand."},
		{"both hands", outcome.Result{Action: outcome.ActionInventory, Held: [2]string{"Key", "Cup"}}, "You're holding Key in your left hand and Cup in your right hand."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Success(tt.r); got != tt.want {
				t.Errorf("Success() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFailure(t *testing.T) {
	named := func(err error, kind scene.Kind, name string) *outcome.Failure {
		f := outcome.Fail(err, kind, name)
		f.Name = name
		return f
	}
	far := named(outcome.ErrTooFar, scene.KindGrabbable, "Box")
	far.Distance = 4.83
	rng := named(outcome.ErrOutOfRange, scene.KindRanged, "Volume")
	rng.Min, rng.Max, rng.Value = 0, 10, 15
	nan := named(outcome.ErrOutOfRange, scene.KindRanged, "Volume")
	nan.Min, nan.Max, nan.Value = 0, 10, math.NaN()
	opt := named(outcome.ErrOptionNotFound, scene.KindSelectable, "Color")
	opt.Option = "purple"
	empty := outcome.Fail(outcome.ErrSlotEmpty, scene.KindGrabbable, "left")
	empty.Hand = scene.Left

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found object", outcome.Fail(outcome.ErrNotFound, scene.KindGrabbable, "lamp"), "I couldn't find an object called lamp."},
		{"not found slider", outcome.Fail(outcome.ErrNotFound, scene.KindRanged, "volume"), "I couldn't find a slider called volume."},
		{"not found no phrase", outcome.Fail(outcome.ErrNotFound, scene.KindClickable, ""), "I couldn't find that."},
		{"unavailable", named(outcome.ErrAllUnavailable, scene.KindRanged, "Volume"), "Volume isn't available right now."},
		{"already held", named(outcome.ErrAllUnavailable, scene.KindGrabbable, "Key"), "You're already holding Key."},
		{"went away", named(outcome.ErrUnavailable, scene.KindClickable, "Start"), "Start isn't available right now."},
		{"too far", far, "Box is too far away, about 4.8 meters."},
		{"both busy", named(outcome.ErrBothBusy, scene.KindGrabbable, "Cup"), "Both your hands are full."},
		{"out of range", rng, "15 is out of range. Volume goes from 0 to 10."},
		{"not a number", nan, "Volume needs a number from 0 to 10."},
		{"no option", opt, "Color has no option purple."},
		{"not held", outcome.Fail(outcome.ErrNotHeld, scene.KindGrabbable, "lamp"), "You're not holding lamp."},
		{"slot empty", empty, "Your left hand is empty."},
		{"wrapped", errors.Join(errors.New("context"), far), "Box is too far away, about 4.8 meters."},
		{"foreign", errors.New("boom"), "Something went wrong."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Failure(tt.err); got != tt.want {
				t.Errorf("Failure() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReport(t *testing.T) {
	r := outcome.Result{Action: outcome.ActionClick, Name: "Start"}
	if got := Report(r, nil); got != "Pressed Start." {
		t.Errorf("Report(ok) = %q", got)
	}
	err := outcome.Fail(outcome.ErrNotFound, scene.KindClickable, "stop")
	if got := Report(r, err); got != "I couldn't find a button called stop." {
		t.Errorf("Report(err) = %q", got)
	}
}

func TestObserved(t *testing.T) {
	tests := []struct {
		name string
		obs  interact.Observation
		want string
	}{
		{"nothing", interact.Observation{Name: "Start"}, ""},
		{"one", interact.Observation{Name: "Open", Appeared: []string{"Apply"}}, "Apply appeared."},
		{"two", interact.Observation{Name: "Open", Appeared: []string{"Apply", "Reset"}}, "New controls: Apply and Reset."},
		{"three", interact.Observation{Appeared: []string{"A", "B", "C"}}, "New controls: A, B and C."},
		{"many", interact.Observation{Appeared: []string{"A", "B", "C", "D", "E", "F"}}, "New controls: A, B, C, D and 2 more."},
		{"vanished", interact.Observation{Name: "Close", Vanished: true}, "Close is no longer shown."},
		{"appeared wins", interact.Observation{Name: "Next", Vanished: true, Appeared: []string{"Back"}}, "Back appeared."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Observed(tt.obs); got != tt.want {
				t.Errorf("Observed() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{7, "7"},
		{7.5, "7.5"},
		{0.1 + 0.2, "0.3"},
		{-3, "-3"},
		{-0.001, "0"},
		{2.456, "2.46"},
	}
	for _, tt := range tests {
		if got := Number(tt.in); got != tt.want {
			t.Errorf("Number(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
