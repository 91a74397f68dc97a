package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/teslashibe/go-voicebridge/pkg/bridge"
	"github.com/teslashibe/go-voicebridge/pkg/hub"
	"github.com/teslashibe/go-voicebridge/pkg/scene"
)

type fixture struct {
	srv   *Server
	world *scene.World
	hub   *hub.Hub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	w := scene.NewWorld()
	w.AddButton("start", "Start")
	w.AddItem("ball", "Ball", scene.Vec3{})
	w.AddCheckbox("ready", "Ready", "")
	w.AddSlider("volume", "Volume", 0, 10, 3, true)
	w.AddDropdown("color", "Color", "Red", "Green")

	h := hub.New("test")
	ctrl, err := bridge.New(bridge.DefaultConfig(), bridge.Deps{
		Scene:   w,
		Anchors: w.Anchors(),
		Sink:    h,
		Events:  h,
	})
	if err != nil {
		t.Fatalf("bridge.New: %v", err)
	}
	loop := bridge.NewLoop(ctrl, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx, nil)
		close(done)
	}()
	go h.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return &fixture{srv: NewServer(":0", loop, h), world: w, hub: h}
}

func (f *fixture) call(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.srv.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	data, _ := io.ReadAll(resp.Body)
	json.Unmarshal(data, &out)
	return resp.StatusCode, out
}

func TestTranscript(t *testing.T) {
	f := newFixture(t)

	code, body := f.call(t, http.MethodPost, "/api/transcript", `{"text":"set volume to 7"}`)
	if code != http.StatusOK {
		t.Fatalf("status %d: %v", code, body)
	}
	if body["text"] != "Volume set to 7." || body["command"] != "set" || body["id"] == "" {
		t.Errorf("body = %v", body)
	}

	code, body = f.call(t, http.MethodPost, "/api/transcript", `{"text":"xylophone"}`)
	if code != http.StatusOK || body["ignored"] != true {
		t.Errorf("noise: %d %v", code, body)
	}

	if code, _ := f.call(t, http.MethodPost, "/api/transcript", `{"text":"  "}`); code != http.StatusBadRequest {
		t.Errorf("empty text status = %d", code)
	}
	if code, _ := f.call(t, http.MethodPost, "/api/transcript", `{`); code != http.StatusBadRequest {
		t.Errorf("bad json status = %d", code)
	}
}

func TestOperations(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		path string
		body string
		want string
	}{
		{"/api/click", `{"name":"start"}`, "Pressed Start."},
		{"/api/grab", `{"name":"ball","hand":"left"}`, "Picked up Ball with your left hand."},
		{"/api/release", `{"name":"ball","hand":"right"}`, "You're not holding ball."},
		{"/api/release", `{"name":"ball","hand":"left"}`, "Released Ball."},
		{"/api/grab", `{"name":"ball","hand":"left"}`, "Picked up Ball with your left hand."},
		{"/api/release", `{"hand":"left"}`, "Released Ball."},
		{"/api/release", `{"name":"ball"}`, "You're not holding ball."},
		{"/api/toggle", `{"name":"ready","on":true}`, "Ready checked."},
		{"/api/slider", `{"name":"volume","value":15}`, "15 is out of range. Volume goes from 0 to 10."},
		{"/api/dropdown", `{"name":"color","option":"green"}`, "Color set to Green."},
		{"/api/refresh", ``, "Found 5 controls."},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			code, body := f.call(t, http.MethodPost, tt.path, tt.body)
			if code != http.StatusOK {
				t.Fatalf("status %d: %v", code, body)
			}
			if body["text"] != tt.want {
				t.Errorf("text = %v, want %q", body["text"], tt.want)
			}
		})
	}
}

func TestOperations_BadRequests(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		path string
		body string
	}{
		{"/api/click", `{}`},
		{"/api/grab", `{"name":"ball","hand":"middle"}`},
		{"/api/release", `{}`},
		{"/api/toggle", `{"name":"ready"}`},
		{"/api/slider", `{"name":"volume"}`},
		{"/api/dropdown", `{"name":"color"}`},
	}
	for _, tt := range tests {
		if code, body := f.call(t, http.MethodPost, tt.path, tt.body); code != http.StatusBadRequest {
			t.Errorf("%s %s: status %d %v", tt.path, tt.body, code, body)
		}
	}
}

func TestStatusAndRegistry(t *testing.T) {
	f := newFixture(t)
	f.call(t, http.MethodPost, "/api/transcript", `{"text":"click start"}`)

	code, body := f.call(t, http.MethodGet, "/api/status", "")
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if body["entities"] != float64(5) || body["transcripts"] != float64(1) || body["last_reply"] != "Pressed Start." {
		t.Errorf("status = %v", body)
	}

	code, body = f.call(t, http.MethodGet, "/api/registry", "")
	if code != http.StatusOK {
		t.Fatalf("registry status %d", code)
	}
	buttons, _ := body["button"].([]any)
	if len(buttons) != 1 || buttons[0] != "start" {
		t.Errorf("registry = %v", body)
	}
}

func TestCommandsAndEvents(t *testing.T) {
	f := newFixture(t)
	f.call(t, http.MethodPost, "/api/transcript", `{"text":"click start"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/commands", nil)
	resp, err := f.srv.app.Test(req, -1)
	if err != nil {
		t.Fatalf("commands: %v", err)
	}
	var cmds []bridge.CommandInfo
	json.NewDecoder(resp.Body).Decode(&cmds)
	resp.Body.Close()
	if len(cmds) == 0 || cmds[0].ID != "grab" {
		t.Errorf("commands = %+v", cmds)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/events", nil)
	resp, err = f.srv.app.Test(req, -1)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	var events []hub.Event
	json.NewDecoder(resp.Body).Decode(&events)
	resp.Body.Close()
	if len(events) != 2 || events[0].Type != hub.TypeTranscript || events[1].Text != "Pressed Start." {
		t.Errorf("events = %+v", events)
	}
}

func TestWebsocketRequiresUpgrade(t *testing.T) {
	f := newFixture(t)
	if code, _ := f.call(t, http.MethodGet, "/ws/feedback", ""); code != http.StatusUpgradeRequired {
		t.Errorf("status = %d, want 426", code)
	}
}
