// voicebridge routes spoken commands to the controls and items of a scene.
// Transcripts arrive from a speech-to-text websocket, stdin, or the HTTP API;
// feedback is logged and pushed to /ws/feedback.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-voicebridge/internal/config"
	"github.com/teslashibe/go-voicebridge/internal/log"
	"github.com/teslashibe/go-voicebridge/pkg/bridge"
	"github.com/teslashibe/go-voicebridge/pkg/hub"
	"github.com/teslashibe/go-voicebridge/pkg/scene"
	"github.com/teslashibe/go-voicebridge/pkg/speech"
	"github.com/teslashibe/go-voicebridge/pkg/web"
)

type options struct {
	config.Config
	stdin bool
}

func main() {
	opts := parseFlags()
	log.Init(opts.LogLevel)

	if err := opts.Validate(); err != nil {
		fatal("configuration error", err)
	}

	world, err := scene.LoadFile(opts.ScenePath)
	if err != nil {
		fatal("load scene", err)
	}

	h := hub.New("feedback")

	var src speech.Source
	switch {
	case opts.STTURL != "":
		src = speech.NewWSSource(speech.DefaultWSConfig(opts.STTURL))
	case opts.stdin:
		src = speech.NewLineSource(os.Stdin)
	}

	ctrl, err := bridge.New(opts.Bridge(), bridge.Deps{
		Scene:   world,
		Anchors: world.Anchors(),
		Sink:    speech.Multi{speech.LogSink{}, h},
		Source:  src,
		Events:  h,
	})
	if err != nil {
		fatal("create bridge", err)
	}
	loop := bridge.NewLoop(ctrl, opts.TickRate)
	srv := web.NewServer(opts.ListenAddr, loop, h)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go h.Run(ctx)
	go func() {
		if err := srv.Start(); err != nil {
			log.Error("http server", "error", err)
			cancel()
		}
	}()

	status := ctrl.Status()
	log.Info("voicebridge started",
		"scene", opts.ScenePath,
		"entities", status.Entities,
		"scope", opts.Scope,
		"stt", opts.STTURL != "",
		"stdin", opts.stdin,
	)

	if err := loop.Run(ctx, src); err != nil {
		log.Error("bridge loop", "error", err)
	}

	if err := srv.Shutdown(); err != nil {
		log.Warn("http shutdown", "error", err)
	}
	log.Info("goodbye")
}

// parseFlags loads VOICEBRIDGE_* settings and applies flag overrides.
func parseFlags() options {
	cfg, err := config.Load()
	if err != nil {
		fatal("configuration error", err)
	}

	listen := flag.String("listen", cfg.ListenAddr, "HTTP listen address")
	sttURL := flag.String("stt-url", cfg.STTURL, "Speech-to-text websocket URL")
	scenePath := flag.String("scene", cfg.ScenePath, "Scene description file (YAML)")
	scope := flag.String("scope", cfg.Scope, "Only index entities under this path")
	level := flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	policy := flag.String("pick", cfg.PickPolicy, "Duplicate name policy: first, nearest")
	hand := flag.String("hand", cfg.PreferredHand, "Hand used when none is named: left, right")
	stdin := flag.Bool("stdin", false, "Read transcripts from stdin, one per line")
	debug := flag.Bool("debug", false, "Shorthand for -log-level debug")
	flag.Parse()

	cfg.ListenAddr, cfg.STTURL, cfg.ScenePath, cfg.Scope = *listen, *sttURL, *scenePath, *scope
	cfg.LogLevel, cfg.PickPolicy, cfg.PreferredHand = *level, *policy, *hand
	if *debug {
		cfg.LogLevel = "debug"
	}
	return options{Config: cfg, stdin: *stdin}
}

func fatal(msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
