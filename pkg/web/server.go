// Package web serves the voice bridge's HTTP control surface: transcripts
// and direct operations in, status and registry out, and a websocket
// stream of everything the bridge says.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-voicebridge/internal/log"
	"github.com/teslashibe/go-voicebridge/pkg/bridge"
	"github.com/teslashibe/go-voicebridge/pkg/hub"
)

// Server is the control surface.
type Server struct {
	app  *fiber.App
	addr string
	loop *bridge.Loop
	hub  *hub.Hub
}

// NewServer creates a server that drives loop and streams events from h.
func NewServer(addr string, loop *bridge.Loop, h *hub.Hub) *Server {
	s := &Server{addr: addr, loop: loop, hub: h}

	app := fiber.New(fiber.Config{
		AppName:               "voicebridge",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/registry", s.handleRegistry)
	api.Get("/commands", s.handleCommands)
	api.Get("/events", s.handleEvents)
	api.Post("/transcript", s.handleTranscript)
	api.Post("/refresh", s.handleRefresh)
	api.Post("/grab", s.handleGrab)
	api.Post("/release", s.handleRelease)
	api.Post("/click", s.handleClick)
	api.Post("/toggle", s.handleToggle)
	api.Post("/slider", s.handleSlider)
	api.Post("/dropdown", s.handleDropdown)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/feedback", websocket.New(func(conn *websocket.Conn) {
		hub.Serve(s.hub, conn)
	}))

	s.app = app
	return s
}

// Start serves until Shutdown.
func (s *Server) Start() error {
	log.Info("control surface listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.Error("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
