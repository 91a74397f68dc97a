package web

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-voicebridge/pkg/bridge"
	"github.com/teslashibe/go-voicebridge/pkg/scene"
)

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	bridge.Status
	Clients int `json:"clients"`
}

// TranscriptRequest is the body of POST /api/transcript.
type TranscriptRequest struct {
	Text string `json:"text"`
}

// OperationRequest is the body of the direct operation endpoints. Each
// endpoint reads the fields it needs.
type OperationRequest struct {
	Name   string   `json:"name"`
	Hand   string   `json:"hand,omitempty"`
	On     *bool    `json:"on,omitempty"`
	Value  *float64 `json:"value,omitempty"`
	Option string   `json:"option,omitempty"`
}

// do runs fn on the control loop with the request's context.
func (s *Server) do(c *fiber.Ctx, fn func(*bridge.Controller)) error {
	err := s.loop.Do(c.UserContext(), fn)
	if errors.Is(err, bridge.ErrStopped) {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	return err
}

// reply runs op on the control loop and returns its Reply as JSON.
func (s *Server) reply(c *fiber.Ctx, op func(*bridge.Controller) bridge.Reply) error {
	var r bridge.Reply
	if err := s.do(c, func(ctrl *bridge.Controller) { r = op(ctrl) }); err != nil {
		return err
	}
	return c.JSON(r)
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	var st bridge.Status
	if err := s.do(c, func(ctrl *bridge.Controller) { st = ctrl.Status() }); err != nil {
		return err
	}
	return c.JSON(StatusResponse{Status: st, Clients: s.hub.ClientCount()})
}

func (s *Server) handleRegistry(c *fiber.Ctx) error {
	var keys map[string][]string
	if err := s.do(c, func(ctrl *bridge.Controller) { keys = ctrl.Registry() }); err != nil {
		return err
	}
	return c.JSON(keys)
}

func (s *Server) handleCommands(c *fiber.Ctx) error {
	var cmds []bridge.CommandInfo
	if err := s.do(c, func(ctrl *bridge.Controller) { cmds = ctrl.Commands() }); err != nil {
		return err
	}
	return c.JSON(cmds)
}

func (s *Server) handleEvents(c *fiber.Ctx) error {
	return c.JSON(s.hub.Recent())
}

func (s *Server) handleTranscript(c *fiber.Ctx) error {
	var req TranscriptRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "text is required")
	}
	return s.reply(c, func(ctrl *bridge.Controller) bridge.Reply {
		return ctrl.HandleTranscript(req.Text)
	})
}

func (s *Server) handleRefresh(c *fiber.Ctx) error {
	return s.reply(c, (*bridge.Controller).RefreshRegistry)
}

// operation parses the body and requires a name unless allowHand is set
// and a hand is given.
func operation(c *fiber.Ctx, allowHand bool) (OperationRequest, error) {
	var req OperationRequest
	if err := c.BodyParser(&req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if req.Hand != "" {
		if _, ok := scene.ParseHand(req.Hand); !ok {
			return req, fiber.NewError(fiber.StatusBadRequest, "hand must be left or right")
		}
	}
	if strings.TrimSpace(req.Name) == "" && !(allowHand && req.Hand != "") {
		return req, fiber.NewError(fiber.StatusBadRequest, "name is required")
	}
	return req, nil
}

func (s *Server) handleGrab(c *fiber.Ctx) error {
	req, err := operation(c, false)
	if err != nil {
		return err
	}
	return s.reply(c, func(ctrl *bridge.Controller) bridge.Reply {
		hand, ok := scene.ParseHand(req.Hand)
		if !ok {
			hand = ctrl.PreferredHand()
		}
		return ctrl.GrabByName(req.Name, hand)
	})
}

func (s *Server) handleRelease(c *fiber.Ctx) error {
	req, err := operation(c, true)
	if err != nil {
		return err
	}
	return s.reply(c, func(ctrl *bridge.Controller) bridge.Reply {
		hand, ok := scene.ParseHand(req.Hand)
		switch {
		case ok && strings.TrimSpace(req.Name) == "":
			return ctrl.ReleaseBySlot(hand)
		case ok:
			return ctrl.ReleaseFromSlot(hand, req.Name)
		}
		return ctrl.ReleaseByName(req.Name)
	})
}

func (s *Server) handleClick(c *fiber.Ctx) error {
	req, err := operation(c, false)
	if err != nil {
		return err
	}
	return s.reply(c, func(ctrl *bridge.Controller) bridge.Reply {
		return ctrl.ClickByName(req.Name)
	})
}

func (s *Server) handleToggle(c *fiber.Ctx) error {
	req, err := operation(c, false)
	if err != nil {
		return err
	}
	if req.On == nil {
		return fiber.NewError(fiber.StatusBadRequest, "on is required")
	}
	return s.reply(c, func(ctrl *bridge.Controller) bridge.Reply {
		return ctrl.SetToggleByName(req.Name, *req.On)
	})
}

func (s *Server) handleSlider(c *fiber.Ctx) error {
	req, err := operation(c, false)
	if err != nil {
		return err
	}
	if req.Value == nil {
		return fiber.NewError(fiber.StatusBadRequest, "value is required")
	}
	return s.reply(c, func(ctrl *bridge.Controller) bridge.Reply {
		return ctrl.SetSliderByName(req.Name, *req.Value)
	})
}

func (s *Server) handleDropdown(c *fiber.Ctx) error {
	req, err := operation(c, false)
	if err != nil {
		return err
	}
	if strings.TrimSpace(req.Option) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "option is required")
	}
	return s.reply(c, func(ctrl *bridge.Controller) bridge.Reply {
		return ctrl.SelectDropdownOptionByName(req.Name, req.Option)
	})
}
