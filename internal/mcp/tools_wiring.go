package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"benchboard/internal/domain"
)

func (s *Server) registerWiringTools() {
	// ── click_pin ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("click_pin",
		mcp.WithDescription("Click a pin as a user would. The first click selects it, a click on a second pin wires the two, a second click on the same pin clears the selection."),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("pin", mcp.Description("Pin name or index (see list_pins)"), mcp.Required()),
	), s.handleClickPin)

	// ── connect_pins ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("connect_pins",
		mcp.WithDescription("Wire two pins together, replacing any wire already on either. Clock sources only connect to the board clock pin."),
		mcp.WithString("fromBlock", mcp.Description("Block ID of the first pin"), mcp.Required()),
		mcp.WithString("fromPin", mcp.Description("Name or index of the first pin"), mcp.Required()),
		mcp.WithString("toBlock", mcp.Description("Block ID of the second pin"), mcp.Required()),
		mcp.WithString("toPin", mcp.Description("Name or index of the second pin"), mcp.Required()),
	), s.handleConnectPins)

	// ── disconnect_pin ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("disconnect_pin",
		mcp.WithDescription("Remove the wire attached to a pin"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithString("pin", mcp.Description("Pin name or index"), mcp.Required()),
	), s.handleDisconnectPin)

	// ── list_wires ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_wires",
		mcp.WithDescription("List every wire on the bench by block and pin name"),
	), s.handleListWires)

	// ── toggle_switch ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("toggle_switch",
		mcp.WithDescription("Flip one of the four switches of a Switch4 block"),
		mcp.WithString("blockId", mcp.Description("Switch4 block ID"), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Switch index 0-3"), mcp.Required()),
	), s.handleToggleSwitch)

	// ── press_button ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("press_button",
		mcp.WithDescription("Hold or release a push button of a Clock block (0 = manual clock, 1 = reset). Omitting down presses and releases once."),
		mcp.WithString("blockId", mcp.Description("Clock block ID"), mcp.Required()),
		mcp.WithNumber("index", mcp.Description("Button index"), mcp.Required()),
		mcp.WithBoolean("down", mcp.Description("true to hold, false to release (optional)")),
	), s.handlePressButton)

	// ── set_board_output ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_board_output",
		mcp.WithDescription("Drive an FPGA output pin as if the board reported a new level"),
		mcp.WithNumber("pin", mcp.Description("FPGA pin number"), mcp.Required()),
		mcp.WithString("value", mcp.Description("Level: high, low or undefined (H, L, X also accepted)"), mcp.Required()),
	), s.handleSetBoardOutput)
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleClickPin(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.pinArg(req.GetArguments(), "blockId", "pin")
	if err != nil {
		return nil, err
	}
	s.session.ClickPin(id)
	return jsonResult(s.pinState(id))
}

func (s *Server) handleConnectPins(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	a, err := s.pinArg(args, "fromBlock", "fromPin")
	if err != nil {
		return nil, err
	}
	b, err := s.pinArg(args, "toBlock", "toPin")
	if err != nil {
		return nil, err
	}
	if !s.session.Connect(a, b) {
		return nil, fmt.Errorf("pins cannot be connected: incompatible modes or same pin")
	}
	return textResult("Pins connected"), nil
}

func (s *Server) handleDisconnectPin(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.pinArg(req.GetArguments(), "blockId", "pin")
	if err != nil {
		return nil, err
	}
	s.session.Disconnect(id)
	return textResult("Pin disconnected"), nil
}

func (s *Server) handleListWires(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.session.Links())
}

func (s *Server) handleToggleSwitch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	blockID, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	if err := s.session.Toggle(blockID, int(getFloat(args, "index", 0))); err != nil {
		return nil, fmt.Errorf("toggle: %w", err)
	}
	return jsonResult(s.visual(blockID))
}

func (s *Server) handlePressButton(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	blockID, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	index := int(getFloat(args, "index", 0))
	if _, held := args["down"]; held {
		err = s.session.Press(blockID, index, getBool(args, "down", true))
	} else {
		err = s.session.Press(blockID, index, true)
		if err == nil {
			err = s.session.Press(blockID, index, false)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("press: %w", err)
	}
	return jsonResult(s.visual(blockID))
}

func (s *Server) handleSetBoardOutput(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	var v domain.Signal
	if err := v.UnmarshalText([]byte(req.GetString("value", ""))); err != nil {
		return nil, err
	}
	if err := s.session.SetBoardOutput(int(getFloat(args, "pin", -1)), v); err != nil {
		return nil, fmt.Errorf("set board output: %w", err)
	}
	return textResult("Board output set"), nil
}

// pinState reports a pin after a click.
func (s *Server) pinState(id string) map[string]any {
	blockID, index, ok := s.session.Owner(id)
	if !ok {
		return map[string]any{"id": id}
	}
	pins, err := s.session.Pins(blockID)
	if err != nil || index >= len(pins) {
		return map[string]any{"id": id}
	}
	p := pins[index]
	return map[string]any{
		"id":      p.ID,
		"name":    p.Name,
		"pending": p.Pending,
		"peer":    p.Peer,
		"value":   p.Value,
	}
}

func (s *Server) visual(blockID string) any {
	for _, v := range s.session.Visuals() {
		if v.ID == blockID {
			return v.Visual
		}
	}
	return nil
}
