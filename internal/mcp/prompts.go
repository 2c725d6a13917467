package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("wire_counter",
		mcp.WithPromptDescription("Wire switches and displays so the board design can be exercised by hand"),
		mcp.WithArgument("design",
			mcp.ArgumentDescription("What the design on the FPGA does, e.g. a 4-bit counter"),
			mcp.RequiredArgument(),
		),
	), s.handleWireCounterPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("clock_board",
		mcp.WithPromptDescription("Feed the board clock pin from a Clock block"),
		mcp.WithArgument("mhz",
			mcp.ArgumentDescription("Frequency in MHz: 16, 8, 4, 2 or 1"),
			mcp.RequiredArgument(),
		),
	), s.handleClockBoardPrompt)
}

func (s *Server) handleWireCounterPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	design := req.Params.Arguments["design"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Wire the bench for: %s", design),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Set up the bench to exercise "%s". Follow these steps:

1. Use list_blocks to find the FPGA board and what is already placed
2. Use list_pins on the FPGA: the low-numbered pins are inputs into the board, the rest up to 36 are outputs, pin 37 is the clock
3. Add a Switch4 (add_block) for each group of four inputs and wire sw0..sw3 to board inputs with connect_pins
4. Add a Digit4 and wire its A:8, A:4, A:2, A:1 pins to four board outputs so the result reads as a hex digit
5. Check the result with list_wires and render_bench, then save_bench

Wires are not saved with the bench, only block positions.`, design),
				},
			},
		},
	}, nil
}

func (s *Server) handleClockBoardPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	mhz := req.Params.Arguments["mhz"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Clock the board at %s MHz", mhz),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Clock the FPGA at %s MHz:

1. Find a Clock block with list_blocks, or add one with add_block
2. Wire the Clock pin "%sM" to FPGA pin 37 with connect_pins (clock pins only connect to the board clock pin)
3. Read bench://state and confirm the clock field reports %s`, mhz, mhz, mhz),
				},
			},
		},
	}, nil
}
