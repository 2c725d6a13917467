package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"benchboard/internal/domain"
	"benchboard/internal/render"
)

func (s *Server) registerBenchTools() {
	kinds := make([]string, 0, len(domain.Insertable()))
	for _, k := range domain.Insertable() {
		kinds = append(kinds, string(k))
	}

	// ── list_blocks ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_blocks",
		mcp.WithDescription("List the blocks on the bench with their grid positions"),
		mcp.WithString("kind", mcp.Description("Filter by block kind (optional)")),
	), s.handleListBlocks)

	// ── add_block ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_block",
		mcp.WithDescription("Add a block to the bench. Without x/y it lands in the first free grid cell; with x/y it lands in the free cell nearest that point."),
		mcp.WithString("kind",
			mcp.Description("Block kind: "+strings.Join(kinds, ", ")),
			mcp.Required(),
		),
		mcp.WithNumber("x", mcp.Description("X position on the surface (optional)")),
		mcp.WithNumber("y", mcp.Description("Y position on the surface (optional)")),
	), s.handleAddBlock)

	// ── move_block ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_block",
		mcp.WithDescription("Move a block to the free grid cell nearest (x, y)"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("Target X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Target Y position"), mcp.Required()),
	), s.handleMoveBlock)

	// ── delete_block (destructive) ─────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_block",
		mcp.WithDescription("Delete a block and every wire attached to its pins. The FPGA board cannot be deleted."),
		mcp.WithString("blockId", mcp.Description("Block ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteBlock)

	// ── list_pins ──────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_pins",
		mcp.WithDescription("List the pins of a block with role, mode, current level and peer"),
		mcp.WithString("blockId", mcp.Description("Block ID"), mcp.Required()),
	), s.handleListPins)

	// ── render_bench ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("render_bench",
		mcp.WithDescription("Draw the bench as text: blocks on their grid cells, wires and the board clock"),
	), s.handleRenderBench)

	// ── save_bench ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_bench",
		mcp.WithDescription("Persist the current block layout. Wires are not saved."),
	), s.handleSaveBench)
}

// ── Handlers ───────────────────────────────────────────────

type blockSummary struct {
	ID         string      `json:"id"`
	Kind       domain.Kind `json:"kind"`
	X          int         `json:"x"`
	Y          int         `json:"y"`
	Persistent bool        `json:"persistent,omitempty"`
}

func summarize(b domain.Block) blockSummary {
	return blockSummary{ID: b.ID, Kind: b.Kind, X: b.X, Y: b.Y, Persistent: b.Persistent}
}

func (s *Server) handleListBlocks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := req.GetString("kind", "")
	out := []blockSummary{}
	for _, b := range s.session.Blocks() {
		if kind != "" && !strings.EqualFold(string(b.Kind), kind) {
			continue
		}
		out = append(out, summarize(b))
	}
	return jsonResult(out)
}

func (s *Server) handleAddBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	kind, err := requireString(args, "kind")
	if err != nil {
		return nil, err
	}

	x, hasX := args["x"].(float64)
	y, hasY := args["y"].(float64)
	var b domain.Block
	if hasX && hasY {
		b, err = s.session.Place(domain.Kind(kind), domain.Point{X: x, Y: y})
	} else {
		b, err = s.session.Insert(domain.Kind(kind))
	}
	if err != nil {
		return nil, fmt.Errorf("add block: %w", err)
	}
	s.logger.Debug("block added", "kind", b.Kind, "x", b.X, "y", b.Y)
	return jsonResult(summarize(b))
}

func (s *Server) handleMoveBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	blockID, err := requireString(args, "blockId")
	if err != nil {
		return nil, err
	}
	at := domain.Point{X: getFloat(args, "x", 0), Y: getFloat(args, "y", 0)}
	b, err := s.session.Move(blockID, at)
	if err != nil {
		return nil, fmt.Errorf("move block: %w", err)
	}
	return jsonResult(summarize(b))
}

func (s *Server) handleDeleteBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID, err := requireString(req.GetArguments(), "blockId")
	if err != nil {
		return nil, err
	}
	if err := s.session.Delete(blockID); err != nil {
		return nil, fmt.Errorf("delete block: %w", err)
	}
	s.logger.Debug("block deleted", "id", blockID)
	return textResult(fmt.Sprintf("Block %s deleted", blockID)), nil
}

func (s *Server) handleListPins(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID, err := requireString(req.GetArguments(), "blockId")
	if err != nil {
		return nil, err
	}
	pins, err := s.session.Pins(blockID)
	if err != nil {
		return nil, fmt.Errorf("list pins: %w", err)
	}
	return jsonResult(pins)
}

func (s *Server) handleRenderBench(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := s.session.State()
	var b strings.Builder
	b.WriteString(render.Board(st.Layout.Blocks, render.Options{Grid: s.session.Grid()}))
	b.WriteString("\n\n")
	b.WriteString(render.Wires(s.session.Links()))
	b.WriteString("\n")
	b.WriteString(render.Status(st.Clock, st.Pending != ""))
	return textResult(b.String()), nil
}

var errNoStore = errors.New("no bench store attached")

func (s *Server) handleSaveBench(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.benches == nil {
		return nil, errNoStore
	}
	if err := s.benches.Save(ctx); err != nil {
		return nil, fmt.Errorf("save bench: %w", err)
	}
	return textResult(fmt.Sprintf("Bench %s saved", s.session.BenchID())), nil
}
