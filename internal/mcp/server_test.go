package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"benchboard/internal/domain"
	"benchboard/internal/layout"
	"benchboard/internal/sandbox"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	sess := sandbox.New(sandbox.Options{})
	if err := sess.Load("bench-1", sandbox.DefaultTemplate(layout.DefaultGrid)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(sess.Close)
	return New(context.Background(), Deps{Session: sess})
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, error) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		return "", err
	}
	if len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content = %T, want TextContent", res.Content[0])
	}
	return tc.Text, nil
}

func mustCall(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) string {
	t.Helper()
	out, err := call(t, h, args)
	if err != nil {
		t.Fatalf("tool error: %v", err)
	}
	return out
}

func blockID(t *testing.T, s *Server, kind domain.Kind) string {
	t.Helper()
	for _, b := range s.session.Blocks() {
		if b.Kind == kind {
			return b.ID
		}
	}
	t.Fatalf("no %s block", kind)
	return ""
}

func TestListBlocks(t *testing.T) {
	s := newTestServer(t)

	var all []blockSummary
	if err := json.Unmarshal([]byte(mustCall(t, s.handleListBlocks, nil)), &all); err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Fatalf("list_blocks = %d blocks, want 5", len(all))
	}

	var fpga []blockSummary
	if err := json.Unmarshal([]byte(mustCall(t, s.handleListBlocks, map[string]any{"kind": "fpga"})), &fpga); err != nil {
		t.Fatal(err)
	}
	if len(fpga) != 1 || !fpga[0].Persistent {
		t.Errorf("kind filter = %+v", fpga)
	}
}

func TestAddBlock(t *testing.T) {
	g := float64(layout.DefaultGrid)
	tests := []struct {
		name string
		args map[string]any
		want domain.Pos
	}{
		{"first free cell", map[string]any{"kind": "Switch4"}, domain.Pos{X: 3 * layout.DefaultGrid, Y: 0}},
		{"at point", map[string]any{"kind": "Digit7", "x": 2 * g, "y": 2 * g}, domain.Pos{X: 2 * layout.DefaultGrid, Y: 2 * layout.DefaultGrid}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			var got blockSummary
			if err := json.Unmarshal([]byte(mustCall(t, s.handleAddBlock, tt.args)), &got); err != nil {
				t.Fatal(err)
			}
			if (domain.Pos{X: got.X, Y: got.Y}) != tt.want {
				t.Errorf("position = (%d,%d), want %v", got.X, got.Y, tt.want)
			}
		})
	}
}

func TestAddBlock_Rejects(t *testing.T) {
	s := newTestServer(t)
	if _, err := call(t, s.handleAddBlock, map[string]any{}); err == nil {
		t.Error("missing kind accepted")
	}
	if _, err := call(t, s.handleAddBlock, map[string]any{"kind": "FPGA"}); !errors.Is(err, sandbox.ErrNotInsertable) {
		t.Errorf("FPGA insert err = %v, want ErrNotInsertable", err)
	}
}

func TestMoveAndDelete(t *testing.T) {
	s := newTestServer(t)
	id := blockID(t, s, domain.KindClock)
	g := float64(layout.DefaultGrid)

	var moved blockSummary
	if err := json.Unmarshal([]byte(mustCall(t, s.handleMoveBlock, map[string]any{"blockId": id, "x": 4 * g, "y": 0.0})), &moved); err != nil {
		t.Fatal(err)
	}
	if moved.X != 4*layout.DefaultGrid || moved.Y != 0 {
		t.Errorf("moved to (%d,%d)", moved.X, moved.Y)
	}

	mustCall(t, s.handleDeleteBlock, map[string]any{"blockId": id})
	if len(s.session.Blocks()) != 4 {
		t.Error("block not deleted")
	}
	if _, err := call(t, s.handleDeleteBlock, map[string]any{"blockId": blockID(t, s, domain.KindFPGA)}); !errors.Is(err, sandbox.ErrPersistentBlock) {
		t.Errorf("delete FPGA err = %v", err)
	}
}

func TestConnectAndToggle(t *testing.T) {
	s := newTestServer(t)
	sw := blockID(t, s, domain.KindSwitch4)
	fpga := blockID(t, s, domain.KindFPGA)

	mustCall(t, s.handleConnectPins, map[string]any{
		"fromBlock": sw, "fromPin": "sw0",
		"toBlock": fpga, "toPin": "0",
	})
	var links []sandbox.Link
	if err := json.Unmarshal([]byte(mustCall(t, s.handleListWires, nil)), &links); err != nil {
		t.Fatal(err)
	}
	if len(links) != 1 {
		t.Fatalf("list_wires = %d, want 1", len(links))
	}

	mustCall(t, s.handleToggleSwitch, map[string]any{"blockId": sw, "index": 0.0})
	pins, err := s.session.Pins(fpga)
	if err != nil {
		t.Fatal(err)
	}
	if pins[0].Value != domain.SignalHigh {
		t.Errorf("board input 0 = %v, want HIGH", pins[0].Value)
	}

	mustCall(t, s.handleDisconnectPin, map[string]any{"blockId": fpga, "pin": 0.0})
	if len(s.session.Links()) != 0 {
		t.Error("disconnect_pin left a wire")
	}
}

func TestConnect_ClockModeRejected(t *testing.T) {
	s := newTestServer(t)
	_, err := call(t, s.handleConnectPins, map[string]any{
		"fromBlock": blockID(t, s, domain.KindClock), "fromPin": "16M",
		"toBlock": blockID(t, s, domain.KindFPGA), "toPin": "3",
	})
	if err == nil {
		t.Fatal("clock source wired to a normal pin")
	}
	if st := s.session.State(); st.Pending != "" {
		t.Errorf("pending = %q after rejection, want none", st.Pending)
	}
}

func TestClickPin_Pending(t *testing.T) {
	s := newTestServer(t)
	out := mustCall(t, s.handleClickPin, map[string]any{"blockId": blockID(t, s, domain.KindSwitch4), "pin": "sw1"})
	if !strings.Contains(out, `"pending": true`) {
		t.Errorf("click_pin = %s", out)
	}
	if _, err := call(t, s.handleClickPin, map[string]any{"blockId": "nope", "pin": "0"}); !errors.Is(err, sandbox.ErrBlockNotFound) {
		t.Errorf("unknown block err = %v", err)
	}
}

func TestPressButton_Once(t *testing.T) {
	s := newTestServer(t)
	clk := blockID(t, s, domain.KindClock)
	mustCall(t, s.handlePressButton, map[string]any{"blockId": clk, "index": 0.0})
	pins, _ := s.session.Pins(clk)
	for _, p := range pins {
		if p.Name == "clk" && p.Value == domain.SignalHigh {
			t.Error("button left held after a single press")
		}
	}
}

func TestRenderBench(t *testing.T) {
	s := newTestServer(t)
	out := mustCall(t, s.handleRenderBench, nil)
	for _, want := range []string{"FPGA", "Switch4", "no wires", "clock: none"} {
		if !strings.Contains(out, want) {
			t.Errorf("render_bench missing %q", want)
		}
	}
}

func TestSaveBench_NoStore(t *testing.T) {
	s := newTestServer(t)
	if _, err := call(t, s.handleSaveBench, nil); !errors.Is(err, errNoStore) {
		t.Errorf("err = %v, want errNoStore", err)
	}
}

func TestStateResource(t *testing.T) {
	s := newTestServer(t)
	contents, err := s.handleStateResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	var st sandbox.State
	if err := json.Unmarshal([]byte(text), &st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if st.BenchID != "bench-1" || len(st.Layout.Blocks) != 5 {
		t.Errorf("state = bench %q with %d blocks", st.BenchID, len(st.Layout.Blocks))
	}
}

func TestCatalogResource(t *testing.T) {
	s := newTestServer(t)
	contents, err := s.handleCatalogResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	if !strings.Contains(text, `"kind": "Digit7"`) {
		t.Errorf("catalog missing Digit7")
	}
}
