package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	benchApp "benchboard/internal/app"
	"benchboard/internal/domain"
	"benchboard/internal/render"
	"benchboard/internal/sandbox"
)

func newTUICmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Drive the bench in the terminal",
		Long: `Opens the bench in a terminal UI. Drag blocks with the mouse; use the
keyboard to place blocks and wire pins. The bench is saved on exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			events := make(sessionEvents, 1)
			// the screen belongs to bubbletea; only errors reach stderr
			logger := loggerFromContext(ctx).With()
			logger.SetLevel(max(logger.GetLevel(), log.ErrorLevel))

			rt, err := benchApp.Boot(ctx, g.cfg, g.benchID, events, logger)
			if err != nil {
				return err
			}
			defer rt.Close(context.Background())
			if err := rt.StartAutosave(ctx); err != nil {
				return err
			}

			p := tea.NewProgram(newBenchModel(rt, events),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(ctx),
			)
			_, err = p.Run()
			return err
		},
	}
}

// sessionEvents collapses session emissions into redraw ticks.
type sessionEvents chan struct{}

func (c sessionEvents) Emit(context.Context, string, any) {
	select {
	case c <- struct{}{}:
	default:
	}
}

func (c sessionEvents) wait() tea.Cmd {
	return func() tea.Msg {
		<-c
		return redrawMsg{}
	}
}

type redrawMsg struct{}

type tuiMode int

const (
	modeBoard tuiMode = iota
	modePins
)

// boardTop is the number of header lines above the board.
const boardTop = 2

var (
	tuiSelected = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiError    = lipgloss.NewStyle().Foreground(lipgloss.Color("167"))
)

// benchModel is the bubbletea model for the bench surface.
type benchModel struct {
	rt     *benchApp.Runtime
	events sessionEvents
	grid   int

	mode   tuiMode
	cursor domain.Pos
	block  string // block whose pins are listed
	pin    int
	status string
	err    error
}

func newBenchModel(rt *benchApp.Runtime, events sessionEvents) *benchModel {
	return &benchModel{rt: rt, events: events, grid: rt.Session.Grid()}
}

func (m *benchModel) Init() tea.Cmd {
	return m.events.wait()
}

func (m *benchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case redrawMsg:
		return m, m.events.wait()
	case tea.WindowSizeMsg:
		m.rt.Session.Resize(domain.Point{}, float64(msg.Width), float64(msg.Height))
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.err = nil
		if m.mode == modePins {
			m.pinKey(msg.String())
			return m, nil
		}
		if msg.String() == "q" {
			return m, tea.Quit
		}
		m.boardKey(msg.String())
	}
	return m, nil
}

// ── Mouse ──────────────────────────────────────────────────

func (m *benchModel) mouse(msg tea.MouseMsg) {
	s := m.rt.Session
	at := m.surfacePoint(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			s.PointerDown(at, sandbox.ButtonLeft)
		case tea.MouseButtonRight:
			m.cursor = m.cellAt(at)
		}
	case tea.MouseActionMotion:
		s.PointerMove(at)
	case tea.MouseActionRelease:
		if id, ok := s.Dragging(); ok {
			s.PointerUp(at)
			m.status = "moved " + m.kindOf(id)
			return
		}
		s.PointerUp(at)
	}
}

// surfacePoint maps a terminal cell to a host point on the session surface.
func (m *benchModel) surfacePoint(x, y int) domain.Point {
	g := float64(m.grid)
	origin := m.origin()
	local := domain.Point{
		X: (float64(x)+0.5)*g/render.CellWidth + origin.X,
		Y: (float64(y-boardTop)+0.5)*g/render.CellHeight + origin.Y,
	}
	return local.Add(m.rt.Session.Scroll())
}

func (m *benchModel) cellAt(p domain.Point) domain.Pos {
	local := p.Sub(m.rt.Session.Scroll())
	g := m.grid
	return domain.Pos{X: floorTo(int(local.X), g), Y: floorTo(int(local.Y), g)}
}

// origin is the surface position of the board's top-left cell.
func (m *benchModel) origin() domain.Point {
	var o domain.Point
	for _, v := range m.rt.Session.Visuals() {
		pos := v.Pos()
		if v.Preview != nil {
			pos = *v.Preview
		}
		o.X, o.Y = min(o.X, float64(pos.X)), min(o.Y, float64(pos.Y))
	}
	return o
}

// ── Keyboard ───────────────────────────────────────────────

func (m *benchModel) boardKey(key string) {
	s := m.rt.Session
	switch key {
	case "left", "h":
		m.cursor.X -= m.grid
	case "right", "l":
		m.cursor.X += m.grid
	case "up", "k":
		m.cursor.Y -= m.grid
	case "down", "j":
		m.cursor.Y += m.grid
	case "shift+left", "H":
		m.shift(-m.grid, 0)
	case "shift+right", "L":
		m.shift(m.grid, 0)
	case "shift+up", "K":
		m.shift(0, -m.grid)
	case "shift+down", "J":
		m.shift(0, m.grid)
	case "1", "2", "3", "4":
		kinds := domain.Insertable()
		i := int(key[0] - '1')
		if i >= len(kinds) {
			return
		}
		b, err := s.Place(kinds[i], m.cursor.Point())
		if m.fail(err) {
			return
		}
		m.cursor = b.Pos()
		m.status = "placed " + string(b.Kind)
	case "enter", "p":
		if b, ok := m.underCursor(); ok {
			m.mode, m.block, m.pin = modePins, b.ID, 0
		}
	case "d", "x":
		if b, ok := m.underCursor(); ok && !m.fail(s.Delete(b.ID)) {
			m.status = "deleted " + string(b.Kind)
		}
	case "s":
		if !m.fail(m.rt.Benches.Save(context.Background())) {
			m.status = "saved"
		}
	}
	m.cursor.X, m.cursor.Y = max(m.cursor.X, 0), max(m.cursor.Y, 0)
}

func (m *benchModel) shift(dx, dy int) {
	b, ok := m.underCursor()
	if !ok {
		return
	}
	target := domain.Pos{X: b.X + dx, Y: b.Y + dy}
	moved, err := m.rt.Session.Move(b.ID, target.Point())
	if m.fail(err) {
		return
	}
	m.cursor = moved.Pos()
}

func (m *benchModel) pinKey(key string) {
	s := m.rt.Session
	pins, err := s.Pins(m.block)
	if m.fail(err) {
		m.mode = modeBoard
		return
	}
	switch key {
	case "esc", "q", "backspace":
		m.mode = modeBoard
	case "up", "k":
		m.pin = max(m.pin-1, 0)
	case "down", "j":
		m.pin = min(m.pin+1, len(pins)-1)
	case "enter", "c":
		s.ClickPin(pins[m.pin].ID)
	case "u":
		s.Disconnect(pins[m.pin].ID)
	case " ":
		m.actuate(pins[m.pin])
	}
}

// actuate flips the switch or pulses the button behind a pin.
func (m *benchModel) actuate(p domain.Pin) {
	s := m.rt.Session
	var idx int
	switch {
	case strings.HasPrefix(p.Name, "sw"):
		if _, err := fmt.Sscanf(p.Name, "sw%d", &idx); err == nil {
			m.fail(s.Toggle(m.block, idx))
		}
	case p.Name == "clk" || p.Name == "rst":
		if p.Name == "rst" {
			idx = 1
		}
		if !m.fail(s.Press(m.block, idx, true)) {
			m.fail(s.Press(m.block, idx, false))
		}
	}
}

func (m *benchModel) underCursor() (domain.Block, bool) {
	for _, b := range m.rt.Session.Blocks() {
		if b.Pos() == m.cursor {
			return b, true
		}
	}
	return domain.Block{}, false
}

func (m *benchModel) kindOf(id string) string {
	for _, b := range m.rt.Session.Blocks() {
		if b.ID == id {
			return string(b.Kind)
		}
	}
	return "block"
}

func (m *benchModel) fail(err error) bool {
	if err != nil {
		m.err = err
		return true
	}
	return false
}

// ── View ───────────────────────────────────────────────────

func (m *benchModel) View() string {
	s := m.rt.Session
	st := s.State()

	var b strings.Builder
	b.WriteString(styleTitle.Render("Benchboard") + " " + styleDim.Render(st.BenchID) + "\n")
	if m.mode == modePins {
		b.WriteString(styleDim.Render("↑/↓ pin  ⏎ click  space switch/button  u unwire  esc back") + "\n")
	} else {
		b.WriteString(styleDim.Render("arrows move  1-4 place  ⇧+arrows shift  ⏎ pins  d delete  s save  q quit") + "\n")
	}

	cursor := m.cursor
	board := render.Board(st.Layout.Blocks, render.Options{Grid: m.grid, Cursor: &cursor, FromOrigin: true})
	if m.mode == modePins {
		if pins, err := s.Pins(m.block); err == nil {
			panel := tuiSelected.Render(m.kindOf(m.block)+" pins") + "\n" + render.Pins(pins, m.pin)
			board = lipgloss.JoinHorizontal(lipgloss.Top, board, "  ", panel)
		}
	}
	b.WriteString(board + "\n\n")
	b.WriteString(render.Wires(s.Links()) + "\n")
	b.WriteString(render.Status(st.Clock, st.Pending != ""))
	switch {
	case m.err != nil:
		b.WriteString("  " + tuiError.Render(m.err.Error()))
	case m.status != "":
		b.WriteString("  " + styleDim.Render(m.status))
	}
	return b.String()
}

func floorTo(v, g int) int {
	q := v / g
	if v%g != 0 && v < 0 {
		q--
	}
	return q * g
}
