// Package render draws a bench as terminal text.
//
// Blocks are laid out on their grid cells as bordered boxes; the same output
// serves the show command, the terminal UI and the render_bench agent tool.
// Colors are dropped automatically when the writer is not a terminal.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"benchboard/internal/domain"
	"benchboard/internal/sandbox"
)

// Terminal size of one grid cell, borders included.
const (
	CellWidth  = 30
	CellHeight = 7
)

var (
	colorCyan  = lipgloss.Color("36")
	colorAmber = lipgloss.Color("220")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Width(CellWidth - 2).Height(CellHeight - 2).Padding(0, 1)
	blankStyle   = lipgloss.NewStyle().Width(CellWidth).Height(CellHeight)
	cursorStyle  = boxStyle.BorderForeground(colorCyan)
	draggedStyle = boxStyle.BorderForeground(colorAmber)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// Options tweak a board drawing.
type Options struct {
	Grid   int
	Cursor *domain.Pos // cell to highlight, nil for none

	// FromOrigin starts the drawing at cell (0,0) even when it is empty, so
	// terminal offsets map straight back to surface cells.
	FromOrigin bool
}

type cell struct{ col, row int }

// Board draws every block on its grid cell. A block being dragged is drawn
// at its preview cell.
func Board(views []sandbox.BlockView, opts Options) string {
	if len(views) == 0 && opts.Cursor == nil {
		return dimStyle.Render("(empty bench)")
	}
	g := opts.Grid
	if g <= 0 {
		g = 1
	}
	at := func(p domain.Pos) cell { return cell{floorDiv(p.X, g), floorDiv(p.Y, g)} }

	byCell := make(map[cell]sandbox.BlockView, len(views))
	var minC, maxC cell
	switch {
	case len(views) > 0:
		minC, maxC = at(views[0].Pos()), at(views[0].Pos())
	default:
		minC, maxC = at(*opts.Cursor), at(*opts.Cursor)
	}
	for _, v := range views {
		pos := v.Pos()
		if v.Preview != nil {
			pos = *v.Preview
		}
		c := at(pos)
		byCell[c] = v
		minC.col, maxC.col = min(minC.col, c.col), max(maxC.col, c.col)
		minC.row, maxC.row = min(minC.row, c.row), max(maxC.row, c.row)
	}
	if opts.FromOrigin {
		minC.col, minC.row = min(minC.col, 0), min(minC.row, 0)
	}
	var cursor *cell
	if opts.Cursor != nil {
		c := at(*opts.Cursor)
		cursor = &c
		minC.col, maxC.col = min(minC.col, c.col), max(maxC.col, c.col)
		minC.row, maxC.row = min(minC.row, c.row), max(maxC.row, c.row)
	}

	rows := make([]string, 0, maxC.row-minC.row+1)
	for r := minC.row; r <= maxC.row; r++ {
		cols := make([]string, 0, maxC.col-minC.col+1)
		for c := minC.col; c <= maxC.col; c++ {
			here := cell{c, r}
			v, ok := byCell[here]
			focused := cursor != nil && *cursor == here
			switch {
			case ok:
				cols = append(cols, box(v, focused))
			case focused:
				cols = append(cols, cursorStyle.Render(dimStyle.Render("+")))
			default:
				cols = append(cols, blankStyle.Render(""))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func box(v sandbox.BlockView, focused bool) string {
	style := boxStyle
	switch {
	case v.Preview != nil:
		style = draggedStyle
	case focused:
		style = cursorStyle
	}
	title := v.Visual.Title
	if title == "" {
		title = string(v.Kind)
	}
	lines := append([]string{titleStyle.Render(title)}, v.Visual.Lines...)
	if v.Persistent {
		lines = append(lines, dimStyle.Render("fixed"))
	}
	return style.Render(strings.Join(lines, "\n"))
}

// Pins draws a pin table for one block, highlighting row selected (-1 for
// none).
func Pins(pins []domain.Pin, selected int) string {
	rows := make([][]string, 0, len(pins))
	for _, p := range pins {
		link := "-"
		if p.Peer != "" {
			link = short(p.Peer)
		}
		if p.Pending {
			link = "pending"
		}
		rows = append(rows, []string{
			fmt.Sprint(p.Index), p.Name, p.Role.String(), p.Mode.String(), p.Value.String(), link,
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Pin", "Role", "Mode", "Value", "Peer").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == selected {
				return titleStyle
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// Wires lists connected pairs, one per line, sorted for stable output.
func Wires(links []sandbox.Link) string {
	if len(links) == 0 {
		return dimStyle.Render("(no wires)")
	}
	lines := make([]string, len(links))
	for i, l := range links {
		lines[i] = end(l.From) + dimStyle.Render(" ── ") + end(l.To)
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

func end(e sandbox.End) string { return fmt.Sprintf("%s.%s", e.Kind, e.Pin) }

// Status renders the one-line footer with clock and pending selection.
func Status(clock int, pending bool) string {
	parts := []string{"clock: none"}
	if clock > 0 {
		parts[0] = fmt.Sprintf("clock: %d MHz", clock)
	}
	if pending {
		parts = append(parts, "pin selected")
	}
	return dimStyle.Render(strings.Join(parts, "  ·  "))
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
