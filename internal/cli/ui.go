package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	styleTitle       = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim         = lipgloss.NewStyle().Foreground(colorDim)
	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
)

const iconSuccess = "✓"

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// printSection prints a titled block of pre-rendered text.
func printSection(w io.Writer, title, body string) {
	fmt.Fprintln(w, styleTitle.Render(title))
	fmt.Fprintln(w, body)
	fmt.Fprintln(w)
}
