// ABOUTME: Color palette and lipgloss styles for nourish output.
// ABOUTME: Color is switched off when stdout is not a terminal.
package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color constants for consistent styling across the CLI.
var (
	ColorPrimary = lipgloss.Color("#64b5f6")
	ColorMet     = lipgloss.Color("#66bb6a")
	ColorGood    = lipgloss.Color("#fff59d")
	ColorFair    = lipgloss.Color("#ffb74d")
	ColorLow     = lipgloss.Color("#ef5350")
	ColorMuted   = lipgloss.Color("#888888")
)

// Styles provides reusable lipgloss styles.
var (
	StyleHeader = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleMet    = lipgloss.NewStyle().Foreground(ColorMet)
	StyleGood   = lipgloss.NewStyle().Foreground(ColorGood)
	StyleFair   = lipgloss.NewStyle().Foreground(ColorFair)
	StyleLow    = lipgloss.NewStyle().Foreground(ColorLow)
	StyleMuted  = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleBold   = lipgloss.NewStyle().Bold(true)
	StyleLabel  = lipgloss.NewStyle().Width(14)
)

var noColor bool

// SetNoColor disables or enables color output globally.
func SetNoColor(disabled bool) {
	noColor = disabled
	if disabled {
		plain := lipgloss.NewStyle()
		StyleHeader = plain
		StyleMet = plain
		StyleGood = plain
		StyleFair = plain
		StyleLow = plain
		StyleMuted = plain
		StyleBold = plain
		StyleLabel = plain.Width(14)
	}
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// AutoColor disables color when stdout is not a terminal or NO_COLOR is set.
func AutoColor() {
	if os.Getenv("NO_COLOR") != "" || !IsTerminal(os.Stdout) {
		SetNoColor(true)
	}
}
