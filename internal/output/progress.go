// ABOUTME: Progress bars and habit lines for terminal output.
// ABOUTME: Completion is clamped to 100% for display only.
package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/nutrition"
	"github.com/harperreed/nourish/internal/progress"
)

// LevelStyle returns the style for a completion band.
func LevelStyle(l nutrition.Level) lipgloss.Style {
	switch l {
	case nutrition.LevelMet:
		return StyleMet
	case nutrition.LevelGood:
		return StyleGood
	case nutrition.LevelFair:
		return StyleFair
	default:
		return StyleLow
	}
}

// Bar renders a progress bar for pct, clamped to 0-100 for display.
// Example: "████████░░ 80%"
func Bar(pct float64, width int) string {
	if width <= 0 {
		width = 20
	}
	shown := nutrition.Clamp(pct)
	filled := int((shown / 100.0) * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := LevelStyle(nutrition.LevelFor(pct))
	return fmt.Sprintf("%s %s", style.Render(bar), StyleMuted.Render(fmt.Sprintf("%3.0f%%", shown)))
}

// HabitLabel renders the habit's icon and name in its own color.
func HabitLabel(ht models.HabitType) string {
	style := StyleLabel
	if !noColor {
		style = style.Foreground(lipgloss.Color(ht.Color()))
	}
	return style.Render(fmt.Sprintf("%s %s", ht.Icon(), ht))
}

// DailyLine renders one habit's daily progress.
func DailyLine(d progress.Daily) string {
	line := fmt.Sprintf("%s %s  %s / %s %s",
		HabitLabel(d.HabitType), Bar(d.CompletionPercentage, 20),
		FormatValue(d.LoggedValue), FormatValue(d.TargetValue), d.HabitType.Unit())
	if d.StreakDays > 0 {
		line += StyleMuted.Render(fmt.Sprintf("  🔥 %d", d.StreakDays))
	}
	return line
}

// PeriodLine renders one bucket of a weekly or monthly series.
func PeriodLine(p progress.Period) string {
	return fmt.Sprintf("%s %s  %d/%d days",
		StyleLabel.Render(p.Label), Bar(p.CompletionPercentage, 20), p.DaysMet, p.TotalDays)
}

// NutrientLine renders one row of the nutrition panel.
func NutrientLine(r nutrition.Row) string {
	pct := nutrition.Percent(r.Consumed, r.Target)
	return fmt.Sprintf("%s %s  %s / %s %s",
		StyleLabel.Render(r.Name), Bar(pct, 16), FormatValue(r.Consumed), FormatValue(r.Target), r.Unit)
}

// Section prints a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 48))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// FormatValue prints whole numbers without decimals and others with one.
func FormatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
