// ABOUTME: Tests for terminal progress rendering.
// ABOUTME: Runs with color disabled so output is plain text.
package output

import (
	"strings"
	"testing"
	"time"

	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/nutrition"
	"github.com/harperreed/nourish/internal/progress"
)

func init() {
	SetNoColor(true)
}

func TestBarClampsForDisplay(t *testing.T) {
	tests := []struct {
		pct        float64
		filled     int
		wantSuffix string
	}{
		{0, 0, "  0%"},
		{50, 5, " 50%"},
		{100, 10, "100%"},
		{250, 10, "100%"},
		{-20, 0, "  0%"},
	}

	for _, tc := range tests {
		got := Bar(tc.pct, 10)
		if n := strings.Count(got, "█"); n != tc.filled {
			t.Errorf("Bar(%v) filled = %d, want %d", tc.pct, n, tc.filled)
		}
		if !strings.HasSuffix(got, tc.wantSuffix) {
			t.Errorf("Bar(%v) = %q, want suffix %q", tc.pct, got, tc.wantSuffix)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2000, "2000"},
		{7.5, "7.5"},
		{0, "0"},
	}
	for _, tc := range tests {
		if got := FormatValue(tc.in); got != tc.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDailyLine(t *testing.T) {
	d := progress.Daily{
		Date:                 time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC),
		HabitType:            models.HabitWater,
		LoggedValue:          1500,
		TargetValue:          2000,
		CompletionPercentage: 75,
		StreakDays:           3,
	}
	got := DailyLine(d)
	for _, want := range []string{"water", "1500 / 2000 ml", "75%", "🔥 3"} {
		if !strings.Contains(got, want) {
			t.Errorf("DailyLine() = %q, missing %q", got, want)
		}
	}
}

func TestNutrientLine(t *testing.T) {
	got := NutrientLine(nutrition.Row{Name: "Protein", Unit: "g", Consumed: 31, Target: 150})
	if !strings.Contains(got, "31 / 150 g") {
		t.Errorf("NutrientLine() = %q", got)
	}
}

func TestLevelStyleBands(t *testing.T) {
	if LevelStyle(nutrition.LevelMet).Render("x") != "x" {
		t.Error("plain style should render text unchanged")
	}
}
