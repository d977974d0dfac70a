// ABOUTME: CLI commands for free-text meal logging and the nutrition panel.
// ABOUTME: Meals are estimated by keyword and added to the day's running totals.
package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/nutrition"
	"github.com/harperreed/nourish/internal/output"
	"github.com/spf13/cobra"
)

var (
	eatAt       string
	eatShowDate string
)

var eatCmd = &cobra.Command{
	Use:   "eat <description>",
	Short: "Log a meal from a short description",
	Long: `Log what you ate in plain words. Known foods are estimated and added to
the day's nutrition totals; "water 500" adds 500 ml of water.

KNOWN FOODS:

  chicken, salad, rice, avocado, water <ml>

Descriptions with no known foods are still saved as meals, adding nothing.

EXAMPLES:

  nourish eat "grilled chicken salad"
  nourish eat rice and avocado --at "2026-03-18 12:30"
  nourish eat "water 500"
  nourish eat today                      # Show today's nutrition panel
  nourish eat today --date yesterday`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")

		at := time.Now()
		if eatAt != "" {
			t, err := parseTime(eatAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", eatAt)
			}
			at = t
		}

		u, err := currentUser()
		if err != nil {
			return err
		}

		day, meal, err := nutrition.Record(repo, u.ID, text, at, nutrition.DefaultTargets)
		if err != nil {
			if errors.Is(err, nutrition.ErrEmptyInput) {
				return errors.New("describe what you ate, e.g. nourish eat \"chicken salad\"")
			}
			return fmt.Errorf("failed to log meal: %w", err)
		}

		out := cmd.OutOrStdout()
		if meal.Nutrients.IsZero() {
			fmt.Fprintln(out, color.YellowString("✓ Logged meal, but no known foods were found"))
			return nil
		}

		if matched := nutrition.Matched(text); len(matched) > 0 {
			fmt.Fprintln(out, color.GreenString("✓ Logged %s", strings.Join(matched, ", ")))
		} else {
			fmt.Fprintln(out, color.GreenString("✓ Logged meal"))
		}
		faint := color.New(color.Faint)
		if meal.Nutrients.Calories > 0 {
			fmt.Fprintf(out, "  %s +%s kcal, %s of %s kcal today\n",
				faint.Sprint(shortID(meal.ID)),
				output.FormatValue(meal.Nutrients.Calories),
				output.FormatValue(day.Consumed.Calories),
				output.FormatValue(day.Targets.Calories))
		}
		if meal.Nutrients.Water > 0 {
			fmt.Fprintf(out, "  %s +%s ml water, %s of %s ml today\n",
				faint.Sprint(shortID(meal.ID)),
				output.FormatValue(meal.Nutrients.Water),
				output.FormatValue(day.Consumed.Water),
				output.FormatValue(day.Targets.Water))
		}
		return nil
	},
}

var eatTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show the day's nutrition panel",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDay(eatShowDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		u, err := currentUser()
		if err != nil {
			return err
		}

		day, err := nutrition.LoadDay(repo, u.ID, date, nutrition.DefaultTargets)
		if err != nil {
			return fmt.Errorf("failed to load meals: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, output.Section("Nutrition "+models.FormatDate(day.Date)))
		for _, r := range day.Rows() {
			fmt.Fprintf(out, " %s\n", output.NutrientLine(r))
		}

		fmt.Fprintln(out, output.Section("Meals"))
		if len(day.Meals) == 0 {
			fmt.Fprintln(out, output.StyleMuted.Render(" No meals logged."))
			return nil
		}
		for _, m := range day.Meals {
			fmt.Fprintf(out, " %s %s %s\n",
				output.StyleMuted.Render(m.EatenAt.Format("15:04")),
				padRight(truncate(m.Label, 40), 40),
				output.StyleMuted.Render(output.FormatValue(m.Nutrients.Calories)+" kcal"))
		}
		return nil
	},
}

// parseTime accepts a date, a date and time, or RFC 3339.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func init() {
	eatCmd.Flags().StringVar(&eatAt, "at", "", "when the meal was eaten (YYYY-MM-DD HH:MM)")
	eatTodayCmd.Flags().StringVar(&eatShowDate, "date", "", "day to show (today, yesterday, or YYYY-MM-DD)")

	eatCmd.AddCommand(eatTodayCmd)
	rootCmd.AddCommand(eatCmd)
}
