// ABOUTME: Dashboard command showing progress, feedback, and nutrition for one day.
// ABOUTME: Per-habit lookups run concurrently; failed habits are reported, not fatal.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/nutrition"
	"github.com/harperreed/nourish/internal/output"
	"github.com/harperreed/nourish/internal/progress"
	"github.com/spf13/cobra"
)

var (
	todayDate       string
	todayNoFeedback bool
)

var todayCmd = &cobra.Command{
	Use:     "today",
	Aliases: []string{"dash", "dashboard"},
	Short:   "Show today's progress and feedback",
	Long: `Show progress for every habit with an active target, the feedback for
each habit, and the day's nutrition totals.

Habits whose lookups fail are listed as unavailable; the rest still render.

EXAMPLES:

  nourish today
  nourish today --date yesterday
  nourish today --no-feedback`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDay(todayDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		u, err := currentUser()
		if err != nil {
			return err
		}

		types, err := activeHabitTypes(cmd.Context(), u)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  %s\n", output.StyleBold.Render(u.Name), output.StyleMuted.Render(models.FormatDate(date)))

		if len(types) == 0 {
			fmt.Fprintln(out, "\nNo targets set. Run 'nourish target set <type> <value>' or 'nourish target derive'.")
		} else {
			src, fb, err := progressSources()
			if err != nil {
				return err
			}
			if todayNoFeedback {
				fb = nil
			}

			snap, err := progress.Collect(cmd.Context(), src, fb, u.ID, types, date, cfg.GetFeedbackDays())
			if err != nil {
				return fmt.Errorf("failed to load progress: %w", err)
			}
			printSnapshot(cmd, snap)
		}

		day, err := nutrition.LoadDay(repo, u.ID, date, nutrition.DefaultTargets)
		if err != nil {
			return fmt.Errorf("failed to load meals: %w", err)
		}
		fmt.Fprintln(out, output.Section("Nutrition"))
		if len(day.Meals) == 0 {
			fmt.Fprintln(out, output.StyleMuted.Render(" No meals logged."))
			return nil
		}
		for _, r := range day.Rows()[:4] {
			fmt.Fprintf(out, " %s\n", output.NutrientLine(r))
		}
		fmt.Fprintln(out, output.StyleMuted.Render(fmt.Sprintf(" %d meal(s); 'nourish eat today' for the full panel", len(day.Meals))))
		return nil
	},
}

func printSnapshot(cmd *cobra.Command, snap *progress.Snapshot) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, output.Section("Progress"))
	for _, d := range snap.Progress {
		fmt.Fprintf(out, " %s\n", output.DailyLine(d))
	}

	if len(snap.Feedback) > 0 {
		fmt.Fprintln(out, output.Section("Feedback"))
		for _, f := range snap.Feedback {
			fmt.Fprintf(out, " %s %s\n", output.HabitLabel(f.HabitType), f.FeedbackMessage)
			for _, s := range f.Suggestions {
				fmt.Fprintf(out, "   %s %s\n", output.StyleMuted.Render("•"), s)
			}
			if f.Encouragement != "" {
				fmt.Fprintf(out, "   %s\n", output.StyleMuted.Render(f.Encouragement))
			}
		}
	}

	if snap.Partial() {
		names := make([]string, len(snap.Failed))
		for i, ht := range snap.Failed {
			names[i] = string(ht)
		}
		logger.Warn("dropped habit lookups", "habits", names)
		fmt.Fprintln(out, color.YellowString("\n⚠ Unavailable: %s", strings.Join(names, ", ")))
	}
}

// activeHabitTypes lists the habit types with an active target, in display order.
func activeHabitTypes(ctx context.Context, u *models.User) ([]models.HabitType, error) {
	targets, err := listTargets(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	var types []models.HabitType
	for _, t := range targets {
		if t.IsActive {
			types = append(types, t.HabitType)
		}
	}
	return types, nil
}

func init() {
	todayCmd.Flags().StringVar(&todayDate, "date", "", "day to show (today, yesterday, or YYYY-MM-DD)")
	todayCmd.Flags().BoolVar(&todayNoFeedback, "no-feedback", false, "skip feedback lookups")
	rootCmd.AddCommand(todayCmd)
}
