// ABOUTME: CLI commands rendering daily, weekly, and monthly progress windows.
// ABOUTME: A habit needs an active target; slots that fail to load render as zero.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/output"
	"github.com/harperreed/nourish/internal/progress"
	"github.com/spf13/cobra"
)

var progressDate string

var progressCmd = &cobra.Command{
	Use:     "progress [daily|weekly|monthly] <type>",
	Aliases: []string{"p"},
	Short:   "Show progress over time for a habit",
	Long: `Show a habit's progress over a trailing window.

WINDOWS:

  daily     the last 7 days, oldest first (default)
  weekly    the last 4 weeks, Sunday to Saturday
  monthly   the last 6 calendar months

Completion above 100% is shown as a full bar.

EXAMPLES:

  nourish progress water                     # Same as 'progress daily water'
  nourish progress weekly exercise
  nourish progress monthly sleep --date 2026-01-31`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDailyProgress(cmd, args[0])
	},
}

var progressDailyCmd = &cobra.Command{
	Use:   "daily <type>",
	Short: "Show the last 7 days",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDailyProgress(cmd, args[0])
	},
}

var progressWeeklyCmd = &cobra.Command{
	Use:   "weekly <type>",
	Short: "Show the last 4 weeks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPeriodProgress(cmd, args[0], (*progress.Engine).WeeklyWindow)
	},
}

var progressMonthlyCmd = &cobra.Command{
	Use:   "monthly <type>",
	Short: "Show the last 6 months",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPeriodProgress(cmd, args[0], (*progress.Engine).MonthlyWindow)
	},
}

// progressEngine resolves the habit, user, and engine shared by every window.
func progressEngine(typeArg string) (*progress.Engine, *models.User, models.HabitType, error) {
	ht, err := models.ParseHabitType(typeArg)
	if err != nil {
		return nil, nil, "", err
	}
	u, err := currentUser()
	if err != nil {
		return nil, nil, "", err
	}
	src, _, err := progressSources()
	if err != nil {
		return nil, nil, "", err
	}
	return progress.NewEngine(src).WithLogger(logger.Logger), u, ht, nil
}

func runDailyProgress(cmd *cobra.Command, typeArg string) error {
	ref, err := parseDay(progressDate)
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}
	engine, u, ht, err := progressEngine(typeArg)
	if err != nil {
		return err
	}
	if err := requireTarget(cmd.Context(), u.ID, ht); err != nil {
		return err
	}

	series, err := engine.DailyWindow(cmd.Context(), u.ID, ht, ref)
	if err != nil {
		return fmt.Errorf("failed to load daily progress: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, output.Section(fmt.Sprintf("%s %s, last %d days", ht.Icon(), ht, progress.DailyWindowDays)))
	for _, d := range series.Days {
		line := fmt.Sprintf(" %s %s  %s / %s %s",
			output.StyleLabel.Render(d.Date.Format("Mon Jan 02")),
			output.Bar(d.CompletionPercentage, 20),
			output.FormatValue(d.LoggedValue), output.FormatValue(d.TargetValue), ht.Unit())
		if d.IsGoalMet {
			line += output.StyleMet.Render(" ✓")
		}
		fmt.Fprintln(out, line)
	}
	printMissing(cmd, series.Partial, series.Missing)
	return nil
}

type periodWindow func(*progress.Engine, context.Context, uuid.UUID, models.HabitType, time.Time) (*progress.PeriodSeries, error)

func runPeriodProgress(cmd *cobra.Command, typeArg string, window periodWindow) error {
	ref, err := parseDay(progressDate)
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}
	engine, u, ht, err := progressEngine(typeArg)
	if err != nil {
		return err
	}
	if err := requireTarget(cmd.Context(), u.ID, ht); err != nil {
		return err
	}

	series, err := window(engine, cmd.Context(), u.ID, ht, ref)
	if err != nil {
		return fmt.Errorf("failed to load %s progress: %w", cmd.Name(), err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, output.Section(fmt.Sprintf("%s %s, %s", ht.Icon(), ht, cmd.Name())))
	for _, p := range series.Periods {
		fmt.Fprintf(out, " %s  %s %s\n", output.PeriodLine(p),
			output.StyleMuted.Render(fmt.Sprintf("%s-%s", p.Start.Format("Jan 02"), p.End.Format("Jan 02"))),
			output.StyleMuted.Render(fmt.Sprintf("total %s %s", output.FormatValue(p.TotalValue), ht.Unit())))
	}
	printMissing(cmd, series.Partial, series.Missing)
	return nil
}

func printMissing(cmd *cobra.Command, partial bool, missing []string) {
	if !partial {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("\n⚠ Shown as zero, could not load: %s", strings.Join(missing, ", ")))
}

func init() {
	progressCmd.PersistentFlags().StringVar(&progressDate, "date", "", "reference date (today, yesterday, or YYYY-MM-DD)")

	progressCmd.AddCommand(progressDailyCmd, progressWeeklyCmd, progressMonthlyCmd)
	rootCmd.AddCommand(progressCmd)
}
