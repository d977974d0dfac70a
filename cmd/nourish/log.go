// ABOUTME: CLI commands for habit logs.
// ABOUTME: Add, list, and delete logs; 'log <type> <value>' is a shortcut for add.
package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/output"
	"github.com/spf13/cobra"
)

var (
	logDate  string
	logNotes string
	logUnit  string

	logListType  string
	logListSince string
	logListUntil string
	logListLimit int

	logDeleteDate string
	logDeleteType string
)

var logCmd = &cobra.Command{
	Use:   "log <type> <value>",
	Short: "Log a habit value",
	Long: `Log a value against a habit. Values logged on the same day add up.

HABIT TYPES:

  water      ml
  meals      count
  exercise   minutes
  sleep      hours
  mood       scale (1-10)

EXAMPLES:

  nourish log water 500                      # Log 500 ml today
  nourish log exercise 30 --notes "run"      # With notes
  nourish log sleep 7 --date yesterday       # Backfill
  nourish log list --type water -n 10        # Recent water logs
  nourish log list --since 2026-03-01        # Logs since a date
  nourish log delete abc12345                # Delete by ID prefix
  nourish log delete --date today --type mood`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return nil
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return addLog(cmd, args)
	},
}

var logAddCmd = &cobra.Command{
	Use:     "add <type> <value>",
	Aliases: []string{"a"},
	Short:   "Add a habit log",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return addLog(cmd, args)
	},
}

var logListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List habit logs",
	Long: `List habit logs, newest first.

Each line shows: ID  DATE  TYPE  VALUE  UNIT  (NOTES)

The ID is an 8-character prefix you can use with 'nourish log delete'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := currentUser()
		if err != nil {
			return err
		}

		filter := models.LogFilter{Limit: logListLimit}
		if logListType != "" {
			ht, err := models.ParseHabitType(logListType)
			if err != nil {
				return err
			}
			filter.HabitType = &ht
		}
		if logListSince != "" {
			since, err := parseDay(logListSince)
			if err != nil {
				return fmt.Errorf("invalid --since: %w", err)
			}
			filter.Start = &since
		}
		if logListUntil != "" {
			until, err := parseDay(logListUntil)
			if err != nil {
				return fmt.Errorf("invalid --until: %w", err)
			}
			filter.End = &until
		}

		logs, err := repo.ListLogs(u.ID, filter)
		if err != nil {
			return fmt.Errorf("failed to list logs: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(logs) == 0 {
			fmt.Fprintln(out, "No logs found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, l := range logs {
			notes := ""
			if l.Notes != nil && *l.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(*l.Notes, 30))
			}
			fmt.Fprintf(out, "%s %s %s %s %s%s\n",
				faint.Sprint(shortID(l.ID)),
				faint.Sprint(models.FormatDate(l.LogDate)),
				padRight(string(l.HabitType), 10),
				output.FormatValue(l.LoggedValue),
				l.Unit,
				notes)
		}
		return nil
	},
}

var logDeleteCmd = &cobra.Command{
	Use:     "delete [id]",
	Aliases: []string{"del", "rm"},
	Short:   "Delete habit logs",
	Long: `Delete one log by its ID or ID prefix, or every log of one habit on one day.

EXAMPLES:

  nourish log delete abc12345                    # By 8-char prefix
  nourish log delete --date 2026-03-18 --type water

CAUTION:

  This permanently deletes logs. There is no undo.
  If the prefix matches multiple logs, an error is returned.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			if logDeleteDate != "" || logDeleteType != "" {
				return errors.New("give either an ID or --date and --type, not both")
			}
			if err := repo.DeleteLog(args[0]); err != nil {
				return fmt.Errorf("failed to delete log: %w", err)
			}
			fmt.Fprintln(out, color.YellowString("✗ Deleted log %s", args[0]))
			return nil
		}

		if logDeleteType == "" {
			return errors.New("give a log ID, or --type (and optionally --date)")
		}
		ht, err := models.ParseHabitType(logDeleteType)
		if err != nil {
			return err
		}
		date, err := parseDay(logDeleteDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		u, err := currentUser()
		if err != nil {
			return err
		}

		n, err := repo.DeleteLogs(u.ID, date, ht)
		if err != nil {
			return fmt.Errorf("failed to delete logs: %w", err)
		}
		fmt.Fprintln(out, color.YellowString("✗ Deleted %d %s log(s) on %s", n, ht, models.FormatDate(date)))
		return nil
	},
}

func addLog(cmd *cobra.Command, args []string) error {
	ht, err := models.ParseHabitType(args[0])
	if err != nil {
		return err
	}
	value, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid value: %s", args[1])
	}
	if value < 0 {
		return fmt.Errorf("value must not be negative, got %s", args[1])
	}
	date, err := parseDay(logDate)
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}

	u, err := currentUser()
	if err != nil {
		return err
	}

	l := models.NewHabitLog(u.ID, ht, value).WithDate(date).WithUnit(logUnit)
	if logNotes != "" {
		l.WithNotes(logNotes)
	}
	if err := repo.CreateLog(l); err != nil {
		return fmt.Errorf("failed to create log: %w", err)
	}
	if err := pushLog(cmd.Context(), l); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, color.GreenString("✓ Logged %s", ht))
	fmt.Fprintf(out, "  %s %s %s on %s\n",
		color.New(color.Faint).Sprint(shortID(l.ID)),
		output.FormatValue(l.LoggedValue), l.Unit, models.FormatDate(l.LogDate))
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	for _, c := range []*cobra.Command{logCmd, logAddCmd} {
		c.Flags().StringVar(&logDate, "date", "", "log date (today, yesterday, or YYYY-MM-DD)")
		c.Flags().StringVar(&logNotes, "notes", "", "notes for the log")
		c.Flags().StringVar(&logUnit, "unit", "", "override the habit's default unit")
	}

	logListCmd.Flags().StringVarP(&logListType, "type", "t", "", "filter by habit type")
	logListCmd.Flags().StringVar(&logListSince, "since", "", "first date to include")
	logListCmd.Flags().StringVar(&logListUntil, "until", "", "last date to include")
	logListCmd.Flags().IntVarP(&logListLimit, "limit", "n", 20, "max number of results")

	logDeleteCmd.Flags().StringVar(&logDeleteDate, "date", "", "date whose logs to delete (default today)")
	logDeleteCmd.Flags().StringVarP(&logDeleteType, "type", "t", "", "habit type whose logs to delete")

	logCmd.AddCommand(logAddCmd, logListCmd, logDeleteCmd)
	rootCmd.AddCommand(logCmd)
}
