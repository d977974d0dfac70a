// ABOUTME: CLI commands for daily habit targets.
// ABOUTME: Set, list, delete, and derive targets from the questionnaire.
package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/output"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/spf13/cobra"
)

var targetUnit string

var targetCmd = &cobra.Command{
	Use:     "target",
	Aliases: []string{"targets", "t"},
	Short:   "Manage daily habit targets",
	Long: `Each habit type has at most one daily target. Progress, streaks, and
feedback are all measured against it.

HABIT TYPES:

  water      ml
  meals      count
  exercise   minutes
  sleep      hours
  mood       scale (1-10)

EXAMPLES:

  nourish target set water 2500      # Drink 2.5 l per day
  nourish target set sleep 7.5       # Sleep 7.5 hours
  nourish target list
  nourish target derive              # Set targets from questionnaire answers
  nourish target delete mood`,
}

var targetListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List targets",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := currentUser()
		if err != nil {
			return err
		}

		targets, err := listTargets(cmd.Context(), u.ID)
		if err != nil {
			return fmt.Errorf("failed to list targets: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(targets) == 0 {
			fmt.Fprintln(out, "No targets set.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, t := range targets {
			state := ""
			if !t.IsActive {
				state = faint.Sprint(" (inactive)")
			}
			fmt.Fprintf(out, "%s %s %s %s%s\n",
				faint.Sprint(shortID(t.ID)),
				output.HabitLabel(t.HabitType),
				output.FormatValue(t.TargetValue),
				t.TargetUnit,
				state)
		}
		return nil
	},
}

var targetSetCmd = &cobra.Command{
	Use:   "set <type> <value>",
	Short: "Create or update a target",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ht, err := models.ParseHabitType(args[0])
		if err != nil {
			return err
		}
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[1])
		}
		if value <= 0 {
			return fmt.Errorf("target must be positive, got %s", args[1])
		}

		u, err := currentUser()
		if err != nil {
			return err
		}

		t := models.NewHabitTarget(u.ID, ht, value).WithUnit(targetUnit)
		if err := storage.SaveTarget(repo, t); err != nil {
			return fmt.Errorf("failed to save target: %w", err)
		}
		if err := pushTarget(cmd.Context(), t); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ %s target set to %s %s", ht, output.FormatValue(t.TargetValue), t.TargetUnit))
		return nil
	},
}

var targetDeleteCmd = &cobra.Command{
	Use:     "delete <type>",
	Aliases: []string{"rm"},
	Short:   "Delete a target",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ht, err := models.ParseHabitType(args[0])
		if err != nil {
			return err
		}
		u, err := currentUser()
		if err != nil {
			return err
		}

		if err := repo.DeleteTarget(u.ID, ht); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no %s target set", ht)
			}
			return fmt.Errorf("failed to delete target: %w", err)
		}
		if err := pushTargetDelete(cmd.Context(), u.ID, ht); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("✗ Deleted %s target", ht))
		return nil
	},
}

var targetDeriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Set targets from questionnaire answers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := currentUser()
		if err != nil {
			return err
		}

		q, err := repo.GetQuestionnaire(u.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return errors.New("no questionnaire yet; run 'nourish questionnaire set' first")
			}
			return err
		}
		return deriveTargets(cmd, q)
	},
}

// deriveTargets saves one target per answered questionnaire field.
func deriveTargets(cmd *cobra.Command, q *models.Questionnaire) error {
	targets := models.DeriveTargets(q)
	out := cmd.OutOrStdout()
	if len(targets) == 0 {
		fmt.Fprintln(out, "No answers to derive targets from.")
		return nil
	}

	for _, t := range targets {
		if err := storage.SaveTarget(repo, t); err != nil {
			return fmt.Errorf("failed to save %s target: %w", t.HabitType, err)
		}
		if err := pushTarget(cmd.Context(), t); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s %s %s\n",
			color.GreenString("✓"),
			output.HabitLabel(t.HabitType),
			output.FormatValue(t.TargetValue),
			t.TargetUnit)
	}
	logger.Debug("derived targets", "count", len(targets), "user", q.UserID)
	return nil
}

func init() {
	targetSetCmd.Flags().StringVar(&targetUnit, "unit", "", "override the habit's default unit")

	targetCmd.AddCommand(targetListCmd, targetSetCmd, targetDeleteCmd, targetDeriveCmd)
	rootCmd.AddCommand(targetCmd)
}
