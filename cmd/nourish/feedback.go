// ABOUTME: CLI command showing feedback for one habit over recent days.
// ABOUTME: Message, suggestions, and encouragement come from the progress source.
package main

import (
	"fmt"

	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/output"
	"github.com/spf13/cobra"
)

var feedbackDays int

var feedbackCmd = &cobra.Command{
	Use:     "feedback <type>",
	Aliases: []string{"fb"},
	Short:   "Show feedback for a habit",
	Long: `Show how a habit has gone over the last few days, with suggestions
while the goal is not yet met.

The window defaults to the 'feedback_days' config value (7) and can be
1 to 30 days.

EXAMPLES:

  nourish feedback water
  nourish feedback sleep --days 14`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ht, err := models.ParseHabitType(args[0])
		if err != nil {
			return err
		}
		days := feedbackDays
		if !cmd.Flags().Changed("days") {
			days = cfg.GetFeedbackDays()
		}

		u, err := currentUser()
		if err != nil {
			return err
		}
		_, fb, err := progressSources()
		if err != nil {
			return err
		}

		f, err := fb.Feedback(cmd.Context(), u.ID, ht, days)
		if err != nil {
			return fmt.Errorf("failed to load %s feedback: %w", ht, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, output.Section(fmt.Sprintf("%s %s, last %d days", ht.Icon(), ht, days)))
		fmt.Fprintf(out, " %s\n", output.Bar(f.CompletionPercentage, 24))
		if f.StreakDays > 0 {
			fmt.Fprintf(out, " %s\n", output.StyleMuted.Render(fmt.Sprintf("🔥 %d day streak", f.StreakDays)))
		}
		fmt.Fprintf(out, "\n %s\n", f.FeedbackMessage)
		for _, s := range f.Suggestions {
			fmt.Fprintf(out, "   %s %s\n", output.StyleMuted.Render("•"), s)
		}
		if f.Encouragement != "" {
			fmt.Fprintf(out, "\n %s\n", output.StyleGood.Render(f.Encouragement))
		}
		return nil
	},
}

func init() {
	feedbackCmd.Flags().IntVarP(&feedbackDays, "days", "d", 7, "number of days to look back (1-30)")
	rootCmd.AddCommand(feedbackCmd)
}
