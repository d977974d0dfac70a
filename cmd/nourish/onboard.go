// ABOUTME: Guided onboarding conversation read line by line from stdin.
// ABOUTME: Saves the profile, transcript, and mission once every question is answered.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/onboarding"
	"github.com/harperreed/nourish/internal/output"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/spf13/cobra"
)

var onboardRestart bool

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Talk through your goals and build a mission statement",
	Long: `Answer a short conversation about your health, energy, and eating habits.

The first twelve questions each ask for a 1-10 score afterwards; any reply
containing a number works ("7 out of 10", "maybe a 6"). The last eight are
practical questions about height, weight, and meals. When you finish, your
answers and mission statement are saved.

Press Ctrl-D to stop early; nothing is saved until the end.

EXAMPLES:

  nourish onboard
  nourish onboard --restart     # Start over even if already onboarded`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := currentUser()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		existing, err := repo.GetOnboarding(u.ID)
		switch {
		case err == nil && !onboardRestart:
			fmt.Fprintln(out, "Already onboarded. Run with --restart to start over.")
			printMission(out, existing)
			return nil
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("failed to load onboarding: %w", err)
		}

		result, err := converse(cmd.InOrStdin(), out, u.ID, time.Now)
		if err != nil {
			return err
		}

		if err := repo.SaveOnboarding(result); err != nil {
			return fmt.Errorf("failed to save onboarding: %w", err)
		}
		logger.Debug("onboarding saved", "user", u.ID, "messages", len(result.Transcript))

		fmt.Fprintln(out, color.GreenString("\n✓ Saved your onboarding"))
		printMission(out, result)
		return nil
	},
}

// converse runs the conversation until it completes or input ends.
func converse(in io.Reader, out io.Writer, userID uuid.UUID, now func() time.Time) (*onboarding.Result, error) {
	session := onboarding.New(now())
	for _, m := range session.Transcript {
		fmt.Fprintf(out, "\n%s\n", output.StyleHeader.Render(m.Text))
	}

	scanner := bufio.NewScanner(in)
	for session.State != onboarding.Complete {
		fmt.Fprint(out, output.StyleMuted.Render("> "))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("read answer: %w", err)
			}
			return nil, errors.New("onboarding stopped before the last question; nothing was saved")
		}

		next, err := session.Submit(scanner.Text(), now())
		if errors.Is(err, onboarding.ErrEmptyInput) {
			continue
		}
		if err != nil {
			return nil, err
		}
		session = next
		fmt.Fprintf(out, "\n%s\n", output.StyleHeader.Render(session.Prompt()))
	}

	return session.Result(userID)
}

func printMission(out io.Writer, r *onboarding.Result) {
	fmt.Fprintln(out, output.Section("Your mission"))
	fmt.Fprintf(out, " %s\n", r.Mission)
	if r.BMI != nil {
		fmt.Fprintf(out, " %s\n", output.StyleMuted.Render(fmt.Sprintf("BMI %.1f", *r.BMI)))
	}
}

func init() {
	onboardCmd.Flags().BoolVar(&onboardRestart, "restart", false, "start over and replace the saved onboarding")
	rootCmd.AddCommand(onboardCmd)
}
