// ABOUTME: CLI commands for the wellness questionnaire.
// ABOUTME: Interactive huh form on a terminal, flags otherwise; can derive targets.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/fatih/color"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/output"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/spf13/cobra"
)

var (
	qSleep        float64
	qWater        int
	qMeals        int
	qExerciseFreq int
	qExerciseMins int
	qStress       string
	qEnergy       string
	qMood         bool
	qWeightGoal   string
	qTargetWeight float64
	qDerive       bool
)

var questionnaireCmd = &cobra.Command{
	Use:     "questionnaire",
	Aliases: []string{"q"},
	Short:   "Answer or review the wellness questionnaire",
	Long: `The questionnaire records sleep, hydration, meal, exercise and weight goals.
Its answers can be turned into daily habit targets with --derive or
'nourish target derive':

  water_goal_ml                          -> water target (ml)
  meal_frequency                         -> meals target (count)
  exercise_frequency x exercise_duration -> exercise target (minutes)
  sleep_hours                            -> sleep target (hours)

EXAMPLES:

  nourish questionnaire set                          # Interactive form
  nourish questionnaire set --water 2500 --sleep 7.5 # Non-interactive
  nourish questionnaire set --derive                 # Save and set targets
  nourish questionnaire show
  nourish questionnaire delete`,
}

var questionnaireSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or update the questionnaire",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := currentUser()
		if err != nil {
			return err
		}

		q, exists, err := loadQuestionnaire(u.ID)
		if err != nil {
			return err
		}
		q.UserID = u.ID

		if !answerFlagsChanged(cmd) {
			if !output.IsTerminal(os.Stdin) {
				return errors.New("no answers given; pass flags such as --water 2000, or run in a terminal for the form")
			}
			if err := runQuestionnaireForm(q); err != nil {
				return err
			}
		} else {
			applyQuestionnaireFlags(cmd, q)
		}

		if err := q.Validate(); err != nil {
			return err
		}

		if exists {
			err = repo.UpdateQuestionnaire(q)
		} else {
			err = repo.CreateQuestionnaire(q)
		}
		if err != nil {
			return fmt.Errorf("failed to save questionnaire: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Saved questionnaire for %s", u.Name))

		if qDerive {
			return deriveTargets(cmd, q)
		}
		return nil
	},
}

var questionnaireShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the questionnaire answers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := currentUser()
		if err != nil {
			return err
		}

		q, err := repo.GetQuestionnaire(u.ID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "No questionnaire yet. Run 'nourish questionnaire set'.")
				return nil
			}
			return err
		}

		out := cmd.OutOrStdout()
		rows := []struct{ label, value string }{
			{"sleep", fmt.Sprintf("%g hours", q.SleepHours)},
			{"water", fmt.Sprintf("%d ml", q.WaterGoalML)},
			{"meals", fmt.Sprintf("%d per day", q.MealFrequency)},
			{"exercise", fmt.Sprintf("%d x %d minutes per week", q.ExerciseFrequency, q.ExerciseDuration)},
			{"stress", q.StressLevel},
			{"energy", q.EnergyLevel},
			{"mood tracking", strconv.FormatBool(q.MoodTracking)},
			{"weight goal", q.WeightGoal},
			{"target weight", fmt.Sprintf("%g kg", q.TargetWeightKG)},
		}
		for _, r := range rows {
			fmt.Fprintf(out, "%s %s\n", padRight(r.label, 14), r.value)
		}
		fmt.Fprintln(out, color.New(color.Faint).Sprintf("updated %s", q.UpdatedAt.Format("2006-01-02 15:04")))
		return nil
	},
}

var questionnaireDeleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"rm"},
	Short:   "Delete the questionnaire",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := currentUser()
		if err != nil {
			return err
		}
		if err := repo.DeleteQuestionnaire(u.ID); err != nil {
			return fmt.Errorf("failed to delete questionnaire: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("✗ Deleted questionnaire for %s", u.Name))
		return nil
	},
}

// loadQuestionnaire returns the stored questionnaire, or the defaults when there is none.
func loadQuestionnaire(userID uuid.UUID) (*models.Questionnaire, bool, error) {
	q, err := repo.GetQuestionnaire(userID)
	if err == nil {
		return q, true, nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return models.DefaultQuestionnaire(userID), false, nil
	}
	return nil, false, err
}

var answerFlags = []string{
	"sleep", "water", "meals", "exercise-freq", "exercise-minutes",
	"stress", "energy", "mood-tracking", "weight-goal", "target-weight",
}

// answerFlagsChanged reports whether any answer was given on the command line.
func answerFlagsChanged(cmd *cobra.Command) bool {
	for _, name := range answerFlags {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func applyQuestionnaireFlags(cmd *cobra.Command, q *models.Questionnaire) {
	f := cmd.Flags()
	if f.Changed("sleep") {
		q.SleepHours = qSleep
	}
	if f.Changed("water") {
		q.WaterGoalML = qWater
	}
	if f.Changed("meals") {
		q.MealFrequency = qMeals
	}
	if f.Changed("exercise-freq") {
		q.ExerciseFrequency = qExerciseFreq
	}
	if f.Changed("exercise-minutes") {
		q.ExerciseDuration = qExerciseMins
	}
	if f.Changed("stress") {
		q.StressLevel = qStress
	}
	if f.Changed("energy") {
		q.EnergyLevel = qEnergy
	}
	if f.Changed("mood-tracking") {
		q.MoodTracking = qMood
	}
	if f.Changed("weight-goal") {
		q.WeightGoal = qWeightGoal
	}
	if f.Changed("target-weight") {
		q.TargetWeightKG = qTargetWeight
	}
}

func runQuestionnaireForm(q *models.Questionnaire) error {
	sleep := strconv.FormatFloat(q.SleepHours, 'f', -1, 64)
	water := strconv.Itoa(q.WaterGoalML)
	meals := strconv.Itoa(q.MealFrequency)
	exFreq := strconv.Itoa(q.ExerciseFrequency)
	exMins := strconv.Itoa(q.ExerciseDuration)
	weight := strconv.FormatFloat(q.TargetWeightKG, 'f', -1, 64)

	levels := []huh.Option[string]{
		huh.NewOption("Low", "low"),
		huh.NewOption("Moderate", "moderate"),
		huh.NewOption("High", "high"),
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Hours of sleep per night").
				Value(&sleep).
				Validate(rangeValidator(4, 12)),
			huh.NewInput().
				Title("Daily water goal (ml)").
				Value(&water).
				Validate(rangeValidator(500, 5000)),
			huh.NewInput().
				Title("Meals per day").
				Value(&meals).
				Validate(rangeValidator(1, 6)),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Exercise sessions per week").
				Value(&exFreq).
				Validate(rangeValidator(0, 14)),
			huh.NewInput().
				Title("Minutes per session").
				Value(&exMins).
				Validate(rangeValidator(0, 300)),
			huh.NewSelect[string]().
				Title("Stress level").
				Options(levels...).
				Value(&q.StressLevel),
			huh.NewSelect[string]().
				Title("Energy level").
				Options(levels...).
				Value(&q.EnergyLevel),
			huh.NewConfirm().
				Title("Track mood?").
				Value(&q.MoodTracking),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Weight goal").
				Options(
					huh.NewOption("Lose weight", "lose"),
					huh.NewOption("Maintain weight", "maintain"),
					huh.NewOption("Gain weight", "gain"),
				).
				Value(&q.WeightGoal),
			huh.NewInput().
				Title("Target weight (kg)").
				Value(&weight).
				Validate(rangeValidator(0, 400)),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	// Validators already accepted every field.
	q.SleepHours, _ = strconv.ParseFloat(sleep, 64)
	q.WaterGoalML, _ = strconv.Atoi(water)
	q.MealFrequency, _ = strconv.Atoi(meals)
	q.ExerciseFrequency, _ = strconv.Atoi(exFreq)
	q.ExerciseDuration, _ = strconv.Atoi(exMins)
	q.TargetWeightKG, _ = strconv.ParseFloat(weight, 64)
	return nil
}

func rangeValidator(lo, hi float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return errors.New("enter a number")
		}
		if v < lo || v > hi {
			return fmt.Errorf("must be between %g and %g", lo, hi)
		}
		return nil
	}
}

func init() {
	f := questionnaireSetCmd.Flags()
	f.Float64Var(&qSleep, "sleep", 0, "hours of sleep per night (4-12)")
	f.IntVar(&qWater, "water", 0, "daily water goal in ml (500-5000)")
	f.IntVar(&qMeals, "meals", 0, "meals per day (1-6)")
	f.IntVar(&qExerciseFreq, "exercise-freq", 0, "exercise sessions per week")
	f.IntVar(&qExerciseMins, "exercise-minutes", 0, "minutes per exercise session")
	f.StringVar(&qStress, "stress", "", "stress level (low, moderate, high)")
	f.StringVar(&qEnergy, "energy", "", "energy level (low, moderate, high)")
	f.BoolVar(&qMood, "mood-tracking", false, "track mood")
	f.StringVar(&qWeightGoal, "weight-goal", "", "weight goal (lose, maintain, gain)")
	f.Float64Var(&qTargetWeight, "target-weight", 0, "target weight in kg")
	f.BoolVar(&qDerive, "derive", false, "also set habit targets from the answers")

	questionnaireCmd.AddCommand(questionnaireSetCmd, questionnaireShowCmd, questionnaireDeleteCmd)
	rootCmd.AddCommand(questionnaireCmd)
}
