// ABOUTME: Textual feedback for a habit over a trailing window of days.
// ABOUTME: Message and encouragement are picked by average completion and streak.
package progress

import (
	"fmt"

	"github.com/harperreed/nourish/internal/models"
)

const (
	DefaultFeedbackDays = 7
	MinFeedbackDays     = 1
	MaxFeedbackDays     = 30
)

// Feedback is the per-habit summary shown next to progress.
type Feedback struct {
	HabitType            models.HabitType `json:"habit_type"`
	FeedbackMessage      string           `json:"feedback_message"`
	Suggestions          []string         `json:"suggestions"`
	Encouragement        string           `json:"encouragement"`
	CompletionPercentage float64          `json:"completion_percentage"`
	StreakDays           int              `json:"streak_days"`
}

var suggestions = map[models.HabitType][]string{
	models.HabitWater: {
		"Keep a water bottle within reach",
		"Drink a glass of water with every meal",
		"Set a reminder for mid-morning and mid-afternoon",
	},
	models.HabitMeals: {
		"Plan tomorrow's meals the night before",
		"Keep simple, healthy staples stocked",
		"Eat at roughly the same times each day",
	},
	models.HabitExercise: {
		"Schedule workouts like appointments",
		"Start with a 10 minute walk on busy days",
		"Pick an activity you actually enjoy",
	},
	models.HabitSleep: {
		"Keep a consistent bedtime, even on weekends",
		"Put screens away 30 minutes before bed",
		"Keep your bedroom cool and dark",
	},
	models.HabitMood: {
		"Check in with yourself at the same time each day",
		"Note one thing that went well today",
		"Notice how sleep and movement affect your mood",
	},
}

// BuildFeedback summarizes a window of daily progress, oldest day first.
// Completion is the mean daily completion; the streak is the last day's.
func BuildFeedback(habitType models.HabitType, window []Daily) Feedback {
	fb := Feedback{
		HabitType:   habitType,
		Suggestions: append([]string(nil), suggestions[habitType]...),
	}

	if len(window) > 0 {
		var sum float64
		for _, d := range window {
			sum += d.CompletionPercentage
		}
		fb.CompletionPercentage = sum / float64(len(window))
		fb.StreakDays = window[len(window)-1].StreakDays
	}

	days := len(window)
	switch c := fb.CompletionPercentage; {
	case c >= 100:
		fb.FeedbackMessage = fmt.Sprintf("Excellent! You met your %s goal over the last %d days.", habitType, days)
		fb.Suggestions = nil
	case c >= 75:
		fb.FeedbackMessage = fmt.Sprintf("Great work on %s: you're at %.0f%% of your goal over the last %d days.", habitType, c, days)
	case c >= 50:
		fb.FeedbackMessage = fmt.Sprintf("You're halfway there with %s. A few small changes will close the gap.", habitType)
	case c > 0:
		fb.FeedbackMessage = fmt.Sprintf("Your %s is below target. Let's build some momentum.", habitType)
	default:
		fb.FeedbackMessage = fmt.Sprintf("No %s logged in the last %d days. Start with one small entry today.", habitType, days)
	}

	switch s := fb.StreakDays; {
	case s >= 7:
		fb.Encouragement = fmt.Sprintf("%d day streak! You're building a real habit.", s)
	case s >= 3:
		fb.Encouragement = fmt.Sprintf("%d days in a row. Keep it going!", s)
	case s >= 1:
		fb.Encouragement = "Goal met today. Do it again tomorrow!"
	default:
		fb.Encouragement = "Every day is a fresh start."
	}

	return fb
}
