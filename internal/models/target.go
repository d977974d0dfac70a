// ABOUTME: HabitTarget model and questionnaire-to-target derivation.
// ABOUTME: One active target per (user, habit type) drives all aggregation.
package models

import (
	"time"

	"github.com/google/uuid"
)

// HabitTarget is a user's daily numeric goal for a habit type.
type HabitTarget struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	UserID      uuid.UUID `json:"user_id" yaml:"user_id"`
	HabitType   HabitType `json:"habit_type" yaml:"habit_type"`
	TargetValue float64   `json:"target_value" yaml:"target_value"`
	TargetUnit  string    `json:"target_unit" yaml:"target_unit"`
	IsActive    bool      `json:"is_active" yaml:"is_active"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewHabitTarget creates an active target using the habit's default unit.
func NewHabitTarget(userID uuid.UUID, habitType HabitType, value float64) *HabitTarget {
	now := time.Now()
	return &HabitTarget{
		ID:          uuid.New(),
		UserID:      userID,
		HabitType:   habitType,
		TargetValue: value,
		TargetUnit:  habitType.Unit(),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// WithUnit overrides the target unit.
func (t *HabitTarget) WithUnit(unit string) *HabitTarget {
	if unit != "" {
		t.TargetUnit = unit
	}
	return t
}

// DeriveTargets maps questionnaire answers onto habit targets.
// Answers that are missing or zero produce no target.
func DeriveTargets(q *Questionnaire) []*HabitTarget {
	var targets []*HabitTarget

	if q.WaterGoalML > 0 {
		targets = append(targets, NewHabitTarget(q.UserID, HabitWater, float64(q.WaterGoalML)))
	}
	if q.MealFrequency > 0 {
		targets = append(targets, NewHabitTarget(q.UserID, HabitMeals, float64(q.MealFrequency)))
	}
	if q.ExerciseFrequency > 0 && q.ExerciseDuration > 0 {
		minutes := float64(q.ExerciseFrequency * q.ExerciseDuration)
		targets = append(targets, NewHabitTarget(q.UserID, HabitExercise, minutes))
	}
	if q.SleepHours > 0 {
		targets = append(targets, NewHabitTarget(q.UserID, HabitSleep, q.SleepHours))
	}

	return targets
}
