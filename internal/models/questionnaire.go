// ABOUTME: Questionnaire and User models.
// ABOUTME: One questionnaire per user holds the setup answers used to derive targets.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User is a tracked person.
type User struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email,omitempty" yaml:"email,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewUser creates a new User with a generated UUID.
func NewUser(name string) *User {
	return &User{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// Questionnaire holds a user's setup answers.
type Questionnaire struct {
	UserID            uuid.UUID `json:"user_id" yaml:"user_id"`
	SleepHours        float64   `json:"sleep_hours,omitempty" yaml:"sleep_hours,omitempty"`
	WaterGoalML       int       `json:"water_goal_ml,omitempty" yaml:"water_goal_ml,omitempty"`
	MealFrequency     int       `json:"meal_frequency,omitempty" yaml:"meal_frequency,omitempty"`
	ExerciseFrequency int       `json:"exercise_frequency,omitempty" yaml:"exercise_frequency,omitempty"`
	ExerciseDuration  int       `json:"exercise_duration,omitempty" yaml:"exercise_duration,omitempty"`
	StressLevel       string    `json:"stress_level,omitempty" yaml:"stress_level,omitempty"`
	EnergyLevel       string    `json:"energy_level,omitempty" yaml:"energy_level,omitempty"`
	MoodTracking      bool      `json:"mood_tracking" yaml:"mood_tracking"`
	WeightGoal        string    `json:"weight_goal,omitempty" yaml:"weight_goal,omitempty"`
	TargetWeightKG    float64   `json:"target_weight_kg,omitempty" yaml:"target_weight_kg,omitempty"`
	CreatedAt         time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" yaml:"updated_at"`
}

// DefaultQuestionnaire returns the starting answers offered by the setup form.
func DefaultQuestionnaire(userID uuid.UUID) *Questionnaire {
	now := time.Now()
	return &Questionnaire{
		UserID:            userID,
		SleepHours:        8,
		WaterGoalML:       2000,
		MealFrequency:     3,
		ExerciseFrequency: 3,
		ExerciseDuration:  30,
		StressLevel:       "moderate",
		EnergyLevel:       "moderate",
		WeightGoal:        "maintain",
		TargetWeightKG:    70,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Validate checks that numeric answers are within the ranges the form allows.
func (q *Questionnaire) Validate() error {
	switch {
	case q.SleepHours != 0 && (q.SleepHours < 4 || q.SleepHours > 12):
		return fmt.Errorf("sleep hours must be between 4 and 12")
	case q.WaterGoalML != 0 && (q.WaterGoalML < 500 || q.WaterGoalML > 5000):
		return fmt.Errorf("water goal must be between 500 and 5000 ml")
	case q.MealFrequency != 0 && (q.MealFrequency < 1 || q.MealFrequency > 6):
		return fmt.Errorf("meals per day must be between 1 and 6")
	case q.ExerciseFrequency < 0 || q.ExerciseDuration < 0:
		return fmt.Errorf("exercise values cannot be negative")
	case q.TargetWeightKG < 0:
		return fmt.Errorf("target weight cannot be negative")
	}
	return nil
}
