// ABOUTME: Daily aggregation of habit logs against habit targets.
// ABOUTME: Sums logs per (date, habit type), computes completion and streaks.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/nourish/internal/models"
)

var (
	// ErrNoTarget is returned when a habit type has no active target.
	ErrNoTarget = errors.New("no active target")
	// ErrDuplicateTarget is returned when a habit type has more than one active target.
	ErrDuplicateTarget = errors.New("duplicate active target")
	// ErrInvalidWindow is returned for an unusable reference date or day count.
	ErrInvalidWindow = errors.New("invalid window")
)

// Daily is the derived progress of one habit type on one calendar date.
type Daily struct {
	Date                 time.Time        `json:"date"`
	HabitType            models.HabitType `json:"habit_type"`
	LoggedValue          float64          `json:"logged_value"`
	TargetValue          float64          `json:"target_value"`
	CompletionPercentage float64          `json:"completion_percentage"`
	StreakDays           int              `json:"streak_days"`
	IsGoalMet            bool             `json:"is_goal_met"`
}

// Completion returns 100 * logged / target, or 0 when target is zero or negative.
// The result is not clamped.
func Completion(logged, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return 100 * logged / target
}

// SumLogs adds the logged values of every log on date for habitType.
func SumLogs(logs []*models.HabitLog, date time.Time, habitType models.HabitType) float64 {
	day := models.Date(date)
	var total float64
	for _, l := range logs {
		if l.HabitType == habitType && models.Date(l.LogDate).Equal(day) {
			total += l.LoggedValue
		}
	}
	return total
}

// Aggregate computes the Daily progress for habitType on date.
// A nil target counts as a zero target, so completion is 0 and the goal is never met.
func Aggregate(logs []*models.HabitLog, date time.Time, habitType models.HabitType, target *models.HabitTarget) Daily {
	var targetValue float64
	if target != nil {
		targetValue = target.TargetValue
	}

	logged := SumLogs(logs, date, habitType)
	completion := Completion(logged, targetValue)

	return Daily{
		Date:                 models.Date(date),
		HabitType:            habitType,
		LoggedValue:          logged,
		TargetValue:          targetValue,
		CompletionPercentage: completion,
		StreakDays:           Streak(logs, date, habitType, targetValue),
		IsGoalMet:            completion >= 100,
	}
}

// Streak counts consecutive goal-met days ending at and including date.
// It stops at the first missed day or before the earliest log of habitType.
func Streak(logs []*models.HabitLog, date time.Time, habitType models.HabitType, target float64) int {
	if target <= 0 {
		return 0
	}

	totals := make(map[time.Time]float64)
	var earliest time.Time
	for _, l := range logs {
		if l.HabitType != habitType {
			continue
		}
		d := models.Date(l.LogDate)
		totals[d] += l.LoggedValue
		if earliest.IsZero() || d.Before(earliest) {
			earliest = d
		}
	}
	if earliest.IsZero() {
		return 0
	}

	streak := 0
	for day := models.Date(date); !day.Before(earliest); day = day.AddDate(0, 0, -1) {
		if Completion(totals[day], target) < 100 {
			break
		}
		streak++
	}
	return streak
}

// IndexTargets maps each habit type to its active target.
// Inactive targets are skipped; two active targets for one type is an error.
func IndexTargets(targets []*models.HabitTarget) (map[models.HabitType]*models.HabitTarget, error) {
	index := make(map[models.HabitType]*models.HabitTarget, len(targets))
	for _, t := range targets {
		if !t.IsActive {
			continue
		}
		if _, exists := index[t.HabitType]; exists {
			return nil, fmt.Errorf("index targets for %s: %w", t.HabitType, ErrDuplicateTarget)
		}
		index[t.HabitType] = t
	}
	return index, nil
}

// AggregateDay returns one Daily per habit type that has an active target, in
// habit type order. Habit types without a target are left out.
func AggregateDay(logs []*models.HabitLog, targets []*models.HabitTarget, date time.Time) ([]Daily, error) {
	index, err := IndexTargets(targets)
	if err != nil {
		return nil, err
	}

	var days []Daily
	for _, ht := range models.AllHabitTypes {
		target, ok := index[ht]
		if !ok {
			continue
		}
		days = append(days, Aggregate(logs, date, ht, target))
	}
	return days, nil
}
