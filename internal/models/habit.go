// ABOUTME: HabitType enum and its lookup table for units, icons, and colors.
// ABOUTME: Also provides calendar-date helpers shared by logs and progress.
package models

import (
	"fmt"
	"time"
)

// HabitType represents a tracked habit category.
type HabitType string

const (
	HabitWater    HabitType = "water"
	HabitMeals    HabitType = "meals"
	HabitExercise HabitType = "exercise"
	HabitSleep    HabitType = "sleep"
	HabitMood     HabitType = "mood"
)

// AllHabitTypes lists every habit type in display order.
var AllHabitTypes = []HabitType{
	HabitWater, HabitMeals, HabitExercise, HabitSleep, HabitMood,
}

// HabitInfo holds the cosmetic and unit defaults for a habit type.
type HabitInfo struct {
	Unit  string
	Icon  string
	Color string
}

// Habits maps each habit type to its defaults.
var Habits = map[HabitType]HabitInfo{
	HabitWater:    {Unit: "ml", Icon: "💧", Color: "#3b82f6"},
	HabitMeals:    {Unit: "count", Icon: "🍽", Color: "#10b981"},
	HabitExercise: {Unit: "minutes", Icon: "🏃", Color: "#f59e0b"},
	HabitSleep:    {Unit: "hours", Icon: "🌙", Color: "#8b5cf6"},
	HabitMood:     {Unit: "scale", Icon: "🙂", Color: "#ec4899"},
}

// IsValidHabitType checks if a string is a valid habit type.
func IsValidHabitType(s string) bool {
	_, ok := Habits[HabitType(s)]
	return ok
}

// ParseHabitType converts a string to a HabitType, rejecting unknown values.
func ParseHabitType(s string) (HabitType, error) {
	if !IsValidHabitType(s) {
		return "", fmt.Errorf("unknown habit type: %s (valid: water, meals, exercise, sleep, mood)", s)
	}
	return HabitType(s), nil
}

// Unit returns the default unit for the habit type.
func (h HabitType) Unit() string {
	return Habits[h].Unit
}

// Icon returns the display icon for the habit type.
func (h HabitType) Icon() string {
	if info, ok := Habits[h]; ok {
		return info.Icon
	}
	return "•"
}

// Color returns the display color for the habit type.
func (h HabitType) Color() string {
	if info, ok := Habits[h]; ok {
		return info.Color
	}
	return "#6b7280"
}

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Date normalizes t to its calendar date at 00:00 UTC.
// Calendar dates are kept in UTC so AddDate never crosses a DST change.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current local calendar date.
func Today() time.Time {
	return Date(time.Now())
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatDate formats a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
