// ABOUTME: A day of nutrition tracking: targets, consumed totals, and meals.
// ABOUTME: Log is a pure update; Replay rebuilds a day from stored meals.
package nutrition

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
)

// ErrEmptyInput is returned when a meal description is blank.
var ErrEmptyInput = errors.New("empty meal description")

// DefaultTargets are the daily nutrient goals used when none are configured.
var DefaultTargets = models.Nutrients{
	Calories:  2000,
	Protein:   150,
	Carbs:     200,
	Fat:       80,
	Fiber:     25,
	Sugar:     50,
	Sodium:    2300,
	Potassium: 3500,
	Calcium:   1000,
	Iron:      18,
	VitaminC:  90,
	VitaminD:  20,
	Water:     2500,
}

// Day is one user's nutrition state for a calendar date.
type Day struct {
	UserID   uuid.UUID
	Date     time.Time
	Targets  models.Nutrients
	Consumed models.Nutrients
	Meals    []models.Meal
}

// NewDay starts an empty day with the given targets.
func NewDay(userID uuid.UUID, date time.Time, targets models.Nutrients) Day {
	return Day{UserID: userID, Date: models.Date(date), Targets: targets}
}

// Log records text as a meal and returns the updated day along with the new meal.
// The receiver is not modified.
func (d Day) Log(text string, now time.Time) (Day, models.Meal, error) {
	if strings.TrimSpace(text) == "" {
		return d, models.Meal{}, ErrEmptyInput
	}

	meal := models.Meal{
		ID:        uuid.New(),
		UserID:    d.UserID,
		Label:     text,
		EatenAt:   now,
		Nutrients: Estimate(text),
	}

	next := d
	next.Meals = append(slices.Clone(d.Meals), meal)
	next.Consumed = d.Consumed.Add(meal.Nutrients)
	return next, meal, nil
}

// Replay rebuilds a day by summing previously recorded meals.
func Replay(userID uuid.UUID, date time.Time, targets models.Nutrients, meals []models.Meal) Day {
	d := NewDay(userID, date, targets)
	for _, m := range meals {
		d.Meals = append(d.Meals, m)
		d.Consumed = d.Consumed.Add(m.Nutrients)
	}
	return d
}

// Percent returns consumed as a percentage of target, clamped for display.
func Percent(consumed, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return Clamp(100 * consumed / target)
}

// Clamp limits a percentage to 0..100.
func Clamp(pct float64) float64 {
	return min(max(pct, 0), 100)
}

// Level buckets a percentage into the display color bands.
type Level int

const (
	LevelLow Level = iota
	LevelFair
	LevelGood
	LevelMet
)

// LevelFor returns the band for pct: >=100 met, >=75 good, >=50 fair, else low.
func LevelFor(pct float64) Level {
	switch {
	case pct >= 100:
		return LevelMet
	case pct >= 75:
		return LevelGood
	case pct >= 50:
		return LevelFair
	default:
		return LevelLow
	}
}

// Row is one line of the nutrient summary.
type Row struct {
	Name     string
	Unit     string
	Consumed float64
	Target   float64
}

// Rows lists the day's nutrients in display order.
func (d Day) Rows() []Row {
	c, t := d.Consumed, d.Targets
	return []Row{
		{"Calories", "kcal", c.Calories, t.Calories},
		{"Protein", "g", c.Protein, t.Protein},
		{"Carbs", "g", c.Carbs, t.Carbs},
		{"Fat", "g", c.Fat, t.Fat},
		{"Fiber", "g", c.Fiber, t.Fiber},
		{"Sugar", "g", c.Sugar, t.Sugar},
		{"Sodium", "mg", c.Sodium, t.Sodium},
		{"Potassium", "mg", c.Potassium, t.Potassium},
		{"Calcium", "mg", c.Calcium, t.Calcium},
		{"Iron", "mg", c.Iron, t.Iron},
		{"Vitamin C", "mg", c.VitaminC, t.VitaminC},
		{"Vitamin D", "mcg", c.VitaminD, t.VitaminD},
		{"Water", "ml", c.Water, t.Water},
	}
}
