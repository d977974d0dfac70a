// ABOUTME: HabitLog model, log filters, and nutrition/meal records.
// ABOUTME: Logs are summed per (date, habit type); meals are immutable once recorded.
package models

import (
	"time"

	"github.com/google/uuid"
)

// HabitLog is one recorded instance of habit activity on a calendar date.
type HabitLog struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	UserID      uuid.UUID `json:"user_id" yaml:"user_id"`
	LogDate     time.Time `json:"log_date" yaml:"log_date"`
	HabitType   HabitType `json:"habit_type" yaml:"habit_type"`
	LoggedValue float64   `json:"logged_value" yaml:"logged_value"`
	Unit        string    `json:"unit" yaml:"unit"`
	Notes       *string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// NewHabitLog creates a log for today using the habit's default unit.
func NewHabitLog(userID uuid.UUID, habitType HabitType, value float64) *HabitLog {
	return &HabitLog{
		ID:          uuid.New(),
		UserID:      userID,
		LogDate:     Today(),
		HabitType:   habitType,
		LoggedValue: value,
		Unit:        habitType.Unit(),
		CreatedAt:   time.Now(),
	}
}

// WithDate sets the calendar date of the log.
func (l *HabitLog) WithDate(t time.Time) *HabitLog {
	l.LogDate = Date(t)
	return l
}

// WithUnit overrides the unit, typically with the target's unit.
func (l *HabitLog) WithUnit(unit string) *HabitLog {
	if unit != "" {
		l.Unit = unit
	}
	return l
}

// WithNotes sets notes on the log.
func (l *HabitLog) WithNotes(notes string) *HabitLog {
	l.Notes = &notes
	return l
}

// LogFilter narrows a log listing. Zero values mean "no filter".
// Start and End are inclusive calendar dates.
type LogFilter struct {
	HabitType *HabitType
	Start     *time.Time
	End       *time.Time
	Limit     int
}

// Matches reports whether a log passes the filter (ignoring Limit).
func (f LogFilter) Matches(l *HabitLog) bool {
	if f.HabitType != nil && l.HabitType != *f.HabitType {
		return false
	}
	if f.Start != nil && l.LogDate.Before(Date(*f.Start)) {
		return false
	}
	if f.End != nil && l.LogDate.After(Date(*f.End)) {
		return false
	}
	return true
}

// Nutrients holds macro and micronutrient amounts.
// Units: calories kcal; protein, carbs, fat, fiber, sugar g; sodium, potassium,
// calcium, iron, vitaminC mg; vitaminD mcg; water ml.
type Nutrients struct {
	Calories  float64 `json:"calories" yaml:"calories"`
	Protein   float64 `json:"protein" yaml:"protein"`
	Carbs     float64 `json:"carbs" yaml:"carbs"`
	Fat       float64 `json:"fat" yaml:"fat"`
	Fiber     float64 `json:"fiber" yaml:"fiber"`
	Sugar     float64 `json:"sugar" yaml:"sugar"`
	Sodium    float64 `json:"sodium" yaml:"sodium"`
	Potassium float64 `json:"potassium" yaml:"potassium"`
	Calcium   float64 `json:"calcium" yaml:"calcium"`
	Iron      float64 `json:"iron" yaml:"iron"`
	VitaminC  float64 `json:"vitamin_c" yaml:"vitamin_c"`
	VitaminD  float64 `json:"vitamin_d" yaml:"vitamin_d"`
	Water     float64 `json:"water" yaml:"water"`
}

// Add returns the field-wise sum of n and o.
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories:  n.Calories + o.Calories,
		Protein:   n.Protein + o.Protein,
		Carbs:     n.Carbs + o.Carbs,
		Fat:       n.Fat + o.Fat,
		Fiber:     n.Fiber + o.Fiber,
		Sugar:     n.Sugar + o.Sugar,
		Sodium:    n.Sodium + o.Sodium,
		Potassium: n.Potassium + o.Potassium,
		Calcium:   n.Calcium + o.Calcium,
		Iron:      n.Iron + o.Iron,
		VitaminC:  n.VitaminC + o.VitaminC,
		VitaminD:  n.VitaminD + o.VitaminD,
		Water:     n.Water + o.Water,
	}
}

// IsZero reports whether every field is zero.
func (n Nutrients) IsZero() bool {
	return n == Nutrients{}
}

// Meal is an immutable record of one free-text food entry.
type Meal struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	UserID    uuid.UUID `json:"user_id" yaml:"user_id"`
	Label     string    `json:"label" yaml:"label"`
	EatenAt   time.Time `json:"eaten_at" yaml:"eaten_at"`
	Nutrients Nutrients `json:"nutrients" yaml:"nutrients"`
}
