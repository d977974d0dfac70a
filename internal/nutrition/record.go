// ABOUTME: Persists logged meals and rebuilds a day from storage.
// ABOUTME: Keeps the pure Day update separate from the write.
package nutrition

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
)

// MealStore is the storage a nutrition day reads from and writes to.
type MealStore interface {
	CreateMeal(m *models.Meal) error
	ListMeals(userID uuid.UUID, date time.Time) ([]models.Meal, error)
}

// LoadDay replays the stored meals of date.
func LoadDay(store MealStore, userID uuid.UUID, date time.Time, targets models.Nutrients) (Day, error) {
	meals, err := store.ListMeals(userID, models.Date(date))
	if err != nil {
		return Day{}, fmt.Errorf("list meals: %w", err)
	}
	return Replay(userID, date, targets, meals), nil
}

// Record estimates text as a meal eaten at now, stores it, and returns the updated day.
// Nothing is written when text is blank.
func Record(store MealStore, userID uuid.UUID, text string, now time.Time, targets models.Nutrients) (Day, models.Meal, error) {
	day, err := LoadDay(store, userID, now, targets)
	if err != nil {
		return Day{}, models.Meal{}, err
	}

	next, meal, err := day.Log(text, now)
	if err != nil {
		return day, models.Meal{}, err
	}
	if err := store.CreateMeal(&meal); err != nil {
		return day, models.Meal{}, fmt.Errorf("save meal: %w", err)
	}
	return next, meal, nil
}
