// ABOUTME: Meal and onboarding record storage for SQLite.
// ABOUTME: Nutrients and onboarding results are stored as JSON documents.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/onboarding"
)

// CreateMeal stores an immutable meal record.
func (d *DB) CreateMeal(m *models.Meal) error {
	nutrients, err := json.Marshal(m.Nutrients)
	if err != nil {
		return fmt.Errorf("marshal nutrients: %w", err)
	}

	_, err = d.db.Exec(
		`INSERT INTO meals (id, user_id, label, meal_date, eaten_at, nutrients) VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID.String(), m.UserID.String(), m.Label, models.FormatDate(models.Date(m.EatenAt)),
		formatTime(m.EatenAt), string(nutrients),
	)
	if err != nil {
		return fmt.Errorf("create meal: %w", err)
	}
	return nil
}

// ListMeals returns the user's meals on date in the order they were eaten.
// A zero date returns every meal.
func (d *DB) ListMeals(userID uuid.UUID, date time.Time) ([]models.Meal, error) {
	query := `SELECT id, user_id, label, eaten_at, nutrients FROM meals WHERE user_id = ?`
	args := []interface{}{userID.String()}
	if !date.IsZero() {
		query += ` AND meal_date = ?`
		args = append(args, models.FormatDate(models.Date(date)))
	}
	query += ` ORDER BY eaten_at`

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	var meals []models.Meal
	for rows.Next() {
		var m models.Meal
		var idStr, userStr, eatenAt, nutrients string
		if err := rows.Scan(&idStr, &userStr, &m.Label, &eatenAt, &nutrients); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		m.ID, _ = uuid.Parse(idStr)
		m.UserID, _ = uuid.Parse(userStr)
		m.EatenAt = parseTime(eatenAt)
		if err := json.Unmarshal([]byte(nutrients), &m.Nutrients); err != nil {
			return nil, fmt.Errorf("unmarshal nutrients: %w", err)
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// SaveOnboarding stores the completed onboarding record, replacing any earlier one.
func (d *DB) SaveOnboarding(r *onboarding.Result) error {
	record, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal onboarding: %w", err)
	}

	_, err = d.db.Exec(`
		INSERT INTO onboarding_profiles (user_id, record, completed_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET record = excluded.record, completed_at = excluded.completed_at`,
		r.UserID.String(), string(record), formatTime(r.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("save onboarding: %w", err)
	}
	return nil
}

// GetOnboarding returns the user's onboarding record.
func (d *DB) GetOnboarding(userID uuid.UUID) (*onboarding.Result, error) {
	var record string
	err := d.db.QueryRow(`SELECT record FROM onboarding_profiles WHERE user_id = ?`, userID.String()).Scan(&record)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("onboarding: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get onboarding: %w", err)
	}

	var r onboarding.Result
	if err := json.Unmarshal([]byte(record), &r); err != nil {
		return nil, fmt.Errorf("unmarshal onboarding: %w", err)
	}
	return &r, nil
}
