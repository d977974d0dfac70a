// ABOUTME: User and questionnaire CRUD operations for SQLite storage.
// ABOUTME: A user has at most one questionnaire, keyed by user ID.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
)

// CreateUser stores a new user.
func (d *DB) CreateUser(u *models.User) error {
	_, err := d.db.Exec(
		`INSERT INTO users (id, name, email, created_at) VALUES (?, ?, ?, ?)`,
		u.ID.String(), u.Name, nullString(u.Email), formatTime(u.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID, ID prefix, or exact name.
func (d *DB) GetUser(idOrPrefix string) (*models.User, error) {
	var byName string
	err := d.db.QueryRow(`SELECT id FROM users WHERE name = ?`, idOrPrefix).Scan(&byName)
	if err == nil {
		idOrPrefix = byName
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	id, err := d.resolveID("users", idOrPrefix)
	if err != nil {
		return nil, err
	}

	var u models.User
	var idStr, createdAt string
	var email sql.NullString
	err = d.db.QueryRow(`SELECT id, name, email, created_at FROM users WHERE id = ?`, id).
		Scan(&idStr, &u.Name, &email, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", idOrPrefix, ErrNotFound)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID, _ = uuid.Parse(idStr)
	u.Email = email.String
	u.CreatedAt = parseTime(createdAt)
	return &u, nil
}

// ListUsers returns every user, oldest first.
func (d *DB) ListUsers() ([]*models.User, error) {
	rows, err := d.db.Query(`SELECT id, name, email, created_at FROM users ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		var idStr, createdAt string
		var email sql.NullString
		if err := rows.Scan(&idStr, &u.Name, &email, &createdAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.ID, _ = uuid.Parse(idStr)
		u.Email = email.String
		u.CreatedAt = parseTime(createdAt)
		users = append(users, &u)
	}
	return users, rows.Err()
}

const questionnaireColumns = `user_id, sleep_hours, water_goal_ml, meal_frequency, exercise_frequency,
	exercise_duration, stress_level, energy_level, mood_tracking, weight_goal, target_weight_kg,
	created_at, updated_at`

// CreateQuestionnaire stores the user's questionnaire. A user may have only one.
func (d *DB) CreateQuestionnaire(q *models.Questionnaire) error {
	_, err := d.db.Exec(
		`INSERT INTO questionnaires (`+questionnaireColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.UserID.String(), q.SleepHours, q.WaterGoalML, q.MealFrequency, q.ExerciseFrequency,
		q.ExerciseDuration, q.StressLevel, q.EnergyLevel, q.MoodTracking, q.WeightGoal, q.TargetWeightKG,
		formatTime(q.CreatedAt), formatTime(q.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create questionnaire: %w", ErrQuestionnaireExists)
		}
		return fmt.Errorf("create questionnaire: %w", err)
	}
	return nil
}

// GetQuestionnaire returns the user's questionnaire.
func (d *DB) GetQuestionnaire(userID uuid.UUID) (*models.Questionnaire, error) {
	var q models.Questionnaire
	var idStr, createdAt, updatedAt string
	var stress, energy, weightGoal sql.NullString
	err := d.db.QueryRow(`SELECT `+questionnaireColumns+` FROM questionnaires WHERE user_id = ?`, userID.String()).
		Scan(&idStr, &q.SleepHours, &q.WaterGoalML, &q.MealFrequency, &q.ExerciseFrequency,
			&q.ExerciseDuration, &stress, &energy, &q.MoodTracking, &weightGoal, &q.TargetWeightKG,
			&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("questionnaire: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get questionnaire: %w", err)
	}
	q.UserID, _ = uuid.Parse(idStr)
	q.StressLevel = stress.String
	q.EnergyLevel = energy.String
	q.WeightGoal = weightGoal.String
	q.CreatedAt = parseTime(createdAt)
	q.UpdatedAt = parseTime(updatedAt)
	return &q, nil
}

// UpdateQuestionnaire replaces the user's questionnaire answers.
func (d *DB) UpdateQuestionnaire(q *models.Questionnaire) error {
	result, err := d.db.Exec(`
		UPDATE questionnaires SET sleep_hours = ?, water_goal_ml = ?, meal_frequency = ?,
			exercise_frequency = ?, exercise_duration = ?, stress_level = ?, energy_level = ?,
			mood_tracking = ?, weight_goal = ?, target_weight_kg = ?, updated_at = ?
		WHERE user_id = ?`,
		q.SleepHours, q.WaterGoalML, q.MealFrequency, q.ExerciseFrequency, q.ExerciseDuration,
		q.StressLevel, q.EnergyLevel, q.MoodTracking, q.WeightGoal, q.TargetWeightKG,
		formatTime(q.UpdatedAt), q.UserID.String(),
	)
	if err != nil {
		return fmt.Errorf("update questionnaire: %w", err)
	}
	return expectAffected(result, "questionnaire")
}

// DeleteQuestionnaire removes the user's questionnaire.
func (d *DB) DeleteQuestionnaire(userID uuid.UUID) error {
	result, err := d.db.Exec(`DELETE FROM questionnaires WHERE user_id = ?`, userID.String())
	if err != nil {
		return fmt.Errorf("delete questionnaire: %w", err)
	}
	return expectAffected(result, "questionnaire")
}

func expectAffected(result sql.Result, what string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", what, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
