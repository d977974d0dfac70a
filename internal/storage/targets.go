// ABOUTME: Habit target CRUD operations for SQLite storage.
// ABOUTME: Targets are keyed by (user, habit type); duplicates are rejected.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
)

const targetColumns = `id, user_id, habit_type, target_value, target_unit, is_active, created_at, updated_at`

// CreateTarget stores a new habit target.
func (d *DB) CreateTarget(t *models.HabitTarget) error {
	_, err := d.db.Exec(
		`INSERT INTO habit_targets (`+targetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.UserID.String(), string(t.HabitType), t.TargetValue, t.TargetUnit,
		t.IsActive, formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create %s target: %w", t.HabitType, ErrTargetExists)
		}
		return fmt.Errorf("create target: %w", err)
	}
	return nil
}

// ListTargets returns the user's targets, active or not, in habit type order.
func (d *DB) ListTargets(userID uuid.UUID) ([]*models.HabitTarget, error) {
	rows, err := d.db.Query(`SELECT `+targetColumns+` FROM habit_targets WHERE user_id = ?`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var targets []*models.HabitTarget
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortTargets(targets)
	return targets, nil
}

// GetTarget returns the user's target for a habit type.
func (d *DB) GetTarget(userID uuid.UUID, habitType models.HabitType) (*models.HabitTarget, error) {
	row := d.db.QueryRow(`SELECT `+targetColumns+` FROM habit_targets WHERE user_id = ? AND habit_type = ?`,
		userID.String(), string(habitType))
	t, err := scanTarget(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s target: %w", habitType, ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

// UpdateTarget updates the value, unit, and active flag of an existing target.
func (d *DB) UpdateTarget(t *models.HabitTarget) error {
	result, err := d.db.Exec(`
		UPDATE habit_targets SET target_value = ?, target_unit = ?, is_active = ?, updated_at = ?
		WHERE user_id = ? AND habit_type = ?`,
		t.TargetValue, t.TargetUnit, t.IsActive, formatTime(t.UpdatedAt),
		t.UserID.String(), string(t.HabitType),
	)
	if err != nil {
		return fmt.Errorf("update target: %w", err)
	}
	return expectAffected(result, string(t.HabitType)+" target")
}

// DeleteTarget removes the user's target for a habit type.
func (d *DB) DeleteTarget(userID uuid.UUID, habitType models.HabitType) error {
	result, err := d.db.Exec(`DELETE FROM habit_targets WHERE user_id = ? AND habit_type = ?`,
		userID.String(), string(habitType))
	if err != nil {
		return fmt.Errorf("delete target: %w", err)
	}
	return expectAffected(result, string(habitType)+" target")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTarget(row rowScanner) (*models.HabitTarget, error) {
	var t models.HabitTarget
	var idStr, userStr, habitType, createdAt, updatedAt string
	err := row.Scan(&idStr, &userStr, &habitType, &t.TargetValue, &t.TargetUnit, &t.IsActive, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan target: %w", err)
	}
	t.ID, _ = uuid.Parse(idStr)
	t.UserID, _ = uuid.Parse(userStr)
	t.HabitType = models.HabitType(habitType)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return &t, nil
}
