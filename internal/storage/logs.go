// ABOUTME: Habit log CRUD operations for SQLite storage.
// ABOUTME: Logs are filtered by type and inclusive date range, newest first.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
)

const logColumns = `id, user_id, log_date, habit_type, logged_value, unit, notes, created_at`

// CreateLog stores a new habit log.
func (d *DB) CreateLog(l *models.HabitLog) error {
	_, err := d.db.Exec(
		`INSERT INTO habit_logs (`+logColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID.String(), l.UserID.String(), models.FormatDate(l.LogDate), string(l.HabitType),
		l.LoggedValue, l.Unit, l.Notes, formatTime(l.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create log: %w", err)
	}
	return nil
}

// ListLogs retrieves the user's logs matching filter.
// Results are sorted by log date descending (most recent first).
func (d *DB) ListLogs(userID uuid.UUID, filter models.LogFilter) ([]*models.HabitLog, error) {
	query := `SELECT ` + logColumns + ` FROM habit_logs WHERE user_id = ?`
	args := []interface{}{userID.String()}

	if filter.HabitType != nil {
		query += ` AND habit_type = ?`
		args = append(args, string(*filter.HabitType))
	}
	if filter.Start != nil {
		query += ` AND log_date >= ?`
		args = append(args, models.FormatDate(models.Date(*filter.Start)))
	}
	if filter.End != nil {
		query += ` AND log_date <= ?`
		args = append(args, models.FormatDate(models.Date(*filter.End)))
	}
	query += ` ORDER BY log_date DESC, created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.HabitLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// GetLogs returns every log of habitType on date.
func (d *DB) GetLogs(userID uuid.UUID, date time.Time, habitType models.HabitType) ([]*models.HabitLog, error) {
	day := models.Date(date)
	return d.ListLogs(userID, models.LogFilter{HabitType: &habitType, Start: &day, End: &day})
}

// UpdateLog replaces the value, unit, and notes of an existing log.
func (d *DB) UpdateLog(l *models.HabitLog) error {
	result, err := d.db.Exec(`
		UPDATE habit_logs SET log_date = ?, logged_value = ?, unit = ?, notes = ?
		WHERE id = ?`,
		models.FormatDate(l.LogDate), l.LoggedValue, l.Unit, l.Notes, l.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update log: %w", err)
	}
	return expectAffected(result, "log")
}

// DeleteLog removes a log by ID or prefix.
func (d *DB) DeleteLog(idOrPrefix string) error {
	id, err := d.resolveID("habit_logs", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete log: %w", err)
	}

	result, err := d.db.Exec(`DELETE FROM habit_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	return expectAffected(result, "log "+idOrPrefix)
}

// DeleteLogs removes every log of habitType on date and returns how many were removed.
func (d *DB) DeleteLogs(userID uuid.UUID, date time.Time, habitType models.HabitType) (int, error) {
	result, err := d.db.Exec(`DELETE FROM habit_logs WHERE user_id = ? AND log_date = ? AND habit_type = ?`,
		userID.String(), models.FormatDate(models.Date(date)), string(habitType))
	if err != nil {
		return 0, fmt.Errorf("delete logs: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete logs: %w", err)
	}
	return int(affected), nil
}

func scanLog(row rowScanner) (*models.HabitLog, error) {
	var l models.HabitLog
	var idStr, userStr, logDate, habitType, createdAt string
	var notes sql.NullString

	err := row.Scan(&idStr, &userStr, &logDate, &habitType, &l.LoggedValue, &l.Unit, &notes, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan log: %w", err)
	}

	l.ID, _ = uuid.Parse(idStr)
	l.UserID, _ = uuid.Parse(userStr)
	l.LogDate = parseDate(logDate)
	l.HabitType = models.HabitType(habitType)
	l.CreatedAt = parseTime(createdAt)
	if notes.Valid {
		l.Notes = &notes.String
	}
	return &l, nil
}
