// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for users, questionnaires, targets, logs, meals, and onboarding.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS questionnaires (
		user_id TEXT PRIMARY KEY,
		sleep_hours REAL,
		water_goal_ml INTEGER,
		meal_frequency INTEGER,
		exercise_frequency INTEGER,
		exercise_duration INTEGER,
		stress_level TEXT,
		energy_level TEXT,
		mood_tracking INTEGER NOT NULL DEFAULT 0,
		weight_goal TEXT,
		target_weight_kg REAL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS habit_targets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		habit_type TEXT NOT NULL,
		target_value REAL NOT NULL,
		target_unit TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (user_id, habit_type),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS habit_logs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		log_date TEXT NOT NULL,
		habit_type TEXT NOT NULL,
		logged_value REAL NOT NULL,
		unit TEXT NOT NULL,
		notes TEXT,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS meals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		label TEXT NOT NULL,
		meal_date TEXT NOT NULL,
		eaten_at DATETIME NOT NULL,
		nutrients TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS onboarding_profiles (
		user_id TEXT PRIMARY KEY,
		record TEXT NOT NULL,
		completed_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_habit_logs_user_date ON habit_logs(user_id, log_date);
	CREATE INDEX IF NOT EXISTS idx_habit_logs_user_type_date ON habit_logs(user_id, habit_type, log_date);
	CREATE INDEX IF NOT EXISTS idx_meals_user_date ON meals(user_id, meal_date);
	`

	_, err := d.db.Exec(schema)
	return err
}
