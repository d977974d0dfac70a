// ABOUTME: Repository interface for nourish data storage.
// ABOUTME: Defines the contract every backend (SQLite, Badger KV) implements.
package storage

import (
	"errors"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/onboarding"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when an ID prefix matches more than one record.
	ErrAmbiguous = errors.New("ambiguous prefix")
	// ErrTargetExists is returned when creating a second target for a (user, habit type).
	ErrTargetExists = errors.New("target already exists, use set to update")
	// ErrQuestionnaireExists is returned when creating a second questionnaire for a user.
	ErrQuestionnaireExists = errors.New("questionnaire already exists")
)

// Repository defines the storage interface for nourish data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// User operations
	CreateUser(u *models.User) error
	GetUser(idOrPrefix string) (*models.User, error)
	ListUsers() ([]*models.User, error)

	// Questionnaire operations, one per user
	CreateQuestionnaire(q *models.Questionnaire) error
	GetQuestionnaire(userID uuid.UUID) (*models.Questionnaire, error)
	UpdateQuestionnaire(q *models.Questionnaire) error
	DeleteQuestionnaire(userID uuid.UUID) error

	// Habit target operations, keyed by (user, habit type)
	CreateTarget(t *models.HabitTarget) error
	ListTargets(userID uuid.UUID) ([]*models.HabitTarget, error)
	GetTarget(userID uuid.UUID, habitType models.HabitType) (*models.HabitTarget, error)
	UpdateTarget(t *models.HabitTarget) error
	DeleteTarget(userID uuid.UUID, habitType models.HabitType) error

	// Habit log operations
	CreateLog(l *models.HabitLog) error
	ListLogs(userID uuid.UUID, filter models.LogFilter) ([]*models.HabitLog, error)
	GetLogs(userID uuid.UUID, date time.Time, habitType models.HabitType) ([]*models.HabitLog, error)
	UpdateLog(l *models.HabitLog) error
	DeleteLog(idOrPrefix string) error
	DeleteLogs(userID uuid.UUID, date time.Time, habitType models.HabitType) (int, error)

	// Meal operations; a zero date lists every meal
	CreateMeal(m *models.Meal) error
	ListMeals(userID uuid.UUID, date time.Time) ([]models.Meal, error)

	// Onboarding record, one per user
	SaveOnboarding(r *onboarding.Result) error
	GetOnboarding(userID uuid.UUID) (*onboarding.Result, error)

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}

var (
	_ Repository = (*DB)(nil)
	_ Repository = (*KVStore)(nil)
)

// SaveTarget creates the target, or updates the existing one for the same habit type.
func SaveTarget(repo Repository, t *models.HabitTarget) error {
	existing, err := repo.GetTarget(t.UserID, t.HabitType)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return repo.CreateTarget(t)
		}
		return err
	}
	t.ID = existing.ID
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = time.Now()
	return repo.UpdateTarget(t)
}

// isFullUUID reports whether s looks like a complete UUID rather than a prefix.
func isFullUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}

// sortTargets orders targets by habit type display order.
func sortTargets(targets []*models.HabitTarget) {
	sort.SliceStable(targets, func(i, j int) bool {
		return slices.Index(models.AllHabitTypes, targets[i].HabitType) <
			slices.Index(models.AllHabitTypes, targets[j].HabitType)
	})
}
