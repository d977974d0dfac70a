// ABOUTME: Badger key-value storage backend for nourish data.
// ABOUTME: Records are JSON values under type-prefixed keys; implements Repository.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/onboarding"
)

const (
	UserPrefix          = "user:"
	QuestionnairePrefix = "questionnaire:"
	TargetPrefix        = "target:"
	LogPrefix           = "log:"
	MealPrefix          = "meal:"
	OnboardingPrefix    = "onboarding:"
)

// KVStore is a Repository backed by an embedded Badger database.
type KVStore struct {
	db  *badger.DB
	dir string
}

// OpenKV opens or creates a Badger database in dir.
func OpenKV(dir string) (*KVStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open kv store: %w", err)
	}
	return &KVStore{db: db, dir: dir}, nil
}

// Close closes the Badger database.
func (s *KVStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateUser stores a new user.
func (s *KVStore) CreateUser(u *models.User) error {
	if err := s.put(UserPrefix+u.ID.String(), u); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID, ID prefix, or exact name.
func (s *KVStore) GetUser(idOrPrefix string) (*models.User, error) {
	users, err := s.ListUsers()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Name == idOrPrefix {
			return u, nil
		}
	}

	data, err := s.getByIDPrefix(UserPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", idOrPrefix, err)
	}
	return unmarshalJSON[models.User](data)
}

// ListUsers returns every user, oldest first.
func (s *KVStore) ListUsers() ([]*models.User, error) {
	users, err := listJSON[models.User](s, UserPrefix)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// CreateQuestionnaire stores the user's questionnaire. A user may have only one.
func (s *KVStore) CreateQuestionnaire(q *models.Questionnaire) error {
	if err := s.insert(QuestionnairePrefix+q.UserID.String(), q, ErrQuestionnaireExists); err != nil {
		return fmt.Errorf("create questionnaire: %w", err)
	}
	return nil
}

// GetQuestionnaire returns the user's questionnaire.
func (s *KVStore) GetQuestionnaire(userID uuid.UUID) (*models.Questionnaire, error) {
	data, err := s.get(QuestionnairePrefix + userID.String())
	if err != nil {
		return nil, fmt.Errorf("questionnaire: %w", err)
	}
	return unmarshalJSON[models.Questionnaire](data)
}

// UpdateQuestionnaire replaces the user's questionnaire answers.
func (s *KVStore) UpdateQuestionnaire(q *models.Questionnaire) error {
	if err := s.replace(QuestionnairePrefix+q.UserID.String(), q); err != nil {
		return fmt.Errorf("update questionnaire: %w", err)
	}
	return nil
}

// DeleteQuestionnaire removes the user's questionnaire.
func (s *KVStore) DeleteQuestionnaire(userID uuid.UUID) error {
	if err := s.remove(QuestionnairePrefix + userID.String()); err != nil {
		return fmt.Errorf("delete questionnaire: %w", err)
	}
	return nil
}

func targetKey(userID uuid.UUID, habitType models.HabitType) string {
	return TargetPrefix + userID.String() + ":" + string(habitType)
}

// CreateTarget stores a new habit target.
func (s *KVStore) CreateTarget(t *models.HabitTarget) error {
	if err := s.insert(targetKey(t.UserID, t.HabitType), t, ErrTargetExists); err != nil {
		return fmt.Errorf("create %s target: %w", t.HabitType, err)
	}
	return nil
}

// ListTargets returns the user's targets in habit type order.
func (s *KVStore) ListTargets(userID uuid.UUID) ([]*models.HabitTarget, error) {
	targets, err := listJSON[models.HabitTarget](s, TargetPrefix+userID.String()+":")
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	sortTargets(targets)
	return targets, nil
}

// GetTarget returns the user's target for a habit type.
func (s *KVStore) GetTarget(userID uuid.UUID, habitType models.HabitType) (*models.HabitTarget, error) {
	data, err := s.get(targetKey(userID, habitType))
	if err != nil {
		return nil, fmt.Errorf("%s target: %w", habitType, err)
	}
	return unmarshalJSON[models.HabitTarget](data)
}

// UpdateTarget replaces an existing target.
func (s *KVStore) UpdateTarget(t *models.HabitTarget) error {
	if err := s.replace(targetKey(t.UserID, t.HabitType), t); err != nil {
		return fmt.Errorf("update %s target: %w", t.HabitType, err)
	}
	return nil
}

// DeleteTarget removes the user's target for a habit type.
func (s *KVStore) DeleteTarget(userID uuid.UUID, habitType models.HabitType) error {
	if err := s.remove(targetKey(userID, habitType)); err != nil {
		return fmt.Errorf("delete %s target: %w", habitType, err)
	}
	return nil
}

// CreateLog stores a new habit log.
func (s *KVStore) CreateLog(l *models.HabitLog) error {
	if err := s.put(LogPrefix+l.ID.String(), l); err != nil {
		return fmt.Errorf("create log: %w", err)
	}
	return nil
}

// ListLogs retrieves the user's logs matching filter, most recent first.
func (s *KVStore) ListLogs(userID uuid.UUID, filter models.LogFilter) ([]*models.HabitLog, error) {
	all, err := listJSON[models.HabitLog](s, LogPrefix)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}

	var logs []*models.HabitLog
	for _, l := range all {
		if l.UserID == userID && filter.Matches(l) {
			logs = append(logs, l)
		}
	}
	sort.SliceStable(logs, func(i, j int) bool {
		if !logs[i].LogDate.Equal(logs[j].LogDate) {
			return logs[i].LogDate.After(logs[j].LogDate)
		}
		return logs[i].CreatedAt.After(logs[j].CreatedAt)
	})

	if filter.Limit > 0 && len(logs) > filter.Limit {
		logs = logs[:filter.Limit]
	}
	return logs, nil
}

// GetLogs returns every log of habitType on date.
func (s *KVStore) GetLogs(userID uuid.UUID, date time.Time, habitType models.HabitType) ([]*models.HabitLog, error) {
	day := models.Date(date)
	return s.ListLogs(userID, models.LogFilter{HabitType: &habitType, Start: &day, End: &day})
}

// UpdateLog replaces an existing log.
func (s *KVStore) UpdateLog(l *models.HabitLog) error {
	if err := s.replace(LogPrefix+l.ID.String(), l); err != nil {
		return fmt.Errorf("update log: %w", err)
	}
	return nil
}

// DeleteLog removes a log by ID or prefix.
func (s *KVStore) DeleteLog(idOrPrefix string) error {
	if err := s.deleteByIDPrefix(LogPrefix, idOrPrefix); err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	return nil
}

// DeleteLogs removes every log of habitType on date and returns how many were removed.
func (s *KVStore) DeleteLogs(userID uuid.UUID, date time.Time, habitType models.HabitType) (int, error) {
	logs, err := s.GetLogs(userID, date, habitType)
	if err != nil {
		return 0, err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, l := range logs {
			if err := txn.Delete([]byte(LogPrefix + l.ID.String())); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete logs: %w", err)
	}
	return len(logs), nil
}

// CreateMeal stores an immutable meal record.
func (s *KVStore) CreateMeal(m *models.Meal) error {
	if err := s.put(MealPrefix+m.ID.String(), m); err != nil {
		return fmt.Errorf("create meal: %w", err)
	}
	return nil
}

// ListMeals returns the user's meals on date in the order they were eaten.
// A zero date returns every meal.
func (s *KVStore) ListMeals(userID uuid.UUID, date time.Time) ([]models.Meal, error) {
	all, err := listJSON[models.Meal](s, MealPrefix)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}

	var meals []models.Meal
	for _, m := range all {
		if m.UserID != userID {
			continue
		}
		if !date.IsZero() && !models.Date(m.EatenAt).Equal(models.Date(date)) {
			continue
		}
		meals = append(meals, *m)
	}
	sort.SliceStable(meals, func(i, j int) bool {
		return meals[i].EatenAt.Before(meals[j].EatenAt)
	})
	return meals, nil
}

// SaveOnboarding stores the completed onboarding record, replacing any earlier one.
func (s *KVStore) SaveOnboarding(r *onboarding.Result) error {
	if err := s.put(OnboardingPrefix+r.UserID.String(), r); err != nil {
		return fmt.Errorf("save onboarding: %w", err)
	}
	return nil
}

// GetOnboarding returns the user's onboarding record.
func (s *KVStore) GetOnboarding(userID uuid.UUID) (*onboarding.Result, error) {
	data, err := s.get(OnboardingPrefix + userID.String())
	if err != nil {
		return nil, fmt.Errorf("onboarding: %w", err)
	}
	return unmarshalJSON[onboarding.Result](data)
}

// put stores v as JSON under key, overwriting any existing value.
func (s *KVStore) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// insert stores v under key, failing with exists if the key is taken.
func (s *KVStore) insert(key string, v any, exists error) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if err == nil {
			return exists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set([]byte(key), data)
	})
}

// replace stores v under key, failing with ErrNotFound if the key is absent.
func (s *KVStore) replace(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Set([]byte(key), data)
	})
}

// remove deletes key, failing with ErrNotFound if it is absent.
func (s *KVStore) remove(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Delete([]byte(key))
	})
}

func (s *KVStore) get(key string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	return data, err
}

// listByPrefix returns all values with keys matching the given prefix.
func (s *KVStore) listByPrefix(prefix string) ([][]byte, error) {
	var results [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			results = append(results, val)
		}
		return nil
	})
	return results, err
}

// matchKeys returns up to two keys starting with prefix.
func (s *KVStore) matchKeys(prefix string) ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p) && len(keys) < 2; it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	return keys, err
}

// getByIDPrefix retrieves a single value by ID prefix match.
// Returns error if no match or multiple matches found.
func (s *KVStore) getByIDPrefix(typePrefix, idPrefix string) ([]byte, error) {
	key, err := s.resolveKey(typePrefix, idPrefix)
	if err != nil {
		return nil, err
	}
	return s.get(key)
}

// deleteByIDPrefix deletes a record by ID prefix match.
func (s *KVStore) deleteByIDPrefix(typePrefix, idPrefix string) error {
	key, err := s.resolveKey(typePrefix, idPrefix)
	if err != nil {
		return err
	}
	return s.remove(key)
}

func (s *KVStore) resolveKey(typePrefix, idPrefix string) (string, error) {
	if strings.TrimSpace(idPrefix) == "" {
		return "", fmt.Errorf("empty ID: %w", ErrNotFound)
	}
	keys, err := s.matchKeys(typePrefix + idPrefix)
	if err != nil {
		return "", err
	}
	switch len(keys) {
	case 0:
		return "", fmt.Errorf("%s: %w", idPrefix, ErrNotFound)
	case 1:
		return keys[0], nil
	default:
		return "", fmt.Errorf("%s: %w", idPrefix, ErrAmbiguous)
	}
}

func listJSON[T any](s *KVStore, prefix string) ([]*T, error) {
	values, err := s.listByPrefix(prefix)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(values))
	for _, v := range values {
		item, err := unmarshalJSON[T](v)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// unmarshalJSON is a helper to unmarshal JSON data.
func unmarshalJSON[T any](data []byte) (*T, error) {
	var result T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
