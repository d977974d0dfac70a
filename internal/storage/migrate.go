// ABOUTME: Data migration between nourish storage backends.
// ABOUTME: Copies every user and their records from source to destination.

package storage

import (
	"errors"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Users          int
	Questionnaires int
	Targets        int
	Logs           int
	Meals          int
	Onboarding     int
}

// MigrateData copies all data from src to dst storage.
// The destination should be empty before calling this function.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	data, err := src.GetAllData()
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	if err := dst.ImportData(data); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	return &MigrateSummary{
		Users:          len(data.Users),
		Questionnaires: len(data.Questionnaires),
		Targets:        len(data.Targets),
		Logs:           len(data.Logs),
		Meals:          len(data.Meals),
		Onboarding:     len(data.Onboarding),
	}, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
