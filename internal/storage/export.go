// ABOUTME: Export and import functionality for nourish data.
// ABOUTME: JSON and YAML round-trip; Markdown renders logs and completion tables.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/onboarding"
	"github.com/harperreed/nourish/internal/progress"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export format version.
const ExportVersion = "1.0"

// ExportData represents the full export format for nourish data.
type ExportData struct {
	Version        string                  `json:"version" yaml:"version"`
	ExportedAt     time.Time               `json:"exported_at" yaml:"exported_at"`
	Tool           string                  `json:"tool" yaml:"tool"`
	Users          []*models.User          `json:"users" yaml:"users"`
	Questionnaires []*models.Questionnaire `json:"questionnaires,omitempty" yaml:"questionnaires,omitempty"`
	Targets        []*models.HabitTarget   `json:"targets" yaml:"targets"`
	Logs           []*models.HabitLog      `json:"logs" yaml:"logs"`
	Meals          []models.Meal           `json:"meals,omitempty" yaml:"meals,omitempty"`
	Onboarding     []*onboarding.Result    `json:"onboarding,omitempty" yaml:"onboarding,omitempty"`
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	return gatherAll(d)
}

// ImportData imports data from an export.
func (d *DB) ImportData(data *ExportData) error {
	return importAll(d, data)
}

// GetAllData retrieves all data for export.
func (s *KVStore) GetAllData() (*ExportData, error) {
	return gatherAll(s)
}

// ImportData imports data from an export.
func (s *KVStore) ImportData(data *ExportData) error {
	return importAll(s, data)
}

func gatherAll(repo Repository) (*ExportData, error) {
	users, err := repo.ListUsers()
	if err != nil {
		return nil, err
	}

	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "nourish",
		Users:      users,
	}

	for _, u := range users {
		q, err := repo.GetQuestionnaire(u.ID)
		if err == nil {
			data.Questionnaires = append(data.Questionnaires, q)
		} else if !isNotFound(err) {
			return nil, err
		}

		targets, err := repo.ListTargets(u.ID)
		if err != nil {
			return nil, err
		}
		data.Targets = append(data.Targets, targets...)

		logs, err := repo.ListLogs(u.ID, models.LogFilter{})
		if err != nil {
			return nil, err
		}
		data.Logs = append(data.Logs, logs...)

		meals, err := repo.ListMeals(u.ID, time.Time{})
		if err != nil {
			return nil, err
		}
		data.Meals = append(data.Meals, meals...)

		ob, err := repo.GetOnboarding(u.ID)
		if err == nil {
			data.Onboarding = append(data.Onboarding, ob)
		} else if !isNotFound(err) {
			return nil, err
		}
	}

	return data, nil
}

func importAll(repo Repository, data *ExportData) error {
	for _, u := range data.Users {
		if err := repo.CreateUser(u); err != nil {
			return fmt.Errorf("import user: %w", err)
		}
	}
	for _, q := range data.Questionnaires {
		if err := repo.CreateQuestionnaire(q); err != nil {
			return fmt.Errorf("import questionnaire: %w", err)
		}
	}
	for _, t := range data.Targets {
		if err := repo.CreateTarget(t); err != nil {
			return fmt.Errorf("import target: %w", err)
		}
	}
	for _, l := range data.Logs {
		if err := repo.CreateLog(l); err != nil {
			return fmt.Errorf("import log: %w", err)
		}
	}
	for i := range data.Meals {
		if err := repo.CreateMeal(&data.Meals[i]); err != nil {
			return fmt.Errorf("import meal: %w", err)
		}
	}
	for _, r := range data.Onboarding {
		if err := repo.SaveOnboarding(r); err != nil {
			return fmt.Errorf("import onboarding: %w", err)
		}
	}
	return nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func ExportYAML(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ExportMarkdown renders each user's habit logs and daily completion as
// Markdown tables. A non-nil habitType or since narrows the logs shown.
func ExportMarkdown(repo Repository, habitType *models.HabitType, since *time.Time) (string, error) {
	users, err := repo.ListUsers()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Nourish Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	for _, u := range users {
		logs, err := repo.ListLogs(u.ID, models.LogFilter{HabitType: habitType, Start: since})
		if err != nil {
			return "", err
		}
		targets, err := repo.ListTargets(u.ID)
		if err != nil {
			return "", err
		}

		sb.WriteString(fmt.Sprintf("## %s\n\n", u.Name))
		if len(logs) == 0 {
			sb.WriteString("No logs.\n\n")
			continue
		}

		sort.SliceStable(logs, func(i, j int) bool {
			return logs[i].LogDate.Before(logs[j].LogDate)
		})
		writeLogTables(&sb, logs)
		if err := writeCompletionTable(&sb, logs, targets, habitType); err != nil {
			return "", err
		}
	}

	return sb.String(), nil
}

func writeLogTables(sb *strings.Builder, logs []*models.HabitLog) {
	grouped := make(map[models.HabitType][]*models.HabitLog)
	for _, l := range logs {
		grouped[l.HabitType] = append(grouped[l.HabitType], l)
	}

	for _, ht := range models.AllHabitTypes {
		if len(grouped[ht]) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("### %s\n\n", ht))
		sb.WriteString("| Date | Value | Notes |\n")
		sb.WriteString("|------|-------|-------|\n")
		for _, l := range grouped[ht] {
			notes := ""
			if l.Notes != nil {
				notes = strings.ReplaceAll(*l.Notes, "|", `\|`)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s %s | %s |\n",
				models.FormatDate(l.LogDate), mdValue(l.LoggedValue), l.Unit, notes))
		}
		sb.WriteString("\n")
	}
}

// writeCompletionTable adds one row per logged day and targeted habit.
func writeCompletionTable(sb *strings.Builder, logs []*models.HabitLog, targets []*models.HabitTarget, habitType *models.HabitType) error {
	var rows []string
	seen := make(map[time.Time]bool)
	for _, l := range logs {
		if seen[l.LogDate] {
			continue
		}
		seen[l.LogDate] = true

		dailies, err := progress.AggregateDay(logs, targets, l.LogDate)
		if err != nil {
			return err
		}
		for _, d := range dailies {
			if habitType != nil && d.HabitType != *habitType {
				continue
			}
			rows = append(rows, fmt.Sprintf("| %s | %s | %s | %s | %.0f%% |",
				models.FormatDate(l.LogDate), d.HabitType,
				mdValue(d.LoggedValue), mdValue(d.TargetValue), d.CompletionPercentage))
		}
	}
	if len(rows) == 0 {
		return nil
	}

	sb.WriteString("### Daily completion\n\n")
	sb.WriteString("| Date | Habit | Logged | Target | Completion |\n")
	sb.WriteString("|------|-------|--------|--------|------------|\n")
	for _, r := range rows {
		sb.WriteString(r + "\n")
	}
	sb.WriteString("\n")
	return nil
}

func mdValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(repo Repository, raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return repo.ImportData(&data)
}

// ImportYAML imports data from YAML bytes.
func ImportYAML(repo Repository, raw []byte) error {
	var data ExportData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal YAML: %w", err)
	}
	return repo.ImportData(&data)
}
