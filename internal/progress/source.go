// ABOUTME: Progress and Feedback resource interfaces plus a local implementation.
// ABOUTME: LocalSource derives progress from stored targets and logs.
package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
)

// Period is the rollup of one habit type over a week or a calendar month.
type Period struct {
	Label                string           `json:"label"`
	Start                time.Time        `json:"start"`
	End                  time.Time        `json:"end"`
	HabitType            models.HabitType `json:"habit_type"`
	TotalValue           float64          `json:"total_value"`
	TargetValue          float64          `json:"target_value"`
	CompletionPercentage float64          `json:"completion_percentage"`
	DaysMet              int              `json:"days_met"`
	TotalDays            int              `json:"total_days"`
}

// Source serves per-slot progress lookups.
type Source interface {
	Daily(ctx context.Context, userID uuid.UUID, date time.Time, habitType models.HabitType) (Daily, error)
	Weekly(ctx context.Context, userID uuid.UUID, weekStart time.Time, habitType models.HabitType) (Period, error)
	Monthly(ctx context.Context, userID uuid.UUID, year int, month time.Month, habitType models.HabitType) (Period, error)
}

// FeedbackSource serves per-habit feedback over a trailing window of days.
type FeedbackSource interface {
	Feedback(ctx context.Context, userID uuid.UUID, habitType models.HabitType, days int) (Feedback, error)
}

// Store is the read side of storage that LocalSource needs.
type Store interface {
	ListTargets(userID uuid.UUID) ([]*models.HabitTarget, error)
	ListLogs(userID uuid.UUID, filter models.LogFilter) ([]*models.HabitLog, error)
}

// LocalSource computes progress and feedback from a Store.
type LocalSource struct {
	store Store
	// Now returns the reference time for feedback windows.
	Now func() time.Time
}

// NewLocalSource creates a LocalSource over store.
func NewLocalSource(store Store) *LocalSource {
	return &LocalSource{store: store, Now: time.Now}
}

// Daily returns the progress of habitType on date, with the streak ending there.
func (s *LocalSource) Daily(ctx context.Context, userID uuid.UUID, date time.Time, habitType models.HabitType) (Daily, error) {
	if err := ctx.Err(); err != nil {
		return Daily{}, err
	}

	target, err := s.target(userID, habitType)
	if err != nil {
		return Daily{}, err
	}

	end := models.Date(date)
	logs, err := s.store.ListLogs(userID, models.LogFilter{HabitType: &habitType, End: &end})
	if err != nil {
		return Daily{}, fmt.Errorf("list logs: %w", err)
	}

	return Aggregate(logs, end, habitType, target), nil
}

// Weekly returns the 7-day rollup starting at weekStart.
func (s *LocalSource) Weekly(ctx context.Context, userID uuid.UUID, weekStart time.Time, habitType models.HabitType) (Period, error) {
	return s.period(ctx, userID, models.Date(weekStart), 7, habitType)
}

// Monthly returns the rollup of a calendar month.
func (s *LocalSource) Monthly(ctx context.Context, userID uuid.UUID, year int, month time.Month, habitType models.HabitType) (Period, error) {
	if month < time.January || month > time.December {
		return Period{}, fmt.Errorf("month %d: %w", month, ErrInvalidWindow)
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return s.period(ctx, userID, start, models.DaysIn(year, month), habitType)
}

// Feedback builds feedback for habitType over the last days days, ending today.
func (s *LocalSource) Feedback(ctx context.Context, userID uuid.UUID, habitType models.HabitType, days int) (Feedback, error) {
	if days < MinFeedbackDays || days > MaxFeedbackDays {
		return Feedback{}, fmt.Errorf("feedback days %d (must be %d-%d): %w", days, MinFeedbackDays, MaxFeedbackDays, ErrInvalidWindow)
	}
	if err := ctx.Err(); err != nil {
		return Feedback{}, err
	}

	target, err := s.target(userID, habitType)
	if err != nil {
		return Feedback{}, err
	}

	ref := models.Date(s.Now())
	logs, err := s.store.ListLogs(userID, models.LogFilter{HabitType: &habitType, End: &ref})
	if err != nil {
		return Feedback{}, fmt.Errorf("list logs: %w", err)
	}

	window := make([]Daily, 0, days)
	for i := days - 1; i >= 0; i-- {
		window = append(window, Aggregate(logs, ref.AddDate(0, 0, -i), habitType, target))
	}

	return BuildFeedback(habitType, window), nil
}

func (s *LocalSource) period(ctx context.Context, userID uuid.UUID, start time.Time, days int, habitType models.HabitType) (Period, error) {
	if err := ctx.Err(); err != nil {
		return Period{}, err
	}

	target, err := s.target(userID, habitType)
	if err != nil {
		return Period{}, err
	}

	end := start.AddDate(0, 0, days-1)
	logs, err := s.store.ListLogs(userID, models.LogFilter{HabitType: &habitType, Start: &start, End: &end})
	if err != nil {
		return Period{}, fmt.Errorf("list logs: %w", err)
	}

	return Rollup(logs, start, days, habitType, target), nil
}

func (s *LocalSource) target(userID uuid.UUID, habitType models.HabitType) (*models.HabitTarget, error) {
	targets, err := s.store.ListTargets(userID)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}

	index, err := IndexTargets(targets)
	if err != nil {
		return nil, err
	}

	target, ok := index[habitType]
	if !ok {
		return nil, fmt.Errorf("%s: %w", habitType, ErrNoTarget)
	}
	return target, nil
}

// Rollup sums days consecutive days starting at start into a Period.
// The period target is the daily target times the number of days.
func Rollup(logs []*models.HabitLog, start time.Time, days int, habitType models.HabitType, target *models.HabitTarget) Period {
	start = models.Date(start)
	var daily float64
	if target != nil {
		daily = target.TargetValue
	}

	p := Period{
		Start:       start,
		End:         start.AddDate(0, 0, days-1),
		HabitType:   habitType,
		TargetValue: daily * float64(days),
		TotalDays:   days,
	}

	for i := 0; i < days; i++ {
		logged := SumLogs(logs, start.AddDate(0, 0, i), habitType)
		p.TotalValue += logged
		if Completion(logged, daily) >= 100 {
			p.DaysMet++
		}
	}
	p.CompletionPercentage = Completion(p.TotalValue, p.TargetValue)

	return p
}
