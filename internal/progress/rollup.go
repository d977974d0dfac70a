// ABOUTME: Rollup engine rendering daily, weekly, and monthly progress windows.
// ABOUTME: Failed slots become zero records so a window always renders in full.
package progress

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
)

const (
	DailyWindowDays = 7
	WeeklyBuckets   = 4
	MonthlyBuckets  = 6
)

// DailySeries is a trailing window of daily progress.
type DailySeries struct {
	HabitType models.HabitType `json:"habit_type"`
	Days      []Daily          `json:"days"`
	Partial   bool             `json:"partial"`
	Missing   []string         `json:"missing,omitempty"`
}

// PeriodSeries is a trailing window of weekly or monthly rollups.
type PeriodSeries struct {
	HabitType models.HabitType `json:"habit_type"`
	Periods   []Period         `json:"periods"`
	Partial   bool             `json:"partial"`
	Missing   []string         `json:"missing,omitempty"`
}

// Engine renders progress windows from a Source.
type Engine struct {
	src    Source
	logger *log.Logger
}

// NewEngine creates an Engine reading from src.
func NewEngine(src Source) *Engine {
	return &Engine{src: src, logger: log.New(io.Discard)}
}

// WithLogger sets the logger used to report zero-substituted slots.
func (e *Engine) WithLogger(l *log.Logger) *Engine {
	if l != nil {
		e.logger = l
	}
	return e
}

// DailyWindow returns exactly seven days ending at ref, oldest first.
func (e *Engine) DailyWindow(ctx context.Context, userID uuid.UUID, habitType models.HabitType, ref time.Time) (*DailySeries, error) {
	if ref.IsZero() {
		return nil, fmt.Errorf("daily window: %w", ErrInvalidWindow)
	}
	ref = models.Date(ref)

	series := &DailySeries{HabitType: habitType, Days: make([]Daily, 0, DailyWindowDays)}
	for i := DailyWindowDays - 1; i >= 0; i-- {
		day := ref.AddDate(0, 0, -i)
		d, err := e.src.Daily(ctx, userID, day, habitType)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			label := models.FormatDate(day)
			e.logger.Debug("zero daily slot", "habit", habitType, "date", label, "err", err)
			d = Daily{HabitType: habitType}
			series.Partial = true
			series.Missing = append(series.Missing, label)
		}
		d.Date = day
		series.Days = append(series.Days, d)
	}

	return series, nil
}

// WeeklyWindow returns four Sunday-anchored weeks ending with the week containing ref.
// Buckets are labelled "Week 1" (oldest) to "Week 4" (current).
func (e *Engine) WeeklyWindow(ctx context.Context, userID uuid.UUID, habitType models.HabitType, ref time.Time) (*PeriodSeries, error) {
	if ref.IsZero() {
		return nil, fmt.Errorf("weekly window: %w", ErrInvalidWindow)
	}
	ref = models.Date(ref)

	series := &PeriodSeries{HabitType: habitType, Periods: make([]Period, 0, WeeklyBuckets)}
	for i := WeeklyBuckets - 1; i >= 0; i-- {
		start := ref.AddDate(0, 0, -(int(ref.Weekday()) + 7*i))
		label := fmt.Sprintf("Week %d", WeeklyBuckets-i)

		p, err := e.src.Weekly(ctx, userID, start, habitType)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.logger.Debug("zero weekly slot", "habit", habitType, "week_start", models.FormatDate(start), "err", err)
			p = Period{HabitType: habitType, Start: start, End: start.AddDate(0, 0, 6), TotalDays: 7}
			series.Partial = true
			series.Missing = append(series.Missing, label)
		}
		p.Label = label
		series.Periods = append(series.Periods, p)
	}

	return series, nil
}

// MonthlyWindow returns six calendar months ending with the month containing ref.
// Buckets are labelled like "Jan 2026".
func (e *Engine) MonthlyWindow(ctx context.Context, userID uuid.UUID, habitType models.HabitType, ref time.Time) (*PeriodSeries, error) {
	if ref.IsZero() {
		return nil, fmt.Errorf("monthly window: %w", ErrInvalidWindow)
	}

	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	series := &PeriodSeries{HabitType: habitType, Periods: make([]Period, 0, MonthlyBuckets)}
	for i := MonthlyBuckets - 1; i >= 0; i-- {
		month := first.AddDate(0, -i, 0)
		label := month.Format("Jan 2006")

		p, err := e.src.Monthly(ctx, userID, month.Year(), month.Month(), habitType)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.logger.Debug("zero monthly slot", "habit", habitType, "month", label, "err", err)
			days := models.DaysIn(month.Year(), month.Month())
			p = Period{HabitType: habitType, Start: month, End: month.AddDate(0, 0, days-1), TotalDays: days}
			series.Partial = true
			series.Missing = append(series.Missing, label)
		}
		p.Label = label
		series.Periods = append(series.Periods, p)
	}

	return series, nil
}
