// ABOUTME: Tests for the rollup engine, local source, feedback, and Collect.
// ABOUTME: Uses an in-memory store and a fault-injecting source.
package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	targets []*models.HabitTarget
	logs    []*models.HabitLog
}

func (m *memStore) ListTargets(uuid.UUID) ([]*models.HabitTarget, error) {
	return m.targets, nil
}

func (m *memStore) ListLogs(_ uuid.UUID, f models.LogFilter) ([]*models.HabitLog, error) {
	var out []*models.HabitLog
	for _, l := range m.logs {
		if f.Matches(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

var errUnavailable = errors.New("source unavailable")

// flakySource wraps a Source and fails the slots listed in fail.
type flakySource struct {
	Source
	mu   sync.Mutex
	fail map[string]bool
	hits int
}

func (f *flakySource) failing(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits++
	return f.fail[key]
}

func (f *flakySource) Daily(ctx context.Context, u uuid.UUID, d time.Time, ht models.HabitType) (Daily, error) {
	if f.failing(models.FormatDate(d)) || f.failing(string(ht)) {
		return Daily{}, errUnavailable
	}
	return f.Source.Daily(ctx, u, d, ht)
}

func (f *flakySource) Weekly(ctx context.Context, u uuid.UUID, start time.Time, ht models.HabitType) (Period, error) {
	if f.failing(models.FormatDate(start)) {
		return Period{}, errUnavailable
	}
	return f.Source.Weekly(ctx, u, start, ht)
}

func (f *flakySource) Monthly(ctx context.Context, u uuid.UUID, y int, m time.Month, ht models.HabitType) (Period, error) {
	if f.failing(time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")) {
		return Period{}, errUnavailable
	}
	return f.Source.Monthly(ctx, u, y, m, ht)
}

func newWaterStore() *memStore {
	return &memStore{
		targets: []*models.HabitTarget{models.NewHabitTarget(testUser, models.HabitWater, 2000)},
		logs: []*models.HabitLog{
			logOn(models.HabitWater, daysAgo(2), 2000),
			logOn(models.HabitWater, daysAgo(1), 2500),
			logOn(models.HabitWater, refDay, 1000),
			logOn(models.HabitWater, refDay, 1000),
		},
	}
}

func TestDailyWindowAlwaysSevenEntries(t *testing.T) {
	ctx := context.Background()

	t.Run("sparse data", func(t *testing.T) {
		eng := NewEngine(NewLocalSource(newWaterStore()))
		series, err := eng.DailyWindow(ctx, testUser, models.HabitWater, refDay)
		require.NoError(t, err)
		require.Len(t, series.Days, 7)
		assert.False(t, series.Partial)
		assert.Equal(t, daysAgo(6), series.Days[0].Date)
		assert.Equal(t, refDay, series.Days[6].Date)
		assert.Zero(t, series.Days[0].LoggedValue)
		assert.Equal(t, 2000.0, series.Days[6].LoggedValue)
		assert.Equal(t, 3, series.Days[6].StreakDays)
	})

	t.Run("no target at all", func(t *testing.T) {
		eng := NewEngine(NewLocalSource(&memStore{}))
		series, err := eng.DailyWindow(ctx, testUser, models.HabitSleep, refDay)
		require.NoError(t, err)
		require.Len(t, series.Days, 7)
		assert.True(t, series.Partial)
		assert.Len(t, series.Missing, 7)
	})

	t.Run("failed slot becomes zero record", func(t *testing.T) {
		src := &flakySource{
			Source: NewLocalSource(newWaterStore()),
			fail:   map[string]bool{models.FormatDate(daysAgo(1)): true},
		}
		series, err := NewEngine(src).DailyWindow(ctx, testUser, models.HabitWater, refDay)
		require.NoError(t, err)
		require.Len(t, series.Days, 7)
		assert.True(t, series.Partial)
		assert.Equal(t, []string{"2026-03-17"}, series.Missing)

		failed := series.Days[5]
		assert.Equal(t, daysAgo(1), failed.Date)
		assert.Zero(t, failed.LoggedValue)
		assert.Zero(t, failed.TargetValue)
		assert.False(t, failed.IsGoalMet)
	})

	t.Run("zero reference date", func(t *testing.T) {
		_, err := NewEngine(NewLocalSource(newWaterStore())).DailyWindow(ctx, testUser, models.HabitWater, time.Time{})
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})
}

func TestWeeklyWindow(t *testing.T) {
	store := newWaterStore()
	store.logs = append(store.logs, logOn(models.HabitWater, time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC), 700))

	src := &flakySource{
		Source: NewLocalSource(store),
		fail:   map[string]bool{"2026-03-01": true},
	}
	series, err := NewEngine(src).WeeklyWindow(context.Background(), testUser, models.HabitWater, refDay)
	require.NoError(t, err)
	require.Len(t, series.Periods, 4)

	starts := []string{"2026-02-22", "2026-03-01", "2026-03-08", "2026-03-15"}
	for i, p := range series.Periods {
		assert.Equal(t, starts[i], models.FormatDate(p.Start))
		assert.Equal(t, time.Sunday, p.Start.Weekday())
		assert.Equal(t, 7, p.TotalDays)
	}
	assert.Equal(t, "Week 1", series.Periods[0].Label)
	assert.Equal(t, "Week 4", series.Periods[3].Label)

	assert.Equal(t, 700.0, series.Periods[0].TotalValue)
	assert.Equal(t, 14000.0, series.Periods[0].TargetValue)

	assert.True(t, series.Partial)
	assert.Equal(t, []string{"Week 2"}, series.Missing)
	assert.Zero(t, series.Periods[1].TargetValue)

	current := series.Periods[3]
	assert.Equal(t, 6500.0, current.TotalValue)
	assert.Equal(t, 3, current.DaysMet)
	assert.InDelta(t, 100*6500.0/14000.0, current.CompletionPercentage, 1e-9)
}

func TestMonthlyWindowScalesByDaysInMonth(t *testing.T) {
	src := &flakySource{
		Source: NewLocalSource(newWaterStore()),
		fail:   map[string]bool{"2025-12": true},
	}
	series, err := NewEngine(src).MonthlyWindow(context.Background(), testUser, models.HabitWater, refDay)
	require.NoError(t, err)
	require.Len(t, series.Periods, 6)

	labels := []string{"Oct 2025", "Nov 2025", "Dec 2025", "Jan 2026", "Feb 2026", "Mar 2026"}
	days := []int{31, 30, 31, 31, 28, 31}
	for i, p := range series.Periods {
		assert.Equal(t, labels[i], p.Label)
		assert.Equal(t, days[i], p.TotalDays)
	}

	assert.Equal(t, 2000.0*28, series.Periods[4].TargetValue)
	assert.Equal(t, 2000.0*31, series.Periods[5].TargetValue)
	assert.Equal(t, 6500.0, series.Periods[5].TotalValue)

	assert.True(t, series.Partial)
	assert.Equal(t, []string{"Dec 2025"}, series.Missing)
	assert.Zero(t, series.Periods[2].TotalValue)
}

func TestWindowStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(NewLocalSource(newWaterStore())).DailyWindow(ctx, testUser, models.HabitWater, refDay)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalSourceFeedback(t *testing.T) {
	src := NewLocalSource(newWaterStore())
	src.Now = func() time.Time { return refDay.Add(9 * time.Hour) }
	ctx := context.Background()

	fb, err := src.Feedback(ctx, testUser, models.HabitWater, 3)
	require.NoError(t, err)
	assert.Equal(t, models.HabitWater, fb.HabitType)
	assert.InDelta(t, (100.0+125.0+100.0)/3, fb.CompletionPercentage, 1e-9)
	assert.Equal(t, 3, fb.StreakDays)
	assert.Contains(t, fb.FeedbackMessage, "Excellent")
	assert.Contains(t, fb.Encouragement, "3 days in a row")

	for _, days := range []int{0, 31, -1} {
		_, err := src.Feedback(ctx, testUser, models.HabitWater, days)
		assert.ErrorIs(t, err, ErrInvalidWindow, "days=%d", days)
	}

	_, err = src.Feedback(ctx, testUser, models.HabitMood, 7)
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestBuildFeedback(t *testing.T) {
	tests := []struct {
		name       string
		completion []float64
		streak     int
		message    string
		hasTips    bool
	}{
		{"nothing logged", []float64{0, 0}, 0, "No sleep logged", true},
		{"below half", []float64{20, 40}, 0, "below target", true},
		{"halfway", []float64{50, 60}, 0, "halfway", true},
		{"close", []float64{80, 90}, 0, "Great work", true},
		{"met", []float64{100, 120}, 2, "Excellent", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var window []Daily
			for _, c := range tt.completion {
				window = append(window, Daily{HabitType: models.HabitSleep, CompletionPercentage: c})
			}
			window[len(window)-1].StreakDays = tt.streak

			fb := BuildFeedback(models.HabitSleep, window)
			assert.Contains(t, fb.FeedbackMessage, tt.message)
			assert.Equal(t, tt.hasTips, len(fb.Suggestions) > 0)
			assert.Equal(t, tt.streak, fb.StreakDays)
			assert.NotEmpty(t, fb.Encouragement)
		})
	}
}

func TestCollect(t *testing.T) {
	store := newWaterStore()
	store.targets = append(store.targets,
		models.NewHabitTarget(testUser, models.HabitSleep, 8),
		models.NewHabitTarget(testUser, models.HabitMeals, 3),
	)
	local := NewLocalSource(store)
	local.Now = func() time.Time { return refDay }
	types := []models.HabitType{models.HabitWater, models.HabitMeals, models.HabitSleep}

	t.Run("all succeed", func(t *testing.T) {
		snap, err := Collect(context.Background(), local, local, testUser, types, refDay, 7)
		require.NoError(t, err)
		assert.Len(t, snap.Progress, 3)
		assert.Len(t, snap.Feedback, 3)
		assert.False(t, snap.Partial())
		assert.Equal(t, models.HabitWater, snap.Progress[0].HabitType)
	})

	t.Run("failed habit dropped", func(t *testing.T) {
		src := &flakySource{Source: local, fail: map[string]bool{"meals": true}}
		snap, err := Collect(context.Background(), src, local, testUser, types, refDay, 7)
		require.NoError(t, err)
		require.Len(t, snap.Progress, 2)
		assert.Equal(t, models.HabitWater, snap.Progress[0].HabitType)
		assert.Equal(t, models.HabitSleep, snap.Progress[1].HabitType)
		assert.Len(t, snap.Feedback, 3)
		assert.Equal(t, []models.HabitType{models.HabitMeals}, snap.Failed)
	})

	t.Run("feedback optional", func(t *testing.T) {
		snap, err := Collect(context.Background(), local, nil, testUser, types, refDay, 7)
		require.NoError(t, err)
		assert.Len(t, snap.Progress, 3)
		assert.Empty(t, snap.Feedback)
	})

	t.Run("cancelled discards results", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		snap, err := Collect(ctx, local, local, testUser, types, refDay, 7)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, snap)
	})
}
