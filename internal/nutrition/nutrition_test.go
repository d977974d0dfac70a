// ABOUTME: Tests for the keyword estimator and the nutrition day state.
// ABOUTME: Covers stacking rules, water extraction, and non-idempotent logging.
package nutrition

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want models.Nutrients
	}{
		{
			name: "chicken salad stacks both rules",
			in:   "Chicken Salad",
			want: models.Nutrients{Calories: 185, Protein: 31, Fat: 3.6, Fiber: 2, VitaminC: 15},
		},
		{
			name: "water only",
			in:   "water 500",
			want: models.Nutrients{Water: 500},
		},
		{
			name: "brown rice fires rice once",
			in:   "brown rice",
			want: models.Nutrients{Calories: 220, Carbs: 45, Protein: 5, Fiber: 3.5},
		},
		{
			name: "avocado",
			in:   "half an AVOCADO",
			want: models.Nutrients{Calories: 160, Fat: 15, Fiber: 7, Potassium: 485},
		},
		{
			name: "unmatched",
			in:   "pizza",
			want: models.Nutrients{},
		},
		{
			name: "water without a number",
			in:   "glass of water",
			want: models.Nutrients{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tt.in)
			assert.InDelta(t, tt.want.Calories, got.Calories, 1e-9)
			assert.InDelta(t, tt.want.Protein, got.Protein, 1e-9)
			assert.InDelta(t, tt.want.Carbs, got.Carbs, 1e-9)
			assert.InDelta(t, tt.want.Fat, got.Fat, 1e-9)
			assert.InDelta(t, tt.want.Fiber, got.Fiber, 1e-9)
			assert.InDelta(t, tt.want.VitaminC, got.VitaminC, 1e-9)
			assert.InDelta(t, tt.want.Potassium, got.Potassium, 1e-9)
			assert.InDelta(t, tt.want.Water, got.Water, 1e-9)
		})
	}
}

func TestMatched(t *testing.T) {
	assert.Equal(t, []string{"chicken", "salad", "rice"}, Matched("chicken breast salad with rice"))
	assert.Empty(t, Matched("toast"))
}

func TestDayLog(t *testing.T) {
	user := uuid.New()
	now := time.Date(2026, 3, 18, 12, 30, 0, 0, time.UTC)
	day := NewDay(user, now, DefaultTargets)

	_, _, err := day.Log("  ", now)
	assert.ErrorIs(t, err, ErrEmptyInput)

	d1, meal, err := day.Log("chicken salad", now)
	require.NoError(t, err)
	assert.Equal(t, "chicken salad", meal.Label)
	assert.Equal(t, user, meal.UserID)
	assert.Equal(t, 185.0, d1.Consumed.Calories)
	assert.Empty(t, day.Meals, "receiver unchanged")
	assert.Zero(t, day.Consumed.Calories)

	d2, meal2, err := d1.Log("chicken salad", now)
	require.NoError(t, err)
	assert.NotEqual(t, meal.ID, meal2.ID)
	assert.Len(t, d2.Meals, 2)
	assert.Equal(t, 370.0, d2.Consumed.Calories)
	assert.Len(t, d1.Meals, 1)

	d3, meal3, err := d2.Log("water 500", now)
	require.NoError(t, err)
	assert.Equal(t, 500.0, meal3.Nutrients.Water)
	assert.Equal(t, 500.0, d3.Consumed.Water)
	assert.Equal(t, 370.0, d3.Consumed.Calories)

	d4, meal4, err := d3.Log("mystery stew", now)
	require.NoError(t, err)
	assert.True(t, meal4.Nutrients.IsZero())
	assert.Len(t, d4.Meals, 4)

	replayed := Replay(user, now, DefaultTargets, d4.Meals)
	assert.Equal(t, d4.Consumed, replayed.Consumed)
	assert.Len(t, replayed.Meals, 4)
}

func TestPercentAndLevel(t *testing.T) {
	assert.Equal(t, 100.0, Percent(3000, 2000))
	assert.Equal(t, 50.0, Percent(1000, 2000))
	assert.Zero(t, Percent(1000, 0))

	assert.Equal(t, LevelMet, LevelFor(100))
	assert.Equal(t, LevelGood, LevelFor(75))
	assert.Equal(t, LevelFair, LevelFor(50))
	assert.Equal(t, LevelLow, LevelFor(49.9))
}

func TestRows(t *testing.T) {
	rows := NewDay(uuid.New(), time.Now(), DefaultTargets).Rows()
	require.Len(t, rows, 13)
	assert.Equal(t, "Water", rows[12].Name)
	assert.Equal(t, 2500.0, rows[12].Target)
}
