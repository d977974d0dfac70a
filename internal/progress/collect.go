// ABOUTME: Concurrent per-habit progress and feedback lookups for a dashboard.
// ABOUTME: Failed lookups are dropped individually; cancellation discards everything.
package progress

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
	"golang.org/x/sync/errgroup"
)

// maxLookups bounds concurrent lookups against a source.
const maxLookups = 4

// Snapshot is the result of one dashboard load.
type Snapshot struct {
	Date     time.Time          `json:"date"`
	Progress []Daily            `json:"progress"`
	Feedback []Feedback         `json:"feedback"`
	Failed   []models.HabitType `json:"failed,omitempty"`
}

// Partial reports whether any habit lookup failed.
func (s *Snapshot) Partial() bool {
	return len(s.Failed) > 0
}

// Collect looks up daily progress and feedback for each habit type concurrently.
// A failed lookup drops that habit's entry and records the habit in Failed; it is
// never retried. fb may be nil to skip feedback. If ctx ends before every lookup
// returns, Collect returns ctx.Err() and no snapshot.
func Collect(ctx context.Context, src Source, fb FeedbackSource, userID uuid.UUID, types []models.HabitType, date time.Time, days int) (*Snapshot, error) {
	date = models.Date(date)

	dailies := make([]*Daily, len(types))
	feedbacks := make([]*Feedback, len(types))
	dailyFailed := make([]bool, len(types))
	feedbackFailed := make([]bool, len(types))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLookups)

	for i, ht := range types {
		g.Go(func() error {
			d, err := src.Daily(gctx, userID, date, ht)
			if err != nil {
				dailyFailed[i] = true
				return nil
			}
			dailies[i] = &d
			return nil
		})
		if fb == nil {
			continue
		}
		g.Go(func() error {
			f, err := fb.Feedback(gctx, userID, ht, days)
			if err != nil {
				feedbackFailed[i] = true
				return nil
			}
			feedbacks[i] = &f
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := &Snapshot{Date: date}
	for i, ht := range types {
		if dailies[i] != nil {
			snap.Progress = append(snap.Progress, *dailies[i])
		}
		if feedbacks[i] != nil {
			snap.Feedback = append(snap.Feedback, *feedbacks[i])
		}
		if dailyFailed[i] || feedbackFailed[i] {
			snap.Failed = append(snap.Failed, ht)
		}
	}
	return snap, nil
}
