// ABOUTME: REST client for a nourish progress backend.
// ABOUTME: Implements progress.Source and progress.FeedbackSource over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/progress"
)

// DefaultTimeout bounds every request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

var (
	// ErrStatus is wrapped by errors for non-2xx responses.
	ErrStatus = errors.New("unexpected status")
	// ErrNotFound is additionally wrapped for 404 responses.
	ErrNotFound = errors.New("not found")
)

// Client talks to the backend's /users/{id}/... resources.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

var (
	_ progress.Source         = (*Client)(nil)
	_ progress.FeedbackSource = (*Client)(nil)
)

// New creates a client for baseURL. A zero or negative timeout uses DefaultTimeout.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("remote base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  log.New(io.Discard),
	}, nil
}

// WithLogger sets the logger used for request tracing.
func (c *Client) WithLogger(l *log.Logger) *Client {
	if l != nil {
		c.logger = l
	}
	return c
}

// wire shapes; dates travel as YYYY-MM-DD strings

type dailyWire struct {
	Date                 string           `json:"date"`
	HabitType            models.HabitType `json:"habit_type"`
	LoggedValue          float64          `json:"logged_value"`
	TargetValue          float64          `json:"target_value"`
	CompletionPercentage float64          `json:"completion_percentage"`
	StreakDays           int              `json:"streak_days"`
	IsGoalMet            bool             `json:"is_goal_met"`
}

type periodWire struct {
	WeekStart            string           `json:"week_start,omitempty"`
	WeekEnd              string           `json:"week_end,omitempty"`
	Month                string           `json:"month,omitempty"`
	HabitType            models.HabitType `json:"habit_type"`
	TotalValue           float64          `json:"total_value"`
	TargetValue          float64          `json:"target_value"`
	CompletionPercentage float64          `json:"completion_percentage"`
	DaysMet              int              `json:"days_met"`
	TotalDays            int              `json:"total_days"`
}

type targetWire struct {
	HabitType   models.HabitType `json:"habit_type"`
	TargetValue float64          `json:"target_value"`
	TargetUnit  string           `json:"target_unit"`
	IsActive    bool             `json:"is_active"`
}

type logWire struct {
	LogDate     string           `json:"log_date"`
	HabitType   models.HabitType `json:"habit_type"`
	LoggedValue float64          `json:"logged_value"`
	Unit        string           `json:"unit"`
	Notes       *string          `json:"notes,omitempty"`
}

// Daily fetches the progress of habitType on date.
func (c *Client) Daily(ctx context.Context, userID uuid.UUID, date time.Time, habitType models.HabitType) (progress.Daily, error) {
	var w dailyWire
	path := fmt.Sprintf("/users/%s/progress/daily/%s/%s", userID, models.FormatDate(date), habitType)
	if err := c.do(ctx, http.MethodGet, path, nil, &w); err != nil {
		return progress.Daily{}, err
	}

	d := progress.Daily{
		Date:                 models.Date(date),
		HabitType:            habitType,
		LoggedValue:          w.LoggedValue,
		TargetValue:          w.TargetValue,
		CompletionPercentage: w.CompletionPercentage,
		StreakDays:           w.StreakDays,
		IsGoalMet:            w.IsGoalMet,
	}
	if parsed, err := models.ParseDate(w.Date); err == nil {
		d.Date = parsed
	}
	return d, nil
}

// Weekly fetches the 7-day rollup starting at weekStart.
func (c *Client) Weekly(ctx context.Context, userID uuid.UUID, weekStart time.Time, habitType models.HabitType) (progress.Period, error) {
	var w periodWire
	path := fmt.Sprintf("/users/%s/progress/weekly/%s/%s", userID, models.FormatDate(weekStart), habitType)
	if err := c.do(ctx, http.MethodGet, path, nil, &w); err != nil {
		return progress.Period{}, err
	}

	start := models.Date(weekStart)
	p := w.period(habitType, start, start.AddDate(0, 0, 6))
	if s, err := models.ParseDate(w.WeekStart); err == nil {
		p.Start = s
	}
	if e, err := models.ParseDate(w.WeekEnd); err == nil {
		p.End = e
	}
	return p, nil
}

// Monthly fetches the rollup of a calendar month.
func (c *Client) Monthly(ctx context.Context, userID uuid.UUID, year int, month time.Month, habitType models.HabitType) (progress.Period, error) {
	if month < time.January || month > time.December {
		return progress.Period{}, fmt.Errorf("month %d: %w", month, progress.ErrInvalidWindow)
	}

	var w periodWire
	path := fmt.Sprintf("/users/%s/progress/monthly/%d/%d/%s", userID, year, int(month), habitType)
	if err := c.do(ctx, http.MethodGet, path, nil, &w); err != nil {
		return progress.Period{}, err
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return w.period(habitType, start, start.AddDate(0, 1, -1)), nil
}

func (w periodWire) period(habitType models.HabitType, start, end time.Time) progress.Period {
	return progress.Period{
		Start:                start,
		End:                  end,
		HabitType:            habitType,
		TotalValue:           w.TotalValue,
		TargetValue:          w.TargetValue,
		CompletionPercentage: w.CompletionPercentage,
		DaysMet:              w.DaysMet,
		TotalDays:            w.TotalDays,
	}
}

// Feedback fetches feedback for habitType over the last days days.
func (c *Client) Feedback(ctx context.Context, userID uuid.UUID, habitType models.HabitType, days int) (progress.Feedback, error) {
	if days < progress.MinFeedbackDays || days > progress.MaxFeedbackDays {
		return progress.Feedback{}, fmt.Errorf("feedback days %d: %w", days, progress.ErrInvalidWindow)
	}

	var fb progress.Feedback
	path := fmt.Sprintf("/users/%s/feedback/%s?days=%s", userID, habitType, strconv.Itoa(days))
	if err := c.do(ctx, http.MethodGet, path, nil, &fb); err != nil {
		return progress.Feedback{}, err
	}
	if fb.HabitType == "" {
		fb.HabitType = habitType
	}
	return fb, nil
}

// ListTargets fetches every habit target of the user.
func (c *Client) ListTargets(ctx context.Context, userID uuid.UUID) ([]*models.HabitTarget, error) {
	var wires []targetWire
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%s/habit-targets", userID), nil, &wires); err != nil {
		return nil, err
	}

	targets := make([]*models.HabitTarget, 0, len(wires))
	for _, w := range wires {
		t := models.NewHabitTarget(userID, w.HabitType, w.TargetValue)
		if w.TargetUnit != "" {
			t.TargetUnit = w.TargetUnit
		}
		t.IsActive = w.IsActive
		targets = append(targets, t)
	}
	return targets, nil
}

// CreateTarget posts a new habit target.
func (c *Client) CreateTarget(ctx context.Context, t *models.HabitTarget) error {
	body := targetWire{
		HabitType:   t.HabitType,
		TargetValue: t.TargetValue,
		TargetUnit:  t.TargetUnit,
		IsActive:    t.IsActive,
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%s/habit-targets", t.UserID), body, nil)
}

// UpdateTarget replaces the existing target for t.HabitType.
func (c *Client) UpdateTarget(ctx context.Context, t *models.HabitTarget) error {
	body := targetWire{
		HabitType:   t.HabitType,
		TargetValue: t.TargetValue,
		TargetUnit:  t.TargetUnit,
		IsActive:    t.IsActive,
	}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%s/habit-targets/%s", t.UserID, t.HabitType), body, nil)
}

// SaveTarget updates the target for t.HabitType, creating it if the backend has none.
func (c *Client) SaveTarget(ctx context.Context, t *models.HabitTarget) error {
	err := c.UpdateTarget(ctx, t)
	if errors.Is(err, ErrNotFound) {
		return c.CreateTarget(ctx, t)
	}
	return err
}

// DeleteTarget removes the target for habitType.
func (c *Client) DeleteTarget(ctx context.Context, userID uuid.UUID, habitType models.HabitType) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%s/habit-targets/%s", userID, habitType), nil, nil)
}

// CreateLog posts a habit log entry.
func (c *Client) CreateLog(ctx context.Context, l *models.HabitLog) error {
	body := logWire{
		LogDate:     models.FormatDate(l.LogDate),
		HabitType:   l.HabitType,
		LoggedValue: l.LoggedValue,
		Unit:        l.Unit,
		Notes:       l.Notes,
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/users/%s/habit-logs", l.UserID), body, nil)
}

// do sends one request and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("remote request failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("remote request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("%s %s: %w %d: %s", method, path, ErrStatus, resp.StatusCode, strings.TrimSpace(string(detail)))
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
