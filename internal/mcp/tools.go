// ABOUTME: MCP tool implementations for nourish.
// ABOUTME: Habit logging, targets, progress windows, feedback, and meal estimation.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/nutrition"
	"github.com/harperreed/nourish/internal/progress"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names as exposed to MCP clients.
const (
	ToolLogHabit      = "log_habit"
	ToolListLogs      = "list_logs"
	ToolDeleteLog     = "delete_log"
	ToolListTargets   = "list_targets"
	ToolSetTarget     = "set_target"
	ToolDailyProgress = "get_daily_progress"
	ToolRollup        = "get_rollup"
	ToolFeedback      = "get_feedback"
	ToolLogMeal       = "log_meal"
)

// ToolNames lists every registered tool in registration order.
var ToolNames = []string{
	ToolLogHabit,
	ToolListLogs,
	ToolDeleteLog,
	ToolListTargets,
	ToolSetTarget,
	ToolDailyProgress,
	ToolRollup,
	ToolFeedback,
	ToolLogMeal,
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolLogHabit,
		Description: "Log a habit value (water ml, meals count, exercise minutes, sleep hours, mood 1-10)",
	}, s.handleLogHabit)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolListLogs,
		Description: "List recent habit logs, optionally filtered by habit type and date range",
	}, s.handleListLogs)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolDeleteLog,
		Description: "Delete a habit log by ID or ID prefix",
	}, s.handleDeleteLog)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolListTargets,
		Description: "List the user's daily habit targets",
	}, s.handleListTargets)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolSetTarget,
		Description: "Create or update the daily target for a habit type",
	}, s.handleSetTarget)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolDailyProgress,
		Description: "Get today's (or a given date's) progress for every habit with a target",
	}, s.handleDailyProgress)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolRollup,
		Description: "Get a daily (7 days), weekly (4 weeks) or monthly (6 months) progress series for one habit",
	}, s.handleRollup)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolFeedback,
		Description: "Get feedback, suggestions and encouragement for one habit over recent days",
	}, s.handleFeedback)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolLogMeal,
		Description: "Describe a meal in free text; estimates nutrients and adds them to today's totals",
	}, s.handleLogMeal)
}

// Tool input/output types

type logHabitInput struct {
	HabitType string  `json:"habit_type" jsonschema:"Habit type (water, meals, exercise, sleep, mood)"`
	Value     float64 `json:"value" jsonschema:"The logged value in the habit's unit"`
	Date      string  `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD), defaults to today"`
	Notes     string  `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type logOutput struct {
	ID        string  `json:"id"`
	HabitType string  `json:"habit_type"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Date      string  `json:"date"`
	Message   string  `json:"message"`
}

type listLogsInput struct {
	HabitType string `json:"habit_type,omitempty" jsonschema:"Filter by habit type"`
	Start     string `json:"start,omitempty" jsonschema:"First date (YYYY-MM-DD), inclusive"`
	End       string `json:"end,omitempty" jsonschema:"Last date (YYYY-MM-DD), inclusive"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type deleteInput struct {
	ID string `json:"id" jsonschema:"Log ID or prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type setTargetInput struct {
	HabitType string  `json:"habit_type" jsonschema:"Habit type (water, meals, exercise, sleep, mood)"`
	Value     float64 `json:"value" jsonschema:"Daily target value"`
	Unit      string  `json:"unit,omitempty" jsonschema:"Unit, defaults to the habit's unit"`
}

type dailyProgressInput struct {
	Date string `json:"date,omitempty" jsonschema:"Date (YYYY-MM-DD), defaults to today"`
}

type rollupInput struct {
	HabitType string `json:"habit_type" jsonschema:"Habit type"`
	Period    string `json:"period,omitempty" jsonschema:"daily, weekly or monthly (default daily)"`
	Date      string `json:"date,omitempty" jsonschema:"Reference date (YYYY-MM-DD), defaults to today"`
}

type feedbackInput struct {
	HabitType string `json:"habit_type" jsonschema:"Habit type"`
	Days      int    `json:"days,omitempty" jsonschema:"Window in days, 1-30"`
}

type logMealInput struct {
	Text string `json:"text" jsonschema:"What you ate or drank, e.g. 'chicken salad' or 'water 500'"`
}

type mealOutput struct {
	ID       string           `json:"id"`
	Matched  []string         `json:"matched"`
	Added    models.Nutrients `json:"added"`
	Consumed models.Nutrients `json:"consumed"`
	Targets  models.Nutrients `json:"targets"`
	Meals    int              `json:"meals_today"`
	Message  string           `json:"message"`
}

// Tool handlers

func (s *Server) handleLogHabit(ctx context.Context, req *mcp.CallToolRequest, input logHabitInput) (*mcp.CallToolResult, logOutput, error) {
	ht, err := models.ParseHabitType(input.HabitType)
	if err != nil {
		return nil, logOutput{}, err
	}
	if input.Value < 0 {
		return nil, logOutput{}, fmt.Errorf("value must not be negative, got %g", input.Value)
	}

	date, err := s.parseDate(input.Date)
	if err != nil {
		return nil, logOutput{}, err
	}

	l := models.NewHabitLog(s.user.ID, ht, input.Value).WithDate(date)
	if input.Notes != "" {
		l.WithNotes(input.Notes)
	}

	if err := s.repo.CreateLog(l); err != nil {
		return nil, logOutput{}, fmt.Errorf("failed to create log: %w", err)
	}

	return nil, logOutput{
		ID:        l.ID.String()[:8],
		HabitType: string(ht),
		Value:     l.LoggedValue,
		Unit:      l.Unit,
		Date:      models.FormatDate(l.LogDate),
		Message:   fmt.Sprintf("Logged %s: %g %s on %s (ID: %s)", ht, l.LoggedValue, l.Unit, models.FormatDate(l.LogDate), l.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListLogs(ctx context.Context, req *mcp.CallToolRequest, input listLogsInput) (*mcp.CallToolResult, any, error) {
	filter := models.LogFilter{Limit: input.Limit}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	if input.HabitType != "" {
		ht, err := models.ParseHabitType(input.HabitType)
		if err != nil {
			return nil, nil, err
		}
		filter.HabitType = &ht
	}
	if input.Start != "" {
		start, err := models.ParseDate(input.Start)
		if err != nil {
			return nil, nil, err
		}
		filter.Start = &start
	}
	if input.End != "" {
		end, err := models.ParseDate(input.End)
		if err != nil {
			return nil, nil, err
		}
		filter.End = &end
	}

	logs, err := s.repo.ListLogs(s.user.ID, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list logs: %w", err)
	}

	if len(logs) == 0 {
		return nil, map[string]any{"message": "No logs found."}, nil
	}

	return nil, map[string]any{"logs": logs}, nil
}

func (s *Server) handleDeleteLog(ctx context.Context, req *mcp.CallToolRequest, input deleteInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.DeleteLog(input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete log: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted log: %s", input.ID),
	}, nil
}

func (s *Server) handleListTargets(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	targets, err := s.repo.ListTargets(s.user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list targets: %w", err)
	}

	if len(targets) == 0 {
		return nil, map[string]any{"message": "No targets set."}, nil
	}

	return nil, map[string]any{"targets": targets}, nil
}

func (s *Server) handleSetTarget(ctx context.Context, req *mcp.CallToolRequest, input setTargetInput) (*mcp.CallToolResult, simpleOutput, error) {
	ht, err := models.ParseHabitType(input.HabitType)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if input.Value <= 0 {
		return nil, simpleOutput{}, fmt.Errorf("target value must be positive, got %g", input.Value)
	}

	t := models.NewHabitTarget(s.user.ID, ht, input.Value)
	if input.Unit != "" {
		t.WithUnit(input.Unit)
	}

	if err := storage.SaveTarget(s.repo, t); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to save target: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Set %s target: %g %s per day", ht, t.TargetValue, t.TargetUnit),
	}, nil
}

func (s *Server) handleDailyProgress(ctx context.Context, req *mcp.CallToolRequest, input dailyProgressInput) (*mcp.CallToolResult, any, error) {
	date, err := s.parseDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	snap, err := s.snapshot(ctx, date, false)
	if err != nil {
		return nil, nil, err
	}
	return nil, snap, nil
}

func (s *Server) handleRollup(ctx context.Context, req *mcp.CallToolRequest, input rollupInput) (*mcp.CallToolResult, any, error) {
	ht, err := models.ParseHabitType(input.HabitType)
	if err != nil {
		return nil, nil, err
	}
	ref, err := s.parseDate(input.Date)
	if err != nil {
		return nil, nil, err
	}

	engine := progress.NewEngine(s.source)
	switch input.Period {
	case "", "daily":
		series, err := engine.DailyWindow(ctx, s.user.ID, ht, ref)
		if err != nil {
			return nil, nil, err
		}
		return nil, series, nil
	case "weekly":
		series, err := engine.WeeklyWindow(ctx, s.user.ID, ht, ref)
		if err != nil {
			return nil, nil, err
		}
		return nil, series, nil
	case "monthly":
		series, err := engine.MonthlyWindow(ctx, s.user.ID, ht, ref)
		if err != nil {
			return nil, nil, err
		}
		return nil, series, nil
	default:
		return nil, nil, fmt.Errorf("unknown period %q (use daily, weekly or monthly)", input.Period)
	}
}

func (s *Server) handleFeedback(ctx context.Context, req *mcp.CallToolRequest, input feedbackInput) (*mcp.CallToolResult, progress.Feedback, error) {
	ht, err := models.ParseHabitType(input.HabitType)
	if err != nil {
		return nil, progress.Feedback{}, err
	}

	days := input.Days
	if days == 0 {
		days = s.feedbackDays
	}

	fb, err := s.feedback.Feedback(ctx, s.user.ID, ht, days)
	if err != nil {
		return nil, progress.Feedback{}, fmt.Errorf("failed to get feedback: %w", err)
	}
	return nil, fb, nil
}

func (s *Server) handleLogMeal(ctx context.Context, req *mcp.CallToolRequest, input logMealInput) (*mcp.CallToolResult, mealOutput, error) {
	day, meal, err := nutrition.Record(s.repo, s.user.ID, input.Text, s.now(), nutrition.DefaultTargets)
	if err != nil {
		return nil, mealOutput{}, err
	}

	matched := nutrition.Matched(input.Text)
	msg := fmt.Sprintf("Logged %q: %.0f kcal", meal.Label, meal.Nutrients.Calories)
	if meal.Nutrients.IsZero() {
		msg = fmt.Sprintf("Logged %q, but no known foods were recognized", meal.Label)
	}

	return nil, mealOutput{
		ID:       meal.ID.String()[:8],
		Matched:  matched,
		Added:    meal.Nutrients,
		Consumed: day.Consumed,
		Targets:  day.Targets,
		Meals:    len(day.Meals),
		Message:  msg,
	}, nil
}

// snapshot collects daily progress for every habit with an active target.
func (s *Server) snapshot(ctx context.Context, date time.Time, withFeedback bool) (*progress.Snapshot, error) {
	targets, err := s.repo.ListTargets(s.user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}

	var types []models.HabitType
	for _, t := range targets {
		if t.IsActive {
			types = append(types, t.HabitType)
		}
	}

	var fb progress.FeedbackSource
	if withFeedback {
		fb = s.feedback
	}
	return progress.Collect(ctx, s.source, fb, s.user.ID, types, date, s.feedbackDays)
}

func (s *Server) parseDate(value string) (time.Time, error) {
	if value == "" {
		return models.Date(s.now()), nil
	}
	return models.ParseDate(value)
}
