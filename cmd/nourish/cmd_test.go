// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Tests parsing helpers, command flags, and commands against a temp database.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/nourish/internal/config"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/onboarding"
	"github.com/harperreed/nourish/internal/progress"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "date and time with space", input: "2025-01-31 08:30"},
		{name: "date and time with T", input: "2025-01-31T08:30"},
		{name: "date only", input: "2025-01-31"},
		{name: "RFC3339", input: "2025-01-31T08:30:00Z"},
		{name: "RFC3339 with offset", input: "2025-01-31T08:30:00+05:00"},
		{name: "invalid format", input: "31-01-2025", wantErr: true},
		{name: "invalid random string", input: "not a date", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseTime(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("parseTime(%q) expected error, got nil", tt.input)
				}
				return
			}

			if err != nil {
				t.Errorf("parseTime(%q) unexpected error: %v", tt.input, err)
				return
			}

			if result.IsZero() {
				t.Errorf("parseTime(%q) returned zero time", tt.input)
			}
		})
	}
}

func TestParseDay(t *testing.T) {
	today := models.Today()

	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "", want: today},
		{input: "today", want: today},
		{input: "yesterday", want: today.AddDate(0, 0, -1)},
		{input: "2026-03-18", want: time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)},
		{input: "18/03/2026", wantErr: true},
		{input: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDay(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseDay(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDay(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseDay(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "short string no truncation", input: "hello", maxLen: 10, want: "hello"},
		{name: "exact length", input: "hello", maxLen: 5, want: "hello"},
		{name: "needs truncation", input: "hello world this is a long string", maxLen: 10, want: "hello w..."},
		{name: "empty string", input: "", maxLen: 5, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		length int
		want   string
	}{
		{name: "needs padding", input: "abc", length: 6, want: "abc   "},
		{name: "exact length", input: "abcdef", length: 6, want: "abcdef"},
		{name: "longer than length", input: "abcdefgh", length: 6, want: "abcdefgh"},
		{name: "empty string", input: "", length: 3, want: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := padRight(tt.input, tt.length); got != tt.want {
				t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.length, got, tt.want)
			}
		})
	}
}

func TestRootCmdFlags(t *testing.T) {
	if rootCmd.Use != "nourish" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "nourish")
	}
	if rootCmd.Short == "" {
		t.Error("Expected rootCmd.Short to be non-empty")
	}
	for _, name := range []string{"debug", "user"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("Expected persistent --%s flag", name)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{
		"user", "questionnaire", "target", "log", "today", "progress", "feedback",
		"onboard", "eat", "export", "import", "migrate", "mcp", "install-skill",
	}

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range want {
		if !names[name] {
			t.Errorf("Expected %q command to be registered", name)
		}
	}
}

func TestSubcommands(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		subs []string
	}{
		{userCmd, []string{"create", "list", "show", "use"}},
		{questionnaireCmd, []string{"set", "show", "delete"}},
		{targetCmd, []string{"list", "set", "delete", "derive"}},
		{logCmd, []string{"add", "list", "delete"}},
		{progressCmd, []string{"daily", "weekly", "monthly"}},
		{eatCmd, []string{"today"}},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.Name(), func(t *testing.T) {
			names := make(map[string]bool)
			for _, c := range tt.cmd.Commands() {
				names[c.Name()] = true
			}
			for _, sub := range tt.subs {
				if !names[sub] {
					t.Errorf("Expected %s subcommand %q", tt.cmd.Name(), sub)
				}
			}
		})
	}
}

func TestCmdAliases(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		alias string
	}{
		{userCmd, "users"},
		{questionnaireCmd, "q"},
		{targetCmd, "targets"},
		{logListCmd, "ls"},
		{logDeleteCmd, "rm"},
		{todayCmd, "dash"},
		{progressCmd, "p"},
		{feedbackCmd, "fb"},
	}

	for _, tt := range tests {
		found := false
		for _, a := range tt.cmd.Aliases {
			if a == tt.alias {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected %q to have alias %q", tt.cmd.Name(), tt.alias)
		}
	}
}

func TestLogListCmdFlags(t *testing.T) {
	for _, name := range []string{"type", "since", "until"} {
		if logListCmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected --%s flag on log list", name)
		}
	}

	limitFlag := logListCmd.Flags().Lookup("limit")
	if limitFlag == nil {
		t.Fatal("Expected --limit flag on log list command")
	}
	if limitFlag.DefValue != "20" {
		t.Errorf("Expected default limit 20, got %s", limitFlag.DefValue)
	}
}

func TestQuestionnaireSetCmdFlags(t *testing.T) {
	for _, name := range []string{
		"sleep", "water", "meals", "exercise-freq", "exercise-minutes",
		"stress", "energy", "mood-tracking", "weight-goal", "target-weight", "derive",
	} {
		if questionnaireSetCmd.Flags().Lookup(name) == nil {
			t.Errorf("Expected --%s flag on questionnaire set", name)
		}
	}
}

func TestFeedbackCmdDaysDefault(t *testing.T) {
	f := feedbackCmd.Flags().Lookup("days")
	if f == nil {
		t.Fatal("Expected --days flag on feedback command")
	}
	if f.DefValue != "7" {
		t.Errorf("Expected default days 7, got %s", f.DefValue)
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	want := map[string]bool{"json": true, "yaml": true, "markdown": true}
	if len(exportCmd.ValidArgs) != len(want) {
		t.Fatalf("ValidArgs = %v", exportCmd.ValidArgs)
	}
	for _, a := range exportCmd.ValidArgs {
		if !want[a] {
			t.Errorf("Unexpected export format %q", a)
		}
	}
}

func TestLongDescriptions(t *testing.T) {
	for _, c := range []*cobra.Command{
		rootCmd, userCmd, questionnaireCmd, targetCmd, logCmd, todayCmd, progressCmd,
		feedbackCmd, onboardCmd, eatCmd, exportCmd, importCmd, migrateCmd, mcpCmd, installSkillCmd,
	} {
		if c.Long == "" {
			t.Errorf("Expected %s to have a long description", c.Name())
		}
	}
}

func TestAllHabitTypesInHelp(t *testing.T) {
	for _, ht := range models.AllHabitTypes {
		if !strings.Contains(logCmd.Long, string(ht)) {
			t.Errorf("Expected log help to mention %q", ht)
		}
	}
}

// setupTestCLI points XDG_DATA_HOME and XDG_CONFIG_HOME at a temp dir and
// pre-opens the database the commands will use.
func setupTestCLI(t *testing.T) (*storage.DB, string) {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	for _, key := range []string{"NOURISH_BACKEND", "NOURISH_DATA_DIR", "NOURISH_USER", "NOURISH_PROGRESS_SOURCE", "NOURISH_LOG_FILE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	dbPath := filepath.Join(tmpDir, "nourish", "nourish.db")
	testDB, err := storage.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	t.Cleanup(func() {
		_ = closeResources()
		testDB.Close()
	})

	return testDB, tmpDir
}

// seedUser creates a user directly in the database.
func seedUser(t *testing.T, db *storage.DB, name string) *models.User {
	t.Helper()
	u := models.NewUser(name)
	if err := db.CreateUser(u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return u
}

// resetFlags restores every flag (and the variable bound to it) to its default.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, "", args...)
	if err != nil {
		t.Fatalf("%s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestUserCreateAndList(t *testing.T) {
	testDB, _ := setupTestCLI(t)

	out := mustRun(t, "user", "create", "alice", "--email", "alice@example.com")
	if !strings.Contains(out, "Created user alice") {
		t.Errorf("Expected confirmation, got %q", out)
	}

	users, err := testDB.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 || users[0].Email != "alice@example.com" {
		t.Fatalf("Expected alice with email, got %+v", users)
	}

	out = mustRun(t, "user", "list")
	if !strings.Contains(out, "alice") {
		t.Errorf("Expected alice in list, got %q", out)
	}
}

func TestUserUseSavesConfig(t *testing.T) {
	testDB, tmpDir := setupTestCLI(t)
	seedUser(t, testDB, "alice")
	bob := seedUser(t, testDB, "bob")

	// Two users and no active one is ambiguous.
	if _, err := runCLI(t, "", "target", "list"); err == nil {
		t.Fatal("Expected error when several users exist and none is active")
	}

	mustRun(t, "user", "use", "bob")

	cfgFile, err := config.LoadFile(filepath.Join(tmpDir, "config", "nourish", "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfgFile.User != bob.ID.String() {
		t.Errorf("Expected active user %s, got %q", bob.ID, cfgFile.User)
	}

	out := mustRun(t, "user", "list")
	if !strings.Contains(out, "* ") {
		t.Errorf("Expected active marker in list, got %q", out)
	}

	mustRun(t, "target", "set", "water", "2000")
	if _, err := testDB.GetTarget(bob.ID, models.HabitWater); err != nil {
		t.Errorf("Expected target for bob: %v", err)
	}
}

func TestUserFlagSelectsUser(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	alice := seedUser(t, testDB, "alice")
	seedUser(t, testDB, "bob")

	mustRun(t, "--user", "alice", "log", "water", "250")

	logs, err := testDB.ListLogs(alice.ID, models.LogFilter{})
	if err != nil {
		t.Fatalf("ListLogs failed: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("Expected 1 log for alice, got %d", len(logs))
	}
}

func TestNoUsersError(t *testing.T) {
	setupTestCLI(t)

	_, err := runCLI(t, "", "today")
	if err == nil || !strings.Contains(err.Error(), "user create") {
		t.Errorf("Expected hint to create a user, got %v", err)
	}
}

func TestTargetSetListDelete(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")

	mustRun(t, "target", "set", "water", "2000")
	mustRun(t, "target", "set", "water", "2500")

	target, err := testDB.GetTarget(u.ID, models.HabitWater)
	if err != nil {
		t.Fatalf("GetTarget failed: %v", err)
	}
	if target.TargetValue != 2500 || target.TargetUnit != "ml" {
		t.Errorf("Expected 2500 ml, got %v %s", target.TargetValue, target.TargetUnit)
	}

	targets, _ := testDB.ListTargets(u.ID)
	if len(targets) != 1 {
		t.Errorf("Expected set to update in place, got %d targets", len(targets))
	}

	out := mustRun(t, "target", "list")
	if !strings.Contains(out, "2500 ml") {
		t.Errorf("Expected target in list, got %q", out)
	}

	mustRun(t, "target", "delete", "water")
	if _, err := testDB.GetTarget(u.ID, models.HabitWater); err == nil {
		t.Error("Expected target to be deleted")
	}

	if _, err := runCLI(t, "", "target", "delete", "water"); err == nil {
		t.Error("Expected error deleting a missing target")
	}
}

func TestTargetSetValidation(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	seedUser(t, testDB, "alice")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown type", []string{"target", "set", "steps", "1000"}},
		{"not a number", []string{"target", "set", "water", "lots"}},
		{"zero", []string{"target", "set", "water", "0"}},
		{"negative", []string{"target", "set", "sleep", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, "", tt.args...); err == nil {
				t.Errorf("Expected error for %v", tt.args)
			}
		})
	}
}

func TestQuestionnaireSetAndDerive(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")

	mustRun(t, "questionnaire", "set", "--water", "2500", "--sleep", "7.5", "--stress", "high", "--derive")

	q, err := testDB.GetQuestionnaire(u.ID)
	if err != nil {
		t.Fatalf("GetQuestionnaire failed: %v", err)
	}
	if q.WaterGoalML != 2500 || q.SleepHours != 7.5 || q.StressLevel != "high" {
		t.Errorf("Unexpected answers: %+v", q)
	}
	// Unset answers keep their defaults.
	if q.MealFrequency != 3 {
		t.Errorf("Expected default meal frequency 3, got %d", q.MealFrequency)
	}

	want := map[models.HabitType]float64{
		models.HabitWater:    2500,
		models.HabitMeals:    3,
		models.HabitExercise: 90,
		models.HabitSleep:    7.5,
	}
	targets, _ := testDB.ListTargets(u.ID)
	if len(targets) != len(want) {
		t.Fatalf("Expected %d derived targets, got %d", len(want), len(targets))
	}
	for _, target := range targets {
		if want[target.HabitType] != target.TargetValue {
			t.Errorf("%s target = %v, want %v", target.HabitType, target.TargetValue, want[target.HabitType])
		}
	}

	// A second set updates rather than failing on the existing record.
	mustRun(t, "questionnaire", "set", "--water", "3000")
	q, _ = testDB.GetQuestionnaire(u.ID)
	if q.WaterGoalML != 3000 || q.SleepHours != 7.5 {
		t.Errorf("Expected update to keep other answers, got %+v", q)
	}

	out := mustRun(t, "questionnaire", "show")
	if !strings.Contains(out, "3000 ml") {
		t.Errorf("Expected water in show output, got %q", out)
	}

	mustRun(t, "target", "derive")
	water, _ := testDB.GetTarget(u.ID, models.HabitWater)
	if water.TargetValue != 3000 {
		t.Errorf("Expected derive to update water target to 3000, got %v", water.TargetValue)
	}

	mustRun(t, "questionnaire", "delete")
	if _, err := testDB.GetQuestionnaire(u.ID); err == nil {
		t.Error("Expected questionnaire to be deleted")
	}
}

func TestQuestionnaireSetInvalid(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")

	if _, err := runCLI(t, "", "questionnaire", "set", "--water", "100"); err == nil {
		t.Error("Expected validation error for 100 ml")
	}
	if _, err := testDB.GetQuestionnaire(u.ID); err == nil {
		t.Error("Expected nothing to be saved after a validation error")
	}
}

func TestQuestionnaireSetNeedsTerminalWithoutFlags(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	seedUser(t, testDB, "alice")

	_, err := runCLI(t, "", "questionnaire", "set")
	if err == nil || !strings.Contains(err.Error(), "--water") {
		t.Errorf("Expected hint about flags, got %v", err)
	}
}

func TestTargetDeriveWithoutQuestionnaire(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	seedUser(t, testDB, "alice")

	if _, err := runCLI(t, "", "target", "derive"); err == nil {
		t.Error("Expected error when no questionnaire exists")
	}
}

func TestLogCmdWithDB(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")

	out := mustRun(t, "log", "water", "500")
	if !strings.Contains(out, "Logged water") {
		t.Errorf("Expected confirmation, got %q", out)
	}
	mustRun(t, "log", "add", "water", "250", "--notes", "after run")
	mustRun(t, "log", "sleep", "7", "--date", "2026-03-17")

	logs, err := testDB.ListLogs(u.ID, models.LogFilter{})
	if err != nil {
		t.Fatalf("ListLogs failed: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("Expected 3 logs, got %d", len(logs))
	}

	water := models.HabitWater
	waterLogs, _ := testDB.ListLogs(u.ID, models.LogFilter{HabitType: &water})
	var total float64
	for _, l := range waterLogs {
		total += l.LoggedValue
	}
	if total != 750 {
		t.Errorf("Expected 750 ml logged, got %v", total)
	}

	sleepLogs, _ := testDB.GetLogs(u.ID, time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), models.HabitSleep)
	if len(sleepLogs) != 1 {
		t.Errorf("Expected backfilled sleep log, got %d", len(sleepLogs))
	}
}

func TestLogCmdValidation(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	seedUser(t, testDB, "alice")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown type", []string{"log", "weight", "80"}},
		{"invalid value", []string{"log", "water", "abc"}},
		{"negative value", []string{"log", "water", "-5"}},
		{"invalid date", []string{"log", "water", "5", "--date", "31-01-2026"}},
		{"missing value", []string{"log", "water"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, "", tt.args...); err == nil {
				t.Errorf("Expected error for %v", tt.args)
			}
		})
	}
}

func TestLogListCmd(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")

	out := mustRun(t, "log", "list")
	if !strings.Contains(out, "No logs found.") {
		t.Errorf("Expected empty message, got %q", out)
	}

	for i := 0; i < 3; i++ {
		testDB.CreateLog(models.NewHabitLog(u.ID, models.HabitWater, 250))
	}
	testDB.CreateLog(models.NewHabitLog(u.ID, models.HabitMood, 8).WithNotes("great day!"))

	out = mustRun(t, "log", "list", "--type", "mood")
	if !strings.Contains(out, "mood") || strings.Contains(out, "water") {
		t.Errorf("Expected only mood logs, got %q", out)
	}
	if !strings.Contains(out, "great day!") {
		t.Errorf("Expected notes in output, got %q", out)
	}

	out = mustRun(t, "log", "list", "-n", "2")
	if lines := strings.Count(strings.TrimSpace(out), "\n") + 1; lines != 2 {
		t.Errorf("Expected 2 lines with -n 2, got %d: %q", lines, out)
	}

	if _, err := runCLI(t, "", "log", "list", "--type", "steps"); err == nil {
		t.Error("Expected error for unknown type filter")
	}
}

func TestLogDeleteCmd(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")

	l := models.NewHabitLog(u.ID, models.HabitWater, 500)
	testDB.CreateLog(l)
	testDB.CreateLog(models.NewHabitLog(u.ID, models.HabitMood, 5))
	testDB.CreateLog(models.NewHabitLog(u.ID, models.HabitMood, 6))

	mustRun(t, "log", "delete", l.ID.String()[:8])
	water, err := testDB.GetLogs(u.ID, l.LogDate, models.HabitWater)
	if err != nil {
		t.Fatalf("GetLogs failed: %v", err)
	}
	if len(water) != 0 {
		t.Error("Expected water log to be deleted")
	}

	out := mustRun(t, "log", "delete", "--type", "mood")
	if !strings.Contains(out, "Deleted 2 mood") {
		t.Errorf("Expected 2 mood logs deleted, got %q", out)
	}

	if _, err := runCLI(t, "", "log", "delete", "deadbeef"); err == nil {
		t.Error("Expected error deleting an unknown ID")
	}
	if _, err := runCLI(t, "", "log", "delete"); err == nil {
		t.Error("Expected error with neither ID nor --type")
	}
}

func TestTodayCmd(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")

	out := mustRun(t, "today")
	if !strings.Contains(out, "No targets set.") {
		t.Errorf("Expected hint about targets, got %q", out)
	}

	testDB.CreateTarget(models.NewHabitTarget(u.ID, models.HabitWater, 2000))
	testDB.CreateTarget(models.NewHabitTarget(u.ID, models.HabitSleep, 8))
	testDB.CreateLog(models.NewHabitLog(u.ID, models.HabitWater, 1500))
	testDB.CreateLog(models.NewHabitLog(u.ID, models.HabitSleep, 8))

	out = mustRun(t, "today")
	for _, want := range []string{"1500 / 2000 ml", "8 / 8 hours", "Feedback", "Nutrition", "No meals logged."} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in today output, got %q", want, out)
		}
	}

	out = mustRun(t, "today", "--no-feedback")
	if strings.Contains(out, "Feedback") {
		t.Errorf("Expected no feedback section, got %q", out)
	}
}

func TestProgressCmds(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")
	testDB.CreateTarget(models.NewHabitTarget(u.ID, models.HabitExercise, 30))
	testDB.CreateLog(models.NewHabitLog(u.ID, models.HabitExercise, 45))

	out := mustRun(t, "progress", "exercise")
	if !strings.Contains(out, "last 7 days") || !strings.Contains(out, "45 / 30 minutes") {
		t.Errorf("Unexpected daily output: %q", out)
	}
	if strings.Contains(out, "could not load") {
		t.Errorf("Expected a complete window, got %q", out)
	}

	out = mustRun(t, "progress", "weekly", "exercise")
	for _, label := range []string{"Week 1", "Week 2", "Week 3", "Week 4"} {
		if !strings.Contains(out, label) {
			t.Errorf("Expected %q in weekly output, got %q", label, out)
		}
	}

	out = mustRun(t, "progress", "monthly", "exercise")
	if !strings.Contains(out, time.Now().UTC().Format("Jan 2006")) {
		t.Errorf("Expected current month in monthly output, got %q", out)
	}

	if _, err := runCLI(t, "", "progress", "steps"); err == nil {
		t.Error("Expected error for unknown habit type")
	}
}

func TestProgressWithoutTarget(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")

	for _, window := range []string{"daily", "weekly", "monthly"} {
		out, err := runCLI(t, "", "progress", window, "mood")
		if !errors.Is(err, progress.ErrNoTarget) {
			t.Errorf("progress %s mood: expected ErrNoTarget, got %v", window, err)
		}
		if err != nil && !strings.Contains(err.Error(), "no active target for mood") {
			t.Errorf("Unexpected error message: %v", err)
		}
		if strings.Contains(out, "could not load") {
			t.Errorf("Expected no rows without a target, got %q", out)
		}
	}

	inactive := models.NewHabitTarget(u.ID, models.HabitMood, 7)
	inactive.IsActive = false
	testDB.CreateTarget(inactive)
	if _, err := runCLI(t, "", "progress", "mood"); !errors.Is(err, progress.ErrNoTarget) {
		t.Errorf("Expected an inactive target to count as missing, got %v", err)
	}
}

func TestFeedbackCmd(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")
	testDB.CreateTarget(models.NewHabitTarget(u.ID, models.HabitWater, 2000))

	out := mustRun(t, "feedback", "water")
	if !strings.Contains(out, "last 7 days") || !strings.Contains(out, "No water logged") {
		t.Errorf("Unexpected feedback output: %q", out)
	}

	out = mustRun(t, "feedback", "water", "--days", "14")
	if !strings.Contains(out, "last 14 days") {
		t.Errorf("Expected a 14 day window, got %q", out)
	}

	if _, err := runCLI(t, "", "feedback", "water", "--days", "31"); err == nil {
		t.Error("Expected error for a 31 day window")
	}
	if _, err := runCLI(t, "", "feedback", "mood"); err == nil {
		t.Error("Expected error for a habit without a target")
	}
}

func TestEatCmd(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")

	out := mustRun(t, "eat", "grilled chicken salad")
	if !strings.Contains(out, "Logged chicken, salad") || !strings.Contains(out, "+185 kcal") {
		t.Errorf("Unexpected eat output: %q", out)
	}

	out = mustRun(t, "eat", "water", "500")
	if !strings.Contains(out, "+500 ml water") {
		t.Errorf("Expected water line, got %q", out)
	}

	out = mustRun(t, "eat", "a mystery stew")
	if !strings.Contains(out, "no known foods") {
		t.Errorf("Expected no-match message, got %q", out)
	}

	meals, err := testDB.ListMeals(u.ID, models.Today())
	if err != nil {
		t.Fatalf("ListMeals failed: %v", err)
	}
	if len(meals) != 3 {
		t.Errorf("Expected 3 meals, got %d", len(meals))
	}

	out = mustRun(t, "eat", "today")
	for _, want := range []string{"Calories", "185 / 2000 kcal", "grilled chicken salad"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in panel, got %q", want, out)
		}
	}

	if _, err := runCLI(t, "", "eat", "   "); err == nil {
		t.Error("Expected error for blank meal")
	}
}

func TestEatCmdAt(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")

	mustRun(t, "eat", "rice", "--at", "2026-03-17 12:30")
	meals, _ := testDB.ListMeals(u.ID, time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC))
	if len(meals) != 1 {
		t.Fatalf("Expected meal on 2026-03-17, got %d", len(meals))
	}

	if _, err := runCLI(t, "", "eat", "rice", "--at", "noon"); err == nil {
		t.Error("Expected error for invalid timestamp")
	}
}

// onboardingAnswers answers every discovery question with a score and every
// nutritional question with a number.
func onboardingAnswers() string {
	var b strings.Builder
	for i := range onboarding.Script {
		b.WriteString("an honest answer 170\n")
		if onboarding.Script[i].HasFollowUp() {
			b.WriteString("not sure\n")
			b.WriteString("maybe a 7\n")
		}
	}
	return b.String()
}

func TestOnboardCmd(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")

	out, err := runCLI(t, onboardingAnswers(), "onboard")
	if err != nil {
		t.Fatalf("onboard failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Your mission") || !strings.Contains(out, "BMI") {
		t.Errorf("Expected mission and BMI, got %q", out)
	}
	if !strings.Contains(out, onboarding.RepromptText) {
		t.Error("Expected a re-prompt for the answer without a number")
	}

	r, err := testDB.GetOnboarding(u.ID)
	if err != nil {
		t.Fatalf("GetOnboarding failed: %v", err)
	}
	if r.Profile["mainMotivation"].Score != 7 {
		t.Errorf("Expected score 7, got %d", r.Profile["mainMotivation"].Score)
	}

	out = mustRun(t, "onboard")
	if !strings.Contains(out, "Already onboarded") {
		t.Errorf("Expected already-onboarded message, got %q", out)
	}
}

func TestOnboardCmdStoppedEarly(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")

	if _, err := runCLI(t, "first answer\n7\n", "onboard"); err == nil {
		t.Fatal("Expected error when input ends early")
	}
	if _, err := testDB.GetOnboarding(u.ID); err == nil {
		t.Error("Expected nothing saved for an unfinished conversation")
	}
}

func TestExportCmds(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")
	testDB.CreateLog(models.NewHabitLog(u.ID, models.HabitWater, 500))

	out := mustRun(t, "export", "json")
	var data storage.ExportData
	if err := json.Unmarshal([]byte(out), &data); err != nil {
		t.Fatalf("export json is not JSON: %v", err)
	}
	if len(data.Users) != 1 || len(data.Logs) != 1 {
		t.Errorf("Unexpected export: %d users, %d logs", len(data.Users), len(data.Logs))
	}

	out = mustRun(t, "export", "yaml")
	if !strings.Contains(out, "name: alice") {
		t.Errorf("Expected YAML export, got %q", out)
	}

	if _, err := runCLI(t, "", "export", "csv"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestExportMarkdownCmd(t *testing.T) {
	testDB, tmpDir := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")
	testDB.CreateTarget(models.NewHabitTarget(u.ID, models.HabitWater, 2000))
	testDB.CreateLog(models.NewHabitLog(u.ID, models.HabitWater, 500).WithDate(time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)))
	testDB.CreateLog(models.NewHabitLog(u.ID, models.HabitSleep, 7).WithDate(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)))

	out := mustRun(t, "export", "markdown")
	for _, want := range []string{"# Nourish Export", "## alice", "### water", "### sleep", "| 2026-03-18 | water | 500 | 2000 | 25% |"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in markdown export, got %q", want, out)
		}
	}

	out = mustRun(t, "export", "md", "--type", "sleep")
	if strings.Contains(out, "### water") || !strings.Contains(out, "### sleep") {
		t.Errorf("Expected only sleep logs, got %q", out)
	}

	out = mustRun(t, "export", "markdown", "--since", "2026-03-15")
	if strings.Contains(out, "2026-03-10") || !strings.Contains(out, "2026-03-18") {
		t.Errorf("Expected logs from the 15th onward, got %q", out)
	}

	path := filepath.Join(tmpDir, "nourish.md")
	mustRun(t, "export", "markdown", "-o", path)
	raw, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(raw), "### water") {
		t.Errorf("Expected markdown file, got %q, %v", raw, err)
	}

	if _, err := runCLI(t, "", "export", "markdown", "--since", "someday"); err == nil {
		t.Error("Expected error for invalid --since")
	}
	if _, err := runCLI(t, "", "export", "markdown", "--type", "steps"); err == nil {
		t.Error("Expected error for unknown habit type")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	testDB, _ := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")
	testDB.CreateTarget(models.NewHabitTarget(u.ID, models.HabitWater, 2000))
	testDB.CreateLog(models.NewHabitLog(u.ID, models.HabitWater, 500))

	backup := filepath.Join(t.TempDir(), "backup.yaml")
	mustRun(t, "export", "yaml", "-o", backup)
	if _, err := os.Stat(backup); err != nil {
		t.Fatalf("Expected export file: %v", err)
	}

	freshDB, _ := setupTestCLI(t)
	mustRun(t, "import", backup)

	users, _ := freshDB.ListUsers()
	if len(users) != 1 || users[0].ID != u.ID {
		t.Fatalf("Expected alice after import, got %+v", users)
	}
	logs, _ := freshDB.ListLogs(u.ID, models.LogFilter{})
	if len(logs) != 1 {
		t.Errorf("Expected 1 log after import, got %d", len(logs))
	}
}

func TestImportCmdErrors(t *testing.T) {
	setupTestCLI(t)
	dir := t.TempDir()

	if _, err := runCLI(t, "", "import", filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte("{not json"), 0600)
	if _, err := runCLI(t, "", "import", bad); err == nil {
		t.Error("Expected error for invalid JSON")
	}

	txt := filepath.Join(dir, "backup.txt")
	os.WriteFile(txt, []byte("{}"), 0600)
	if _, err := runCLI(t, "", "import", txt); err == nil {
		t.Error("Expected error for unknown extension")
	}
	if _, err := runCLI(t, "", "import", txt, "--format", "json"); err != nil {
		t.Errorf("Expected --format to override the extension: %v", err)
	}
}

func TestMigrateCmd(t *testing.T) {
	testDB, tmpDir := setupTestCLI(t)
	u := seedUser(t, testDB, "alice")
	testDB.CreateLog(models.NewHabitLog(u.ID, models.HabitWater, 500))

	out := mustRun(t, "migrate", "--to", "kv", "--dry-run")
	if !strings.Contains(out, "Dry run") || !strings.Contains(out, "users:          1") {
		t.Errorf("Unexpected dry-run output: %q", out)
	}
	if nonEmpty, _ := storage.IsDirNonEmpty(filepath.Join(tmpDir, "nourish", "kv")); nonEmpty {
		t.Error("Dry run should not create the destination")
	}

	out = mustRun(t, "migrate", "--to", "kv")
	if !strings.Contains(out, "Migrated sqlite to kv") {
		t.Errorf("Unexpected migrate output: %q", out)
	}

	kv, err := storage.OpenKV(filepath.Join(tmpDir, "nourish", "kv"))
	if err != nil {
		t.Fatalf("OpenKV failed: %v", err)
	}
	users, _ := kv.ListUsers()
	logs, _ := kv.ListLogs(u.ID, models.LogFilter{})
	kv.Close()
	if len(users) != 1 || len(logs) != 1 {
		t.Errorf("Expected migrated data, got %d users and %d logs", len(users), len(logs))
	}

	if _, err := runCLI(t, "", "migrate", "--to", "kv"); err == nil {
		t.Error("Expected error migrating into a destination with users")
	}
}

func TestMigrateCmdValidation(t *testing.T) {
	setupTestCLI(t)

	if _, err := runCLI(t, "", "migrate"); err == nil {
		t.Error("Expected error without --to")
	}
	if _, err := runCLI(t, "", "migrate", "--to", "sqlite"); err == nil {
		t.Error("Expected error when source and destination match")
	}
	if _, err := runCLI(t, "", "migrate", "--to", "markdown"); err == nil {
		t.Error("Expected error for unknown backend")
	}
}

func TestKVBackendFromEnv(t *testing.T) {
	_, tmpDir := setupTestCLI(t)
	t.Setenv("NOURISH_BACKEND", "kv")

	mustRun(t, "user", "create", "alice")

	kv, err := storage.OpenKV(filepath.Join(tmpDir, "nourish", "kv"))
	if err != nil {
		t.Fatalf("OpenKV failed: %v", err)
	}
	defer kv.Close()
	users, _ := kv.ListUsers()
	if len(users) != 1 {
		t.Errorf("Expected user in KV store, got %d", len(users))
	}
}
