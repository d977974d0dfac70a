// ABOUTME: Root Cobra command for the nourish CLI.
// ABOUTME: Loads config, opens storage and logging in PersistentPre/PostRunE.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nourish/internal/config"
	"github.com/harperreed/nourish/internal/logging"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/output"
	"github.com/harperreed/nourish/internal/progress"
	"github.com/harperreed/nourish/internal/remote"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	repo   storage.Repository
	logger = logging.Discard()

	debugFlag bool
	userFlag  string
)

// skipStorage lists commands that run without config or storage.
var skipStorage = map[string]bool{
	"help":          true,
	"version":       true,
	"install-skill": true,
	"completion":    true,
}

var rootCmd = &cobra.Command{
	Use:   "nourish",
	Short: "Personal habit and nutrition tracker",
	Long: `Nourish is a CLI tool for tracking daily habits against personal targets.

WHAT IT TRACKS:

  water      ml per day
  meals      meals per day
  exercise   minutes per day
  sleep      hours per night
  mood       1-10 scale

QUICK START:

  $ nourish user create alice --use       # Create a user and make it active
  $ nourish questionnaire set              # Answer the wellness questionnaire
  $ nourish target derive                  # Turn answers into daily targets
  $ nourish log water 500                  # Log 500 ml of water
  $ nourish today                          # See today's progress and feedback

PROGRESS:

  $ nourish progress daily water           # Last 7 days
  $ nourish progress weekly exercise       # Last 4 weeks
  $ nourish progress monthly sleep         # Last 6 months
  $ nourish feedback water --days 14       # Suggestions over 14 days

NUTRITION:

  $ nourish eat "grilled chicken salad"    # Estimate and add to today's totals
  $ nourish eat today                      # Show today's nutrition panel

ONBOARDING:

  $ nourish onboard                        # Guided conversation about your goals

MCP INTEGRATION:

  Run 'nourish mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants.

CONFIGURATION:

  Settings live in ~/.config/nourish/config.yaml and can be overridden with
  NOURISH_* environment variables (NOURISH_BACKEND=kv, NOURISH_USER=alice).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipStorage[cmd.Name()] {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if debugFlag {
			cfg.Log.Debug = true
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err = logging.New(logging.Options{
			Debug:  cfg.Log.Debug,
			File:   cfg.GetLogFile(),
			Stderr: cmd.ErrOrStderr(),
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		output.AutoColor()

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		logger.Debug("storage opened", "backend", cfg.GetBackend(), "dir", cfg.GetDataDir())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeResources()
	},
}

func init() {
	// Post-run hooks are skipped when a command fails.
	cobra.OnFinalize(func() {
		if err := closeResources(); err != nil {
			fmt.Fprintln(os.Stderr, "error: close:", err)
		}
	})
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "log debug output to stderr")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "user ID prefix or name (default: configured user)")
}

// closeResources closes storage and the log file. It is safe to call twice.
func closeResources() error {
	var errs []error
	if repo != nil {
		errs = append(errs, repo.Close())
		repo = nil
	}
	errs = append(errs, logger.Close())
	logger = logging.Discard()
	return errors.Join(errs...)
}

// currentUser resolves --user, then the configured user, then the only user if there is one.
func currentUser() (*models.User, error) {
	ref := userFlag
	if ref == "" && cfg != nil {
		ref = cfg.User
	}
	if ref != "" {
		u, err := repo.GetUser(ref)
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", ref, err)
		}
		return u, nil
	}

	users, err := repo.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	switch len(users) {
	case 0:
		return nil, errors.New("no users yet; run 'nourish user create <name>'")
	case 1:
		return users[0], nil
	default:
		return nil, errors.New("several users exist; pick one with --user or 'nourish user use <name>'")
	}
}

// progressSources returns the configured progress and feedback sources.
func progressSources() (progress.Source, progress.FeedbackSource, error) {
	client, err := remoteClient()
	if err != nil {
		return nil, nil, err
	}
	if client != nil {
		return client, client, nil
	}
	local := progress.NewLocalSource(repo)
	return local, local, nil
}

// remoteClient returns the progress backend client, or nil when progress is local.
func remoteClient() (*remote.Client, error) {
	if cfg.GetProgressSource() != "remote" {
		return nil, nil
	}
	client, err := remote.New(cfg.Remote.BaseURL, cfg.Remote.Timeout)
	if err != nil {
		return nil, err
	}
	return client.WithLogger(logger.Logger), nil
}

// listTargets reads targets from wherever progress is computed.
func listTargets(ctx context.Context, userID uuid.UUID) ([]*models.HabitTarget, error) {
	client, err := remoteClient()
	if err != nil {
		return nil, err
	}
	if client != nil {
		return client.ListTargets(ctx, userID)
	}
	return repo.ListTargets(userID)
}

// requireTarget fails with progress.ErrNoTarget unless habitType has an active target.
func requireTarget(ctx context.Context, userID uuid.UUID, habitType models.HabitType) error {
	targets, err := listTargets(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list targets: %w", err)
	}
	index, err := progress.IndexTargets(targets)
	if err != nil {
		return err
	}
	if _, ok := index[habitType]; !ok {
		return fmt.Errorf("%w for %s; set one with 'nourish target set %s <value>'", progress.ErrNoTarget, habitType, habitType)
	}
	return nil
}

// pushTarget mirrors a saved target to the remote backend.
func pushTarget(ctx context.Context, t *models.HabitTarget) error {
	client, err := remoteClient()
	if err != nil || client == nil {
		return err
	}
	if err := client.SaveTarget(ctx, t); err != nil {
		return fmt.Errorf("saved locally but remote sync failed: %w", err)
	}
	return nil
}

// pushTargetDelete mirrors a target deletion; a target the backend never had is fine.
func pushTargetDelete(ctx context.Context, userID uuid.UUID, habitType models.HabitType) error {
	client, err := remoteClient()
	if err != nil || client == nil {
		return err
	}
	if err := client.DeleteTarget(ctx, userID, habitType); err != nil && !errors.Is(err, remote.ErrNotFound) {
		return fmt.Errorf("deleted locally but remote sync failed: %w", err)
	}
	return nil
}

// pushLog mirrors a saved log to the remote backend.
func pushLog(ctx context.Context, l *models.HabitLog) error {
	client, err := remoteClient()
	if err != nil || client == nil {
		return err
	}
	if err := client.CreateLog(ctx, l); err != nil {
		return fmt.Errorf("saved locally but remote sync failed: %w", err)
	}
	return nil
}

// parseDay parses "today", "yesterday", or YYYY-MM-DD into a calendar date.
func parseDay(s string) (time.Time, error) {
	switch s {
	case "", "today":
		return models.Today(), nil
	case "yesterday":
		return models.Today().AddDate(0, 0, -1), nil
	}
	return models.ParseDate(s)
}

// shortID returns the 8-character display prefix of an ID.
func shortID(id fmt.Stringer) string {
	return id.String()[:8]
}
