// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Moves everything from SQLite to Badger KV or back.
package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data between storage backends",
	Long: `Copy all data from one storage backend to another.

BACKENDS:

  sqlite   <data_dir>/nourish.db (default)
  kv       <data_dir>/kv (Badger)

The source defaults to the configured backend. The destination must not
contain any users yet. The source is left untouched; switch backends
afterwards by setting 'backend' in the config file or NOURISH_BACKEND.

USAGE:

  nourish migrate --to kv --dry-run    # Preview what would be copied
  nourish migrate --to kv              # Copy SQLite data into Badger
  nourish migrate --from kv --to sqlite`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		from := migrateFrom
		if from == "" {
			from = cfg.GetBackend()
		}
		if migrateTo == "" {
			return errors.New("--to is required (sqlite or kv)")
		}
		if from == migrateTo {
			return fmt.Errorf("source and destination are both %s", from)
		}
		dstPath, err := cfg.BackendPath(migrateTo)
		if err != nil {
			return err
		}

		src, closeSrc, err := openForMigrate(from)
		if err != nil {
			return fmt.Errorf("open source: %w", err)
		}
		defer closeSrc()

		if migrateDryRun {
			color.New(color.FgYellow).Fprintln(out, "Dry run mode - no changes will be made")
			data, err := src.GetAllData()
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}
			fmt.Fprintf(out, "\nWould copy from %s to %s (%s):\n", from, migrateTo, dstPath)
			if migrateTo == "kv" {
				used, err := storage.IsDirNonEmpty(dstPath)
				if err != nil {
					return err
				}
				if used {
					fmt.Fprintln(out, color.YellowString("  destination directory already has files; it must hold no users"))
				}
			}
			printMigrateCounts(out, &storage.MigrateSummary{
				Users:          len(data.Users),
				Questionnaires: len(data.Questionnaires),
				Targets:        len(data.Targets),
				Logs:           len(data.Logs),
				Meals:          len(data.Meals),
				Onboarding:     len(data.Onboarding),
			})
			return nil
		}

		dst, closeDst, err := openForMigrate(migrateTo)
		if err != nil {
			return fmt.Errorf("open destination: %w", err)
		}
		defer closeDst()

		users, err := dst.ListUsers()
		if err != nil {
			return fmt.Errorf("check destination: %w", err)
		}
		if len(users) > 0 {
			return fmt.Errorf("destination %s already has %d user(s); refusing to merge", dstPath, len(users))
		}

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		fmt.Fprintln(out, color.GreenString("✓ Migrated %s to %s", from, migrateTo))
		printMigrateCounts(out, summary)
		return nil
	},
}

// openForMigrate reuses the already open repository for the configured backend,
// since Badger allows only one handle per directory.
func openForMigrate(backend string) (storage.Repository, func(), error) {
	if backend == cfg.GetBackend() && repo != nil {
		return repo, func() {}, nil
	}
	r, err := cfg.OpenBackend(backend)
	if err != nil {
		return nil, nil, err
	}
	return r, func() {
		if err := r.Close(); err != nil {
			logger.Warn("close backend", "backend", backend, "err", err)
		}
	}, nil
}

func printMigrateCounts(out io.Writer, s *storage.MigrateSummary) {
	fmt.Fprintf(out, "  users:          %d\n", s.Users)
	fmt.Fprintf(out, "  questionnaires: %d\n", s.Questionnaires)
	fmt.Fprintf(out, "  targets:        %d\n", s.Targets)
	fmt.Fprintf(out, "  logs:           %d\n", s.Logs)
	fmt.Fprintf(out, "  meals:          %d\n", s.Meals)
	fmt.Fprintf(out, "  onboarding:     %d\n", s.Onboarding)
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "source backend (default: configured backend)")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend (sqlite or kv)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
