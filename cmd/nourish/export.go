// ABOUTME: CLI commands for exporting and importing nourish data.
// ABOUTME: JSON and YAML for backups and restores, Markdown for sharing.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/nourish/internal/models"
	"github.com/harperreed/nourish/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportType   string
	exportSince  string
	importFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export all data",
	Long: `Export every user with their questionnaire, targets, logs, meals, and
onboarding record.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Log and daily completion tables (for sharing)

OPTIONS:

  --output, -o   Write to file instead of stdout
  --type, -t     Filter by habit type (markdown only)
  --since        Only include logs on or after this date (markdown only)

EXAMPLES:

  nourish export json                        # Export all data as JSON
  nourish export json -o backup.json         # Save to file
  nourish export yaml -o backup.yaml
  nourish export markdown --type water       # Water logs as Markdown
  nourish export markdown --since 2026-03-01 # Logs from March onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = storage.ExportJSON(repo)
		case "yaml", "yml":
			data, err = storage.ExportYAML(repo)
		case "markdown", "md":
			var habitType *models.HabitType
			if exportType != "" {
				ht, err := models.ParseHabitType(exportType)
				if err != nil {
					return err
				}
				habitType = &ht
			}
			var since *time.Time
			if exportSince != "" {
				day, err := parseDay(exportSince)
				if err != nil {
					return fmt.Errorf("invalid --since: %w", err)
				}
				since = &day
			}
			var md string
			md, err = storage.ExportMarkdown(repo, habitType, since)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Exported to %s", exportOutput))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import data from a JSON or YAML backup",
	Long: `Import data from a previously exported file.

The format follows the file extension (.json, .yaml, .yml) unless --format
is given. Records that already exist (same ID) cause an error.

EXAMPLES:

  nourish import backup.json
  nourish import backup.txt --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		format := importFormat
		if format == "" {
			format = strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
		}

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		switch format {
		case "json":
			err = storage.ImportJSON(repo, data)
		case "yaml", "yml":
			err = storage.ImportYAML(repo, data)
		default:
			return fmt.Errorf("unknown format %q; pass --format json or --format yaml", format)
		}
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Imported from %s", filename))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVarP(&exportType, "type", "t", "", "filter by habit type (markdown only)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "first date to include (markdown only)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "input format: json or yaml (default: from extension)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
