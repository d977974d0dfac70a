// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for the active user.
package main

import (
	"github.com/harperreed/nourish/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to log habits and read progress for the
active user. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "nourish": {
        "command": "nourish",
        "args": ["mcp", "--user", "alice"]
      }
    }
  }

  On macOS, the config is at:
    ~/Library/Application Support/Claude/claude_desktop_config.json

AVAILABLE TOOLS:

  log_habit           Log a habit value
  list_logs           List recent habit logs
  delete_log          Delete a log by ID
  list_targets        List daily targets
  set_target          Create or update a target
  get_daily_progress  Progress for every habit on a date
  get_rollup          Daily, weekly, or monthly series for one habit
  get_feedback        Feedback and suggestions for one habit
  log_meal            Estimate a free-text meal

AVAILABLE RESOURCES:

  nourish://today     Today's progress, feedback, and nutrition
  nourish://targets   Daily targets`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := currentUser()
		if err != nil {
			return err
		}
		src, fb, err := progressSources()
		if err != nil {
			return err
		}

		server, err := mcp.NewServer(repo, u,
			mcp.WithSources(src, fb),
			mcp.WithFeedbackDays(cfg.GetFeedbackDays()),
		)
		if err != nil {
			return err
		}

		logger.Debug("starting mcp server", "user", u.Name)
		return server.Serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
