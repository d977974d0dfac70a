// ABOUTME: CLI commands for managing users.
// ABOUTME: Create, list, show, and select the active user.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/nourish/internal/models"
	"github.com/spf13/cobra"
)

var (
	userEmail string
	userUse   bool
)

var userCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"users"},
	Short:   "Manage users",
	Long: `Manage the people whose habits are tracked.

Most commands act on the active user. The active user is chosen by --user,
then by the 'user' key in the config file, then automatically when only one
user exists.

EXAMPLES:

  nourish user create alice --use     # Create alice and make her active
  nourish user list                   # List all users
  nourish user use bob                # Switch the active user
  nourish user show                   # Show the active user`,
}

var userCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u := models.NewUser(args[0])
		if userEmail != "" {
			u.Email = userEmail
		}

		if err := repo.CreateUser(u); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Created user %s", u.Name))
		fmt.Fprintf(out, "  %s\n", color.New(color.Faint).Sprint(shortID(u.ID)))

		if userUse {
			return setActiveUser(cmd, u)
		}
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List users",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := repo.ListUsers()
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(users) == 0 {
			fmt.Fprintln(out, "No users found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, u := range users {
			marker := " "
			if cfg.User != "" && (cfg.User == u.Name || cfg.User == u.ID.String() || cfg.User == shortID(u.ID)) {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s %s %s\n", marker, faint.Sprint(shortID(u.ID)), padRight(u.Name, 16), faint.Sprint(u.Email))
		}
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show [id-or-name]",
	Short: "Show a user and their setup",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			userFlag = args[0]
		}
		u, err := currentUser()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  %s\n", color.New(color.Bold).Sprint(u.Name), color.New(color.Faint).Sprint(u.ID))
		if u.Email != "" {
			fmt.Fprintf(out, "  email:   %s\n", u.Email)
		}
		fmt.Fprintf(out, "  created: %s\n", u.CreatedAt.Format("2006-01-02"))

		targets, err := repo.ListTargets(u.ID)
		if err != nil {
			return fmt.Errorf("failed to list targets: %w", err)
		}
		fmt.Fprintf(out, "  targets: %d\n", len(targets))

		if ob, err := repo.GetOnboarding(u.ID); err == nil {
			fmt.Fprintf(out, "  mission: %s\n", ob.Mission)
		}
		return nil
	},
}

var userUseCmd = &cobra.Command{
	Use:   "use <id-or-name>",
	Short: "Set the active user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := repo.GetUser(args[0])
		if err != nil {
			return fmt.Errorf("user %q: %w", args[0], err)
		}
		return setActiveUser(cmd, u)
	},
}

func setActiveUser(cmd *cobra.Command, u *models.User) error {
	cfg.User = u.ID.String()
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Active user is now %s", u.Name))
	return nil
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "email address")
	userCreateCmd.Flags().BoolVar(&userUse, "use", false, "make the new user active")

	userCmd.AddCommand(userCreateCmd, userListCmd, userShowCmd, userUseCmd)
	rootCmd.AddCommand(userCmd)
}
