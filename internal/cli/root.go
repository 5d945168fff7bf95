package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/swiftstay/admin/internal/cli/commands"
	"github.com/swiftstay/admin/internal/config"
	"github.com/swiftstay/admin/internal/logger"
	"github.com/swiftstay/admin/internal/session"
)

var version = "dev" // Will be set during build

// NewRootCmd builds the command tree around env
func NewRootCmd(env *commands.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "swiftstay-admin",
		Short: "Swift Stay admin console",
		Long: `Swift Stay admin console - manage properties, users, bookings and payouts.

Sign in once with 'swiftstay-admin login'. The session is kept in the configured
storage backend and shared with every other console using the same storage.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch env.Output {
			case commands.OutputTable, commands.OutputJSON, commands.OutputYAML:
			default:
				return fmt.Errorf("invalid output format '%s', must be one of: table, json, yaml", env.Output)
			}

			// Skip backend setup for commands that do not need it
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			if err := env.Open(cmd.Context()); err != nil {
				return err
			}
			cmd.SetContext(session.NewContext(cmd.Context(), env.Session))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env.Output, "output", "o", commands.OutputTable, "Output format: table, json or yaml")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "swiftstay-admin version %s\n", env.Version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewLoginCmd(env))
	rootCmd.AddCommand(commands.NewLogoutCmd(env))
	rootCmd.AddCommand(commands.NewWhoamiCmd(env))
	rootCmd.AddCommand(commands.NewWatchCmd(env))
	rootCmd.AddCommand(commands.NewHealthCmd(env))
	rootCmd.AddCommand(commands.NewDashboardCmd(env))
	rootCmd.AddCommand(commands.NewPropertiesCmd(env))
	rootCmd.AddCommand(commands.NewCategoriesCmd(env))
	rootCmd.AddCommand(commands.NewRoomTypesCmd(env))
	rootCmd.AddCommand(commands.NewRegionsCmd(env))
	rootCmd.AddCommand(commands.NewUsersCmd(env))
	rootCmd.AddCommand(commands.NewNotificationsCmd(env))
	rootCmd.AddCommand(commands.NewBookingsCmd(env))
	rootCmd.AddCommand(commands.NewTransfersCmd(env))
	rootCmd.AddCommand(commands.NewApplicationsCmd(env))
	rootCmd.AddCommand(commands.NewReportsCmd(env))
	rootCmd.AddCommand(commands.NewCommissionCmd(env))
	rootCmd.AddCommand(commands.NewProfileCmd(env))
	rootCmd.AddCommand(commands.NewSettingsCmd(env))
	rootCmd.AddCommand(commands.NewThemeCmd(env))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	env := &commands.Env{
		Config:  cfg,
		Logger:  logger.GetLogger(),
		Version: version,
	}
	defer env.Close()

	if err := NewRootCmd(env).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, commands.FormatError(err))
		return err
	}
	return nil
}
