package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/questflow/internal/cli"
	"github.com/aretw0/questflow/internal/logging"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long:  `List, inspect, and remove sessions in the configured store (file, redis).`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all active sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPersistence(cmd)
		if err != nil {
			return err
		}
		defer p.Close()
		return cli.ListSessions(cmd.Context(), p.Store, cmd.OutOrStdout())
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the answers of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPersistence(cmd)
		if err != nil {
			return err
		}
		defer p.Close()
		return cli.InspectSession(cmd.Context(), p.Store, args[0], cmd.OutOrStdout())
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openPersistence(cmd)
		if err != nil {
			return err
		}
		defer p.Close()
		return cli.RemoveSessions(cmd.Context(), p.Store, args, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}

func openPersistence(cmd *cobra.Command) (*cli.Persistence, error) {
	opts, err := loadOptions(cmd, nil)
	if err != nil {
		return nil, err
	}
	return cli.NewPersistence(cmd.Context(), opts, logging.NewNop())
}
