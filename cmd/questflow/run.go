package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/questflow"
	"github.com/aretw0/questflow/internal/cli"
	"github.com/aretw0/questflow/internal/presentation/tui"
)

var runCmd = &cobra.Command{
	Use:   "run [flow]",
	Short: "Answer the questionnaire interactively",
	Long: `Asks the questions of the flow one at a time. Type an option number or value,
several comma-separated for multi-select questions. Enter keeps the shown default,
'skip' passes an optional question and 'exit' pauses. Answers are saved to the
session so a later run can resume.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := loadOptions(cmd, args)
		if err != nil {
			return err
		}
		sessionID, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")
		watch, _ := cmd.Flags().GetBool("watch")

		logger, err := cli.NewLogger(opts)
		if err != nil {
			return err
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		eng, err := cli.NewEngine(opts, logger)
		if err != nil {
			return err
		}
		if _, err := eng.Flow(sigCtx); err != nil {
			return err
		}

		persistence, err := cli.NewPersistence(sigCtx, opts, logger)
		if err != nil {
			return err
		}
		defer persistence.Close()
		sessions := cli.NewSessionManager(persistence, eng, logger)

		runOpts := cli.RunOptions{
			SessionID: sessionID,
			Fresh:     fresh,
			In:        os.Stdin,
			Out:       cmd.OutOrStdout(),
		}
		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout, questflow.Version)
			runOpts.Renderer = tui.NewRenderer()
		}

		if watch {
			go func() {
				_ = cli.WatchFlow(sigCtx, eng, logger, func() {
					cli.SystemMessage(os.Stdout, "Flow reloaded.")
				})
			}()
		}

		_, _, err = cli.RunSession(sigCtx, eng, sessions, runOpts)
		return cli.HandleExecutionError(err)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("session", "s", "", "Session to resume or create")
	runCmd.Flags().Bool("fresh", false, "Discard the stored answers of --session first")
	runCmd.Flags().BoolP("watch", "w", false, "Reload the flow when the document changes")
}
