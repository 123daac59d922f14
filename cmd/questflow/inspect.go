package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/questflow"
	"github.com/aretw0/questflow/internal/cli"
	"github.com/aretw0/questflow/internal/lint"
	"github.com/aretw0/questflow/internal/logging"
	"github.com/aretw0/questflow/internal/presentation/graph"
	"github.com/aretw0/questflow/internal/presentation/tui"
	"github.com/aretw0/questflow/pkg/domain"
)

// input is the answer set an inspection command works on.
type input struct {
	answers domain.Answers
	skip    domain.SkipSet
}

var progressCmd = &cobra.Command{
	Use:   "progress [flow]",
	Short: "Show the visible path and current question for an answer set",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, in, err := openInspection(cmd, args)
		if err != nil {
			return err
		}
		state, err := eng.Progress(cmd.Context(), in.answers, in.skip)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), state)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [flow]",
	Short: "Validate an answer set against every reachable question",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, in, err := openInspection(cmd, args)
		if err != nil {
			return err
		}
		report, err := eng.Validate(cmd.Context(), in.answers)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			if err := printJSON(out, report); err != nil {
				return err
			}
		} else {
			for _, fe := range report.Errors {
				fmt.Fprintf(out, "- %s (%s): %s\n", fe.NodeID, fe.Field, fe.Message)
			}
			if report.Valid {
				fmt.Fprintln(out, tui.Status(out, true, "Answers are valid!"))
			} else {
				fmt.Fprintln(out, tui.Status(out, false, fmt.Sprintf("%d validation errors", len(report.Errors))))
			}
		}
		if !report.Valid {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

var lintCmd = &cobra.Command{
	Use:   "lint [flow]",
	Short: "Check the flow for broken references and unreachable nodes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := openEngine(cmd, args)
		if err != nil {
			return err
		}
		flow, err := eng.Flow(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		issues := lint.Check(flow)
		for _, issue := range issues {
			fmt.Fprintln(out, issue.String())
		}
		if lint.HasErrors(issues) {
			fmt.Fprintln(out, tui.Status(out, false, "Flow has errors."))
			return fmt.Errorf("lint failed")
		}
		fmt.Fprintln(out, tui.Status(out, true, "Flow is valid!"))
		return nil
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph [flow]",
	Short: "Export the flow graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the flow. With --answers or --session,
the visible path and current question are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, in, err := openInspection(cmd, args)
		if err != nil {
			return err
		}
		flow, err := eng.Flow(cmd.Context())
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if hasInput(cmd) {
			state, err := eng.Progress(cmd.Context(), in.answers, in.skip)
			if err != nil {
				return err
			}
			overlay = graph.OverlayFromState(state)
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(flow, overlay))
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary [flow]",
	Short: "Summarize the reachable questions and their answers",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, in, err := openInspection(cmd, args)
		if err != nil {
			return err
		}
		summary, err := eng.Summary(cmd.Context(), in.answers, in.skip)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(out, summary)
		}

		title := eng.Name
		if title == "" {
			title = "Summary"
		}
		doc := tui.SummaryMarkdown(title, summary)
		if tui.IsTerminal(os.Stdout) {
			if rendered, err := tui.NewRenderer()(doc); err == nil {
				doc = rendered
			}
		}
		fmt.Fprint(out, doc)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{progressCmd, validateCmd, graphCmd, summaryCmd} {
		c.Flags().StringP("answers", "a", "", "Answers as JSON/YAML, or @file")
		c.Flags().StringSlice("skip", nil, "Question ids skipped by the respondent")
		c.Flags().StringP("session", "s", "", "Read answers and skips from a stored session")
		rootCmd.AddCommand(c)
	}
	validateCmd.Flags().Bool("json", false, "Print the report as JSON")
	summaryCmd.Flags().Bool("json", false, "Print the summary as JSON")
	rootCmd.AddCommand(lintCmd)
}

func openEngine(cmd *cobra.Command, args []string) (*questflow.Engine, cli.Options, error) {
	opts, err := loadOptions(cmd, args)
	if err != nil {
		return nil, opts, err
	}
	logger, err := cli.NewLogger(opts)
	if err != nil {
		return nil, opts, err
	}
	eng, err := cli.NewEngine(opts, logger)
	return eng, opts, err
}

func openInspection(cmd *cobra.Command, args []string) (*questflow.Engine, input, error) {
	eng, opts, err := openEngine(cmd, args)
	if err != nil {
		return nil, input{}, err
	}

	in, err := readInput(cmd.Context(), cmd, opts)
	return eng, in, err
}

func hasInput(cmd *cobra.Command) bool {
	return cmd.Flags().Changed("answers") || cmd.Flags().Changed("session") || cmd.Flags().Changed("skip")
}

// readInput loads the session first (when given), then overlays --answers and --skip.
func readInput(ctx context.Context, cmd *cobra.Command, opts cli.Options) (input, error) {
	in := input{answers: domain.Answers{}, skip: domain.NewSkipSet()}

	if sessionID, _ := cmd.Flags().GetString("session"); sessionID != "" {
		persistence, err := cli.NewPersistence(ctx, opts, logging.NewNop())
		if err != nil {
			return in, err
		}
		defer persistence.Close()

		sess, err := persistence.Store.Load(ctx, sessionID)
		if err != nil {
			return in, fmt.Errorf("error loading session '%s': %w", sessionID, err)
		}
		in.answers = sess.Answers
		in.skip = sess.SkipSet()
	}

	raw, _ := cmd.Flags().GetString("answers")
	answers, err := cli.ParseAnswers(raw)
	if err != nil {
		return in, err
	}
	in.answers = in.answers.Merge(answers)

	skipped, _ := cmd.Flags().GetStringSlice("skip")
	for _, id := range skipped {
		in.skip[id] = struct{}{}
	}
	return in, nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}
