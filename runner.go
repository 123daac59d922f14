package questflow

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/engine"
)

// Runner asks the questions of a flow one at a time over line-based IO.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Renderer ContentRenderer
}

// ContentRenderer is a function that transforms question text before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// RunResult is the answer set collected by a run.
type RunResult struct {
	Answers  domain.Answers
	Skip     domain.SkipSet
	Finished bool
}

// Commands understood at the prompt.
const (
	cmdSkip = "skip"
	cmdExit = "exit"
	cmdQuit = "quit"
)

// NewRunner creates a Runner over the given IO.
func NewRunner(in io.Reader, out io.Writer) *Runner {
	return &Runner{Input: in, Output: out}
}

// Run asks the current question until the flow is finished, the input ends or the
// user exits. Answers are pruned after every change. Partial results are returned
// on EOF so callers can persist them.
func (r *Runner) Run(ctx context.Context, eng *Engine, answers domain.Answers, skip domain.SkipSet) (RunResult, error) {
	if r.Input == nil {
		return RunResult{}, fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return RunResult{}, fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	reader := bufio.NewReader(r.Input)
	res := RunResult{Answers: answers.Clone(), Skip: skip}
	if res.Skip == nil {
		res.Skip = domain.NewSkipSet()
	}

	flow, err := eng.Flow(ctx)
	if err != nil {
		return res, err
	}

	lastAsked := ""
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		state, err := eng.Progress(ctx, res.Answers, res.Skip)
		if err != nil {
			return res, err
		}
		if state.Finished {
			res.Finished = true
			return res, nil
		}

		node, err := eng.Node(ctx, state.CurrentNodeID)
		if err != nil {
			return res, err
		}
		options := flow.OptionsFor(node.QuestionID)

		if node.ID != lastAsked {
			r.ask(node, options)
			lastAsked = node.ID
		}

		initial, err := eng.InitialValue(ctx, node.ID, res.Answers)
		if err != nil {
			return res, err
		}
		if !initial.IsNull() {
			fmt.Fprintf(r.Output, "[%s] ", initial.Text())
		}

		line, err := readLine(reader, r.Output)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return res, nil
			}
			return res, fmt.Errorf("input error: %w", err)
		}

		switch strings.ToLower(line) {
		case cmdExit, cmdQuit:
			fmt.Fprintln(r.Output, "Bye!")
			return res, nil
		case cmdSkip:
			if node.Required() {
				fmt.Fprintln(r.Output, "! This question cannot be skipped.")
				continue
			}
			res.Skip[node.QuestionID] = struct{}{}
			continue
		}

		value := initial
		if line != "" {
			value = parseAnswer(node.Control, line, options)
		}

		next := res.Answers.Clone()
		next[node.QuestionID] = value

		if engine.HasOther(options) && selectsOther(value) {
			fmt.Fprint(r.Output, "Other: ")
			text, err := readLine(reader, r.Output)
			if err != nil && !errors.Is(err, io.EOF) {
				return res, fmt.Errorf("input error: %w", err)
			}
			next[domain.CompanionKey(node.QuestionID)] = domain.Single(text)
		}

		if check := engine.ValidateNode(node, next, options); !check.Valid {
			fmt.Fprintf(r.Output, "! %s\n", check.Error)
			continue
		}

		res.Answers, err = eng.Commit(ctx, next)
		if err != nil {
			return res, err
		}
	}
}

func (r *Runner) ask(node *domain.Node, options []domain.Option) {
	label := node.Label
	if label == "" {
		label = node.QuestionID
	}
	if r.Renderer != nil {
		if rendered, err := r.Renderer(label); err == nil {
			label = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(label))

	for i, o := range options {
		text := o.Label
		if text == "" {
			text = o.Value
		}
		fmt.Fprintf(r.Output, "  %d) %s\n", i+1, text)
	}
	if node.Control == domain.ControlMulti && len(options) > 0 {
		fmt.Fprintln(r.Output, "  (comma-separated)")
	}
}

func readLine(reader *bufio.Reader, w io.Writer) (string, error) {
	fmt.Fprint(w, "> ")
	text, err := reader.ReadString('\n')
	if err != nil && (text == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// parseAnswer maps typed input to a value: option numbers resolve to option values,
// anything else is taken verbatim.
func parseAnswer(control domain.Control, line string, options []domain.Option) domain.Value {
	if control != domain.ControlMulti {
		return domain.Single(resolveOption(line, options))
	}

	var items []string
	for _, tok := range strings.Split(line, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		items = append(items, resolveOption(tok, options))
	}
	return domain.Multi(items...)
}

func resolveOption(tok string, options []domain.Option) string {
	if n, err := strconv.Atoi(tok); err == nil && n >= 1 && n <= len(options) {
		return options[n-1].Value
	}
	return tok
}

func selectsOther(v domain.Value) bool {
	if v.Includes(engine.OtherValue) {
		return true
	}
	s, ok := v.Str()
	return ok && s == engine.OtherValue
}
