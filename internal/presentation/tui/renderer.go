package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/aretw0/questflow/pkg/engine"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// SummaryMarkdown renders a summary as a markdown document.
func SummaryMarkdown(title string, s engine.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if len(s.Items) == 0 {
		sb.WriteString("_No questions reached._\n")
		return sb.String()
	}

	for _, item := range s.Items {
		fmt.Fprintf(&sb, "## %s\n\n", item.Label)
		switch {
		case item.Skipped:
			sb.WriteString("_Skipped_\n\n")
		case !item.Answered():
			sb.WriteString("_Not answered_\n\n")
		default:
			for _, label := range item.Labels {
				fmt.Fprintf(&sb, "- %s\n", label)
			}
			if item.OtherText != "" {
				fmt.Fprintf(&sb, "- Other: %s\n", item.OtherText)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
