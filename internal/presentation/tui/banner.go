package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the questflow banner with its version.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{`   __ _ _   _  ___  ___| |_ / _| | _____      __`, "#818cf8"},
		{`  / _' | | | |/ _ \/ __| __| |_| |/ _ \ \ /\ / /`, "#a78bfa"},
		{` | (_| | |_| |  __/\__ \ |_|  _| | (_) \ V  V / `, "#c084fc"},
		{`  \__, |\__,_|\___||___/\__|_| |_|\___/ \_/\_/  `, "#e879f9"},
		{`     |_|                                        `, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}

// Status colors a validation verdict.
func Status(w io.Writer, ok bool, text string) string {
	out := termenv.NewOutput(w)
	color := "#22c55e"
	if !ok {
		color = "#ef4444"
	}
	return out.String(text).Foreground(out.Color(color)).Bold().String()
}
