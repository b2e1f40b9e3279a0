package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bepzi/contrail/runner"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
)

const reportIndent = 4

// Report renders the composite command-line report: one block per result in
// declaration order, headed by `#<position>) <command>` plus the outcome, with
// the captured output indented beneath. Degraded results (non-zero exit,
// spawn failure, timeout) are annotated, never dropped.
//
// width bounds the wrapped output; pass 0 for no wrapping. colored selects
// ANSI decoration for the headers, for when stdout is a terminal.
func Report(results []runner.Result, width int, colored bool) string {
	r := lipgloss.NewRenderer(io.Discard)
	if colored {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	var (
		headStyle = r.NewStyle().Bold(true)
		noteStyle = r.NewStyle().Faint(true)
		badStyle  = r.NewStyle().Foreground(lipgloss.Color("1"))
	)

	var b strings.Builder
	for i, res := range results {
		if i > 0 {
			b.WriteString("\n")
		}

		head := fmt.Sprintf("#%d) `%s`", res.Index+1, res.Command)
		b.WriteString(headStyle.Render(head))
		b.WriteString(" ")
		b.WriteString(annotate(res, noteStyle, badStyle))
		b.WriteString("\n")

		body := string(res.Stdout)
		if len(res.Stderr) > 0 {
			if body != "" && !strings.HasSuffix(body, "\n") {
				body += "\n"
			}
			body += string(res.Stderr)
		}
		body = strings.TrimRight(body, "\n")
		if body == "" {
			continue
		}
		if width > reportIndent {
			body = wordwrap.String(body, width-reportIndent)
		}
		b.WriteString(indent.String(body, reportIndent))
		b.WriteString("\n")
	}
	return b.String()
}

func annotate(res runner.Result, note, bad lipgloss.Style) string {
	switch res.State {
	case runner.SpawnFailed:
		return bad.Render(fmt.Sprintf("(spawn failed: %v)", res.Err))
	case runner.TimedOut:
		return bad.Render("(timed out)")
	default:
		d := res.Duration.Round(time.Millisecond)
		if res.ExitCode != 0 {
			return bad.Render(fmt.Sprintf("(exit %d, %s)", res.ExitCode, d))
		}
		return note.Render(fmt.Sprintf("(%s)", d))
	}
}
