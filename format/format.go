// Package format turns ordered segments into the final decorated string. It
// does not participate in concurrency: it consumes the runner's output after
// aggregation is complete.
package format

import (
	"io"
	"regexp"

	"github.com/bepzi/contrail/config"
	"github.com/bepzi/contrail/internal/color"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Shell selects the prompt-escape dialect. Shells count the visible width of
// PS1 themselves, so every ANSI sequence has to be wrapped in the shell's
// zero-width markers or cursor positioning breaks on long command lines.
type Shell int

const (
	Bash Shell = iota
	Zsh
)

func ParseShell(s string) Shell {
	if s == "zsh" {
		return Zsh
	}
	return Bash
}

// Style is one segment's resolved decoration.
type Style struct {
	Foreground lipgloss.TerminalColor
	Background lipgloss.TerminalColor
	Attr       color.Attribute
}

// Segment is one module's contribution to the prompt. A Segment with empty
// Text is skipped entirely: no padding, no separator.
type Segment struct {
	Name string
	Text string

	Style        Style
	PaddingLeft  string
	PaddingRight string
	Separator    string
}

// StyleFor resolves config options into a Style. Empty color values mean the
// terminal's own default.
func StyleFor(opts config.Options) (Style, error) {
	st := Style{
		Foreground: lipgloss.NoColor{},
		Background: lipgloss.NoColor{},
	}
	if opts.Foreground != "" {
		c, err := color.Parse(opts.Foreground)
		if err != nil {
			return st, err
		}
		st.Foreground = c
	}
	if opts.Background != "" {
		c, err := color.Parse(opts.Background)
		if err != nil {
			return st, err
		}
		st.Background = c
	}
	attr, err := color.ParseAttribute(opts.Style)
	if err != nil {
		return st, err
	}
	st.Attr = attr
	return st, nil
}

// The prompt must carry color escapes even when stdout is a pipe (the shell
// captures our output and re-emits it), so the renderer's profile is forced
// rather than sniffed from the environment.
var renderer = newPromptRenderer()

func newPromptRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	return r
}

// Prompt renders the visible segments into the final prompt string:
// per-segment padded text painted fg-on-bg, then a powerline separator
// painted in the segment's own background against the next visible segment's
// background. Segment order is the caller's declaration order; Prompt never
// reorders.
func Prompt(segments []Segment, shell Shell) string {
	var visible []Segment
	for _, s := range segments {
		if s.Text != "" {
			visible = append(visible, s)
		}
	}

	var out string
	for i, seg := range visible {
		st := renderer.NewStyle().
			Foreground(seg.Style.Foreground).
			Background(seg.Style.Background)
		st = seg.Style.Attr.Apply(st)

		out += escape(st.Render(seg.PaddingLeft+seg.Text+seg.PaddingRight), shell)

		if seg.Separator == "" {
			continue
		}
		sep := renderer.NewStyle().Foreground(seg.Style.Background)
		if i+1 < len(visible) {
			sep = sep.Background(visible[i+1].Style.Background)
		}
		out += escape(sep.Render(seg.Separator), shell)
	}
	return out
}

var sgr = regexp.MustCompile("\x1b\\[[0-9;]*m")

// escape wraps every SGR sequence in the shell's zero-width markers.
func escape(s string, shell Shell) string {
	switch shell {
	case Zsh:
		return sgr.ReplaceAllString(s, "%{$0%}")
	default:
		return sgr.ReplaceAllString(s, "\\[$0\\]")
	}
}
