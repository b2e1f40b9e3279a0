package format_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/bepzi/contrail/config"
	"github.com/bepzi/contrail/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func style(t *testing.T, fg, bg string) format.Style {
	t.Helper()
	st, err := format.StyleFor(config.Options{Foreground: fg, Background: bg})
	require.NoError(t, err)
	return st
}

func TestPromptRendersSegmentsInOrder(t *testing.T) {
	segs := []format.Segment{
		{Name: "a", Text: "first", Style: style(t, "white", "blue"), PaddingLeft: " ", PaddingRight: " "},
		{Name: "b", Text: "second", Style: style(t, "white", "green"), PaddingLeft: " ", PaddingRight: " "},
	}

	out := format.Prompt(segs, format.Bash)

	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
}

func TestPromptSkipsEmptySegments(t *testing.T) {
	segs := []format.Segment{
		{Name: "a", Text: "visible", Style: style(t, "white", "blue"), Separator: ">"},
		{Name: "b", Text: "", Style: style(t, "white", "red"), PaddingLeft: "[", PaddingRight: "]", Separator: ">"},
		{Name: "c", Text: "also", Style: style(t, "white", "green")},
	}

	out := format.Prompt(segs, format.Bash)

	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "also")
	assert.NotContains(t, out, "[")
	assert.NotContains(t, out, "]")
}

func TestSeparatorPaintedAgainstNextBackground(t *testing.T) {
	segs := []format.Segment{
		{Name: "a", Text: "one", Style: style(t, "15", "4"), Separator: ""},
		{Name: "b", Text: "two", Style: style(t, "15", "2")},
	}

	out := format.Prompt(segs, format.Bash)

	// The separator cell carries segment a's background as its foreground
	// and segment b's background as its background.
	assert.Contains(t, out, "38;5;4")
	assert.Contains(t, out, "48;5;2")
}

var sgr = regexp.MustCompile("\x1b\\[[0-9;]*m")

func TestShellEscapeWrapping(t *testing.T) {
	segs := []format.Segment{
		{Name: "a", Text: "x", Style: style(t, "white", "blue"), Separator: ">"},
		{Name: "b", Text: "y", Style: style(t, "white", "green")},
	}

	t.Run("bash", func(t *testing.T) {
		out := format.Prompt(segs, format.Bash)
		for _, m := range sgr.FindAllStringIndex(out, -1) {
			assert.Equal(t, `\[`, out[m[0]-2:m[0]], "unwrapped escape sequence")
			assert.Equal(t, `\]`, out[m[1]:m[1]+2], "unwrapped escape sequence")
		}
	})

	t.Run("zsh", func(t *testing.T) {
		out := format.Prompt(segs, format.Zsh)
		for _, m := range sgr.FindAllStringIndex(out, -1) {
			assert.Equal(t, `%{`, out[m[0]-2:m[0]])
			assert.Equal(t, `%}`, out[m[1]:m[1]+2])
		}
	})
}

func TestPromptEmitsEscapesWithoutTTY(t *testing.T) {
	// The prompt is consumed by the shell, not a terminal; escapes have to
	// survive a non-TTY stdout.
	segs := []format.Segment{
		{Name: "a", Text: "x", Style: style(t, "white", "blue")},
	}

	out := format.Prompt(segs, format.Bash)
	assert.Contains(t, out, "\x1b[")
}

func TestParseShell(t *testing.T) {
	assert.Equal(t, format.Zsh, format.ParseShell("zsh"))
	assert.Equal(t, format.Bash, format.ParseShell("bash"))
	assert.Equal(t, format.Bash, format.ParseShell(""))
}
