// Package color resolves the color and style names accepted in config files
// into lipgloss terminal colors.
package color

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// The 16 named colors map onto the first 16 entries of the xterm 256-color
// palette, so they follow the user's terminal theme.
// https://upload.wikimedia.org/wikipedia/commons/1/15/Xterm_256color_chart.svg
var names = map[string]int{
	"black":          0,
	"red":            1,
	"green":          2,
	"yellow":         3,
	"blue":           4,
	"purple":         5,
	"magenta":        5,
	"cyan":           6,
	"white":          7,
	"bright_black":   8,
	"bright_red":     9,
	"bright_green":   10,
	"bright_yellow":  11,
	"bright_blue":    12,
	"bright_purple":  13,
	"bright_magenta": 13,
	"bright_cyan":    14,
	"bright_white":   15,
}

// Parse resolves a config color value: a named color, a bare 256-color index
// (0-255), or a "#RRGGBB" true color.
func Parse(s string) (lipgloss.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if strings.HasPrefix(s, "#") {
		if len(s) != 7 {
			return "", fmt.Errorf("invalid hex color %q", s)
		}
		if _, err := strconv.ParseUint(s[1:], 16, 32); err != nil {
			return "", fmt.Errorf("invalid hex color %q", s)
		}
		return lipgloss.Color(s), nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 255 {
			return "", fmt.Errorf("color index %d out of range 0-255", n)
		}
		return lipgloss.Color(s), nil
	}

	if n, ok := names[s]; ok {
		return lipgloss.Color(strconv.Itoa(n)), nil
	}

	return "", fmt.Errorf("unknown color %q", s)
}

// Attribute is a text property applied on top of the colors.
type Attribute uint8

const (
	AttrNone Attribute = iota
	AttrBold
	AttrFaint
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrStrikethrough
)

// ParseAttribute resolves a config style value.
func ParseAttribute(s string) (Attribute, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default", "normal":
		return AttrNone, nil
	case "bold":
		return AttrBold, nil
	case "faint", "dimmed":
		return AttrFaint, nil
	case "italic":
		return AttrItalic, nil
	case "underline":
		return AttrUnderline, nil
	case "blink":
		return AttrBlink, nil
	case "reverse":
		return AttrReverse, nil
	case "strikethrough":
		return AttrStrikethrough, nil
	default:
		return AttrNone, fmt.Errorf("unknown style %q", s)
	}
}

// Apply sets the attribute on a lipgloss style.
func (a Attribute) Apply(st lipgloss.Style) lipgloss.Style {
	switch a {
	case AttrBold:
		return st.Bold(true)
	case AttrFaint:
		return st.Faint(true)
	case AttrItalic:
		return st.Italic(true)
	case AttrUnderline:
		return st.Underline(true)
	case AttrBlink:
		return st.Blink(true)
	case AttrReverse:
		return st.Reverse(true)
	case AttrStrikethrough:
		return st.Strikethrough(true)
	default:
		return st
	}
}
