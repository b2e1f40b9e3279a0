// Package config loads contrail's TOML configuration: a [global] table of
// display defaults plus one [modules.<name>] table per module, each of which
// may override any global option.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bepzi/contrail/internal/color"
)

type Config struct {
	Global  Global            `toml:"global"`
	Modules map[string]Module `toml:"modules"`
}

type Global struct {
	// Modules is the ordered list of modules to render. Order here is
	// declaration order: it determines both dispatch indexes and the final
	// left-to-right prompt layout.
	Modules []string `toml:"modules"`

	Foreground   string `toml:"foreground"`
	Background   string `toml:"background"`
	Style        string `toml:"style"`
	Separator    string `toml:"separator"`
	PaddingLeft  string `toml:"padding_left"`
	PaddingRight string `toml:"padding_right"`

	// Timeout bounds the whole batch, as a time.ParseDuration string.
	// Empty means wait indefinitely.
	Timeout string `toml:"timeout"`

	// Shell selects prompt escaping: "bash" (default) or "zsh".
	Shell string `toml:"shell"`
}

// Module holds one module's overrides. Nil means "inherit from [global]",
// which is why everything is a pointer: TOML can then distinguish an absent
// key from an explicitly empty one.
type Module struct {
	Foreground   *string `toml:"foreground"`
	Background   *string `toml:"background"`
	Style        *string `toml:"style"`
	Separator    *string `toml:"separator"`
	PaddingLeft  *string `toml:"padding_left"`
	PaddingRight *string `toml:"padding_right"`

	// Output declares a user-defined module with fixed text. Command
	// declares one that runs a shell command and renders its stdout.
	Output  *string `toml:"output"`
	Command *string `toml:"command"`

	// cwd
	MaxDepth *int `toml:"max_depth"`

	// exit_code, prompt
	StyleSuccess *StyleTable `toml:"style_success"`
	StyleError   *StyleTable `toml:"style_error"`

	// git
	SymbolInsertion *string `toml:"symbol_insertion"`
	SymbolDeletion  *string `toml:"symbol_deletion"`
	SymbolPush      *string `toml:"symbol_push"`
	SymbolPull      *string `toml:"symbol_pull"`
	ShowDiffStats   *bool   `toml:"show_diff_stats"`
	ShowUnpushed    *bool   `toml:"show_unpushed"`
}

type StyleTable struct {
	Foreground *string `toml:"foreground"`
	Background *string `toml:"background"`
	Style      *string `toml:"style"`
}

// Options are one module's fully resolved display options: the module's own
// values where present, the globals everywhere else.
type Options struct {
	Foreground   string
	Background   string
	Style        string
	Separator    string
	PaddingLeft  string
	PaddingRight string
}

// Builtin module names. Anything else in global.modules must bring its own
// [modules.<name>] table with an output or command key.
var builtins = map[string]struct{}{
	"cwd":       {},
	"git":       {},
	"exit_code": {},
	"prompt":    {},
}

// Default returns the built-in configuration, matching what -generate-config
// writes out.
func Default() Config {
	return Config{
		Global: Global{
			Modules:      []string{"cwd", "git", "exit_code", "prompt"},
			Foreground:   "bright_white",
			Background:   "blue",
			Style:        "default",
			Separator:    "",
			PaddingLeft:  " ",
			PaddingRight: " ",
			Shell:        "bash",
		},
		Modules: map[string]Module{},
	}
}

// DefaultPath returns ~/.config/contrail/config.toml, or the empty string if
// the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "contrail", "config.toml")
}

// Load reads the config file at path over the defaults. A missing file is not
// an error: the defaults apply unchanged. If path is empty, DefaultPath is
// used.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	bs, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	// Decoding over the prefilled struct keeps every default the file
	// doesn't mention.
	if err := toml.Unmarshal(bs, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Modules == nil {
		cfg.Modules = map[string]Module{}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every color and style name up front, so a bad config fails
// with one clear error instead of a half-rendered prompt.
func (c Config) Validate() error {
	check := func(where, fg, bg, style string) error {
		if fg != "" {
			if _, err := color.Parse(fg); err != nil {
				return fmt.Errorf("%s: foreground: %w", where, err)
			}
		}
		if bg != "" {
			if _, err := color.Parse(bg); err != nil {
				return fmt.Errorf("%s: background: %w", where, err)
			}
		}
		if _, err := color.ParseAttribute(style); err != nil {
			return fmt.Errorf("%s: style: %w", where, err)
		}
		return nil
	}

	if err := check("global", c.Global.Foreground, c.Global.Background, c.Global.Style); err != nil {
		return err
	}
	switch c.Global.Shell {
	case "", "bash", "zsh":
	default:
		return fmt.Errorf("global: unknown shell %q", c.Global.Shell)
	}
	if c.Global.Timeout != "" {
		if _, err := time.ParseDuration(c.Global.Timeout); err != nil {
			return fmt.Errorf("global: timeout: %w", err)
		}
	}

	for name, m := range c.Modules {
		where := "modules." + name
		if err := check(where, deref(m.Foreground), deref(m.Background), deref(m.Style)); err != nil {
			return err
		}
		for _, st := range []*StyleTable{m.StyleSuccess, m.StyleError} {
			if st == nil {
				continue
			}
			if err := check(where, deref(st.Foreground), deref(st.Background), deref(st.Style)); err != nil {
				return err
			}
		}
		if m.MaxDepth != nil && *m.MaxDepth < 0 {
			return fmt.Errorf("%s: max_depth must not be negative", where)
		}
		if m.Output != nil && m.Command != nil {
			return fmt.Errorf("%s: output and command are mutually exclusive", where)
		}
	}

	for _, name := range c.Global.Modules {
		if _, ok := builtins[name]; ok {
			continue
		}
		m, ok := c.Modules[name]
		if !ok || (m.Output == nil && m.Command == nil) {
			return fmt.Errorf("unknown module %q: add [modules.%s] with an output or command key", name, name)
		}
	}

	return nil
}

// OptionsFor resolves the display options for one module, falling back to the
// globals for anything the module's table doesn't set.
func (c Config) OptionsFor(name string) Options {
	opts := Options{
		Foreground:   c.Global.Foreground,
		Background:   c.Global.Background,
		Style:        c.Global.Style,
		Separator:    c.Global.Separator,
		PaddingLeft:  c.Global.PaddingLeft,
		PaddingRight: c.Global.PaddingRight,
	}

	m, ok := c.Modules[name]
	if !ok {
		return opts
	}
	override(&opts.Foreground, m.Foreground)
	override(&opts.Background, m.Background)
	override(&opts.Style, m.Style)
	override(&opts.Separator, m.Separator)
	override(&opts.PaddingLeft, m.PaddingLeft)
	override(&opts.PaddingRight, m.PaddingRight)
	return opts
}

// StatusOptionsFor resolves the display options for a module whose colors
// depend on the last command's exit code, applying the style_success or
// style_error table on top of the base options.
func (c Config) StatusOptionsFor(name string, success bool) Options {
	opts := c.OptionsFor(name)

	m, ok := c.Modules[name]
	if !ok {
		m = Module{}
	}
	st := m.StyleError
	if success {
		st = m.StyleSuccess
	}
	if st == nil {
		// Baked-in defaults from the original behavior: green on
		// success, red on error.
		if success {
			opts.Background = "green"
		} else {
			opts.Background = "red"
		}
		return opts
	}
	override(&opts.Foreground, st.Foreground)
	override(&opts.Background, st.Background)
	override(&opts.Style, st.Style)
	return opts
}

// Timeout returns the configured batch deadline, or zero for none. Validate
// has already checked the format.
func (c Config) Timeout() time.Duration {
	if c.Global.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Global.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// MaxDepth returns the cwd module's path depth limit.
func (c Config) MaxDepth() int {
	if m, ok := c.Modules["cwd"]; ok && m.MaxDepth != nil {
		return *m.MaxDepth
	}
	return 4
}

// GitSymbols holds the glyphs the git module decorates its segment with.
type GitSymbols struct {
	Insertion string
	Deletion  string
	Push      string
	Pull      string

	ShowDiffStats bool
	ShowUnpushed  bool
}

func (c Config) GitSymbols() GitSymbols {
	syms := GitSymbols{
		Insertion:     "+",
		Deletion:      "-",
		Push:          "⇡",
		Pull:          "⇣",
		ShowDiffStats: true,
		ShowUnpushed:  true,
	}
	m, ok := c.Modules["git"]
	if !ok {
		return syms
	}
	override(&syms.Insertion, m.SymbolInsertion)
	override(&syms.Deletion, m.SymbolDeletion)
	override(&syms.Push, m.SymbolPush)
	override(&syms.Pull, m.SymbolPull)
	if m.ShowDiffStats != nil {
		syms.ShowDiffStats = *m.ShowDiffStats
	}
	if m.ShowUnpushed != nil {
		syms.ShowUnpushed = *m.ShowUnpushed
	}
	return syms
}

// PromptOutput returns the prompt module's glyph.
func (c Config) PromptOutput() string {
	if m, ok := c.Modules["prompt"]; ok && m.Output != nil {
		return *m.Output
	}
	return "$"
}

func override(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
