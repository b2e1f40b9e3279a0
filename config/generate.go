package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const exampleConfig = `# contrail configuration
#
# Colors are the 16 ANSI names ("red", "bright_blue", ...), a 256-color
# index (0-255), or "#RRGGBB". Styles are default, bold, faint, italic,
# underline, blink, reverse, or strikethrough.

[global]
# Modules render left-to-right in this order. Builtins: cwd, git,
# exit_code, prompt. Any other name needs its own [modules.<name>] table
# with an "output" or "command" key.
modules = ["cwd", "git", "exit_code", "prompt"]
foreground = "bright_white"
background = "blue"
style = "default"
separator = ""
padding_left = " "
padding_right = " "
# Bound the whole render. Slow modules past the deadline are dropped.
# timeout = "500ms"

[modules.cwd]
max_depth = 4

[modules.git]
background = "bright_black"
symbol_insertion = "+"
symbol_deletion = "-"
symbol_push = "⇡"
symbol_pull = "⇣"
show_diff_stats = true
show_unpushed = true

[modules.exit_code]
style_success = { background = "green" }
style_error = { background = "red" }

[modules.prompt]
output = "$"
style_success = { background = "green" }
style_error = { background = "red" }

# A user-defined module running a command:
# [modules.kube]
# command = "kubectl config current-context"
# background = "purple"
`

// Generate writes the commented example config to path, creating parent
// directories as needed, and returns the path written. It refuses to
// overwrite an existing file.
func Generate(path string) (string, error) {
	if path == "" {
		path = DefaultPath()
		if path == "" {
			return "", fmt.Errorf("cannot determine config path; pass one with -c")
		}
	}

	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists; refusing to overwrite", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(exampleConfig), 0o644); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return path, nil
}
