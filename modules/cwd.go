package modules

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bepzi/contrail/config"
	"github.com/bepzi/contrail/producers"
	"github.com/bepzi/contrail/runner"
)

// cwdModule renders the working directory, shortened for display.
func cwdModule(cfg config.Config, index int) Module {
	maxDepth := cfg.MaxDepth()
	meta := producers.Metadata{Index: index, Label: "cwd"}
	return Module{
		Name: "cwd",
		Producer: producers.Func(meta, func(context.Context) (string, error) {
			return displayPath(maxDepth), nil
		}),
		text: func(res runner.Result) string {
			if res.State != runner.Exited {
				return ""
			}
			return string(res.Stdout)
		},
		opts: cfg.OptionsFor("cwd"),
	}
}

// displayPath returns the working directory with the home prefix collapsed
// to "~" and deep paths truncated to their last maxDepth components.
func displayPath(maxDepth int) string {
	// $PWD is preferred over Getwd because the user expects to see the
	// symlinked path they cd'd through, not the resolved one.
	cwd := os.Getenv("PWD")
	if cwd == "" {
		cwd, _ = os.Getwd()
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		if cwd == home {
			cwd = "~"
		} else if rest := strings.TrimPrefix(cwd, home+string(filepath.Separator)); rest != cwd {
			cwd = "~" + string(filepath.Separator) + rest
		}
	}

	return shorten(cwd, maxDepth)
}

func shorten(path string, maxDepth int) string {
	if maxDepth <= 0 {
		return path
	}
	sep := string(filepath.Separator)

	parts := strings.Split(path, sep)
	// An absolute path splits into a leading empty component; it doesn't
	// count toward depth.
	if len(parts) > 0 && parts[0] == "" {
		parts = parts[1:]
	}
	if len(parts) <= maxDepth {
		return path
	}
	return "..." + sep + strings.Join(parts[len(parts)-maxDepth:], sep)
}
