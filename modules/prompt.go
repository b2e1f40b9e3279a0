package modules

import (
	"context"

	"github.com/bepzi/contrail/config"
	"github.com/bepzi/contrail/producers"
	"github.com/bepzi/contrail/runner"
)

// promptModule renders the trailing prompt glyph, green on success and red
// on error like exit_code.
func promptModule(cfg config.Config, index int, exitCode int) Module {
	glyph := cfg.PromptOutput()
	meta := producers.Metadata{Index: index, Label: "prompt"}
	return Module{
		Name: "prompt",
		Producer: producers.Func(meta, func(context.Context) (string, error) {
			return glyph, nil
		}),
		text: func(res runner.Result) string {
			if res.State != runner.Exited {
				return ""
			}
			return string(res.Stdout)
		},
		opts: cfg.StatusOptionsFor("prompt", exitCode == 0),
	}
}
