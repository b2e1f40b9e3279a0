package modules

import (
	"context"
	"strconv"

	"github.com/bepzi/contrail/config"
	"github.com/bepzi/contrail/producers"
	"github.com/bepzi/contrail/runner"
)

// exitCodeModule renders the last command's exit code, styled by whether it
// succeeded. The code arrives via the -e flag; rendering it is pure
// computation, so this is an in-process producer.
func exitCodeModule(cfg config.Config, index int, exitCode int) Module {
	meta := producers.Metadata{Index: index, Label: "exit_code"}
	return Module{
		Name: "exit_code",
		Producer: producers.Func(meta, func(context.Context) (string, error) {
			return strconv.Itoa(exitCode), nil
		}),
		text: func(res runner.Result) string {
			if res.State != runner.Exited {
				return ""
			}
			return string(res.Stdout)
		},
		opts: cfg.StatusOptionsFor("exit_code", exitCode == 0),
	}
}
