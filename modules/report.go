package modules

import (
	"github.com/bepzi/contrail/config"
	"github.com/bepzi/contrail/producers"
	"github.com/bepzi/contrail/producers/command"
)

// Commands returns producers for every command-backed module in declaration
// order, renumbered densely for a report batch. In-process modules have no
// command to report on and are skipped.
func Commands(cfg config.Config) []producers.Producer {
	var ps []producers.Producer
	for _, name := range cfg.Global.Modules {
		var cmd string
		switch name {
		case "git":
			cmd = gitStatusCommand
		case "cwd", "exit_code", "prompt":
			continue
		default:
			m := cfg.Modules[name]
			if m.Command == nil {
				continue
			}
			cmd = *m.Command
		}
		meta := producers.Metadata{Index: len(ps), Label: name, Command: cmd}
		ps = append(ps, command.New(meta, "", nil))
	}
	return ps
}
