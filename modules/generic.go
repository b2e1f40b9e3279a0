package modules

import (
	"fmt"

	"github.com/bepzi/contrail/config"
	"github.com/bepzi/contrail/producers"
	"github.com/bepzi/contrail/producers/command"
)

// genericModule builds a user-defined module from its config table: either
// fixed text (output) or a shell command whose stdout becomes the segment.
// Command modules that fail, time out, or exit non-zero are skipped.
func genericModule(cfg config.Config, index int, name string) (Module, error) {
	m, ok := cfg.Modules[name]
	if !ok {
		return Module{}, fmt.Errorf("no [modules.%s] table", name)
	}

	meta := producers.Metadata{Index: index, Label: name}
	var p producers.Producer
	switch {
	case m.Command != nil:
		meta.Command = *m.Command
		p = command.New(meta, "", nil)
	case m.Output != nil:
		p = producers.Static(meta, *m.Output)
	default:
		return Module{}, fmt.Errorf("[modules.%s] needs an output or command key", name)
	}

	return Module{
		Name:     name,
		Producer: p,
		text:     exitedText,
		opts:     cfg.OptionsFor(name),
	}, nil
}
