// Package modules builds the configured module list into producers for the
// runner and turns their execution results back into prompt segments.
package modules

import (
	"fmt"
	"strings"

	"github.com/bepzi/contrail/config"
	"github.com/bepzi/contrail/format"
	"github.com/bepzi/contrail/producers"
	"github.com/bepzi/contrail/runner"
)

// Module pairs a producer with the logic that turns its execution result
// into one prompt segment.
type Module struct {
	Name     string
	Producer producers.Producer

	// text extracts the segment text from the module's result. Empty
	// text hides the module entirely.
	text func(res runner.Result) string
	opts config.Options
}

// FromConfig builds the ordered module list for one render. The order of
// cfg.Global.Modules is declaration order: it fixes dispatch indexes and the
// final left-to-right layout.
func FromConfig(cfg config.Config, exitCode int) ([]Module, error) {
	ms := make([]Module, 0, len(cfg.Global.Modules))
	for i, name := range cfg.Global.Modules {
		var (
			m   Module
			err error
		)
		switch name {
		case "cwd":
			m = cwdModule(cfg, i)
		case "git":
			m = gitModule(cfg, i)
		case "exit_code":
			m = exitCodeModule(cfg, i, exitCode)
		case "prompt":
			m = promptModule(cfg, i, exitCode)
		default:
			m, err = genericModule(cfg, i, name)
		}
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", name, err)
		}
		ms = append(ms, m)
	}
	return ms, nil
}

// Producers returns the dispatch list, in declaration order.
func Producers(ms []Module) []producers.Producer {
	ps := make([]producers.Producer, len(ms))
	for i, m := range ms {
		ps[i] = m.Producer
	}
	return ps
}

// Segments assembles the runner's ordered results into renderable segments.
// results must be the output of running Producers(ms): one result per module,
// same order.
func Segments(ms []Module, results []runner.Result) ([]format.Segment, error) {
	if len(results) != len(ms) {
		return nil, fmt.Errorf("got %d results for %d modules", len(results), len(ms))
	}

	segs := make([]format.Segment, len(ms))
	for i, m := range ms {
		style, err := format.StyleFor(m.opts)
		if err != nil {
			return nil, fmt.Errorf("module %q: %w", m.Name, err)
		}
		segs[i] = format.Segment{
			Name:         m.Name,
			Text:         m.text(results[i]),
			Style:        style,
			PaddingLeft:  m.opts.PaddingLeft,
			PaddingRight: m.opts.PaddingRight,
			Separator:    m.opts.Separator,
		}
	}
	return segs, nil
}

// exitedText is the common text rule for command-backed modules: the trimmed
// stdout of a clean run, nothing for degraded results.
func exitedText(res runner.Result) string {
	if res.State != runner.Exited || res.ExitCode != 0 {
		return ""
	}
	return strings.TrimRight(string(res.Stdout), "\n")
}
