// Package command adapts a shell command line to the producer contract: one
// child process per Produce call, output captured in full (up to the capture
// cap) and exit status reported as data.
package command

import (
	"context"

	"github.com/bepzi/contrail/internal/safebuffer"
	"github.com/bepzi/contrail/internal/script"
	"github.com/bepzi/contrail/producers"
)

type Producer struct {
	metadata producers.Metadata
	script   script.Script
}

// New creates a command producer that runs metadata.Command in dir via the
// host shell. If dir is the empty string the command runs in the current
// working directory. Env is appended to the current environment.
func New(metadata producers.Metadata, dir string, env map[string]string) Producer {
	return Producer{
		metadata: metadata,
		script:   script.New(dir, env, metadata.Command),
	}
}

var _ producers.Producer = Producer{}

func (p Producer) Metadata() producers.Metadata { return p.metadata }

// Produce implements [producers.Producer]. It executes the command and blocks
// until it exits or ctx is canceled. Each invocation owns its capture buffers
// exclusively; nothing is shared with sibling producers.
func (p Producer) Produce(ctx context.Context) (producers.Output, error) {
	var (
		stdout = safebuffer.New()
		stderr = safebuffer.New()
	)

	code, err := p.script.Start(ctx, stdout, stderr)
	if err != nil {
		return producers.Output{}, err
	}

	return producers.Output{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: code,
	}, nil
}
