package producers

import "context"

// Func produces a Producer from a go function, for segments that are computed
// in-process rather than by spawning a command. The function's text becomes
// the producer's stdout with exit code 0. A returned error is treated the
// same way as a command that could not be spawned: degraded, not fatal.
func Func(metadata Metadata, fn func(ctx context.Context) (string, error)) Producer {
	return funcProducer{metadata: metadata, fn: fn}
}

type funcProducer struct {
	metadata Metadata
	fn       func(ctx context.Context) (string, error)
}

var _ Producer = funcProducer{}

func (p funcProducer) Metadata() Metadata { return p.metadata }

func (p funcProducer) Produce(ctx context.Context) (Output, error) {
	text, err := p.fn(ctx)
	if err != nil {
		return Output{}, err
	}
	return Output{Stdout: []byte(text)}, nil
}

// Static produces a Producer whose output is a fixed string, for config
// modules that declare literal text instead of a command.
func Static(metadata Metadata, text string) Producer {
	return Func(metadata, func(context.Context) (string, error) {
		return text, nil
	})
}
