package producers

import (
	"context"
)

// A Producer is one named unit of work contributing one segment of the final
// output. Producers are dispatched concurrently by the runner and must not
// share mutable state with each other.
type Producer interface {
	Metadata() Metadata
	Produce(ctx context.Context) (Output, error)
}

// Metadata describes the facts about a producer that the runner uses for
// dispatch and ordered reassembly.
type Metadata struct {
	// Index is the producer's position in the caller's declaration order.
	// Indexes within one batch must be unique, zero-based, and dense: the
	// runner places each result at slot[Index] and never sorts.
	Index int

	// Label is the human-readable name used in output headers.
	Label string

	// Command is the shell command line the producer runs, if any. It is
	// informational for in-process producers, which leave it empty.
	Command string
}

// Output is what one producer yields: captured byte streams plus the exit
// status of the underlying process. In-process producers report their text on
// Stdout with exit code 0.
//
// Produce returns a non-nil error only when the work could not be attempted
// at all (for example, the child process could not be spawned). A process
// that runs and exits non-zero is not an error here: the exit code and
// captured output are data, and their interpretation belongs to the caller.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}
