// Package runner implements the concurrent execution core: a dispatcher that
// fans out every producer in a batch at once, and an aggregator that
// reassembles their results in declaration order regardless of completion
// order.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bepzi/contrail/producers"
)

// State classifies how a producer's execution concluded.
type State int8

const (
	// Exited means the producer ran to completion. ExitCode is meaningful
	// only in this state.
	Exited State = iota

	// SpawnFailed means the work could not be attempted at all, for
	// example because the child process could not be created. Err carries
	// the cause.
	SpawnFailed

	// TimedOut means the batch deadline expired before the producer
	// completed. Its slot was filled with a synthetic result.
	TimedOut
)

func (s State) String() string {
	switch s {
	case Exited:
		return "exited"
	case SpawnFailed:
		return "spawn failed"
	case TimedOut:
		return "timed out"
	default:
		return fmt.Sprintf("state(%d)", int8(s))
	}
}

// Result is the outcome of one producer's execution. Exactly one Result
// exists per producer per batch. It is created by the goroutine that ran the
// producer, handed to the aggregator, and never mutated afterward.
type Result struct {
	Index    int
	Label    string
	Command  string
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	State    State
	Err      error
	Duration time.Duration
}

// ErrDuplicateIndex reports an aggregator invariant violation: two results
// arrived for the same slot. Under the dispatch contract this cannot happen,
// so it indicates a bug; the batch aborts loudly rather than silently
// overwrite a slot and corrupt the ordering guarantee.
var ErrDuplicateIndex = errors.New("duplicate result index")

// Run executes every producer concurrently and returns their results ordered
// by declaration index: a dense slice where result i belongs to producer i.
//
// Per-producer failures are data, not errors: a non-zero exit, a spawn
// failure, or a timeout all yield a Result that says so, and the batch still
// succeeds. Run returns a non-nil error only when the producer list itself is
// malformed or an internal invariant is violated.
//
// If timeout is positive, Run returns within roughly that duration: on
// expiry, outstanding children are signaled through the context and every
// unfilled slot is synthesized with a TimedOut result, so the output is
// always complete and ordered even under partial failure. A zero timeout
// means wait indefinitely (bounded only by ctx).
func Run(ctx context.Context, ps []producers.Producer, timeout time.Duration) ([]Result, error) {
	n := len(ps)
	if n == 0 {
		return nil, nil
	}
	if err := validate(ps); err != nil {
		return nil, err
	}

	cctx, cancel := ctx, func() {}
	if timeout > 0 {
		cctx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	// Fan out, one goroutine per producer, all at once. The channel is
	// buffered to n so a straggler that finishes after the deadline can
	// still send its result and exit instead of leaking.
	results := make(chan Result, n)
	for _, p := range ps {
		p := p
		go func() { results <- produce(cctx, p) }()
	}

	// Collect. Each arrival lands at slots[Index], so the output is in
	// declaration order by construction; nothing is ever sorted.
	slots := make([]Result, n)
	filled := make([]bool, n)
	for count := 0; count < n; {
		select {
		case res := <-results:
			if res.Index < 0 || res.Index >= n {
				return nil, fmt.Errorf("result index %d out of range for %d slots (%s)", res.Index, n, res.Label)
			}
			if filled[res.Index] {
				return nil, fmt.Errorf("%w: slot %d (%s)", ErrDuplicateIndex, res.Index, res.Label)
			}
			slots[res.Index] = res
			filled[res.Index] = true
			count++

		case <-cctx.Done():
			// Deadline expired (or the caller canceled). Children
			// still running have been signaled through cctx and
			// are reaped by their own goroutines; we don't wait
			// for them. Fill the empty slots so the output stays
			// dense and ordered.
			for i, p := range ps {
				if filled[i] {
					continue
				}
				meta := p.Metadata()
				slots[i] = Result{
					Index:   i,
					Label:   meta.Label,
					Command: meta.Command,
					State:   TimedOut,
				}
			}
			return slots, nil
		}
	}
	return slots, nil
}

// produce runs one producer to completion and classifies the outcome.
func produce(ctx context.Context, p producers.Producer) Result {
	meta := p.Metadata()
	start := time.Now()
	out, err := p.Produce(ctx)

	res := Result{
		Index:    meta.Index,
		Label:    meta.Label,
		Command:  meta.Command,
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
		ExitCode: out.ExitCode,
		Duration: time.Since(start),
	}
	switch {
	case err == nil:
		res.State = Exited
	case ctx.Err() != nil:
		res.State = TimedOut
	default:
		res.State = SpawnFailed
		res.Err = err
	}
	return res
}

// validate checks the dispatch precondition: indexes are unique, zero-based,
// dense, and match declaration position.
func validate(ps []producers.Producer) error {
	for i, p := range ps {
		meta := p.Metadata()
		if meta.Index != i {
			return fmt.Errorf("malformed producer list: %q has index %d at position %d", meta.Label, meta.Index, i)
		}
	}
	return nil
}
