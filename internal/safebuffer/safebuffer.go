// Package safebuffer provides a concurrency-safe capture buffer with a size
// cap, used to collect child process output without buffering unboundedly.
package safebuffer

import (
	"bytes"
	"sync"
)

// DefaultLimit is the capture cap applied by New: 1MiB per stream. Bytes past
// the cap are counted but discarded, so a chatty child never blocks on a full
// pipe and never grows our memory without bound.
const DefaultLimit = 1 << 20

func New() *Buffer {
	return NewLimited(DefaultLimit)
}

func NewLimited(limit int) *Buffer {
	return &Buffer{limit: limit}
}

type Buffer struct {
	mu      sync.RWMutex
	buf     bytes.Buffer
	limit   int
	dropped int64
}

// Write always reports the full length as written, even when part of it falls
// past the cap: the writer is a child process's pipe and must keep draining.
func (sb *Buffer) Write(bs []byte) (int, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	n := len(bs)
	room := sb.limit - sb.buf.Len()
	if room <= 0 {
		sb.dropped += int64(n)
		return n, nil
	}
	if n > room {
		sb.dropped += int64(n - room)
		bs = bs[:room]
	}
	sb.buf.Write(bs)
	return n, nil
}

func (sb *Buffer) Bytes() []byte {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	out := make([]byte, sb.buf.Len())
	copy(out, sb.buf.Bytes())
	return out
}

func (sb *Buffer) String() string {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.buf.String()
}

// Truncated reports whether any bytes were discarded because the cap was hit.
func (sb *Buffer) Truncated() bool {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.dropped > 0
}
