package safebuffer_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/bepzi/contrail/internal/safebuffer"
	"github.com/stretchr/testify/assert"
)

func TestWriteUnderCap(t *testing.T) {
	sb := safebuffer.NewLimited(64)

	n, err := sb.Write([]byte("hello"))

	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", sb.String())
	assert.False(t, sb.Truncated())
}

func TestWritePastCapIsDiscarded(t *testing.T) {
	sb := safebuffer.NewLimited(8)

	n, err := sb.Write([]byte("0123456789abcdef"))

	assert.NoError(t, err)
	assert.Equal(t, 16, n, "the writer must keep draining even past the cap")
	assert.Equal(t, "01234567", sb.String())
	assert.True(t, sb.Truncated())

	n, err = sb.Write([]byte("more"))
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "01234567", sb.String())
}

func TestBytesIsACopy(t *testing.T) {
	sb := safebuffer.NewLimited(64)
	sb.Write([]byte("abc"))

	bs := sb.Bytes()
	bs[0] = 'x'

	assert.Equal(t, "abc", sb.String())
}

func TestConcurrentWrites(t *testing.T) {
	sb := safebuffer.NewLimited(1 << 16)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sb.Write([]byte("chunk."))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 16*100*len("chunk."), len(sb.String()))
	assert.Equal(t, 16*100, strings.Count(sb.String(), "chunk."))
}
