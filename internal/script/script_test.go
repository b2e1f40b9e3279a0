package script_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bepzi/contrail/internal/safebuffer"
	"github.com/bepzi/contrail/internal/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeparateStdoutStderr(t *testing.T) {
	var (
		s      = script.New(".", nil, "echo hello ; echo world >&2")
		stdout = safebuffer.New()
		stderr = safebuffer.New()
	)

	code, err := s.Start(context.Background(), stdout, stderr)

	assert.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello\n", stdout.String())
	assert.Equal(t, "world\n", stderr.String())
}

func TestFastExitCapturesAllOutput(t *testing.T) {
	// A child that writes and exits immediately must not race the capture:
	// every byte has to be in the buffers by the time Start returns.
	for i := 0; i < 20; i++ {
		var (
			s      = script.New(".", nil, "echo token-final")
			stdout = safebuffer.New()
			stderr = safebuffer.New()
		)

		code, err := s.Start(context.Background(), stdout, stderr)

		require.NoError(t, err)
		require.Equal(t, 0, code)
		require.Equal(t, "token-final\n", stdout.String())
		require.Empty(t, stderr.String())
	}
}

func TestNonZeroExitIsNotAnError(t *testing.T) {
	var (
		s      = script.New(".", nil, "echo partial ; exit 3")
		stdout = safebuffer.New()
		stderr = safebuffer.New()
	)

	code, err := s.Start(context.Background(), stdout, stderr)

	assert.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Equal(t, "partial\n", stdout.String())
}

func TestEmptyScriptIsNoop(t *testing.T) {
	var (
		s      = script.New(".", nil, "")
		stdout = safebuffer.New()
		stderr = safebuffer.New()
	)

	start := time.Now()
	code, err := s.Start(context.Background(), stdout, stderr)

	assert.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout.String())
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestEnv(t *testing.T) {
	var (
		s      = script.New(".", map[string]string{"CONTRAIL_TEST_VALUE": "abc"}, "echo $CONTRAIL_TEST_VALUE")
		stdout = safebuffer.New()
		stderr = safebuffer.New()
	)

	code, err := s.Start(context.Background(), stdout, stderr)

	assert.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "abc\n", stdout.String())
}

func TestDir(t *testing.T) {
	var (
		dir    = t.TempDir()
		s      = script.New(dir, nil, "pwd")
		stdout = safebuffer.New()
		stderr = safebuffer.New()
	)

	code, err := s.Start(context.Background(), stdout, stderr)

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	// The tempdir may be reached through a symlink, so compare suffixes.
	assert.True(t, strings.HasSuffix(strings.TrimSpace(stdout.String()), strings.TrimPrefix(dir, "/private")))
}

func TestCancel(t *testing.T) {
	var (
		s      = script.New(".", nil, "sleep 10")
		stdout = safebuffer.New()
		stderr = safebuffer.New()
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := s.Start(ctx, stdout, stderr)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	// SIGINT should take the sleep down well within the SIGKILL grace.
	assert.Less(t, time.Since(start), 3*time.Second)
}
