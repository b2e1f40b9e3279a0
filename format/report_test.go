package format_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bepzi/contrail/format"
	"github.com/bepzi/contrail/runner"
	"github.com/stretchr/testify/assert"
)

func TestReport(t *testing.T) {
	results := []runner.Result{
		{
			Index:    0,
			Label:    "uptime",
			Command:  "uptime",
			Stdout:   []byte("up 3 days\n"),
			State:    runner.Exited,
			Duration: 12 * time.Millisecond,
		},
		{
			Index:    1,
			Label:    "disk",
			Command:  "df -h /",
			Stdout:   []byte("filesystem stuff\n"),
			Stderr:   []byte("warning: slow\n"),
			ExitCode: 2,
			State:    runner.Exited,
			Duration: 30 * time.Millisecond,
		},
		{
			Index:   2,
			Label:   "bad",
			Command: "frobnicate",
			State:   runner.SpawnFailed,
			Err:     errors.New("no shell"),
		},
		{
			Index:   3,
			Label:   "slow",
			Command: "sleep 99",
			State:   runner.TimedOut,
		},
	}

	out := format.Report(results, 0, false)

	// Headers are numbered by declaration position, one-based.
	assert.Contains(t, out, "#1) `uptime`")
	assert.Contains(t, out, "#2) `df -h /`")
	assert.Contains(t, out, "#3) `frobnicate`")
	assert.Contains(t, out, "#4) `sleep 99`")
	assert.Less(t, strings.Index(out, "#1)"), strings.Index(out, "#2)"))
	assert.Less(t, strings.Index(out, "#3)"), strings.Index(out, "#4)"))

	// Outcome annotations.
	assert.Contains(t, out, "(12ms)")
	assert.Contains(t, out, "(exit 2, 30ms)")
	assert.Contains(t, out, "(spawn failed: no shell)")
	assert.Contains(t, out, "(timed out)")

	// Captured output is indented beneath its header; stderr follows
	// stdout.
	assert.Contains(t, out, "    up 3 days")
	assert.Contains(t, out, "    filesystem stuff\n    warning: slow")

	// Plain mode carries no escape codes.
	assert.NotContains(t, out, "\x1b[")
}

func TestReportWrapsToWidth(t *testing.T) {
	results := []runner.Result{
		{
			Index:   0,
			Command: "yes",
			Stdout:  []byte(strings.Repeat("word ", 40)),
			State:   runner.Exited,
		},
	}

	out := format.Report(results, 40, false)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), 40, "line %q", line)
	}
}

func TestReportEmpty(t *testing.T) {
	assert.Empty(t, format.Report(nil, 0, false))
}
