package script

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/bepzi/contrail/internal/mutex"
)

// Script is a wrapper around exec.Cmd, offering a focused API and robust
// cancelation.
type Script struct {
	Dir  string
	Env  map[string]string
	Text string
}

// New creates a new Script with the given working directory, environment, and
// text. Scripts do nothing until they are started, and can be started many
// times concurrently. If dir is the empty string, the script is run in the
// current working directory. Env is appended to the current environment.
// Script is evaluated in a new bash process. Effectively, it is equivalent to
//
//	$ cd $DIR ; $ENV bash -c "$TEXT"
func New(dir string, env map[string]string, text string) Script {
	return Script{
		Dir:  dir,
		Env:  env,
		Text: text,
	}
}

// ErrSpawn wraps any failure to create the child process at all, as distinct
// from a process that started and then exited non-zero.
var ErrSpawn = errors.New("spawn failed")

// Start executes the script and does not return until it is done executing,
// writing the child's output streams to stdout and stderr as they arrive.
// Both streams are fully flushed by the time Start returns. The
// returned code is the child's exit status, reported verbatim: a non-zero
// exit is not an error from Start's point of view.
//
// An empty script is a no-op: exit 0, no output, no process spawned.
//
// Start returns a non-nil error in exactly two cases: the process could not
// be spawned (the error wraps ErrSpawn), or ctx was canceled before the
// script completed (the error wraps ctx.Err()). When canceled, we first send
// SIGINT to the script's process group, then if it doesn't exit within 2
// seconds, we send SIGKILL.
func (s Script) Start(ctx context.Context, stdout, stderr io.Writer) (int, error) {
	if s.Text == "" {
		return 0, nil
	}
	return (&execution{
		script: s,

		cmd:   nil,
		cmdMu: mutex.New("script"),

		stdout: stdout,
		stderr: stderr,
	}).run(ctx)
}

type execution struct {
	script Script

	cmd   *exec.Cmd
	cmdMu *mutex.Mutex

	stdout io.Writer
	stderr io.Writer
}

func (x *execution) run(ctx context.Context) (int, error) {
	if err := x.startCmd(); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrSpawn, err)
	}
	defer x.cleanup()

	// Wait for either exit or cancel. Exit comes from cmd.Wait, which closes
	// our ends of the stdout/stderr pipes and drains their copiers, so once
	// it delivers the captured output is complete.
	exit := x.wait()
	select {
	case code := <-exit:
		return code, nil

	case <-ctx.Done():
	}
	// -- CONTEXT CANCELED ------------------------------------------------
	// Kill the script.

	errs := []error{ctx.Err()}

	// Try to SIGINT the pgroup.
	if err := x.sigint(); err != nil {
		errs = append(errs, err)
	}

	// Give it 2 seconds to die gracefully after the SIGINT.
	select {
	case <-exit:
		return 0, errors.Join(errs...)
	case <-time.After(2 * time.Second):
	}

	// It's still alive. Resort to SIGKILL, then reap it.
	if err := x.sigkill(); err != nil {
		errs = append(errs, err)
	}
	<-exit

	return 0, errors.Join(errs...)
}

var findBash sync.Once
var errFindingBash error
var bash = ""

func (x *execution) startCmd() error {
	defer x.cmdMu.Lock("startCmd").Unlock()

	if findBash.Do(func() {
		var b bytes.Buffer
		whichBash := exec.Command("/bin/sh", "-c", "which bash")
		whichBash.Stdout = &b
		if errFindingBash = whichBash.Run(); errFindingBash != nil {
			return
		}
		bash = strings.TrimSpace(b.String())
	}); errFindingBash != nil {
		return errFindingBash
	}

	var env []string
	for k, v := range x.script.Env {
		env = append(env, fmt.Sprintf(`%s=%s`, k, v))
	}

	x.cmd = exec.Command(bash, "-c", x.script.Text)
	x.cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	x.cmd.Dir = x.script.Dir
	x.cmd.Stdout = x.stdout
	x.cmd.Stderr = x.stderr
	x.cmd.Env = append(os.Environ(), env...)

	if err := x.cmd.Start(); err != nil {
		return err
	}
	return nil
}

func (x *execution) wait() <-chan int {
	cmd := x.cmd

	// Buffered so the send never blocks, whichever branch of run receives.
	exit := make(chan int, 1)
	go func() {
		err := cmd.Wait()

		var exitErr *exec.ExitError
		switch {
		case err == nil:
			exit <- 0
		case errors.As(err, &exitErr):
			exit <- exitErr.ExitCode()
		default:
			exit <- -1
		}
	}()
	return exit
}

func (x *execution) sigint() error {
	defer x.cmdMu.Lock("sigint").Unlock()

	if x.cmd == nil {
		return nil
	}
	if err := syscall.Kill(-x.cmd.Process.Pid, syscall.SIGINT); err != nil && !strings.Contains(err.Error(), "no such process") {
		return fmt.Errorf("sigint error: %w", err)
	}
	return nil
}

func (x *execution) sigkill() error {
	defer x.cmdMu.Lock("sigkill").Unlock()

	if x.cmd == nil {
		return nil
	}
	if err := syscall.Kill(-x.cmd.Process.Pid, syscall.SIGKILL); err != nil && !strings.Contains(err.Error(), "no such process") {
		return fmt.Errorf("sigkill error: %w", err)
	}
	return nil
}

func (x *execution) cleanup() {
	defer x.cmdMu.Lock("cleanup").Unlock()

	x.cmd = nil
}
