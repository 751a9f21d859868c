// Package process runs external commands in their own process group and
// tears the whole group down when the caller's context ends.
package process

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// DefaultTailSize is how many trailing bytes of stderr are kept.
const DefaultTailSize = 4 << 10

// waitDelay bounds how long Wait blocks on pipes after a group kill.
const waitDelay = 2 * time.Second

// ErrNotFound indicates the executable is not on PATH.
var ErrNotFound = errors.New("executable not found")

// ExitError reports a command that ran and failed.
type ExitError struct {
	Name   string
	Code   int
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Name, e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// Run executes name with args and waits for it. The process is started in
// a fresh group; cancelling ctx kills the group. Stdout is discarded and the
// last tailSize bytes of stderr are returned inside an *ExitError on failure.
func Run(ctx context.Context, name string, args []string, tailSize int) error {
	if tailSize <= 0 {
		tailSize = DefaultTailSize
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	cmd := exec.CommandContext(ctx, path, args...) // #nosec G204 -- command comes from user configuration
	isolate(cmd)
	cmd.Cancel = func() error {
		KillProcessGroup(cmd.Process.Pid)
		return nil
	}
	cmd.WaitDelay = waitDelay

	stderr := &tailBuffer{max: tailSize}
	cmd.Stderr = stderr

	err = cmd.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{
			Name:   name,
			Code:   exitErr.ExitCode(),
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return fmt.Errorf("running %s: %w", name, err)
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(p)
	if n >= t.max {
		t.buf = append(t.buf[:0], p[n-t.max:]...)
		return n, nil
	}
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return n, nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
