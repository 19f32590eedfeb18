package discover

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/souhaiebtar/Codex-Windows/internal/platform"
)

// Runner runs a helper command and returns its standard output.
// A non-nil error means the helper could not run or exited non-zero.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// helperWaitDelay is how long a timed-out helper's output pipes may stay
// open after the helper is killed. npm.cmd runs node.exe through cmd.exe,
// and killing cmd.exe leaves node.exe holding stdout.
const helperWaitDelay = time.Second

// ExecRunner runs helpers as real subprocesses.
type ExecRunner struct {
	// Env is the helper environment; nil inherits the launcher's.
	Env []string
	// Timeout bounds each helper; zero waits indefinitely.
	Timeout time.Duration
}

// Output runs name with args and captures stdout. Stderr is discarded.
func (r *ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = r.Env
	cmd.Stdin = nil
	cmd.Stderr = io.Discard
	cmd.SysProcAttr = platform.HelperProcAttr()
	if r.Timeout > 0 {
		cmd.WaitDelay = helperWaitDelay
	}

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", name, ctx.Err())
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}
