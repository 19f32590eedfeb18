// Package launch starts the desktop app as a detached process.
package launch

import (
	"fmt"
	"os/exec"

	"github.com/souhaiebtar/Codex-Windows/internal/launchenv"
	"github.com/souhaiebtar/Codex-Windows/internal/platform"
)

// Starter starts a child process and returns without waiting for it.
type Starter interface {
	Start(cfg launchenv.LaunchConfig) (pid int, err error)
}

// Error reports a child process that could not be created.
type Error struct {
	Program string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Program, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Suggestion() string {
	return "Check that the file exists and is not blocked, then run the launcher again."
}

// ExecStarter starts real processes.
type ExecStarter struct {
	// Inherited is the environment the overlay is applied to.
	Inherited []string
	// Host decides how environment names compare.
	Host platform.Host
}

// Start launches cfg detached from the launcher, with no console window
// and no inherited stdio, then releases the process handle.
func (s *ExecStarter) Start(cfg launchenv.LaunchConfig) (int, error) {
	cmd := exec.Command(cfg.Program, cfg.Args...)
	cmd.Dir = cfg.Dir
	cmd.Env = cfg.Environ(s.Inherited, s.Host)
	cmd.SysProcAttr = platform.DetachedProcAttr()

	if err := cmd.Start(); err != nil {
		return 0, &Error{Program: cfg.Program, Err: err}
	}

	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return pid, &Error{Program: cfg.Program, Err: err}
	}
	return pid, nil
}
