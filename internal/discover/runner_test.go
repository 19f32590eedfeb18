package discover

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestHelperProcess is re-executed by the ExecRunner tests as a fake helper.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("CODEXD_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}
	switch args[0] {
	case "print":
		fmt.Fprint(os.Stdout, "C:\\npm\\codex\r\nC:\\npm\\codex.cmd\r\n")
		fmt.Fprint(os.Stderr, "noise")
		os.Exit(0)
	case "fail":
		os.Exit(2)
	case "hang":
		time.Sleep(time.Minute)
		os.Exit(0)
	case "spawn":
		// The grandchild inherits stdout and outlives this process.
		child := exec.Command(os.Args[0], "-test.run=^TestHelperProcess$", "--", "linger")
		child.Stdout = os.Stdout
		if err := child.Start(); err != nil {
			os.Exit(4)
		}
		time.Sleep(time.Minute)
		os.Exit(0)
	case "linger":
		time.Sleep(15 * time.Second)
		os.Exit(0)
	}
	os.Exit(3)
}

func helperRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{
		Env:     append(os.Environ(), "CODEXD_WANT_HELPER_PROCESS=1"),
		Timeout: timeout,
	}
}

func helperArgs(mode string) []string {
	return []string{"-test.run=^TestHelperProcess$", "--", mode}
}

func TestExecRunnerOutput(t *testing.T) {
	out, err := helperRunner(0).Output(context.Background(), os.Args[0], helperArgs("print")...)
	require.NoError(t, err)
	require.Equal(t, []string{`C:\npm\codex`, `C:\npm\codex.cmd`}, splitLines(string(out)))
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	_, err := helperRunner(0).Output(context.Background(), os.Args[0], helperArgs("fail")...)
	require.Error(t, err)
}

func TestExecRunnerMissingHelper(t *testing.T) {
	_, err := helperRunner(0).Output(context.Background(), filepath.Join(t.TempDir(), "no-such-helper"))
	require.Error(t, err)
}

func TestExecRunnerTimeout(t *testing.T) {
	start := time.Now()
	_, err := helperRunner(200*time.Millisecond).Output(context.Background(), os.Args[0], helperArgs("hang")...)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 30*time.Second)
}

func TestExecRunnerTimeoutWithGrandchildHoldingStdout(t *testing.T) {
	start := time.Now()
	_, err := helperRunner(200*time.Millisecond).Output(context.Background(), os.Args[0], helperArgs("spawn")...)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 10*time.Second)
}
