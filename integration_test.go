//go:build integration

package main_test

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/souhaiebtar/Codex-Windows/internal/testutil"
)

const launcherName = "codexd"

// fakeElectron records its arguments and selected environment variables.
const fakeElectron = `#!/bin/sh
{
  for a in "$@"; do printf 'arg=%s\n' "$a"; done
  printf 'env=CODEX_CLI_PATH=%s\n' "$CODEX_CLI_PATH"
  printf 'env=CODEX_BUILD_NUMBER=%s\n' "$CODEX_BUILD_NUMBER"
  printf 'env=PWD=%s\n' "$PWD"
} > "$CODEXD_IT_OUT.tmp" && mv "$CODEXD_IT_OUT.tmp" "$CODEXD_IT_OUT"
`

// findProjectRoot finds the project root directory (where go.mod is)
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find go.mod in any parent directory")
		}
		dir = parent
	}
}

// buildLauncher builds codexd into a fresh directory, which becomes the
// launcher directory holding work/ and codexd.toml.
func buildLauncher(t *testing.T) string {
	t.Helper()

	projectRoot, err := findProjectRoot()
	if err != nil {
		t.Fatalf("Failed to find project root: %v", err)
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, launcherName)
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}

	cmd := exec.Command("go", "build", "-o", bin, "./cmd/codexd")
	cmd.Dir = projectRoot
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("go build failed: %v\nStderr: %s", err, stderr.String())
	}
	return bin
}

func runLauncher(t *testing.T, bin string, env []string, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	cmd := exec.Command(bin, args...)
	cmd.Env = append(os.Environ(), env...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if ee, ok := err.(*exec.ExitError); ok {
		return outBuf.String(), errBuf.String(), ee.ExitCode()
	}
	if err != nil {
		t.Fatalf("running %s: %v", bin, err)
	}
	return outBuf.String(), errBuf.String(), 0
}

func TestLauncherVersion(t *testing.T) {
	bin := buildLauncher(t)

	stdout, _, code := runLauncher(t, bin, nil, "--version")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.HasPrefix(stdout, "codexd ") {
		t.Errorf("version output = %q", stdout)
	}
}

func TestLauncherDoctor(t *testing.T) {
	bin := buildLauncher(t)
	exe := ""
	if runtime.GOOS == "windows" {
		exe = ".exe"
	}

	ws := testutil.NewWorkspaceAt(t, filepath.Join(filepath.Dir(bin), "work"))
	ws.AddElectron(exe, "30.0.0")
	cli := testutil.WriteExecutable(t, filepath.Join(t.TempDir(), "codex"+exe))

	stdout, stderr, code := runLauncher(t, bin, []string{"CODEX_CLI_PATH=" + cli}, "doctor")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0\nstdout: %s\nstderr: %s", code, stdout, stderr)
	}
	if !strings.Contains(stdout, "Everything looks good!") {
		t.Errorf("doctor output = %q", stdout)
	}
	if _, err := os.Stat(ws.Path("userdata")); !os.IsNotExist(err) {
		t.Errorf("doctor created userdata: %v", err)
	}
}

func TestLauncherStartsApp(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("the fake runtime is a shell script")
	}
	bin := buildLauncher(t)

	ws := testutil.NewWorkspaceAt(t, filepath.Join(filepath.Dir(bin), "work"))
	ws.AddElectron("", "30.0.0")
	testutil.WriteFile(t, ws.Path("native-builds/node_modules/electron/dist/electron"), fakeElectron, 0755)
	cli := testutil.WriteExecutable(t, filepath.Join(t.TempDir(), "codex"))
	out := filepath.Join(t.TempDir(), "electron.out")

	_, stderr, code := runLauncher(t, bin,
		[]string{"CODEXD_IT_OUT=" + out, "CODEXD_VERBOSE=1"},
		"--codex-cli-path", cli)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0\nstderr: %s", code, stderr)
	}

	// The launcher does not wait for the app.
	var data []byte
	deadline := time.Now().Add(10 * time.Second)
	for {
		var err error
		if data, err = os.ReadFile(out); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("fake runtime never ran: %v", err)
		}
		time.Sleep(50 * time.Millisecond)
	}

	got := string(data)
	for _, want := range []string{
		"arg=" + ws.Path("app") + "\n",
		"arg=--user-data-dir=" + ws.Path("userdata") + "\n",
		"arg=--disk-cache-dir=" + ws.Path("cache") + "\n",
		"env=CODEX_CLI_PATH=" + cli + "\n",
		"env=CODEX_BUILD_NUMBER=510\n",
		"env=PWD=" + ws.Path("app") + "\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("runtime saw:\n%s\nwant line %q", got, want)
		}
	}
}

func TestLauncherMissingRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("errors are shown in a modal dialog on Windows")
	}
	bin := buildLauncher(t)
	missing := filepath.Join(t.TempDir(), "nowhere")

	_, stderr, code := runLauncher(t, bin, nil, "--workdir", missing)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "CodexDesktopPath not found: "+missing) {
		t.Errorf("stderr = %q", stderr)
	}
}
