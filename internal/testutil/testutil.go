// Package testutil builds launcher fixtures for tests: work roots,
// fake helper runners and fake process starters.
package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/souhaiebtar/Codex-Windows/internal/launchenv"
)

// DefaultPackageJSON declares the electron version fixtures bundle.
const DefaultPackageJSON = `{"name":"codex","devDependencies":{"electron":"30.0.0"}}`

// Workspace is a work root under a test's temp directory.
type Workspace struct {
	Root string
	t    testing.TB
}

// NewWorkspace creates a work root with app/package.json and the renderer
// entry. The runtime is not bundled; call AddElectron.
func NewWorkspace(t testing.TB) *Workspace {
	t.Helper()
	return NewWorkspaceAt(t, filepath.Join(t.TempDir(), "work"))
}

// NewWorkspaceAt is NewWorkspace with an explicit root.
func NewWorkspaceAt(t testing.TB, root string) *Workspace {
	t.Helper()
	w := &Workspace{Root: root, t: t}
	w.WriteFile("app/package.json", DefaultPackageJSON)
	w.WriteFile("app/webview/index.html", "<!doctype html>")
	return w
}

// Path joins slash-separated elements onto the root.
func (w *Workspace) Path(rel string) string {
	return filepath.Join(w.Root, filepath.FromSlash(rel))
}

// WriteFile writes content at rel, creating parent directories.
func (w *Workspace) WriteFile(rel, content string) string {
	w.t.Helper()
	return WriteFile(w.t, w.Path(rel), content, 0644)
}

// WritePackageJSON replaces app/package.json.
func (w *Workspace) WritePackageJSON(content string) string {
	w.t.Helper()
	return w.WriteFile("app/package.json", content)
}

// WritePreload writes app/.vite/build/preload.js.
func (w *Workspace) WritePreload(content string) string {
	w.t.Helper()
	return w.WriteFile("app/.vite/build/preload.js", content)
}

// AddElectron bundles an electron runtime reporting version, with the
// executable named electron+exeSuffix.
func (w *Workspace) AddElectron(exeSuffix, version string) string {
	w.t.Helper()
	w.WriteFile("native-builds/node_modules/electron/package.json", `{"name":"electron","version":"`+version+`"}`)
	return WriteExecutable(w.t, w.Path("native-builds/node_modules/electron/dist/electron"+exeSuffix))
}

// WriteFile writes content to path with perm, creating parent directories.
func WriteFile(t testing.TB, path, content string, perm os.FileMode) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteExecutable writes a placeholder binary with execute permission.
func WriteExecutable(t testing.TB, path string) string {
	t.Helper()
	return WriteFile(t, path, "MZ", 0755)
}

// FakeRunner returns canned helper output keyed by the command line
// ("where.exe codex.exe", "npm root -g"). Unknown commands fail as if the
// helper were missing.
type FakeRunner struct {
	mu      sync.Mutex
	Outputs map[string]string
	Calls   []string
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Outputs: make(map[string]string)}
}

// Output implements the helper runner interface.
func (f *FakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	line := strings.Join(append([]string{name}, args...), " ")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, line)
	out, ok := f.Outputs[line]
	if !ok {
		return nil, errors.New(name + ": executable file not found")
	}
	return []byte(out), nil
}

// FakeStarter records launch configurations instead of starting processes.
type FakeStarter struct {
	Started []launchenv.LaunchConfig
	Err     error
}

// Start records cfg and returns Err.
func (f *FakeStarter) Start(cfg launchenv.LaunchConfig) (int, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	f.Started = append(f.Started, cfg)
	return 4242, nil
}

// FakeNotifier records notifications.
type FakeNotifier struct {
	Titles   []string
	Messages []string
}

// Notify records the message.
func (f *FakeNotifier) Notify(title, message string) error {
	f.Titles = append(f.Titles, title)
	f.Messages = append(f.Messages, message)
	return nil
}
