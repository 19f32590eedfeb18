// Package patch applies the one-time edit the desktop app's preload script
// needs: exposing a read-only view of the Node process object to the
// renderer. The edit is idempotent and applied atomically.
package patch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dop251/goja"
)

// Snippet is the statement inserted into the preload script.
const Snippet = `const P={env:process.env,platform:process.platform,versions:process.versions,arch:process.arch,cwd:()=>process.env.PWD,argv:process.argv,pid:process.pid};n.contextBridge.exposeInMainWorld("process",P);`

// anchor matches the two adjacent bridge exposures the snippet goes in
// front of. It must match exactly once.
var anchor = regexp.MustCompile(`n\.contextBridge\.exposeInMainWorld\("codexWindowType",[A-Za-z0-9_$]+\);n\.contextBridge\.exposeInMainWorld\("electronBridge",[A-Za-z0-9_$]+\);`)

// PreloadPath returns the preload script of the app in appDir.
func PreloadPath(appDir string) string {
	return filepath.Join(appDir, ".vite", "build", "preload.js")
}

// Patch patches the preload script of the app in appDir. It reports
// whether the file was changed. A missing script is not an error.
func Patch(appDir string) (bool, error) {
	return File(PreloadPath(appDir))
}

// File patches the script at path. See Patch.
func File(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	raw := string(data)

	if strings.Contains(raw, Snippet) {
		return false, nil
	}

	patched, err := Apply(raw)
	if err != nil {
		var se *StructuralError
		if errors.As(err, &se) {
			se.Path = path
		}
		return false, err
	}

	if err := checkParses(path, raw, patched); err != nil {
		return false, err
	}

	if err := writeAtomic(path, []byte(patched), info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

// Apply returns src with Snippet inserted before the anchor. Text that
// already contains Snippet is returned unchanged.
func Apply(src string) (string, error) {
	if strings.Contains(src, Snippet) {
		return src, nil
	}

	matches := anchor.FindAllStringIndex(src, -1)
	if len(matches) != 1 {
		return "", &StructuralError{Matches: len(matches)}
	}

	at := matches[0][0]
	return src[:at] + Snippet + src[at:], nil
}

// checkParses rejects a patch that turns a script goja can compile into
// one it cannot. Scripts that did not compile to begin with are not
// checked.
func checkParses(path, before, after string) error {
	if _, err := goja.Compile(path, before, false); err != nil {
		return nil
	}
	if _, err := goja.Compile(path, after, false); err != nil {
		return &StructuralError{Path: path, Matches: 1, Cause: err}
	}
	return nil
}

// writeAtomic replaces path with data via a synced temp file in the same
// directory.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".preload-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	success = true
	return nil
}
