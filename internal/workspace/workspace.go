// Package workspace derives the on-disk layout of an extracted Codex
// desktop bundle from its work root.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout is the set of paths under a work root.
type Layout struct {
	Root          string
	AppDir        string // <root>/app
	NativeDir     string // <root>/native-builds
	UserDataDir   string // <root>/userdata
	CacheDir      string // <root>/cache
	PackageJSON   string // <root>/app/package.json
	PreloadScript string // <root>/app/.vite/build/preload.js
	RendererEntry string // <root>/app/webview/index.html
	ElectronDir   string // <root>/native-builds/node_modules/electron
}

// New returns the layout rooted at root without touching the filesystem.
// root is made absolute so that paths handed to the child process do not
// depend on its working directory.
func New(root string) Layout {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	app := filepath.Join(root, "app")
	native := filepath.Join(root, "native-builds")
	return Layout{
		Root:          root,
		AppDir:        app,
		NativeDir:     native,
		UserDataDir:   filepath.Join(root, "userdata"),
		CacheDir:      filepath.Join(root, "cache"),
		PackageJSON:   filepath.Join(app, "package.json"),
		PreloadScript: filepath.Join(app, ".vite", "build", "preload.js"),
		RendererEntry: filepath.Join(app, "webview", "index.html"),
		ElectronDir:   filepath.Join(native, "node_modules", "electron"),
	}
}

// ElectronExe returns the path of the bundled runtime binary for a host
// whose executables carry exeSuffix.
func (l Layout) ElectronExe(exeSuffix string) string {
	return filepath.Join(l.ElectronDir, "dist", "electron"+exeSuffix)
}

// ElectronPackageJSON returns the package.json of the bundled runtime.
func (l Layout) ElectronPackageJSON() string {
	return filepath.Join(l.ElectronDir, "package.json")
}

// Open validates the layout rooted at root and creates its userdata and
// cache directories. The root and the app's package.json must exist.
func Open(root string) (Layout, error) {
	l := New(root)

	if info, err := os.Stat(l.Root); err != nil || !info.IsDir() {
		return Layout{}, &MissingError{Kind: KindRoot, Path: l.Root}
	}

	if err := l.EnsureDirectories(); err != nil {
		return Layout{}, err
	}

	if info, err := os.Stat(l.PackageJSON); err != nil || !info.Mode().IsRegular() {
		return Layout{}, &MissingError{Kind: KindApp, Path: l.PackageJSON, Dir: l.AppDir}
	}

	return l, nil
}

// EnsureDirectories creates userdata and cache if absent.
func (l Layout) EnsureDirectories() error {
	for _, dir := range []string{l.UserDataDir, l.CacheDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}
