package patch

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const anchorText = `n.contextBridge.exposeInMainWorld("codexWindowType",t);n.contextBridge.exposeInMainWorld("electronBridge",r);`

// preload mimics the tail of the bundled preload script.
const preload = `"use strict";const n=require("electron");const t="electron",r={sendMessageFromView:async e=>{await n.ipcRenderer.invoke("codex_desktop:message-from-view",e)}};` + anchorText + `module.exports={};`

func writePreload(t *testing.T, content string) (appDir, path string) {
	t.Helper()
	appDir = filepath.Join(t.TempDir(), "app")
	path = PreloadPath(appDir)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return appDir, path
}

func TestApply(t *testing.T) {
	got, err := Apply(preload)
	require.NoError(t, err)
	require.Equal(t, strings.Replace(preload, anchorText, Snippet+anchorText, 1), got)

	again, err := Apply(got)
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func TestApplyAnchorIdentifiers(t *testing.T) {
	src := `n.contextBridge.exposeInMainWorld("codexWindowType",$w_1);n.contextBridge.exposeInMainWorld("electronBridge",Ab9$);`
	got, err := Apply(src)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got, Snippet))
}

func TestApplyStructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		matches int
	}{
		{"no anchor", `const n=require("electron");`, 0},
		{"anchor order reversed", `n.contextBridge.exposeInMainWorld("electronBridge",r);n.contextBridge.exposeInMainWorld("codexWindowType",t);`, 0},
		{"anchor split", strings.Replace(anchorText, ";n.", "; n.", 1), 0},
		{"two anchors", anchorText + anchorText, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(tt.src)
			var se *StructuralError
			require.ErrorAs(t, err, &se)
			require.Equal(t, tt.matches, se.Matches)
		})
	}
}

func TestPatchMissingPreload(t *testing.T) {
	changed, err := Patch(filepath.Join(t.TempDir(), "app"))
	require.NoError(t, err)
	require.False(t, changed)
}

func TestPatchIdempotent(t *testing.T) {
	appDir, path := writePreload(t, preload)

	changed, err := Patch(appDir)
	require.NoError(t, err)
	require.True(t, changed)
	once, err := os.ReadFile(path)
	require.NoError(t, err)

	changed, err = Patch(appDir)
	require.NoError(t, err)
	require.False(t, changed)
	twice, err := os.ReadFile(path)
	require.NoError(t, err)

	require.Equal(t, once, twice)
	require.Equal(t, 1, strings.Count(string(twice), Snippet))
}

func TestPatchLeavesFileOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"anchor absent", `"use strict";const n=require("electron");module.exports={};`},
		{"anchor twice", anchorText + anchorText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appDir, path := writePreload(t, tt.content)

			_, err := Patch(appDir)
			var se *StructuralError
			require.ErrorAs(t, err, &se)
			require.Equal(t, path, se.Path)
			require.Contains(t, se.Suggestion(), path)

			after, err := os.ReadFile(path)
			require.NoError(t, err)
			require.Equal(t, tt.content, string(after))
			assertNoTempFiles(t, filepath.Dir(path))
		})
	}
}

func TestPatchRejectsBrokenResult(t *testing.T) {
	// P is already a top-level const, so the snippet would redeclare it.
	content := `"use strict";const n=require("electron");const P=1,t=2,r=3;` + anchorText
	appDir, path := writePreload(t, content)

	_, err := Patch(appDir)
	var se *StructuralError
	require.ErrorAs(t, err, &se)
	require.NotNil(t, se.Cause)
	require.True(t, errors.Unwrap(err) != nil)

	after, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	require.Equal(t, content, string(after))
}

func TestPatchSkipsParseCheckForUnparsableInput(t *testing.T) {
	// syntax goja does not accept before patching: no opinion either way
	content := `#!garbage` + "\n" + anchorText + `)`
	appDir, path := writePreload(t, content)

	changed, err := Patch(appDir)
	require.NoError(t, err)
	require.True(t, changed)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(after), Snippet+anchorText)
}

func TestPatchPreservesMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not preserved on Windows")
	}
	appDir, path := writePreload(t, preload)
	require.NoError(t, os.Chmod(path, 0600))

	_, err := Patch(appDir)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
	assertNoTempFiles(t, filepath.Dir(path))
}

func TestStructuralErrorMessages(t *testing.T) {
	require.Equal(t, "preload patch point not found.", (&StructuralError{}).Error())
	require.Equal(t, "preload patch point is ambiguous (3 matches).", (&StructuralError{Matches: 3}).Error())
	require.Contains(t, (&StructuralError{Cause: errors.New("SyntaxError")}).Error(), "SyntaxError")
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temporary file left behind: %s", e.Name())
	}
}
