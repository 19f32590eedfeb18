// Package launchenv composes the command line and environment the desktop
// app is started with.
package launchenv

import (
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	"github.com/souhaiebtar/Codex-Windows/internal/platform"
)

// Variables set for the child process.
const (
	EnvRendererURL   = "ELECTRON_RENDERER_URL"
	EnvForcePackaged = "ELECTRON_FORCE_IS_PACKAGED"
	EnvBuildNumber   = "CODEX_BUILD_NUMBER"
	EnvBuildFlavor   = "CODEX_BUILD_FLAVOR"
	EnvLegacyFlavor  = "BUILD_FLAVOR"
	EnvNodeEnv       = "NODE_ENV"
	EnvCLIPath       = "CODEX_CLI_PATH"
	EnvPWD           = "PWD"
	EnvCommandShell  = "COMSPEC"
)

// Build metadata used when package.json leaves a field out or blank.
const (
	DefaultBuildNumber = "510"
	DefaultBuildFlavor = "prod"
)

// Inputs are the resolved facts a launch is built from.
type Inputs struct {
	Runtime       string // resolved electron binary
	CLI           string // resolved codex CLI
	Shell         string // resolved shell; empty leaves the inherited one
	AppDir        string
	UserDataDir   string
	CacheDir      string
	RendererEntry string // app/webview/index.html
	BuildNumber   string
	BuildFlavor   string
}

// LaunchConfig is everything needed to start the child process.
type LaunchConfig struct {
	Program string
	Dir     string
	Args    []string          // arguments after the program
	Env     map[string]string // overlay on the inherited environment
}

// Build composes the launch configuration. Blank build metadata falls back
// to DefaultBuildNumber and DefaultBuildFlavor.
func Build(in Inputs) LaunchConfig {
	buildNumber := orDefault(in.BuildNumber, DefaultBuildNumber)
	buildFlavor := orDefault(in.BuildFlavor, DefaultBuildFlavor)

	env := map[string]string{
		EnvRendererURL:   FileURL(in.RendererEntry),
		EnvForcePackaged: "1",
		EnvBuildNumber:   buildNumber,
		EnvBuildFlavor:   buildFlavor,
		EnvLegacyFlavor:  buildFlavor,
		EnvNodeEnv:       "production",
		EnvCLIPath:       in.CLI,
		EnvPWD:           in.AppDir,
	}
	if in.Shell != "" {
		env[EnvCommandShell] = in.Shell
	}

	return LaunchConfig{
		Program: in.Runtime,
		Dir:     in.AppDir,
		Args: []string{
			in.AppDir,
			"--user-data-dir=" + in.UserDataDir,
			"--disk-cache-dir=" + in.CacheDir,
		},
		Env: env,
	}
}

// Environ returns inherited with the overlay applied: overlay keys replace
// inherited entries in place and new keys are appended in sorted order.
// Keys are compared the way host compares environment names.
func (c LaunchConfig) Environ(inherited []string, host platform.Host) []string {
	norm := host.EnvKey

	overlay := make(map[string]string, len(c.Env))
	for k := range c.Env {
		overlay[norm(k)] = k
	}

	out := make([]string, 0, len(inherited)+len(c.Env))
	applied := make(map[string]bool, len(c.Env))
	for _, kv := range inherited {
		k, _, ok := strings.Cut(kv, "=")
		if !ok {
			out = append(out, kv)
			continue
		}
		name, hit := overlay[norm(k)]
		if !hit {
			out = append(out, kv)
			continue
		}
		if applied[name] {
			continue
		}
		applied[name] = true
		out = append(out, name+"="+c.Env[name])
	}

	var rest []string
	for name := range c.Env {
		if !applied[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		out = append(out, name+"="+c.Env[name])
	}
	return out
}

// FileURL returns the file URL of an absolute path: C:\a b\x.html becomes
// file:///C:/a%20b/x.html.
func FileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
