// Package launcher runs the launch pipeline: validate the work root, patch
// the preload script, read app metadata, resolve the runtime, CLI and
// shell, compose the child configuration and start it.
package launcher

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/souhaiebtar/Codex-Windows/internal/appmeta"
	"github.com/souhaiebtar/Codex-Windows/internal/config"
	"github.com/souhaiebtar/Codex-Windows/internal/discover"
	"github.com/souhaiebtar/Codex-Windows/internal/launch"
	"github.com/souhaiebtar/Codex-Windows/internal/launchenv"
	"github.com/souhaiebtar/Codex-Windows/internal/log"
	"github.com/souhaiebtar/Codex-Windows/internal/patch"
	"github.com/souhaiebtar/Codex-Windows/internal/platform"
	"github.com/souhaiebtar/Codex-Windows/internal/userconfig"
	"github.com/souhaiebtar/Codex-Windows/internal/workspace"
)

// Options configures one launch.
type Options struct {
	LauncherDir string
	WorkDir     string // work root, already chosen by WorkDir
	CLIPath     string // --codex-cli-path value
	Host        platform.Host
	Env         config.Env
	Settings    *userconfig.Config
	Runner      discover.Runner
	Starter     launch.Starter
	Logger      log.Logger
}

// Result describes a successful launch.
type Result struct {
	Layout   workspace.Layout
	Patched  bool
	Metadata *appmeta.Metadata
	Runtime  discover.ResolvedPath
	CLI      discover.ResolvedPath
	Shell    *discover.ResolvedPath // nil when no shell was found
	Config   launchenv.LaunchConfig
	PID      int
}

// WorkDir picks the work root: the flag, then workdir in codexd.toml
// (relative to the launcher), then <launcher>/work.
func WorkDir(flag string, settings *userconfig.Config, cfg *config.Config) string {
	if v := strings.TrimSpace(flag); v != "" {
		return v
	}
	if settings != nil {
		if v := strings.TrimSpace(settings.WorkDir); v != "" {
			if !filepath.IsAbs(v) {
				v = filepath.Join(cfg.LauncherDir, v)
			}
			return v
		}
	}
	return cfg.WorkDir
}

// Run performs the launch. Any error aborts it before the child starts.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	layout, err := workspace.Open(opts.WorkDir)
	if err != nil {
		return nil, err
	}
	logger.Info("work root", "path", layout.Root)

	res := &Result{Layout: layout}

	res.Patched, err = patch.Patch(layout.AppDir)
	if err != nil {
		return nil, err
	}
	if res.Patched {
		logger.Info("patched preload script", "path", layout.PreloadScript)
	}

	res.Metadata, err = appmeta.Read(layout.PackageJSON)
	if err != nil {
		return nil, err
	}
	logger.Debug("app metadata", "electron", res.Metadata.ElectronVersion,
		"build_number", res.Metadata.BuildNumber, "build_flavor", res.Metadata.BuildFlavor)

	resolver := newResolver(opts, logger)
	src := sources(opts)

	res.Runtime, err = resolver.Resolve(ctx, discover.RuntimeSpec(opts.Host, layout.ElectronExe(opts.Host.ExeSuffix())))
	if err != nil {
		return nil, err
	}
	if bundled, err := res.Metadata.CheckRuntime(layout.ElectronPackageJSON()); err != nil {
		logger.Warn("electron version check", "declared", res.Metadata.ElectronVersion, "bundled", bundled, "error", err)
	}

	res.CLI, err = resolver.Resolve(ctx, discover.CLISpec(opts.Host, opts.LauncherDir, src))
	if err != nil {
		return nil, err
	}

	shell, ok, err := resolver.ResolveOptional(ctx, discover.ShellSpec(opts.Host, src))
	if err != nil {
		return nil, err
	}
	if ok {
		res.Shell = &shell
	} else {
		logger.Debug("no shell found, child inherits the default interpreter")
	}

	res.Config = launchenv.Build(inputs(layout, res))

	res.PID, err = opts.Starter.Start(res.Config)
	if err != nil {
		return nil, err
	}
	logger.Info("started", "program", res.Config.Program, "pid", res.PID)
	return res, nil
}

func inputs(layout workspace.Layout, res *Result) launchenv.Inputs {
	in := launchenv.Inputs{
		Runtime:       res.Runtime.Path,
		CLI:           res.CLI.Path,
		AppDir:        layout.AppDir,
		UserDataDir:   layout.UserDataDir,
		CacheDir:      layout.CacheDir,
		RendererEntry: layout.RendererEntry,
		BuildNumber:   res.Metadata.BuildNumber,
		BuildFlavor:   res.Metadata.BuildFlavor,
	}
	if res.Shell != nil {
		in.Shell = res.Shell.Path
	}
	return in
}

func newResolver(opts Options, logger log.Logger) *discover.Resolver {
	locator := discover.NewLocator(opts.Host, opts.Env, opts.Runner, logger)
	return discover.NewResolver(locator, logger)
}

func sources(opts Options) discover.Sources {
	return discover.Sources{
		CLIPathFlag: opts.CLIPath,
		Env:         opts.Env,
		Settings:    opts.Settings,
	}
}
