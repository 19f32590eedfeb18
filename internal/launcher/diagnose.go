package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/souhaiebtar/Codex-Windows/internal/appmeta"
	"github.com/souhaiebtar/Codex-Windows/internal/discover"
	"github.com/souhaiebtar/Codex-Windows/internal/log"
	"github.com/souhaiebtar/Codex-Windows/internal/patch"
	"github.com/souhaiebtar/Codex-Windows/internal/platform"
	"github.com/souhaiebtar/Codex-Windows/internal/workspace"
)

// Check is one line of a diagnosis.
type Check struct {
	Name   string
	Detail string
	Err    error
	Warn   bool // a failure is reported but does not prevent launching
}

// OK reports whether the check passed.
func (c Check) OK() bool {
	return c.Err == nil
}

// Diagnose inspects what a launch with opts would use without patching,
// creating directories or starting anything.
func Diagnose(ctx context.Context, opts Options) []Check {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	layout := workspace.New(opts.WorkDir)
	var checks []Check

	rootCheck := Check{Name: "work root", Detail: layout.Root}
	if info, err := os.Stat(layout.Root); err != nil || !info.IsDir() {
		rootCheck.Err = &workspace.MissingError{Kind: workspace.KindRoot, Path: layout.Root}
	}
	checks = append(checks, rootCheck)

	metaCheck := Check{Name: "app metadata", Detail: layout.PackageJSON}
	meta, err := appmeta.Read(layout.PackageJSON)
	if err != nil {
		metaCheck.Err = err
	} else {
		metaCheck.Detail = fmt.Sprintf("%s (electron %s)", layout.PackageJSON, meta.ElectronVersion)
	}
	checks = append(checks, metaCheck)

	checks = append(checks, preloadCheck(layout))

	resolver := newResolver(opts, logger)
	src := sources(opts)

	runtimeCheck := toolCheck(ctx, resolver, opts.Host, discover.RuntimeSpec(opts.Host, layout.ElectronExe(opts.Host.ExeSuffix())), false)
	checks = append(checks, runtimeCheck)
	if meta != nil && runtimeCheck.OK() {
		c := Check{Name: "electron version", Warn: true}
		c.Detail, c.Err = meta.CheckRuntime(layout.ElectronPackageJSON())
		checks = append(checks, c)
	}

	checks = append(checks,
		toolCheck(ctx, resolver, opts.Host, discover.CLISpec(opts.Host, opts.LauncherDir, src), false),
		toolCheck(ctx, resolver, opts.Host, discover.ShellSpec(opts.Host, src), true),
	)
	return checks
}

func preloadCheck(layout workspace.Layout) Check {
	c := Check{Name: "preload patch", Detail: layout.PreloadScript}
	data, err := os.ReadFile(layout.PreloadScript)
	if os.IsNotExist(err) {
		c.Detail = "no preload script"
		return c
	}
	if err != nil {
		c.Err = err
		return c
	}
	// Apply leaves already patched text unchanged.
	if _, err := patch.Apply(string(data)); err != nil {
		c.Err = err
	}
	return c
}

func toolCheck(ctx context.Context, r *discover.Resolver, host platform.Host, spec discover.ToolSpec, optional bool) Check {
	c := Check{Name: spec.Name}
	rp, err := r.Resolve(ctx, spec)
	var notFound *discover.NotFoundError
	if optional && errors.As(err, &notFound) {
		c.Detail = "not found, the app keeps its default"
		return c
	}
	if err != nil {
		c.Err = err
		return c
	}
	c.Detail = rp.Candidate.String()
	if !host.SamePath(rp.Path, rp.Candidate.Path) {
		c.Detail = fmt.Sprintf("%s -> %s", rp.Candidate.String(), rp.Path)
	}
	return c
}
