package discover

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/souhaiebtar/Codex-Windows/internal/config"
	"github.com/souhaiebtar/Codex-Windows/internal/log"
	"github.com/souhaiebtar/Codex-Windows/internal/platform"
)

// Locator enumerates candidate paths for tools.
type Locator struct {
	host   platform.Host
	env    config.Env
	runner Runner
	logger log.Logger

	// npm is the package manager queried for its global root.
	npm string
}

// NewLocator creates a Locator for host reading env. Helpers run through
// runner; discovery failures are logged at DEBUG level on logger.
func NewLocator(host platform.Host, env config.Env, runner Runner, logger log.Logger) *Locator {
	if logger == nil {
		logger = log.NewNoop()
	}
	return &Locator{host: host, env: env, runner: runner, logger: logger, npm: "npm"}
}

// Host returns the host the locator resolves for.
func (l *Locator) Host() platform.Host {
	return l.host
}

// Locate returns the lazy sequence of candidates for spec, in strategy
// order. Every range re-runs discovery. A non-nil error is yielded only
// for an invalid explicit override and ends the sequence.
func (l *Locator) Locate(ctx context.Context, spec ToolSpec) iter.Seq2[Candidate, error] {
	return func(yield func(Candidate, error) bool) {
		seen := make(map[string]bool)
		emit := func(c Candidate) bool {
			key := l.host.PathKey(c.Path)
			if seen[key] {
				return true
			}
			seen[key] = true
			l.logger.Debug("candidate", "tool", spec.Name, "path", c.Path, "strategy", c.Strategy.String())
			return yield(c, nil)
		}

		for _, strategy := range spec.Strategies {
			if ctx.Err() != nil {
				return
			}
			switch strategy {
			case StrategyOverride:
				c, ok, err := l.override(spec)
				if err != nil {
					yield(Candidate{}, err)
					return
				}
				if ok {
					emit(c)
					// An explicit override bypasses every other strategy.
					return
				}
			case StrategyBundled:
				for _, p := range spec.Bundled {
					if isFile(p) && !emit(Candidate{Path: p, Strategy: StrategyBundled}) {
						return
					}
				}
			case StrategySearchPath:
				for _, name := range spec.Commands {
					for _, p := range l.search(ctx, spec.Name, name) {
						if !emit(Candidate{Path: p, Strategy: StrategySearchPath, Source: name}) {
							return
						}
					}
				}
			case StrategyWellKnown:
				for _, p := range spec.WellKnown {
					if isFile(p) && !emit(Candidate{Path: p, Strategy: StrategyWellKnown}) {
						return
					}
				}
			case StrategyPackageManager:
				if spec.Vendor == nil {
					continue
				}
				for _, root := range l.packageRoots(ctx, spec.Name) {
					for _, p := range l.vendorProbe(root, *spec.Vendor) {
						if !emit(Candidate{Path: p, Strategy: StrategyPackageManager, Source: root}) {
							return
						}
					}
				}
			}
		}
	}
}

// ShimCandidates returns the vendor binaries reachable from a shim: the
// shim's directory plus node_modules is treated as a package root.
func (l *Locator) ShimCandidates(spec ToolSpec, shim string) []Candidate {
	if spec.Vendor == nil {
		return nil
	}
	root := filepath.Join(filepath.Dir(shim), "node_modules")
	var out []Candidate
	for _, p := range l.vendorProbe(root, *spec.Vendor) {
		out = append(out, Candidate{Path: p, Strategy: StrategyShim, Source: shim})
	}
	return out
}

// override returns the first non-blank override. It is an error for that
// override not to name an acceptable file.
func (l *Locator) override(spec ToolSpec) (Candidate, bool, error) {
	for _, o := range spec.Overrides {
		value := strings.TrimSpace(o.Value)
		if value == "" {
			continue
		}
		if !l.accepts(spec, value) {
			return Candidate{}, false, &ConfigurationError{
				Tool:   spec.Name,
				Title:  spec.Title,
				Source: o.Source,
				Path:   value,
			}
		}
		return Candidate{Path: value, Strategy: StrategyOverride, Source: o.Source}, true, nil
	}
	return Candidate{}, false, nil
}

// search asks the system search utility for every match of name.
func (l *Locator) search(ctx context.Context, tool, name string) []string {
	cmd, args := l.host.SearchCommand()
	out, err := l.runner.Output(ctx, cmd, append(append([]string(nil), args...), name)...)
	if err != nil {
		l.logger.Debug("search helper failed", "tool", tool, "command", cmd, "name", name, "error", err)
		return nil
	}
	return splitLines(string(out))
}

// packageRoots returns npm global module roots: the conventional location
// under the roaming profile first, then whatever npm reports.
func (l *Locator) packageRoots(ctx context.Context, tool string) []string {
	var roots []string
	if appData := strings.TrimSpace(l.env.Get(config.EnvAppData)); appData != "" {
		roots = append(roots, filepath.Join(appData, "npm", "node_modules"))
	}

	out, err := l.runner.Output(ctx, l.npm, "root", "-g")
	if err != nil {
		l.logger.Debug("package manager helper failed", "tool", tool, "command", l.npm, "error", err)
		return roots
	}
	if root := strings.TrimSpace(string(out)); root != "" {
		roots = append(roots, root)
	}
	return roots
}

// vendorProbe returns the existing per-triple binaries under a package
// root, detected triple first.
func (l *Locator) vendorProbe(root string, layout VendorLayout) []string {
	vendor := filepath.Join(root, filepath.FromSlash(layout.Package), "vendor")
	if info, err := os.Stat(vendor); err != nil || !info.IsDir() {
		return nil
	}

	var out []string
	for _, triple := range l.host.VendorTriples() {
		p := filepath.Join(vendor, triple, filepath.FromSlash(layout.Binary))
		if isFile(p) {
			out = append(out, p)
		}
	}
	return out
}

func (l *Locator) accepts(spec ToolSpec, path string) bool {
	if spec.Accept == AcceptFile {
		return isFile(path)
	}
	return l.host.IsExecutable(path)
}

// splitLines splits helper output on CRLF or LF, trimming entries and
// dropping blanks.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
