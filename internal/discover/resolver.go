package discover

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/souhaiebtar/Codex-Windows/internal/log"
)

// Resolver applies the resolution policy to a Locator's candidates.
type Resolver struct {
	locator *Locator
	logger  log.Logger
}

// NewResolver creates a Resolver over locator.
func NewResolver(locator *Locator, logger log.Logger) *Resolver {
	if logger == nil {
		logger = log.NewNoop()
	}
	return &Resolver{locator: locator, logger: logger}
}

// Resolve returns the first acceptable candidate for spec.
//
// Shims are never accepted directly. They are remembered and, once every
// other strategy is exhausted, rewritten to the vendor binary installed
// beside them, in the order they were seen. Returns *ConfigurationError
// for an invalid override and *NotFoundError when nothing is accepted.
func (r *Resolver) Resolve(ctx context.Context, spec ToolSpec) (ResolvedPath, error) {
	host := r.locator.Host()
	var shims []string

	for c, err := range r.locator.Locate(ctx, spec) {
		if err != nil {
			return ResolvedPath{}, err
		}
		if c.Strategy != StrategyOverride && host.IsShim(c.Path) {
			if isFile(c.Path) {
				shims = append(shims, c.Path)
			}
			continue
		}
		if c.Strategy == StrategyOverride || r.locator.accepts(spec, c.Path) {
			return r.accept(spec, c), nil
		}
		r.logger.Debug("candidate rejected", "tool", spec.Name, "path", c.Path, "strategy", c.Strategy.String())
	}

	if err := ctx.Err(); err != nil {
		return ResolvedPath{}, err
	}

	for _, shim := range shims {
		for _, c := range r.locator.ShimCandidates(spec, shim) {
			if r.locator.accepts(spec, c.Path) {
				return r.accept(spec, c), nil
			}
		}
		r.logger.Debug("shim has no vendor binary", "tool", spec.Name, "shim", shim)
	}

	return ResolvedPath{}, &NotFoundError{
		Tool:        spec.Name,
		DisplayName: spec.DisplayName,
		Expected:    spec.Expected,
		Hint:        spec.Hint,
	}
}

// ResolveOptional resolves a tool whose absence is not fatal. ok is false
// when nothing was found; an invalid override is still an error.
func (r *Resolver) ResolveOptional(ctx context.Context, spec ToolSpec) (ResolvedPath, bool, error) {
	rp, err := r.Resolve(ctx, spec)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return ResolvedPath{}, false, nil
		}
		return ResolvedPath{}, false, err
	}
	return rp, true, nil
}

func (r *Resolver) accept(spec ToolSpec, c Candidate) ResolvedPath {
	path := c.Path
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	r.logger.Info("resolved", "tool", spec.Name, "path", path, "strategy", c.Strategy.String())
	return ResolvedPath{Path: path, Candidate: c}
}
