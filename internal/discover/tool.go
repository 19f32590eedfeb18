// Package discover locates the external binaries a launch needs.
//
// A Locator enumerates candidate paths for a ToolSpec from a fixed
// sequence of strategies; a Resolver consumes that sequence and picks the
// single authoritative path. Helper subprocesses (the system search
// utility, npm) go through the Runner interface so tests can substitute
// canned output.
package discover

import "fmt"

// Strategy identifies how a candidate was found.
type Strategy int

const (
	StrategyOverride Strategy = iota + 1
	StrategyBundled
	StrategySearchPath
	StrategyWellKnown
	StrategyPackageManager
	StrategyShim
)

func (s Strategy) String() string {
	switch s {
	case StrategyOverride:
		return "override"
	case StrategyBundled:
		return "bundled"
	case StrategySearchPath:
		return "search-path"
	case StrategyWellKnown:
		return "well-known"
	case StrategyPackageManager:
		return "package-manager"
	case StrategyShim:
		return "shim"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Acceptance is the kind of file a tool must resolve to.
type Acceptance int

const (
	// AcceptExecutable requires a native executable of the host's kind.
	AcceptExecutable Acceptance = iota
	// AcceptFile requires any existing regular file.
	AcceptFile
)

// Override is one explicit source for a tool's path.
type Override struct {
	Source string // how the user set it, e.g. "--codex-cli-path"
	Value  string
}

// VendorLayout describes where an npm package keeps per-triple binaries:
// <root>/<Package>/vendor/<triple>/<Binary>.
type VendorLayout struct {
	Package string // e.g. "@openai/codex"
	Binary  string // relative to the triple directory, e.g. "codex/codex.exe"
}

// ToolSpec declares how to discover one external binary.
type ToolSpec struct {
	Name        string // logical name: "runtime", "cli", "shell"
	Title       string // human name, e.g. "Codex CLI"
	DisplayName string // file name messages use, e.g. "codex.exe"
	Accept      Acceptance
	Strategies  []Strategy // applied in this order

	// Overrides are checked in order; the first non-blank one wins.
	Overrides []Override
	// Bundled are absolute paths of copies shipped with the launcher.
	Bundled []string
	// Commands are names handed to the system search utility.
	Commands []string
	// WellKnown are absolute install locations.
	WellKnown []string
	// Vendor enables the package-manager and shim strategies.
	Vendor *VendorLayout

	// Expected, when set, is reported as the path the tool was expected at.
	Expected string
	// Hint names the knobs that fix a failed resolution.
	Hint string
}

// Candidate is a path produced by one strategy.
type Candidate struct {
	Path     string
	Strategy Strategy
	Source   string // override source, or the helper that reported the path
}

func (c Candidate) String() string {
	if c.Source != "" {
		return fmt.Sprintf("%s (%s: %s)", c.Path, c.Strategy, c.Source)
	}
	return fmt.Sprintf("%s (%s)", c.Path, c.Strategy)
}

// ResolvedPath is the accepted absolute path for a ToolSpec.
type ResolvedPath struct {
	Path      string
	Candidate Candidate
}
