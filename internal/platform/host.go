// Package platform describes the host the launcher runs on.
//
// Every OS-dependent decision the resolution engine makes (what counts as
// an executable, which files are npm shims, which search utility to ask,
// which vendor triples to probe) goes through a Host value instead of
// ambient runtime.GOOS checks, so that resolution can be exercised for a
// Windows host from tests running anywhere.
package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Known vendor triples used by the @openai/codex npm package.
const (
	TripleWindowsX64   = "x86_64-pc-windows-msvc"
	TripleWindowsARM64 = "aarch64-pc-windows-msvc"
	TripleLinuxX64     = "x86_64-unknown-linux-musl"
	TripleLinuxARM64   = "aarch64-unknown-linux-musl"
	TripleDarwinX64    = "x86_64-apple-darwin"
	TripleDarwinARM64  = "aarch64-apple-darwin"
)

// Host represents the platform a launch is resolved for.
type Host struct {
	// Platform is the combined os/arch string (e.g., "windows/amd64").
	Platform string

	// archIndicator is the OS-reported architecture (PROCESSOR_ARCHITECTURE
	// on Windows). It may differ from the Go arch when an x64 launcher runs
	// under emulation on ARM64.
	archIndicator string
}

// NewHost creates a Host for the given os/arch platform and architecture
// indicator.
func NewHost(platform, archIndicator string) Host {
	return Host{Platform: platform, archIndicator: archIndicator}
}

// Current returns the Host the launcher binary is running on.
// archIndicator is normally the value of PROCESSOR_ARCHITECTURE.
func Current(archIndicator string) Host {
	return NewHost(runtime.GOOS+"/"+runtime.GOARCH, archIndicator)
}

// OS returns the operating system from the Platform field.
func (h Host) OS() string {
	goos, _, _ := strings.Cut(h.Platform, "/")
	return goos
}

// Arch returns the architecture from the Platform field.
// Returns empty string if Platform has no arch component.
func (h Host) Arch() string {
	_, arch, _ := strings.Cut(h.Platform, "/")
	return arch
}

// ArchIndicator returns the OS-reported architecture string.
func (h Host) ArchIndicator() string {
	return h.archIndicator
}

// IsWindows reports whether the host is Windows.
func (h Host) IsWindows() bool {
	return h.OS() == "windows"
}

// ExeSuffix returns the file suffix of native executables (".exe" on Windows).
func (h Host) ExeSuffix() string {
	if h.IsWindows() {
		return ".exe"
	}
	return ""
}

// ExeName appends the executable suffix to a bare command name.
func (h Host) ExeName(name string) string {
	return name + h.ExeSuffix()
}

// IsExecutable reports whether path is an existing regular file of the
// host's native executable kind. On Windows that means a ".exe" extension
// (case-insensitive); elsewhere any execute permission bit.
func (h Host) IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if h.IsWindows() {
		return strings.EqualFold(filepath.Ext(path), ".exe")
	}
	return info.Mode().Perm()&0o111 != 0
}

// IsShim reports whether path names a wrapper that forwards to a real
// binary rather than being one: an extension-less npm launcher, a
// command-shell wrapper or a PowerShell script. Only Windows installs these.
func (h Host) IsShim(path string) bool {
	if !h.IsWindows() {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".cmd", ".bat", ".ps1":
		return true
	}
	return false
}

// SearchCommand returns the system executable-search utility and the
// arguments that precede the command name. The utility must print every
// match, one per line.
func (h Host) SearchCommand() (string, []string) {
	if h.IsWindows() {
		return "where.exe", nil
	}
	return "which", []string{"-a"}
}

// VendorTriples returns the vendor triples to probe, the detected one first
// and the other known triples for this OS after it.
func (h Host) VendorTriples() []string {
	var x64, arm64 string
	switch h.OS() {
	case "windows":
		x64, arm64 = TripleWindowsX64, TripleWindowsARM64
	case "darwin":
		x64, arm64 = TripleDarwinX64, TripleDarwinARM64
	default:
		x64, arm64 = TripleLinuxX64, TripleLinuxARM64
	}

	detected := x64
	if h.isARM64() {
		detected = arm64
	}

	triples := []string{detected}
	for _, t := range []string{x64, arm64} {
		if t != detected {
			triples = append(triples, t)
		}
	}
	return triples
}

func (h Host) isARM64() bool {
	if h.IsWindows() {
		return strings.EqualFold(h.ArchIndicator(), "ARM64")
	}
	return h.Arch() == "arm64"
}

// PathKey normalizes a path for comparison. Windows file systems are
// case-insensitive.
func (h Host) PathKey(path string) string {
	key := filepath.Clean(path)
	if h.IsWindows() {
		key = strings.ToLower(key)
	}
	return key
}

// SamePath reports whether two paths name the same file on this host.
func (h Host) SamePath(a, b string) bool {
	return h.PathKey(a) == h.PathKey(b)
}

// EnvKey normalizes an environment variable name for comparison.
// Windows environment names are case-insensitive.
func (h Host) EnvKey(name string) string {
	if h.IsWindows() {
		return strings.ToUpper(name)
	}
	return name
}
