package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/souhaiebtar/Codex-Windows/internal/platform"
)

const (
	// EnvCodexCLIPath overrides the codex CLI location. It is read by the
	// launcher and also set for the child process.
	EnvCodexCLIPath = "CODEX_CLI_PATH"

	// EnvPwshPath overrides the PowerShell location exported as COMSPEC
	EnvPwshPath = "CODEX_PWSH_PATH"

	// EnvAppData is the roaming application data directory (npm's default prefix lives there)
	EnvAppData = "APPDATA"

	// EnvProgramFiles is the 64-bit Program Files directory
	EnvProgramFiles = "ProgramFiles"

	// EnvProgramFilesX86 is the 32-bit Program Files directory
	EnvProgramFilesX86 = "ProgramFiles(x86)"

	// EnvProcessorArchitecture is the OS architecture indicator
	EnvProcessorArchitecture = "PROCESSOR_ARCHITECTURE"

	// EnvQuiet, EnvVerbose and EnvDebug select the log level when no flag is given
	EnvQuiet   = "CODEXD_QUIET"
	EnvVerbose = "CODEXD_VERBOSE"
	EnvDebug   = "CODEXD_DEBUG"

	// EnvLogFile appends launcher logs to the named file
	EnvLogFile = "CODEXD_LOG_FILE"

	// EnvHelperTimeout bounds each discovery helper subprocess (where.exe, npm)
	EnvHelperTimeout = "CODEXD_HELPER_TIMEOUT"

	// DefaultHelperTimeout disables the helper timeout. A hung helper blocks
	// startup, which is what the launcher has always done.
	DefaultHelperTimeout = time.Duration(0)

	// MaxHelperTimeout is the largest accepted helper timeout
	MaxHelperTimeout = 10 * time.Minute

	// DefaultWorkDirName is the work directory created next to the launcher
	DefaultWorkDirName = "work"

	// FileName is the optional settings file next to the launcher
	FileName = "codexd.toml"
)

// Env is an immutable snapshot of a process environment. The resolution
// pipeline reads variables from an Env passed to it rather than from the
// live process environment.
type Env struct {
	list []string
	vars map[string]string
	host platform.Host
}

// NewEnv builds a snapshot from KEY=VALUE pairs. Names are compared the
// way host compares them (case-insensitively on Windows). Later
// duplicates win.
func NewEnv(environ []string, host platform.Host) Env {
	e := Env{
		list: append([]string(nil), environ...),
		vars: make(map[string]string, len(environ)),
		host: host,
	}
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		e.vars[e.key(k)] = v
	}
	return e
}

// FromOS snapshots the current process environment.
func FromOS() Env {
	return NewEnv(os.Environ(), platform.Current(""))
}

func (e Env) key(name string) string {
	return e.host.EnvKey(name)
}

// Lookup returns the value of name and whether it is set.
func (e Env) Lookup(name string) (string, bool) {
	v, ok := e.vars[e.key(name)]
	return v, ok
}

// Get returns the value of name, or "" when unset.
func (e Env) Get(name string) string {
	return e.vars[e.key(name)]
}

// Environ returns the snapshot as KEY=VALUE pairs in their original order.
func (e Env) Environ() []string {
	return append([]string(nil), e.list...)
}

// GetHelperTimeout returns the helper subprocess timeout from CODEXD_HELPER_TIMEOUT.
// If not set or invalid, returns DefaultHelperTimeout (no timeout).
// Accepts duration strings like "10s", "1m"; "0" disables the timeout.
func GetHelperTimeout(env Env) time.Duration {
	envValue := strings.TrimSpace(env.Get(EnvHelperTimeout))
	if envValue == "" {
		return DefaultHelperTimeout
	}
	return ParseHelperTimeout(EnvHelperTimeout, envValue)
}

// ParseHelperTimeout parses a helper timeout value, clamping it to
// [0, MaxHelperTimeout]. source names the setting in warnings.
func ParseHelperTimeout(source, value string) time.Duration {
	if value == "0" {
		return 0
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s value %q, using default (no timeout)\n",
			source, value)
		return DefaultHelperTimeout
	}

	if duration < 0 {
		fmt.Fprintf(os.Stderr, "Warning: %s negative (%v), disabling timeout\n",
			source, duration)
		return 0
	}
	if duration > MaxHelperTimeout {
		fmt.Fprintf(os.Stderr, "Warning: %s too high (%v), using maximum 10m\n",
			source, duration)
		return MaxHelperTimeout
	}

	return duration
}

// Config holds the launcher's own locations.
type Config struct {
	LauncherDir string // directory holding the launcher binary
	WorkDir     string // default work root: <LauncherDir>/work
	ConfigFile  string // <LauncherDir>/codexd.toml
}

// DefaultConfig returns the configuration for the running launcher binary.
func DefaultConfig() (*Config, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate launcher executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return ForLauncherDir(filepath.Dir(exe)), nil
}

// ForLauncherDir returns the configuration for a launcher installed in dir.
func ForLauncherDir(dir string) *Config {
	return &Config{
		LauncherDir: dir,
		WorkDir:     filepath.Join(dir, DefaultWorkDirName),
		ConfigFile:  filepath.Join(dir, FileName),
	}
}
