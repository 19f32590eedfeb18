// Package userconfig manages the optional codexd.toml settings file that
// sits next to the launcher. Values in it act as the lowest-priority
// explicit settings: command-line flags and environment variables win.
package userconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/souhaiebtar/Codex-Windows/internal/config"
)

// Config represents user-configurable settings.
type Config struct {
	// WorkDir is the work root holding app/ and native-builds/.
	WorkDir string `toml:"workdir,omitempty"`

	// CodexCLIPath pins the codex CLI binary.
	CodexCLIPath string `toml:"codex_cli_path,omitempty"`

	// PwshPath pins the shell exported to the application as COMSPEC.
	PwshPath string `toml:"pwsh_path,omitempty"`

	// LogFile appends launcher logs to this file.
	LogFile string `toml:"log_file,omitempty"`

	// HelperTimeout bounds discovery helper subprocesses ("10s", "0" for none).
	HelperTimeout string `toml:"helper_timeout,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{}
}

// Load reads the settings file of the given launcher configuration.
// Returns default values if the file doesn't exist.
// Returns an error only for file parsing issues, not missing files.
func Load(cfg *config.Config) (*Config, error) {
	return loadFromPath(cfg.ConfigFile)
}

// loadFromPath reads config from a specific file path.
func loadFromPath(path string) (*Config, error) {
	userCfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return userCfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := toml.Decode(string(data), userCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return userCfg, nil
}

// Save writes the settings file of the given launcher configuration.
func (c *Config) Save(cfg *config.Config) error {
	return c.saveToPath(cfg.ConfigFile)
}

// saveToPath writes config to a specific file path, replacing it atomically.
func (c *Config) saveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

// HelperTimeoutValue returns the parsed helper timeout and whether one is set.
func (c *Config) HelperTimeoutValue() (time.Duration, bool) {
	v := strings.TrimSpace(c.HelperTimeout)
	if v == "" {
		return 0, false
	}
	return config.ParseHelperTimeout(config.FileName+" helper_timeout", v), true
}

// Get returns the value of a config key as a string.
// Returns empty string and false if the key doesn't exist.
func (c *Config) Get(key string) (string, bool) {
	switch strings.ToLower(key) {
	case "workdir":
		return c.WorkDir, true
	case "codex_cli_path":
		return c.CodexCLIPath, true
	case "pwsh_path":
		return c.PwshPath, true
	case "log_file":
		return c.LogFile, true
	case "helper_timeout":
		return c.HelperTimeout, true
	default:
		return "", false
	}
}

// Set updates a config value from a string. An empty value clears the key.
// Returns an error if the key doesn't exist or the value is invalid.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(key) {
	case "workdir":
		c.WorkDir = value
	case "codex_cli_path":
		c.CodexCLIPath = value
	case "pwsh_path":
		c.PwshPath = value
	case "log_file":
		c.LogFile = value
	case "helper_timeout":
		if value != "" && value != "0" {
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("invalid value for helper_timeout: must be a duration like 10s or 0")
			}
		}
		c.HelperTimeout = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// AvailableKeys returns a list of all configurable keys with descriptions.
func AvailableKeys() map[string]string {
	return map[string]string{
		"workdir":        "Work root containing app/ and native-builds/",
		"codex_cli_path": "Path to codex.exe (overridden by CODEX_CLI_PATH and --codex-cli-path)",
		"pwsh_path":      "Path to pwsh.exe exported as COMSPEC (overridden by CODEX_PWSH_PATH)",
		"log_file":       "Append launcher logs to this file (overridden by CODEXD_LOG_FILE)",
		"helper_timeout": "Timeout for where.exe/npm helpers, e.g. 10s; 0 waits forever",
	}
}

// SortedKeys returns the configurable keys in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(AvailableKeys()))
	for k := range AvailableKeys() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
