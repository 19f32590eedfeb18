package userconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/souhaiebtar/Codex-Windows/internal/config"
)

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codexd.toml")

	cfg, err := loadFromPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("expected defaults when file missing, got %+v", cfg)
	}
}

func TestLoadExistingFile(t *testing.T) {
	dir := t.TempDir()
	content := `workdir = 'D:\codex\work'
codex_cli_path = 'C:\tools\codex.exe'
helper_timeout = "20s"
`
	if err := os.WriteFile(filepath.Join(dir, "codexd.toml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg, err := Load(config.ForLauncherDir(dir))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WorkDir != `D:\codex\work` {
		t.Errorf("WorkDir = %q", cfg.WorkDir)
	}
	if cfg.CodexCLIPath != `C:\tools\codex.exe` {
		t.Errorf("CodexCLIPath = %q", cfg.CodexCLIPath)
	}
	d, ok := cfg.HelperTimeoutValue()
	if !ok || d != 20*time.Second {
		t.Errorf("HelperTimeoutValue() = %v, %v", d, ok)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codexd.toml")
	if err := os.WriteFile(path, []byte("this is not valid toml [[["), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := loadFromPath(path)
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error should name the file, got %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "codexd.toml")

	cfg := &Config{PwshPath: `C:\Program Files\PowerShell\7\pwsh.exe`, LogFile: "codexd.log"}
	if err := cfg.saveToPath(path); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	loaded, err := loadFromPath(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}
}

func TestGetSet(t *testing.T) {
	cfg := DefaultConfig()
	for _, key := range SortedKeys() {
		val, ok := cfg.Get(key)
		if !ok {
			t.Errorf("Get(%q) reported unknown key", key)
		}
		if val != "" {
			t.Errorf("Get(%q) = %q, want empty default", key, val)
		}
	}

	if err := cfg.Set("CODEX_CLI_PATH", " C:\\codex.exe "); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if val, _ := cfg.Get("codex_cli_path"); val != `C:\codex.exe` {
		t.Errorf("Get(codex_cli_path) = %q", val)
	}

	if err := cfg.Set("helper_timeout", "later"); err == nil {
		t.Error("expected error for invalid helper_timeout")
	}
	if err := cfg.Set("helper_timeout", "0"); err != nil {
		t.Errorf("helper_timeout 0 should be accepted: %v", err)
	}
	if err := cfg.Set("telemetry", "true"); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, ok := cfg.Get("telemetry"); ok {
		t.Error("Get(telemetry) should report unknown key")
	}
}

func TestSortedKeys(t *testing.T) {
	keys := SortedKeys()
	if len(keys) != len(AvailableKeys()) {
		t.Fatalf("SortedKeys() returned %d keys, want %d", len(keys), len(AvailableKeys()))
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Errorf("keys not sorted: %v", keys)
		}
	}
}
