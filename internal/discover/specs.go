package discover

import (
	"path/filepath"
	"strings"

	"github.com/souhaiebtar/Codex-Windows/internal/config"
	"github.com/souhaiebtar/Codex-Windows/internal/platform"
	"github.com/souhaiebtar/Codex-Windows/internal/userconfig"
)

// CodexPackage is the npm package that ships the codex CLI.
const CodexPackage = "@openai/codex"

// Sources holds the explicit settings tool overrides are drawn from.
type Sources struct {
	CLIPathFlag string
	Env         config.Env
	Settings    *userconfig.Config // codexd.toml; nil when absent
}

func (s Sources) setting(get func(*userconfig.Config) string) string {
	if s.Settings == nil {
		return ""
	}
	return get(s.Settings)
}

// RuntimeSpec describes the bundled Electron runtime. It is only ever
// taken from the work root.
func RuntimeSpec(h platform.Host, electronExe string) ToolSpec {
	return ToolSpec{
		Name:        "runtime",
		Title:       "Electron",
		DisplayName: h.ExeName("electron"),
		Accept:      AcceptExecutable,
		Strategies:  []Strategy{StrategyBundled},
		Bundled:     []string{electronExe},
		Expected:    electronExe,
		Hint:        "Run the native-module prep step once (e.g. via codexd.ps1) to populate native-builds.",
	}
}

// CLISpec describes the codex command-line tool.
func CLISpec(h platform.Host, launcherDir string, src Sources) ToolSpec {
	exe := h.ExeName("codex")

	commands := []string{exe}
	if exe != "codex" {
		commands = append(commands, "codex")
	}

	return ToolSpec{
		Name:        "cli",
		Title:       "Codex CLI",
		DisplayName: exe,
		Accept:      AcceptExecutable,
		Strategies: []Strategy{
			StrategyOverride,
			StrategyBundled,
			StrategySearchPath,
			StrategyPackageManager,
		},
		Overrides: []Override{
			{Source: "--codex-cli-path", Value: src.CLIPathFlag},
			{Source: config.EnvCodexCLIPath, Value: src.Env.Get(config.EnvCodexCLIPath)},
			{Source: "codex_cli_path in " + config.FileName, Value: src.setting(func(c *userconfig.Config) string { return c.CodexCLIPath })},
		},
		Bundled: []string{
			filepath.Join(launcherDir, exe),
			filepath.Join(launcherDir, "cli", exe),
		},
		Commands: commands,
		Vendor:   &VendorLayout{Package: CodexPackage, Binary: "codex/" + exe},
		Hint:     "Set " + config.EnvCodexCLIPath + ", pass --codex-cli-path, or install Codex CLI so it is discoverable in PATH.",
	}
}

// ShellSpec describes the optional PowerShell exported to the app as its
// command interpreter.
func ShellSpec(h platform.Host, src Sources) ToolSpec {
	exe := h.ExeName("pwsh")

	var wellKnown []string
	for _, envName := range []string{config.EnvProgramFiles, config.EnvProgramFilesX86} {
		base := strings.TrimSpace(src.Env.Get(envName))
		if base == "" {
			continue
		}
		for _, edition := range []string{"7", "7-preview"} {
			wellKnown = append(wellKnown, filepath.Join(base, "PowerShell", edition, exe))
		}
	}

	return ToolSpec{
		Name:        "shell",
		Title:       "PowerShell",
		DisplayName: exe,
		Accept:      AcceptFile,
		Strategies: []Strategy{
			StrategyOverride,
			StrategySearchPath,
			StrategyWellKnown,
		},
		Overrides: []Override{
			{Source: config.EnvPwshPath, Value: src.Env.Get(config.EnvPwshPath)},
			{Source: "pwsh_path in " + config.FileName, Value: src.setting(func(c *userconfig.Config) string { return c.PwshPath })},
		},
		Commands:  []string{exe},
		WellKnown: wellKnown,
		Hint:      "Set " + config.EnvPwshPath + " to choose the shell the app uses.",
	}
}
