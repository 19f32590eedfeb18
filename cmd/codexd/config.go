package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/souhaiebtar/Codex-Windows/internal/userconfig"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage codexd settings",
		Long: `Manage codexd settings.

Settings are stored in codexd.toml next to codexd.exe. Command-line
flags and environment variables take precedence over them.

Examples:
  codexd config get workdir
  codexd config set codex_cli_path C:\tools\codex.exe
  codexd config list`,
	}

	configGetCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			settings, err := userconfig.Load(a.cfg)
			if err != nil {
				return err
			}

			value, ok := settings.Get(key)
			if !ok {
				fmt.Fprintf(a.stderr, "Unknown config key: %s\n", key)
				fmt.Fprintf(a.stderr, "\nAvailable keys:\n")
				a.printAvailableKeys()
				return &exitError{code: ExitUsage}
			}

			fmt.Fprintln(a.stdout, value)
			return nil
		},
	}

	configSetCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a setting",
		Long: `Set a setting. An empty value clears it.

Examples:
  codexd config set workdir D:\codex\work
  codexd config set helper_timeout 10s
  codexd config set pwsh_path ""`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			settings, err := userconfig.Load(a.cfg)
			if err != nil {
				return err
			}

			if err := settings.Set(key, value); err != nil {
				fmt.Fprintf(a.stderr, "Error: %v\n", err)
				fmt.Fprintf(a.stderr, "\nAvailable keys:\n")
				a.printAvailableKeys()
				return &exitError{code: ExitUsage}
			}

			if err := settings.Save(a.cfg); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}

			fmt.Fprintf(a.stdout, "%s = %s\n", key, value)
			return nil
		},
	}

	configListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := userconfig.Load(a.cfg)
			if err != nil {
				return err
			}
			for _, k := range userconfig.SortedKeys() {
				v, _ := settings.Get(k)
				fmt.Fprintf(a.stdout, "%s = %s\n", k, v)
			}
			return nil
		},
	}

	configCmd.AddCommand(configGetCmd, configSetCmd, configListCmd)
	return configCmd
}

func (a *app) printAvailableKeys() {
	keys := userconfig.AvailableKeys()
	for _, k := range userconfig.SortedKeys() {
		fmt.Fprintf(a.stderr, "  %s - %s\n", k, keys[k])
	}
}
