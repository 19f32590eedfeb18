package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/souhaiebtar/Codex-Windows/internal/errmsg"
	"github.com/souhaiebtar/Codex-Windows/internal/launcher"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the app can be started",
		Long: `Check that the work root, the app metadata, the preload script,
the Electron runtime and the codex CLI are all in place.

Nothing is patched, created or started.

Exit codes:
  0  Everything needed to start the app was found
  1  One or more checks failed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}

			out := a.stdout
			fmt.Fprintln(out, "Checking Codex launch environment...")
			fmt.Fprintln(out)

			failed := false
			for _, c := range launcher.Diagnose(cmd.Context(), opts) {
				status := "ok"
				switch {
				case !c.OK() && c.Warn:
					status = "WARN"
				case !c.OK():
					status = "FAIL"
					failed = true
				}
				if c.Detail != "" {
					fmt.Fprintf(out, "  %s: %s ... %s\n", c.Name, c.Detail, status)
				} else {
					fmt.Fprintf(out, "  %s ... %s\n", c.Name, status)
				}
				if !c.OK() {
					fmt.Fprintf(a.stderr, "    %s\n", indent(errmsg.Format(c.Err)))
				}
			}

			fmt.Fprintln(out)
			if failed {
				fmt.Fprintln(out, "Some checks failed. See above for details.")
				return &exitError{code: ExitGeneral}
			}
			fmt.Fprintln(out, "Everything looks good!")
			return nil
		},
	}
}

// indent continues multi-line messages under their check.
func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n    ")
}
