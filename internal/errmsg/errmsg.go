// Package errmsg formats launcher errors into user-facing messages with
// actionable suggestions. The same text is shown in the error dialog and
// written to stderr.
package errmsg

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Suggester is implemented by errors that know how the user can fix them,
// typically by naming the flag or environment variable to set.
type Suggester interface {
	Suggestion() string
}

// Format returns the error message followed by its remediation.
// Errors implementing Suggester anywhere in their chain contribute their
// suggestion; unstructured permission errors get generic advice.
func Format(err error) string {
	if err == nil {
		return ""
	}

	errMsg := err.Error()

	var s Suggester
	if errors.As(err, &s) {
		if suggestion := strings.TrimSpace(s.Suggestion()); suggestion != "" {
			return errMsg + "\n\n" + suggestion
		}
		return errMsg
	}

	if isPermissionError(errMsg) {
		return formatPermissionError(errMsg)
	}

	return errMsg
}

// Fprint writes the formatted error to w.
func Fprint(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, "Error:", Format(err))
}

func formatPermissionError(errMsg string) string {
	var sb strings.Builder
	sb.WriteString(errMsg)
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	sb.WriteString("  - The work directory is owned by a different user\n")
	sb.WriteString("  - The files are locked by a running Codex instance\n")

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Close any running Codex windows and try again\n")
	sb.WriteString("  - Point --workdir at a directory you own\n")

	return sb.String()
}

// isPermissionError checks if the error message indicates a permission issue
func isPermissionError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "access is denied") ||
		strings.Contains(lower, "access denied") ||
		strings.Contains(lower, "operation not permitted")
}
