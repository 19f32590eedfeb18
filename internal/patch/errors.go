package patch

import "fmt"

// StructuralError means the preload script no longer has the shape the
// patch expects. The file is left untouched.
type StructuralError struct {
	Path    string
	Matches int   // anchor matches found
	Cause   error // parse error of the patched script, if that was the failure
}

func (e *StructuralError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("preload patch breaks the script: %v", e.Cause)
	case e.Matches == 0:
		return "preload patch point not found."
	default:
		return fmt.Sprintf("preload patch point is ambiguous (%d matches).", e.Matches)
	}
}

func (e *StructuralError) Unwrap() error {
	return e.Cause
}

func (e *StructuralError) Suggestion() string {
	s := "The app's preload script does not have the expected layout. Re-extract the app, or use a launcher built for this app version."
	if e.Path != "" {
		s += "\nFile: " + e.Path
	}
	return s
}
