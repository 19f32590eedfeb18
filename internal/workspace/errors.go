package workspace

import "fmt"

// MissingKind identifies which required asset is absent.
type MissingKind string

const (
	KindRoot MissingKind = "root"
	KindApp  MissingKind = "app"
)

// MissingError reports a required part of the work root that does not exist.
type MissingError struct {
	Kind MissingKind
	Path string
	Dir  string // extraction target, for KindApp
}

func (e *MissingError) Error() string {
	switch e.Kind {
	case KindRoot:
		return fmt.Sprintf("CodexDesktopPath not found: %s", e.Path)
	case KindApp:
		return fmt.Sprintf("No extracted app found.\nExpected: %s", e.Path)
	default:
		return fmt.Sprintf("not found: %s", e.Path)
	}
}

func (e *MissingError) Suggestion() string {
	switch e.Kind {
	case KindRoot:
		return "Change it with: codexd.exe --workdir <path>\n(or create the directory)."
	case KindApp:
		return fmt.Sprintf("This launcher assumes you already extracted the app into %s.", e.Dir)
	default:
		return ""
	}
}
