package discover

import "fmt"

// NotFoundError indicates that no strategy produced an acceptable path.
type NotFoundError struct {
	Tool        string
	DisplayName string
	Expected    string
	Hint        string
}

func (e *NotFoundError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%s not found.\nExpected: %s", e.DisplayName, e.Expected)
	}
	return fmt.Sprintf("%s not found.", e.DisplayName)
}

func (e *NotFoundError) Suggestion() string {
	return e.Hint
}

// ConfigurationError indicates an explicit override that does not name an
// acceptable file. Other strategies are not consulted.
type ConfigurationError struct {
	Tool   string
	Title  string
	Source string
	Path   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Title, e.Path)
}

func (e *ConfigurationError) Suggestion() string {
	return fmt.Sprintf("The path comes from %s. Point it at an existing file or unset it.", e.Source)
}
