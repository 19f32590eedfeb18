// Package appmeta reads the build metadata the desktop app declares in
// its package.json.
package appmeta

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/jsonc"
)

// Metadata is the subset of app/package.json the launcher consumes.
// BuildNumber and BuildFlavor are empty when the fields are absent.
type Metadata struct {
	ElectronVersion string
	BuildNumber     string
	BuildFlavor     string
}

// MissingElectronError reports a package.json that does not declare the
// electron version it was built against.
type MissingElectronError struct {
	Path string
}

func (e *MissingElectronError) Error() string {
	return "Electron version not found in app/package.json."
}

func (e *MissingElectronError) Suggestion() string {
	return fmt.Sprintf("Re-extract the app so that %s declares devDependencies.electron.", e.Path)
}

type packageJSON struct {
	DevDependencies  map[string]json.RawMessage `json:"devDependencies"`
	CodexBuildNumber json.RawMessage            `json:"codexBuildNumber"`
	CodexBuildFlavor json.RawMessage            `json:"codexBuildFlavor"`
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse decodes package.json content. Comments and trailing commas are
// tolerated. The electron version is required.
func Parse(data []byte) (*Metadata, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var pkg packageJSON
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return nil, fmt.Errorf("parsing package.json: %w", err)
	}

	meta := &Metadata{
		ElectronVersion: strings.TrimSpace(optionalString(pkg.DevDependencies["electron"])),
		BuildNumber:     optionalString(pkg.CodexBuildNumber),
		BuildFlavor:     optionalString(pkg.CodexBuildFlavor),
	}
	if meta.ElectronVersion == "" {
		return nil, &MissingElectronError{}
	}
	return meta, nil
}

// Read parses the package.json at path.
func Read(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	meta, err := Parse(data)
	if err != nil {
		var missing *MissingElectronError
		if errors.As(err, &missing) {
			missing.Path = path
			return nil, missing
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return meta, nil
}

// optionalString returns a JSON string's value, or the raw JSON text of any
// other kind (numbers are common for build numbers). Absent and null
// fields yield "".
func optionalString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Constraint parses the declared electron version as a semver constraint.
// "30.0.0" means exactly that version; ranges like "^30.0.0" are allowed.
func (m *Metadata) Constraint() (*semver.Constraints, error) {
	c, err := semver.NewConstraint(m.ElectronVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid electron version %q: %w", m.ElectronVersion, err)
	}
	return c, nil
}

// CheckRuntime compares the version in the bundled electron package's
// package.json against the declared constraint. It returns the bundled
// version and a non-nil error when the bundle does not satisfy the
// declaration or cannot be checked. Callers treat the error as a warning.
func (m *Metadata) CheckRuntime(runtimePackageJSON string) (string, error) {
	data, err := os.ReadFile(runtimePackageJSON)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", runtimePackageJSON, err)
	}

	var pkg struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(jsonc.ToJSON(bytes.TrimPrefix(data, utf8BOM)), &pkg); err != nil {
		return "", fmt.Errorf("parsing %s: %w", runtimePackageJSON, err)
	}

	v, err := semver.NewVersion(pkg.Version)
	if err != nil {
		return pkg.Version, fmt.Errorf("bundled electron has invalid version %q: %w", pkg.Version, err)
	}

	c, err := m.Constraint()
	if err != nil {
		return pkg.Version, err
	}
	if !c.Check(v) {
		return pkg.Version, fmt.Errorf("bundled electron %s does not satisfy %s declared by the app", pkg.Version, m.ElectronVersion)
	}
	return pkg.Version, nil
}
