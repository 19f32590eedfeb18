// Package buildinfo reports the launcher's version from Go build metadata.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Info describes the running launcher build.
type Info struct {
	Version   string // release tag, "dev-<rev>[-dirty]", "dev" or "unknown"
	GoVersion string
	Platform  string // GOOS/GOARCH the binary was built for
}

// Read collects build information for the running binary.
func Read() Info {
	info := Info{
		Version:   "unknown",
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.Version = versionOf(bi)
	}
	return info
}

// Version returns the launcher version string.
func Version() string {
	return Read().Version
}

// String renders the one-line form printed by --version.
func (i Info) String() string {
	return fmt.Sprintf("codexd %s (%s, %s)", i.Version, i.GoVersion, i.Platform)
}

func versionOf(bi *debug.BuildInfo) string {
	if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}

	var revision string
	var dirty bool
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return "dev"
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}

	v := "dev-" + revision
	if dirty {
		v += "-dirty"
	}
	return v
}
