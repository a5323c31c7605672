// Package version provides build version information for the
// steamroller CLI's "version" subcommand.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version returns the module version from embedded build info, annotated
// with the VCS revision and dirty-tree flag when the binary was built
// with `go build` from a checkout rather than `go install` of a tagged
// module (the common case for a formatter run straight out of a clone).
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	v := info.Main.Version
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if revision == "" {
		return v
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if dirty {
		return fmt.Sprintf("%s (%s-dirty)", v, revision)
	}
	return fmt.Sprintf("%s (%s)", v, revision)
}
