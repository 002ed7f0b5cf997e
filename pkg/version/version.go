// Package version carries build metadata for the codefix binary.
package version

import (
	"fmt"
	"runtime/debug"
	"sync"
)

const unknown = "unknown"

// Set at link time with -ldflags "-X".
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

var initOnce sync.Once

// InitBinaryVersion fills Version, Commit and Date from the embedded build
// info when they were not set at link time.
func InitBinaryVersion() {
	initOnce.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}

		fill(info)
	})
}

func fill(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == unknown && s.Value != "" {
				Commit = shortRevision(s.Value)
			}
		case "vcs.time":
			if Date == unknown && s.Value != "" {
				Date = s.Value
			}
		}
	}
}

func shortRevision(rev string) string {
	const n = 12
	if len(rev) > n {
		return rev[:n]
	}

	return rev
}

// String renders the one-line version banner.
func String() string {
	return fmt.Sprintf("codefix %s (commit: %s, built: %s)", Version, Commit, Date)
}
