// Package version resolves the build version of the netatmo-cli binary.
// The version is injected at build time via -ldflags:
//
//	go build -ldflags="-X github.com/54b3r/netatmo-cli/internal/version.generated=1.2.3 \
//	                    -X github.com/54b3r/netatmo-cli/internal/version.commit=abc1234 \
//	                    -X github.com/54b3r/netatmo-cli/internal/version.buildDate=2025-01-01T00:00:00Z"
//
// Binaries installed with `go install ...@vX.Y.Z` carry the module version in
// their embedded build info, which is used when no ldflags value is present.
// Without either source the version is [Fallback], so [Version] is never empty.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Fallback is the version reported when the build supplied none.
const Fallback = "0.0.0+unknown"

// unknown is the placeholder for commit and build date.
const unknown = "unknown"

// develVersion is what the toolchain stamps for builds from a local checkout.
const develVersion = "(devel)"

// Set at build time via -ldflags. Left empty for local builds.
var (
	generated string
	commit    string
	buildDate string
)

// Version is the resolved version of the binary. It is computed once during
// package initialisation and is read-only: importers must not assign to it.
// [Get] and [Known] read it directly, so they never disagree with it.
var Version = resolve(generated, debug.ReadBuildInfo)

// info holds the remaining build metadata. Its Version field is filled from
// [Version] by [Get].
var info = resolveInfo("", commit, buildDate, debug.ReadBuildInfo)

// buildInfoReader matches [debug.ReadBuildInfo] so tests can stub it.
type buildInfoReader func() (*debug.BuildInfo, bool)

// Info describes the build the running binary came from.
type Info struct {
	// Version is the resolved version string (see [Version]).
	Version string `json:"version"`
	// Commit is the VCS revision the binary was built from.
	Commit string `json:"commit"`
	// BuildDate is the build or commit timestamp (RFC3339).
	BuildDate string `json:"build_date"`
	// GoVersion is the Go toolchain that produced the binary.
	GoVersion string `json:"go_version"`
	// Platform is GOOS/GOARCH.
	Platform string `json:"platform"`
}

// String returns the one-line human-readable form printed by `netatmo-cli version`.
func (i Info) String() string {
	return fmt.Sprintf("netatmo-cli %s (commit: %s, built: %s)", i.Version, i.Commit, i.BuildDate)
}

// Get returns the build metadata of the running binary.
func Get() Info {
	i := info
	i.Version = Version
	return i
}

// Known reports whether the version came from the build rather than [Fallback].
func Known() bool {
	return Version != Fallback
}

// resolve picks the version from the injected value, then the module version
// recorded by the toolchain, then [Fallback]. A missing source is not an
// error; it just moves on to the next one.
func resolve(injected string, read buildInfoReader) string {
	if strings.TrimSpace(injected) != "" {
		return injected
	}
	if read != nil {
		if bi, ok := read(); ok && bi != nil {
			v := strings.TrimSpace(bi.Main.Version)
			if v != "" && v != develVersion {
				return v
			}
		}
	}
	return Fallback
}

// resolveInfo assembles Info, filling commit and build date from the VCS
// stamps in the build info when they were not injected.
func resolveInfo(ver, injectedCommit, injectedDate string, read buildInfoReader) Info {
	i := Info{
		Version:   ver,
		Commit:    strings.TrimSpace(injectedCommit),
		BuildDate: strings.TrimSpace(injectedDate),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if (i.Commit == "" || i.BuildDate == "") && read != nil {
		if bi, ok := read(); ok && bi != nil {
			for _, s := range bi.Settings {
				switch s.Key {
				case "vcs.revision":
					if i.Commit == "" {
						i.Commit = shortRevision(s.Value)
					}
				case "vcs.time":
					if i.BuildDate == "" {
						i.BuildDate = s.Value
					}
				}
			}
		}
	}

	if i.Commit == "" {
		i.Commit = unknown
	}
	if i.BuildDate == "" {
		i.BuildDate = unknown
	}
	return i
}

// shortRevision truncates a full VCS hash to 12 characters.
func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
