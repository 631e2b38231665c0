// Package pkg holds the identity of the calc module: its name, version, and
// the commit it was built from.
package pkg

import (
	_ "embed"
	"runtime/debug"
	"strings"
	"sync"
)

const (
	// Name is the command name. It appears in help text, the banner, and
	// the default configuration paths.
	Name = "calc"
	// Description is a one-line summary used in help output.
	Description = "Evaluate single-line arithmetic expressions"
)

//go:embed VERSION
var version string

// Version is the semantic version of the module, embedded from the VERSION
// file at build time.
var Version = strings.TrimSpace(version)

// commit may be set at link time:
//
//	go build -ldflags "-X github.com/ardnew/calc/pkg.commit=$(git rev-parse --short HEAD)"
var commit string

// unknownCommit is reported when no revision can be determined.
const unknownCommit = "unknown"

// shortHashLen is the number of hex digits kept from a VCS revision.
const shortHashLen = 7

// Commit returns the abbreviated revision the binary was built from.
//
// A value injected with -ldflags takes precedence. Otherwise the
// vcs.revision recorded by the Go toolchain is used, suffixed with "-dirty"
// when the working tree had local modifications. Binaries built without VCS
// information report "unknown".
var Commit = sync.OnceValue(func() string {
	if c := strings.TrimSpace(commit); c != "" {
		return c
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return unknownCommit
	}

	return commitFromSettings(info.Settings)
})

func commitFromSettings(settings []debug.BuildSetting) string {
	var (
		revision string
		modified bool
	)

	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}

	if revision == "" {
		return unknownCommit
	}

	if len(revision) > shortHashLen {
		revision = revision[:shortHashLen]
	}

	if modified {
		revision += "-dirty"
	}

	return revision
}

// Banner returns the line printed when an interactive session starts.
func Banner() string {
	return Name + " (commit " + Commit() + ")"
}
