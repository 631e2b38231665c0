package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/calc/pkg"
)

// Configuration file names, relative to the configuration directory.
const (
	configYAML = "config.yaml"
	configJSON = "config.json"
)

// defaultDirMode is the permission mode of created directories.
var defaultDirMode os.FileMode = 0o700

// baseRewrite maps executable base names to the name used for the
// configuration and cache directories.
var baseRewrite = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^__debug_bin\d*$`), pkg.Name}, // dlv default output
	{regexp.MustCompile(`^\.+`), ""},
}

// executableBase returns the base name of path with the baseRewrite rules
// applied and its extension removed. An empty result yields [pkg.Name].
func executableBase(path string) string {
	base := filepath.Base(path)

	for _, rw := range baseRewrite {
		base = rw.rex.ReplaceAllString(base, rw.rep)
	}

	base = strings.TrimSuffix(base, filepath.Ext(base))

	if base == "" || base == string(filepath.Separator) {
		return pkg.Name
	}

	return base
}

// basePrefix is the name of the configuration and cache directories: the
// base name of the running executable, so that a renamed binary keeps its
// own configuration.
var basePrefix = sync.OnceValue(
	func() string {
		exe, err := os.Executable()
		if err != nil {
			exe = os.Args[0]
		}

		return executableBase(exe)
	},
)

// userDir joins basePrefix to the directory returned by dir. If dir fails,
// fallback is tried relative to the home directory, and then the working
// directory is used.
func userDir(dir func() (string, error), fallback string) string {
	root, err := dir()
	if err != nil {
		root, err = os.UserHomeDir()
		if err == nil {
			root = filepath.Join(root, fallback)
		} else if root, err = os.Getwd(); err != nil {
			root = "."
		}
	}

	return filepath.Join(root, basePrefix())
}

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// cacheDir returns the directory holding the REPL history and profiles.
var cacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
