package cli

import (
	"path/filepath"
	"testing"

	"github.com/ardnew/calc/pkg"
)

func TestExecutableBase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"/usr/local/bin/calc", "calc"},
		{"/opt/tools/mycalc.exe", "mycalc"},
		{"/tmp/__debug_bin1234567", pkg.Name},
		{"/home/user/.calc", "calc"},
		{"..", pkg.Name},
		{"", pkg.Name},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := executableBase(tt.path); got != tt.want {
				t.Errorf("executableBase(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestUserDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	got := userDir(func() (string, error) { return root, nil }, ".config")
	if want := filepath.Join(root, basePrefix()); got != want {
		t.Errorf("userDir() = %q, want %q", got, want)
	}
}
