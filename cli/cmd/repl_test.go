package cmd

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/calc/pkg"
)

func TestReplRun_Plain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		plain bool
	}{
		{"forced", true},
		{"not_a_terminal", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, stdout, _ := testContext(t, kong.Vars{CacheIdentifier: t.TempDir()})
			ctx = WithStdin(ctx, strings.NewReader("1 + 1\n(\n"))

			opts := testOptions()
			opts.Notation = "decimal"

			if err := (&Repl{Plain: tt.plain}).Run(ctx, opts); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			want := pkg.Banner() + "\n> 2\n" +
				"> error: syntax error at 1:2: unterminated parenthetical group\n  (\n   ^\n" +
				"> \n"

			if got := stdout.String(); got != want {
				t.Errorf("output = %q, want %q", got, want)
			}
		})
	}
}
