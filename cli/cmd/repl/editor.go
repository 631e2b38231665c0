package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/calc/lang"
	"github.com/ardnew/calc/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for composing an expression in
// an external editor. The current input is written to a temp file and the
// editor is opened on it. Lines of the result are joined with spaces. If the
// result does not parse, the user is asked whether to edit it again;
// declining returns [ErrEditDeclined].
type editCommand struct {
	ctxFunc func() context.Context
	text    string
	opts    []lang.Option
	logger  log.Logger
	edited  string // set on success
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. An empty result cancels the edit
// and leaves edited unset.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", "calc-repl-*.txt")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	_ = f.Close()

	content := c.text

	for {
		if err := os.WriteFile(path, []byte(content+"\n"), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		content = joinLines(string(data))
		if content == "" {
			return nil
		}

		_, parseErr := lang.ParseString(ctx, content, c.opts...)

		c.logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.edited = content

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n%s\n", parseErr, lang.Snippet(content, parseErr))
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// joinLines collapses text into one line, dropping blank lines and lines
// starting with '#'.
func joinLines(text string) string {
	var parts []string

	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts = append(parts, line)
	}

	return strings.Join(parts, " ")
}

// runEditor launches the user's editor on the file at path and waits for
// it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
