package cmd

import (
	"context"
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdio returns the output streams of the kong context in ctx, or the
// process's standard streams if there is none.
func stdio(ctx context.Context) (stdout, stderr io.Writer) {
	stdout, stderr = os.Stdout, os.Stderr

	if ktx := kongContextFrom(ctx); ktx != nil {
		if ktx.Stdout != nil {
			stdout = ktx.Stdout
		}

		if ktx.Stderr != nil {
			stderr = ktx.Stderr
		}
	}

	return stdout, stderr
}

type stdinKey struct{}

// WithStdin returns a new context.Context whose standard input is r.
// Commands read [os.Stdin] when no reader is stored.
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

type (
	sourceFilesKey struct{}
	sourceFiles    struct {
		files    []*os.File
		hasStdin bool
	}

	// SourceFiles is an ordered set of named inputs.
	SourceFiles interface {
		IsZero() bool
		All(stdin io.Reader) iter.Seq2[string, io.Reader]
		io.Closer
	}
)

// stdinName is the name reported for standard input.
const stdinName = "<stdin>"

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.files) == 0 && !s.hasStdin }

// All returns an iterator over the sources and their names in order. If
// standard input was named, stdin is yielded last.
func (s *sourceFiles) All(stdin io.Reader) iter.Seq2[string, io.Reader] {
	return func(yield func(string, io.Reader) bool) {
		for _, f := range s.files {
			if !yield(f.Name(), f) {
				return
			}
		}

		if s.hasStdin {
			yield(stdinName, stdin)
		}
	}
}

// Close closes every opened file.
func (s *sourceFiles) Close() error {
	errs := make([]error, 0, len(s.files))

	for _, f := range s.files {
		errs = append(errs, f.Close())
	}

	return errors.Join(errs...)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing the given source
// files.
//
// Sources are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin source
// placed last so it reads after all regular files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.files = make([]*os.File, 0, len(sources))
	seen := make(map[fileKey]struct{})

	for _, src := range sources {
		if src == stdinSource {
			srcs.hasStdin = true

			continue
		}

		file, ok := openUniqueFile(src, seen)
		if !ok {
			continue
		}

		srcs.files = append(srcs.files, file)
	}

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It reports false if the file is a duplicate or cannot be opened.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return nil, false
	}

	if _, exists := seen[key]; exists {
		return nil, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(path)
	if err != nil {
		return nil, false
	}

	return file, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// sourceFilesFrom retrieves the sources stored in ctx by WithSourceFiles.
// Returns nil if none were stored.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}
