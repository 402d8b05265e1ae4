package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tmpl/lang"
	"github.com/ardnew/tmpl/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
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

type (
	outputKey       struct{}
	parseOptionsKey struct{}
)

// WithOutput returns a new context.Context whose commands write to w.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// outputFrom returns the writer stored by WithOutput, or os.Stdout.
func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// WithParseOptions returns a new context.Context carrying the parser options
// used by every command.
func WithParseOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, parseOptionsKey{}, opts)
}

// parseOptionsFrom returns the options stored by WithParseOptions followed
// by extra.
func parseOptionsFrom(ctx context.Context, extra ...lang.Option) []lang.Option {
	opts, _ := ctx.Value(parseOptionsKey{}).([]lang.Option)

	return append(append([]lang.Option(nil), opts...), extra...)
}

// SourceFiles reads the template sources named on the command line.
type SourceFiles interface {
	IsZero() bool
	Stdin() io.Reader
	io.Reader
	io.WriterTo
	io.Closer
}

type sourceFiles struct {
	files    []*os.File
	hasStdin bool
	r        io.Reader
}

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.files) == 0 && !s.hasStdin }

// Stdin returns os.Stdin if stdin was included as a source, or nil otherwise.
func (s *sourceFiles) Stdin() io.Reader {
	if s.hasStdin {
		return os.Stdin
	}

	return nil
}

// reader returns the concatenation of all source files in order,
// followed by stdin if present.
func (s *sourceFiles) reader() io.Reader {
	if s.r == nil {
		readers := make([]io.Reader, 0, len(s.files)+1)
		for _, f := range s.files {
			readers = append(readers, f)
		}

		if s.hasStdin {
			readers = append(readers, os.Stdin)
		}

		s.r = io.MultiReader(readers...)
	}

	return s.r
}

// Read implements io.Reader by reading from all source files in order,
// including stdin if present.
func (s *sourceFiles) Read(p []byte) (n int, err error) {
	return s.reader().Read(p)
}

// WriteTo implements io.WriterTo by writing all source files to w in order,
// including stdin if present.
func (s *sourceFiles) WriteTo(w io.Writer) (n int64, err error) {
	return io.Copy(w, s.reader())
}

// Close closes every opened file. Stdin is left open.
func (s *sourceFiles) Close() error {
	var err error

	for _, f := range s.files {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	return err
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

// openSourceFiles opens the given source paths for reading.
//
// Duplicate paths are read once, resolving symlinks and comparing device/
// inode pairs. All occurrences of "-" are replaced with a single stdin reader
// placed last so it reads after all regular files. No sources means stdin.
func openSourceFiles(sources []string) (SourceFiles, error) {
	if len(sources) == 0 {
		sources = []string{stdinSource}
	}

	var srcs sourceFiles

	srcs.files = make([]*os.File, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinKey, hasStdinKey := stdinFileKey()

	for _, src := range sources {
		if src == stdinSource {
			srcs.hasStdin = true

			continue
		}

		file, key, err := openUniqueFile(src, seen)
		if err != nil {
			_ = srcs.Close()

			return nil, ErrOpenSource.Wrap(err).With(slog.String("source", src))
		}

		// Stdin named as a regular file (e.g., /dev/stdin).
		if hasStdinKey && key == stdinKey {
			srcs.hasStdin = true

			if file != nil {
				_ = file.Close()
			}

			continue
		}

		if file != nil {
			srcs.files = append(srcs.files, file)
		}
	}

	if srcs.IsZero() {
		return nil, ErrNoSource
	}

	return &srcs, nil
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// A duplicate yields a nil file and no error.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (*os.File, fileKey, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, exists := seen[key]; exists {
			return nil, key, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, key, err
	}

	return file, key, nil
}

// stdinFileKey returns the fileKey of the process's stdin.
func stdinFileKey() (fileKey, bool) {
	info, err := os.Stdin.Stat()
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// parseSources reads and parses the concatenated sources.
func parseSources(
	ctx context.Context,
	sources []string,
	extra ...lang.Option,
) (*lang.Root, error) {
	srcs, err := openSourceFiles(sources)
	if err != nil {
		return nil, err
	}
	defer srcs.Close()

	root, err := lang.ParseReader(ctx, srcs, parseOptionsFrom(ctx, extra...)...)
	if err != nil {
		return nil, err
	}

	log.TraceContext(ctx, "parsed sources",
		slog.Int("sources", len(sources)),
		slog.Int("nodes", len(root.Children)))

	return root, nil
}
