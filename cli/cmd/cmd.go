package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"

	"github.com/ardnew/streamscore/lang"
	"github.com/ardnew/streamscore/log"
	"github.com/ardnew/streamscore/pkg"
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

// stdoutFrom returns the writer commands print results to.
func stdoutFrom(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

type (
	sourceFilesKey struct{}
	stdinKey       struct{}
)

// WithSourceFiles returns a new context.Context containing the global source
// file names. Commands read these before any sources given as arguments.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, sources)
}

// WithStdin returns a new context.Context that reads standard input from r.
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func sourceFilesFrom(ctx context.Context) []string {
	s, _ := ctx.Value(sourceFilesKey{}).([]string)

	return s
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Source is a single named input stream.
type Source struct {
	Name string
	io.Reader

	closer io.Closer
}

// Close releases the underlying file, if any.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}

	return s.closer.Close()
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens the global sources followed by the given ones.
//
// Sources are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin reader placed
// last so it reads after all regular files. With no sources at all, stdin is
// read. The caller must close every returned source.
func openSources(ctx context.Context, explicit []string) ([]*Source, error) {
	names := slices.Concat(sourceFilesFrom(ctx), explicit)
	if len(names) == 0 {
		names = []string{stdinSource}
	}

	var (
		srcs     []*Source
		hasStdin bool
	)

	closeAll := func() {
		for _, src := range srcs {
			_ = src.Close()
		}
	}

	seen := make(map[fileKey]struct{})

	for _, name := range names {
		if name == stdinSource {
			hasStdin = true

			continue
		}

		file, ok, err := openUniqueFile(lookupSource(name), seen)
		if err != nil {
			closeAll()

			return nil, pkg.ErrOpenSource.Wrap(err)
		}

		if !ok {
			log.DebugContext(ctx, "skipping duplicate source",
				slog.String("source", name))

			continue
		}

		srcs = append(srcs, &Source{Name: name, Reader: file, closer: file})
	}

	if hasStdin {
		srcs = append(srcs, &Source{Name: stdinSource, Reader: stdinFrom(ctx)})
	}

	if len(srcs) == 0 {
		return nil, pkg.ErrNoSource
	}

	return srcs, nil
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// It returns false without an error if the file is a duplicate.
func openUniqueFile(
	path string,
	seen map[fileKey]struct{},
) (*os.File, bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false, err
	}

	if info.IsDir() {
		return nil, false, &fs.PathError{Op: "open", Path: path, Err: syscall.EISDIR}
	}

	if key, ok := makeFileKey(info); ok {
		if _, exists := seen[key]; exists {
			return nil, false, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false, err
	}

	return file, true, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// searchPath returns the directories searched for bare source names: the
// "inputs" directory under the configuration directory followed by the
// entries of $STREAMSCORE_PATH. Entries that are not directories are dropped.
func searchPath() []string {
	list := mung.Make(
		mung.WithSubjectItems(pkg.EnvPath),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(filepath.Join(pkg.ConfigDir(), "inputs")),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(list)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// lookupSource resolves a bare file name that does not exist relative to the
// working directory by searching [searchPath]. Names containing a path
// separator, and names that are not found anywhere, are returned unchanged.
func lookupSource(name string) string {
	if strings.ContainsRune(name, os.PathSeparator) {
		return name
	}

	if _, err := os.Stat(name); !errors.Is(err, fs.ErrNotExist) {
		return name
	}

	for _, dir := range searchPath() {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return name
}

// parseSources parses each source independently and calls fn with the
// result. It stops at the first parse error.
func parseSources(
	ctx context.Context,
	explicit []string,
	snippet bool,
	fn func(src *Source, node lang.Node) error,
) error {
	srcs, err := openSources(ctx, explicit)
	if err != nil {
		return err
	}

	defer func() {
		for _, src := range srcs {
			_ = src.Close()
		}
	}()

	for _, src := range srcs {
		node, err := lang.ParseReader(ctx, src,
			lang.WithLogger(log.Default()),
			lang.WithSnippet(snippet),
		)
		if err != nil {
			return ErrParse.Wrap(err).With(slog.String("source", src.Name))
		}

		log.DebugContext(ctx, "parsed source",
			slog.String("source", src.Name),
			slog.String("type", node.Type().String()))

		if err := fn(src, node); err != nil {
			return err
		}
	}

	return nil
}
