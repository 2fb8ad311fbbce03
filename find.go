package remotefs

import (
	"context"
	"path"

	"go.uber.org/zap"
)

// FinderOption customizes a Finder.
type FinderOption func(*Finder)

// WithMaxDepth bounds recursion to n directory levels below the start
// directory, so 1 inspects only the immediate children. Zero or negative
// means unbounded.
func WithMaxDepth(n int) FinderOption {
	return func(f *Finder) { f.maxDepth = n }
}

// WithFilesOnly drops directory entries from the results. Directories
// are still descended into, and symlinks still match as themselves.
func WithFilesOnly() FinderOption {
	return func(f *Finder) { f.filesOnly = true }
}

// WithFullPathMatch matches the pattern against the whole absolute path
// instead of the final path component. Wildcards keep shell-glob
// semantics and do not cross path separators.
func WithFullPathMatch() FinderOption {
	return func(f *Finder) { f.fullPath = true }
}

// WithLogger attaches a logger used to report skipped subtrees. The
// default discards everything.
func WithLogger(logger *zap.Logger) FinderOption {
	return func(f *Finder) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Finder walks a directory tree through any Fs, built purely on ListDir,
// and collects entries whose name matches a shell-style wildcard
// pattern: '*' for any run of characters, '?' for a single character and
// '[...]' character classes.
//
// Symlinks are never followed: a matching symlink appears in the results
// as itself, and a symlink to a directory is not descended into, so a
// cyclic link cannot loop the walk. Subtrees that disappear or refuse
// access mid-walk (KindNotFound, KindPermissionDenied) are skipped
// rather than failing the whole search; any other failure aborts with
// that error.
type Finder struct {
	fsys      Fs
	logger    *zap.Logger
	maxDepth  int
	filesOnly bool
	fullPath  bool
}

// NewFinder returns a Finder over fsys.
func NewFinder(fsys Fs, opts ...FinderOption) *Finder {
	f := &Finder{
		fsys:   fsys,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Find searches the tree rooted at start, itself resolved against the
// session working directory, and returns every matching entry in
// depth-first order, parents before their children. The start directory
// itself is never a result. An unreadable or missing start directory
// fails the search; the skip tolerance applies only below it.
//
// Fails with KindBadPath when pattern is not a valid wildcard pattern.
// Cancelling ctx stops the walk between directory listings and surfaces
// the context's own error.
func (f *Finder) Find(ctx context.Context, start, pattern string) ([]Entry, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, Errorf(KindBadPath, "invalid pattern %q", pattern)
	}
	cwd, err := f.fsys.Pwd(ctx)
	if err != nil {
		return nil, err
	}
	root, err := Resolve(start, cwd)
	if err != nil {
		return nil, err
	}

	var results []Entry
	if err := f.walk(ctx, root, 1, pattern, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// walk lists one directory, collects its matches and recurses into its
// subdirectories. Errors from child recursion are tolerated for the two
// skippable kinds; errors listing dir itself always propagate to the
// caller, which is what makes the top-level directory strict.
func (f *Finder) walk(ctx context.Context, dir string, depth int, pattern string, results *[]Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := f.fsys.ListDir(ctx, dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if f.matches(entry, pattern) && !(f.filesOnly && entry.IsDir()) {
			*results = append(*results, entry)
		}
		if !entry.IsDir() {
			continue
		}
		if f.maxDepth > 0 && depth >= f.maxDepth {
			continue
		}
		if err := f.walk(ctx, entry.Path, depth+1, pattern, results); err != nil {
			if IsKind(err, KindPermissionDenied) || IsKind(err, KindNotFound) {
				f.logger.Debug("skipping unreadable subtree",
					zap.String("path", entry.Path),
					zap.Error(err))
				continue
			}
			return err
		}
	}
	return nil
}

func (f *Finder) matches(entry Entry, pattern string) bool {
	target := entry.Name()
	if f.fullPath {
		target = entry.Path
	}
	ok, err := path.Match(pattern, target)
	return err == nil && ok
}

// Find is the convenience form of NewFinder(fsys, opts...).Find.
func Find(ctx context.Context, fsys Fs, start, pattern string, opts ...FinderOption) ([]Entry, error) {
	return NewFinder(fsys, opts...).Find(ctx, start, pattern)
}
