package memfs

import (
	"context"

	"go.uber.org/zap"

	"github.com/remotefs/remotefs"
	"github.com/remotefs/remotefs/internal/pathutil"
)

// ListDir returns the immediate children of the directory at p, sorted
// by name.
func (f *FS) ListDir(ctx context.Context, p string) ([]remotefs.Entry, error) {
	abs, n, err := f.lookup(p)
	if err != nil {
		return nil, err
	}
	if n.entryType != remotefs.TypeDir {
		return nil, remotefs.Errorf(remotefs.KindNotADirectory, "%s", abs)
	}
	entries := make([]remotefs.Entry, 0, len(n.children))
	for _, name := range sortedNames(n) {
		entries = append(entries, f.entryAt(pathutil.Join(abs, name), n.children[name]))
	}
	return entries, nil
}

// CreateDir creates the directory at p. With recursive set, missing
// ancestors are created too; an ancestor that exists as a non-directory
// fails with KindNotADirectory.
func (f *FS) CreateDir(ctx context.Context, p string, recursive bool) error {
	abs, err := f.resolve(p)
	if err != nil {
		return err
	}
	if _, err := f.nodeAt(abs); err == nil {
		return remotefs.Errorf(remotefs.KindAlreadyExists, "%s", abs)
	} else if !remotefs.IsKind(err, remotefs.KindNotFound) {
		return err
	}

	now := f.now()
	if !recursive {
		parent, err := f.lookupParent(abs)
		if err != nil {
			return err
		}
		parent.children[pathutil.Base(abs)] = newDir(now)
		parent.modified = now
		f.logger.Debug("created directory", zap.String("path", abs))
		return nil
	}

	n := f.root
	walked := "/"
	for _, seg := range pathutil.Segments(abs) {
		walked = pathutil.Join(walked, seg)
		child, ok := n.children[seg]
		if !ok {
			child = newDir(now)
			n.children[seg] = child
			n.modified = now
		}
		if child.entryType != remotefs.TypeDir {
			return remotefs.Errorf(remotefs.KindNotADirectory, "%s", walked)
		}
		n = child
	}
	f.logger.Debug("created directory", zap.String("path", abs), zap.Bool("recursive", true))
	return nil
}

// RemoveDir removes the empty directory at p. A non-empty directory is
// refused, and the root cannot be removed.
func (f *FS) RemoveDir(ctx context.Context, p string) error {
	abs, n, err := f.lookup(p)
	if err != nil {
		return err
	}
	if n.entryType != remotefs.TypeDir {
		return remotefs.Errorf(remotefs.KindNotADirectory, "%s", abs)
	}
	if len(n.children) > 0 {
		return remotefs.Errorf(remotefs.KindProtocol, "directory not empty: %s", abs)
	}
	return f.detach(abs)
}

// RemoveDirAll removes the directory at p and everything beneath it.
func (f *FS) RemoveDirAll(ctx context.Context, p string) error {
	abs, n, err := f.lookup(p)
	if err != nil {
		return err
	}
	if n.entryType != remotefs.TypeDir {
		return remotefs.Errorf(remotefs.KindNotADirectory, "%s", abs)
	}
	return f.detach(abs)
}

// detach unlinks abs from its parent. Detaching the root is refused, so
// the tree always has a working directory to stand on.
func (f *FS) detach(abs string) error {
	if abs == "/" {
		return remotefs.Errorf(remotefs.KindPermissionDenied, "cannot remove the root directory")
	}
	parent, err := f.lookupParent(abs)
	if err != nil {
		return err
	}
	delete(parent.children, pathutil.Base(abs))
	parent.modified = f.now()
	f.logger.Debug("removed entry", zap.String("path", abs))
	return nil
}
