package memfs

import (
	"bytes"
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/remotefs/remotefs"
	"github.com/remotefs/remotefs/internal/pathutil"
)

// Stat describes the entry at p. Symlinks are described as themselves.
func (f *FS) Stat(ctx context.Context, p string) (*remotefs.Entry, error) {
	abs, n, err := f.lookup(p)
	if err != nil {
		return nil, err
	}
	entry := f.entryAt(abs, n)
	return &entry, nil
}

// Exists reports whether p names an entry. Only a definite KindNotFound
// becomes (false, nil); everything else surfaces as an error.
func (f *FS) Exists(ctx context.Context, p string) (bool, error) {
	_, _, err := f.lookup(p)
	if err != nil {
		if remotefs.IsKind(err, remotefs.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RemoveFile removes the file or symlink at p. A symlink is removed
// itself; its target is untouched.
func (f *FS) RemoveFile(ctx context.Context, p string) error {
	abs, n, err := f.lookup(p)
	if err != nil {
		return err
	}
	if n.entryType == remotefs.TypeDir {
		return remotefs.Errorf(remotefs.KindIsADirectory, "%s", abs)
	}
	return f.detach(abs)
}

// Rename moves src to dst without overwriting: an occupied dst fails
// with KindAlreadyExists and src stays where it was.
func (f *FS) Rename(ctx context.Context, src, dst string) error {
	srcAbs, n, err := f.lookup(src)
	if err != nil {
		return err
	}
	dstAbs, err := f.prepareDestination(srcAbs, n, dst)
	if err != nil {
		return err
	}
	if err := f.detach(srcAbs); err != nil {
		return err
	}
	parent, err := f.lookupParent(dstAbs)
	if err != nil {
		return err
	}
	parent.children[pathutil.Base(dstAbs)] = n
	parent.modified = f.now()
	f.logger.Debug("renamed entry", zap.String("src", srcAbs), zap.String("dst", dstAbs))
	return nil
}

// Copy duplicates src to dst, directories recursively, without
// overwriting.
func (f *FS) Copy(ctx context.Context, src, dst string) error {
	srcAbs, n, err := f.lookup(src)
	if err != nil {
		return err
	}
	dstAbs, err := f.prepareDestination(srcAbs, n, dst)
	if err != nil {
		return err
	}
	parent, err := f.lookupParent(dstAbs)
	if err != nil {
		return err
	}
	now := f.now()
	parent.children[pathutil.Base(dstAbs)] = n.clone(now)
	parent.modified = now
	f.logger.Debug("copied entry", zap.String("src", srcAbs), zap.String("dst", dstAbs))
	return nil
}

// prepareDestination resolves dst and runs the checks Rename and Copy
// share: the destination must be free, its parent must exist as a
// directory, and a directory cannot be placed inside its own subtree.
func (f *FS) prepareDestination(srcAbs string, src *node, dst string) (string, error) {
	dstAbs, err := f.resolve(dst)
	if err != nil {
		return "", err
	}
	if _, err := f.nodeAt(dstAbs); err == nil {
		return "", remotefs.Errorf(remotefs.KindAlreadyExists, "%s", dstAbs)
	} else if !remotefs.IsKind(err, remotefs.KindNotFound) {
		return "", err
	}
	if src.entryType == remotefs.TypeDir && pathutil.Within(dstAbs, srcAbs) {
		return "", remotefs.Errorf(remotefs.KindBadPath, "cannot place %s inside itself", srcAbs)
	}
	if _, err := f.lookupParent(dstAbs); err != nil {
		return "", err
	}
	return dstAbs, nil
}

// OpenRead opens the file at p for reading. The stream sees a snapshot
// taken now; later writes to the file do not bleed into it. A final
// symlink is followed, which is the one place besides OpenWrite where
// this driver follows links at all.
func (f *FS) OpenRead(ctx context.Context, p string) (io.ReadCloser, error) {
	abs, n, err := f.lookup(p)
	if err != nil {
		return nil, err
	}
	if n.entryType == remotefs.TypeSymlink {
		abs, n, err = f.followLinks(abs)
		if err != nil {
			return nil, err
		}
		if n == nil {
			return nil, remotefs.Errorf(remotefs.KindNotFound, "%s", abs)
		}
	}
	if n.entryType == remotefs.TypeDir {
		return nil, remotefs.Errorf(remotefs.KindIsADirectory, "%s", abs)
	}
	n.accessed = f.now()
	return &readStream{
		fs: f,
		r:  bytes.NewReader(append([]byte(nil), n.content...)),
	}, nil
}

// OpenWrite opens the file at p for writing, creating it when absent. A
// final symlink is followed, so writing through a dangling link creates
// the target. Nothing is visible in the tree until Close commits: a
// stream abandoned mid-write, or cut off by Disconnect, leaves the old
// content in place.
func (f *FS) OpenWrite(ctx context.Context, p string, appendMode bool) (io.WriteCloser, error) {
	abs, err := f.resolve(p)
	if err != nil {
		return nil, err
	}
	n, err := f.nodeAt(abs)
	if err != nil && !remotefs.IsKind(err, remotefs.KindNotFound) {
		return nil, err
	}
	if n != nil && n.entryType == remotefs.TypeSymlink {
		abs, n, err = f.followLinks(abs)
		if err != nil {
			return nil, err
		}
	}
	if n != nil && n.entryType == remotefs.TypeDir {
		return nil, remotefs.Errorf(remotefs.KindIsADirectory, "%s", abs)
	}
	if n == nil {
		// Creation is checked now so a bad path fails at open, but the
		// node itself only appears on Close.
		if _, err := f.lookupParent(abs); err != nil {
			return nil, err
		}
	}
	return &writeStream{fs: f, abs: abs, appendMode: appendMode}, nil
}

// SetStat applies the non-nil fields of meta to the entry at p, the
// entry itself for symlinks. Mode and all three timestamps are applied;
// ownership is ignored because this backend has none. Size is not
// settable and is likewise ignored.
func (f *FS) SetStat(ctx context.Context, p string, meta remotefs.Metadata) error {
	abs, n, err := f.lookup(p)
	if err != nil {
		return err
	}
	if meta.Mode != nil {
		n.mode = *meta.Mode
	}
	if meta.Modified != nil {
		n.modified = *meta.Modified
	}
	if meta.Accessed != nil {
		n.accessed = *meta.Accessed
	}
	if meta.Created != nil {
		n.created = *meta.Created
	}
	f.logger.Debug("updated metadata", zap.String("path", abs))
	return nil
}

// Symlink creates a symbolic link at p holding target verbatim. The
// target does not have to exist; dangling links are legal.
func (f *FS) Symlink(ctx context.Context, p, target string) error {
	abs, err := f.resolve(p)
	if err != nil {
		return err
	}
	if _, err := f.nodeAt(abs); err == nil {
		return remotefs.Errorf(remotefs.KindAlreadyExists, "%s", abs)
	} else if !remotefs.IsKind(err, remotefs.KindNotFound) {
		return err
	}
	parent, err := f.lookupParent(abs)
	if err != nil {
		return err
	}
	now := f.now()
	parent.children[pathutil.Base(abs)] = newSymlink(now, target)
	parent.modified = now
	f.logger.Debug("created symlink", zap.String("path", abs), zap.String("target", target))
	return nil
}

// Exec is not supported: there is no remote side to run anything on.
func (f *FS) Exec(ctx context.Context, command string) (*remotefs.ExecResult, error) {
	return nil, remotefs.Errorf(remotefs.KindUnsupported, "exec is not available on the in-memory backend")
}

// readStream reads from a snapshot of the file taken at open. Each call
// re-checks the session so a disconnect turns the stream dead.
type readStream struct {
	fs     *FS
	r      *bytes.Reader
	closed bool
}

func (s *readStream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, remotefs.Errorf(remotefs.KindIO, "read on closed stream")
	}
	if !s.fs.connected {
		return 0, remotefs.Errorf(remotefs.KindIO, "connection closed during read")
	}
	return s.r.Read(p)
}

func (s *readStream) Close() error {
	s.closed = true
	return nil
}

// writeStream buffers everything and commits on Close, recreating the
// file node if it vanished in the meantime.
type writeStream struct {
	fs         *FS
	abs        string
	buf        bytes.Buffer
	appendMode bool
	closed     bool
}

func (s *writeStream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, remotefs.Errorf(remotefs.KindIO, "write on closed stream")
	}
	if !s.fs.connected {
		return 0, remotefs.Errorf(remotefs.KindIO, "connection closed during write")
	}
	return s.buf.Write(p)
}

func (s *writeStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if !s.fs.connected {
		return remotefs.Errorf(remotefs.KindIO, "connection closed before commit")
	}

	now := s.fs.now()
	n, err := s.fs.nodeAt(s.abs)
	if err != nil {
		if !remotefs.IsKind(err, remotefs.KindNotFound) {
			return err
		}
		parent, perr := s.fs.lookupParent(s.abs)
		if perr != nil {
			return perr
		}
		n = newFile(now)
		parent.children[pathutil.Base(s.abs)] = n
		parent.modified = now
	}
	if n.entryType != remotefs.TypeFile {
		return remotefs.Errorf(remotefs.KindIsADirectory, "%s", s.abs)
	}

	if s.appendMode {
		n.content = append(n.content, s.buf.Bytes()...)
	} else {
		n.content = append([]byte(nil), s.buf.Bytes()...)
	}
	n.modified = now
	s.fs.logger.Debug("committed write",
		zap.String("path", s.abs),
		zap.Int("bytes", s.buf.Len()),
		zap.Bool("append", s.appendMode))
	return nil
}
