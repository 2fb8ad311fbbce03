// Package memfs implements the remotefs contract against an in-memory
// tree. It exists for tests and local development: it honors the full
// operation surface, including symlinks and append streams, without any
// network, and doubles as the reference for how drivers are expected to
// classify failures.
//
// State lives for the lifetime of the FS value and survives disconnects,
// so a test can build a fixture tree, reconnect and keep going. Exec is
// the one unsupported operation. Like any contract session, an FS value
// is not safe for concurrent use.
package memfs

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/remotefs/remotefs"
	"github.com/remotefs/remotefs/internal/pathutil"
)

// Symlink chains longer than this fail with KindBadPath, which keeps
// cyclic links from hanging OpenRead and OpenWrite.
const maxLinkHops = 16

// node is one entry in the tree. Exactly one of content, children and
// target is meaningful, per entryType.
type node struct {
	entryType remotefs.EntryType
	mode      remotefs.UnixPex
	created   time.Time
	modified  time.Time
	accessed  time.Time

	content  []byte           // TypeFile
	children map[string]*node // TypeDir
	target   string           // TypeSymlink, stored as given to Symlink
}

func newDir(now time.Time) *node {
	return &node{
		entryType: remotefs.TypeDir,
		mode:      remotefs.UnixPexFromOctal(0o755),
		created:   now,
		modified:  now,
		accessed:  now,
		children:  map[string]*node{},
	}
}

func newFile(now time.Time) *node {
	return &node{
		entryType: remotefs.TypeFile,
		mode:      remotefs.UnixPexFromOctal(0o644),
		created:   now,
		modified:  now,
		accessed:  now,
	}
}

func newSymlink(now time.Time, target string) *node {
	return &node{
		entryType: remotefs.TypeSymlink,
		mode:      remotefs.UnixPexFromOctal(0o777),
		created:   now,
		modified:  now,
		accessed:  now,
		target:    target,
	}
}

// clone deep-copies the subtree rooted at n, stamping every copy with
// fresh timestamps the way a plain cp would.
func (n *node) clone(now time.Time) *node {
	c := &node{
		entryType: n.entryType,
		mode:      n.mode,
		created:   now,
		modified:  now,
		accessed:  now,
		target:    n.target,
	}
	if n.content != nil {
		c.content = append([]byte(nil), n.content...)
	}
	if n.children != nil {
		c.children = make(map[string]*node, len(n.children))
		for name, child := range n.children {
			c.children[name] = child.clone(now)
		}
	}
	return c
}

// Option customizes an FS.
type Option func(*FS)

// WithLogger attaches a logger for mutation diagnostics. The default
// discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(f *FS) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithClock overrides the timestamp source, letting tests pin time.
func WithClock(now func() time.Time) Option {
	return func(f *FS) {
		if now != nil {
			f.now = now
		}
	}
}

// FS is an in-memory remotefs driver. The zero value is not usable; call
// New.
type FS struct {
	logger    *zap.Logger
	now       func() time.Time
	root      *node
	cwd       string
	connected bool
}

var _ remotefs.Fs = (*FS)(nil)

// New returns an FS holding an empty tree rooted at "/".
func New(opts ...Option) *FS {
	f := &FS{
		logger: zap.NewNop(),
		now:    time.Now,
		cwd:    "/",
	}
	for _, opt := range opts {
		opt(f)
	}
	f.root = newDir(f.now())
	return f
}

// Connect marks the session live and resets the working directory to
// the root. The tree itself is untouched, so reconnecting sees the same
// state the previous session left behind.
func (f *FS) Connect(ctx context.Context) error {
	if f.connected {
		return remotefs.Errorf(remotefs.KindProtocol, "session already connected")
	}
	f.connected = true
	f.cwd = "/"
	f.logger.Debug("session connected")
	return nil
}

// Disconnect marks the session closed. Open streams fail their next
// read, write or close with KindIO. Safe to call on a session that
// never connected.
func (f *FS) Disconnect(ctx context.Context) error {
	f.connected = false
	f.logger.Debug("session disconnected")
	return nil
}

// IsConnected reports the session state.
func (f *FS) IsConnected() bool {
	return f.connected
}

// Pwd returns the current working directory.
func (f *FS) Pwd(ctx context.Context) (string, error) {
	if err := f.ensureConnected(); err != nil {
		return "", err
	}
	return f.cwd, nil
}

// ChangeDir moves the working directory to dir and returns the new
// absolute working directory. The target must be a directory proper;
// symlinks are not followed anywhere in this driver.
func (f *FS) ChangeDir(ctx context.Context, dir string) (string, error) {
	abs, n, err := f.lookup(dir)
	if err != nil {
		return "", err
	}
	if n.entryType != remotefs.TypeDir {
		return "", remotefs.Errorf(remotefs.KindNotADirectory, "%s", abs)
	}
	f.cwd = abs
	return abs, nil
}

func (f *FS) ensureConnected() error {
	if !f.connected {
		return remotefs.NewError(remotefs.KindNotConnected)
	}
	return nil
}

func (f *FS) resolve(p string) (string, error) {
	if err := f.ensureConnected(); err != nil {
		return "", err
	}
	return remotefs.Resolve(p, f.cwd)
}

// nodeAt walks the tree to the already-resolved path abs. The final
// component may be any type; an intermediate component that is not a
// directory fails with KindNotADirectory.
func (f *FS) nodeAt(abs string) (*node, error) {
	n := f.root
	segs := pathutil.Segments(abs)
	for i, seg := range segs {
		if n.entryType != remotefs.TypeDir {
			return nil, remotefs.Errorf(remotefs.KindNotADirectory, "%s", joinSegs(segs[:i]))
		}
		child, ok := n.children[seg]
		if !ok {
			return nil, remotefs.Errorf(remotefs.KindNotFound, "%s", abs)
		}
		n = child
	}
	return n, nil
}

func joinSegs(segs []string) string {
	out := ""
	for _, s := range segs {
		out += "/" + s
	}
	if out == "" {
		return "/"
	}
	return out
}

// lookup resolves p against the working directory and walks to its node.
func (f *FS) lookup(p string) (string, *node, error) {
	abs, err := f.resolve(p)
	if err != nil {
		return "", nil, err
	}
	n, err := f.nodeAt(abs)
	if err != nil {
		return abs, nil, err
	}
	return abs, n, nil
}

// lookupParent returns the directory that does or would contain abs.
// Missing parents are KindNotFound, a parent that is not a directory is
// KindNotADirectory.
func (f *FS) lookupParent(abs string) (*node, error) {
	parent, err := f.nodeAt(pathutil.Parent(abs))
	if err != nil {
		return nil, err
	}
	if parent.entryType != remotefs.TypeDir {
		return nil, remotefs.Errorf(remotefs.KindNotADirectory, "%s", pathutil.Parent(abs))
	}
	return parent, nil
}

// followLinks chases a symlink chain starting at abs. It returns the
// terminal absolute path and its node, or a nil node when the chain ends
// at a path with no entry, which is how OpenWrite creates through a
// dangling link.
func (f *FS) followLinks(abs string) (string, *node, error) {
	for hop := 0; hop < maxLinkHops; hop++ {
		n, err := f.nodeAt(abs)
		if err != nil {
			if remotefs.IsKind(err, remotefs.KindNotFound) {
				return abs, nil, nil
			}
			return "", nil, err
		}
		if n.entryType != remotefs.TypeSymlink {
			return abs, n, nil
		}
		next, err := remotefs.Resolve(n.target, pathutil.Parent(abs))
		if err != nil {
			return "", nil, err
		}
		abs = next
	}
	return "", nil, remotefs.Errorf(remotefs.KindBadPath, "too many levels of symbolic links: %s", abs)
}

// entryAt snapshots n into an Entry. Timestamps are copied by value so
// the caller cannot reach back into the tree, and ownership stays nil:
// this backend has no users or groups to report.
func (f *FS) entryAt(abs string, n *node) remotefs.Entry {
	mode := n.mode
	created, modified, accessed := n.created, n.modified, n.accessed
	md := remotefs.Metadata{
		Size:     int64(len(n.content)),
		Mode:     &mode,
		Created:  &created,
		Modified: &modified,
		Accessed: &accessed,
	}
	if n.entryType == remotefs.TypeSymlink {
		if target, err := remotefs.Resolve(n.target, pathutil.Parent(abs)); err == nil {
			md.LinkTarget = target
		}
	}
	return remotefs.Entry{
		Path:     abs,
		Type:     n.entryType,
		Metadata: md,
	}
}

// sortedNames returns the children of dir in name order, which gives
// ListDir a deterministic order within and across calls.
func sortedNames(dir *node) []string {
	names := make([]string, 0, len(dir.children))
	for name := range dir.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
