package memfs

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remotefs/remotefs"
)

func TestStat(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/data.bin", []byte("12345")))

	entry, err := fsys.Stat(ctx, "/data.bin")
	require.NoError(t, err)

	assert.Equal(t, "/data.bin", entry.Path)
	assert.True(t, entry.IsFile())
	assert.Equal(t, int64(5), entry.Metadata.Size)
	require.NotNil(t, entry.Metadata.Mode)
	assert.Equal(t, remotefs.UnixPexFromOctal(0o644), *entry.Metadata.Mode)
	assert.NotNil(t, entry.Metadata.Modified)
	assert.NotNil(t, entry.Metadata.Accessed)
	assert.NotNil(t, entry.Metadata.Created)

	// This backend has no ownership concept, and reports that as
	// unknown rather than uid 0.
	assert.Nil(t, entry.Metadata.UID)
	assert.Nil(t, entry.Metadata.GID)
}

func TestStatRootAndMissing(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)

	entry, err := fsys.Stat(ctx, "/")
	require.NoError(t, err)
	assert.True(t, entry.IsDir())

	_, err = fsys.Stat(ctx, "/nowhere")
	assert.True(t, remotefs.IsKind(err, remotefs.KindNotFound))
}

func TestStatDescribesSymlinkItself(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/target.txt", []byte("t")))
	require.NoError(t, fsys.Symlink(ctx, "/link", "target.txt"))

	entry, err := fsys.Stat(ctx, "/link")
	require.NoError(t, err)
	assert.True(t, entry.IsSymlink())
	assert.Equal(t, "/target.txt", entry.Metadata.LinkTarget)
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/here", []byte("x")))

	ok, err := fsys.Exists(ctx, "/here")
	require.NoError(t, err)
	assert.True(t, ok)

	// Absence is an answer, not an error.
	ok, err = fsys.Exists(ctx, "/not-here")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestRemoveFileThenStat covers the contract sequence: after a
// successful removal the path stats as missing.
func TestRemoveFileThenStat(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/doomed", []byte("x")))

	require.NoError(t, fsys.RemoveFile(ctx, "/doomed"))

	_, err := fsys.Stat(ctx, "/doomed")
	assert.True(t, remotefs.IsKind(err, remotefs.KindNotFound))
}

func TestRemoveFileFailures(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, fsys.CreateDir(ctx, "/dir", false))

	err := fsys.RemoveFile(ctx, "/dir")
	assert.True(t, remotefs.IsKind(err, remotefs.KindIsADirectory))

	err = fsys.RemoveFile(ctx, "/absent")
	assert.True(t, remotefs.IsKind(err, remotefs.KindNotFound))
}

func TestRemoveFileOnSymlinkLeavesTarget(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/kept.txt", []byte("k")))
	require.NoError(t, fsys.Symlink(ctx, "/link", "/kept.txt"))

	require.NoError(t, fsys.RemoveFile(ctx, "/link"))

	ok, err := fsys.Exists(ctx, "/kept.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/old.txt", []byte("payload")))

	require.NoError(t, fsys.Rename(ctx, "/old.txt", "/new.txt"))

	_, err := fsys.Stat(ctx, "/old.txt")
	assert.True(t, remotefs.IsKind(err, remotefs.KindNotFound))

	got, err := remotefs.ReadFile(ctx, fsys, "/new.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)
}

func TestRenameDirectory(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, fsys.CreateDir(ctx, "/src/nested", true))
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/src/nested/f.txt", []byte("f")))

	require.NoError(t, fsys.Rename(ctx, "/src", "/dst"))

	got, err := remotefs.ReadFile(ctx, fsys, "/dst/nested/f.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("f"), got)
}

// TestRenameOntoExisting pins the no-overwrite contract: the move is
// rejected with AlreadyExists and the source is left exactly as it was.
func TestRenameOntoExisting(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/src.txt", []byte("source")))
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/dst.txt", []byte("destination")))

	err := fsys.Rename(ctx, "/src.txt", "/dst.txt")
	assert.True(t, remotefs.IsKind(err, remotefs.KindAlreadyExists))

	got, err := remotefs.ReadFile(ctx, fsys, "/src.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("source"), got)

	got, err = remotefs.ReadFile(ctx, fsys, "/dst.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("destination"), got)
}

func TestRenameFailures(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/f", []byte("x")))

	err := fsys.Rename(ctx, "/absent", "/anywhere")
	assert.True(t, remotefs.IsKind(err, remotefs.KindNotFound))

	err = fsys.Rename(ctx, "/f", "/no-parent/f")
	assert.True(t, remotefs.IsKind(err, remotefs.KindNotFound))
}

func TestCopyFile(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/orig", []byte("shared bytes")))

	require.NoError(t, fsys.Copy(ctx, "/orig", "/dup"))

	got, err := remotefs.ReadFile(ctx, fsys, "/dup")
	require.NoError(t, err)
	assert.Equal(t, []byte("shared bytes"), got)

	// The copy is independent: rewriting the original must not bleed
	// into the duplicate.
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/orig", []byte("changed")))
	got, err = remotefs.ReadFile(ctx, fsys, "/dup")
	require.NoError(t, err)
	assert.Equal(t, []byte("shared bytes"), got)
}

func TestCopyDirectoryRecursive(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, fsys.CreateDir(ctx, "/proj/sub", true))
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/proj/a.txt", []byte("a")))
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/proj/sub/b.txt", []byte("b")))

	require.NoError(t, fsys.Copy(ctx, "/proj", "/backup"))

	for path, want := range map[string][]byte{
		"/backup/a.txt":     []byte("a"),
		"/backup/sub/b.txt": []byte("b"),
	} {
		got, err := remotefs.ReadFile(ctx, fsys, path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	// Source is intact after the copy.
	got, err := remotefs.ReadFile(ctx, fsys, "/proj/sub/b.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), got)
}

func TestCopyFailures(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, fsys.CreateDir(ctx, "/dir", false))
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/f", []byte("x")))
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/taken", []byte("y")))

	err := fsys.Copy(ctx, "/f", "/taken")
	assert.True(t, remotefs.IsKind(err, remotefs.KindAlreadyExists))

	err = fsys.Copy(ctx, "/absent", "/x")
	assert.True(t, remotefs.IsKind(err, remotefs.KindNotFound))

	// A directory cannot be copied into its own subtree.
	err = fsys.Copy(ctx, "/dir", "/dir/inner")
	assert.True(t, remotefs.IsKind(err, remotefs.KindBadPath))
}

func TestOpenReadSnapshot(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/f", []byte("before")))

	r, err := fsys.OpenRead(ctx, "/f")
	require.NoError(t, err)
	defer r.Close()

	// A write that lands while the stream is open does not bleed into it.
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/f", []byte("after")))

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("before"), got)
}

func TestOpenReadFailures(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, fsys.CreateDir(ctx, "/dir", false))

	_, err := fsys.OpenRead(ctx, "/dir")
	assert.True(t, remotefs.IsKind(err, remotefs.KindIsADirectory))

	_, err = fsys.OpenRead(ctx, "/absent")
	assert.True(t, remotefs.IsKind(err, remotefs.KindNotFound))
}

func TestOpenReadFollowsLink(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/real.txt", []byte("real")))
	require.NoError(t, fsys.Symlink(ctx, "/via", "/real.txt"))

	got, err := remotefs.ReadFile(ctx, fsys, "/via")
	require.NoError(t, err)
	assert.Equal(t, []byte("real"), got)

	// A dangling link reads as missing.
	require.NoError(t, fsys.Symlink(ctx, "/dangling", "/nothing"))
	_, err = remotefs.ReadFile(ctx, fsys, "/dangling")
	assert.True(t, remotefs.IsKind(err, remotefs.KindNotFound))
}

func TestSymlinkCycleFails(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, fsys.Symlink(ctx, "/ping", "/pong"))
	require.NoError(t, fsys.Symlink(ctx, "/pong", "/ping"))

	_, err := fsys.OpenRead(ctx, "/ping")
	require.Error(t, err)
	assert.True(t, remotefs.IsKind(err, remotefs.KindBadPath))
}

// TestWriteCommitsOnClose checks the stream contract: nothing is
// observable as complete until Close succeeds.
func TestWriteCommitsOnClose(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/f", []byte("old")))

	w, err := fsys.OpenWrite(ctx, "/f", false)
	require.NoError(t, err)
	_, err = w.Write([]byte("replacement"))
	require.NoError(t, err)

	// Before Close the old content is still what readers see.
	got, err := remotefs.ReadFile(ctx, fsys, "/f")
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), got)

	require.NoError(t, w.Close())

	got, err = remotefs.ReadFile(ctx, fsys, "/f")
	require.NoError(t, err)
	assert.Equal(t, []byte("replacement"), got)
}

func TestOpenWriteCreatesThroughDanglingLink(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, fsys.Symlink(ctx, "/alias", "/actual"))

	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/alias", []byte("created")))

	got, err := remotefs.ReadFile(ctx, fsys, "/actual")
	require.NoError(t, err)
	assert.Equal(t, []byte("created"), got)
}

func TestOpenWriteFailures(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, fsys.CreateDir(ctx, "/dir", false))

	_, err := fsys.OpenWrite(ctx, "/dir", false)
	assert.True(t, remotefs.IsKind(err, remotefs.KindIsADirectory))

	_, err = fsys.OpenWrite(ctx, "/no-parent/f", false)
	assert.True(t, remotefs.IsKind(err, remotefs.KindNotFound))
}

// TestStreamsDieWithSession turns the session off mid-stream and checks
// that both directions fail with the transport kind, and that a cut-off
// write leaves the previous content in place.
func TestStreamsDieWithSession(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/f", []byte("stable")))

	r, err := fsys.OpenRead(ctx, "/f")
	require.NoError(t, err)
	w, err := fsys.OpenWrite(ctx, "/f", false)
	require.NoError(t, err)
	_, err = w.Write([]byte("doomed half-write"))
	require.NoError(t, err)

	require.NoError(t, fsys.Disconnect(ctx))

	_, err = r.Read(make([]byte, 1))
	assert.True(t, remotefs.IsKind(err, remotefs.KindIO))

	_, err = w.Write([]byte("more"))
	assert.True(t, remotefs.IsKind(err, remotefs.KindIO))
	err = w.Close()
	assert.True(t, remotefs.IsKind(err, remotefs.KindIO))

	// The interrupted write never became visible.
	require.NoError(t, fsys.Connect(ctx))
	got, err := remotefs.ReadFile(ctx, fsys, "/f")
	require.NoError(t, err)
	assert.Equal(t, []byte("stable"), got)
}

func TestSetStat(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/f", []byte("x")))

	mode := remotefs.UnixPexFromOctal(0o600)
	mtime := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, fsys.SetStat(ctx, "/f", remotefs.Metadata{
		Mode:     &mode,
		Modified: &mtime,
	}))

	entry, err := fsys.Stat(ctx, "/f")
	require.NoError(t, err)
	require.NotNil(t, entry.Metadata.Mode)
	assert.Equal(t, mode, *entry.Metadata.Mode)
	require.NotNil(t, entry.Metadata.Modified)
	assert.Equal(t, mtime, *entry.Metadata.Modified)
}

func TestSetStatPartial(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/f", []byte("x")))

	before, err := fsys.Stat(ctx, "/f")
	require.NoError(t, err)

	// Nil fields are left alone, not zeroed.
	mode := remotefs.UnixPexFromOctal(0o700)
	require.NoError(t, fsys.SetStat(ctx, "/f", remotefs.Metadata{Mode: &mode}))

	after, err := fsys.Stat(ctx, "/f")
	require.NoError(t, err)
	assert.Equal(t, mode, *after.Metadata.Mode)
	assert.Equal(t, *before.Metadata.Modified, *after.Metadata.Modified)
}

func TestSymlinkCreation(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/t", []byte("x")))

	require.NoError(t, fsys.Symlink(ctx, "/l", "/t"))

	err := fsys.Symlink(ctx, "/l", "/t")
	assert.True(t, remotefs.IsKind(err, remotefs.KindAlreadyExists))

	// Dangling links are legal at creation time.
	assert.NoError(t, fsys.Symlink(ctx, "/future", "/not-yet"))
}

func TestExecUnsupported(t *testing.T) {
	fsys := connected(t)

	_, err := fsys.Exec(context.Background(), "uname -a")
	require.Error(t, err)
	assert.True(t, remotefs.IsKind(err, remotefs.KindUnsupported))
}
