package memfs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remotefs/remotefs"
)

func connected(t *testing.T, opts ...Option) *FS {
	t.Helper()
	fsys := New(opts...)
	require.NoError(t, fsys.Connect(context.Background()))
	return fsys
}

func TestConnectLifecycle(t *testing.T) {
	ctx := context.Background()
	fsys := New()

	assert.False(t, fsys.IsConnected())

	require.NoError(t, fsys.Connect(ctx))
	assert.True(t, fsys.IsConnected())

	// Connecting a live session is a usage error.
	err := fsys.Connect(ctx)
	require.Error(t, err)
	assert.True(t, remotefs.IsKind(err, remotefs.KindProtocol))

	require.NoError(t, fsys.Disconnect(ctx))
	assert.False(t, fsys.IsConnected())
}

func TestDisconnectWithoutConnect(t *testing.T) {
	fsys := New()
	assert.NoError(t, fsys.Disconnect(context.Background()))
}

func TestOperationsRequireConnection(t *testing.T) {
	fsys := New()
	ctx := context.Background()

	_, err := fsys.Pwd(ctx)
	assert.True(t, remotefs.IsKind(err, remotefs.KindNotConnected))

	_, err = fsys.Stat(ctx, "/")
	assert.True(t, remotefs.IsKind(err, remotefs.KindNotConnected))

	err = fsys.CreateDir(ctx, "/x", false)
	assert.True(t, remotefs.IsKind(err, remotefs.KindNotConnected))
}

// TestStateSurvivesReconnect checks that the tree outlives the session,
// so fixtures built once keep working across a disconnect.
func TestStateSurvivesReconnect(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)

	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/keep.txt", []byte("kept")))
	require.NoError(t, fsys.Disconnect(ctx))
	require.NoError(t, fsys.Connect(ctx))

	got, err := remotefs.ReadFile(ctx, fsys, "/keep.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("kept"), got)
}

func TestPwdAndChangeDir(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)

	wd, err := fsys.Pwd(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/", wd)

	require.NoError(t, fsys.CreateDir(ctx, "/srv/data", true))

	wd, err = fsys.ChangeDir(ctx, "/srv")
	require.NoError(t, err)
	assert.Equal(t, "/srv", wd)

	// Relative navigation resolves against the working directory.
	wd, err = fsys.ChangeDir(ctx, "data")
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", wd)

	wd, err = fsys.ChangeDir(ctx, "..")
	require.NoError(t, err)
	assert.Equal(t, "/srv", wd)
}

func TestChangeDirFailures(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/plain.txt", nil))

	_, err := fsys.ChangeDir(ctx, "/missing")
	assert.True(t, remotefs.IsKind(err, remotefs.KindNotFound))

	_, err = fsys.ChangeDir(ctx, "/plain.txt")
	assert.True(t, remotefs.IsKind(err, remotefs.KindNotADirectory))

	// The working directory is unchanged after a failed change.
	wd, err := fsys.Pwd(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/", wd)
}

func TestReconnectResetsWorkingDirectory(t *testing.T) {
	ctx := context.Background()
	fsys := connected(t)
	require.NoError(t, fsys.CreateDir(ctx, "/deep", false))

	_, err := fsys.ChangeDir(ctx, "/deep")
	require.NoError(t, err)

	require.NoError(t, fsys.Disconnect(ctx))
	require.NoError(t, fsys.Connect(ctx))

	wd, err := fsys.Pwd(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/", wd)
}

func TestWithClock(t *testing.T) {
	ctx := context.Background()
	frozen := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	fsys := connected(t, WithClock(func() time.Time { return frozen }))

	require.NoError(t, remotefs.WriteFile(ctx, fsys, "/stamped", []byte("x")))

	entry, err := fsys.Stat(ctx, "/stamped")
	require.NoError(t, err)
	require.NotNil(t, entry.Metadata.Modified)
	assert.Equal(t, frozen, *entry.Metadata.Modified)
	require.NotNil(t, entry.Metadata.Created)
	assert.Equal(t, frozen, *entry.Metadata.Created)
}
