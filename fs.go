package remotefs

import (
	"context"
	"io"
)

// ExecResult carries what a remote command produced.
type ExecResult struct {
	// ExitCode is the remote process exit status.
	ExitCode int

	// Output is the combined stdout and stderr exactly as the remote
	// side produced it.
	Output string
}

// Fs is the contract every backend driver implements. One value is one
// session against one remote endpoint; it is not safe for concurrent use
// and callers needing parallelism open additional sessions.
//
// Every remote operation is blocking and, except for the explicitly
// tolerant cases called out below, either fully succeeds or reports a
// single *Error classified by ErrorKind. Cancelling the passed context
// between operations is honored where a driver can do so; the contract
// itself does not promise mid-operation cancellation, and a caller that
// must abort an in-flight transfer closes the connection instead, which
// turns the stream's next read or write into a KindIO failure.
//
// Paths may be absolute or relative; relative paths resolve against the
// session working directory maintained by ChangeDir. All returned paths
// are absolute and normalized.
type Fs interface {
	// Connect establishes the session. Calling Connect on an
	// already-connected session is a usage error and fails with a
	// driver-chosen kind, typically KindProtocol. After a failed
	// Connect the value is still reusable for another attempt.
	Connect(ctx context.Context) error

	// Disconnect releases the session. It is safe to call even when the
	// session never connected; disconnecting twice after a successful
	// Disconnect is a usage error a driver may tolerate or report.
	Disconnect(ctx context.Context) error

	// IsConnected reports the last known session state. It performs no
	// remote round trip, so a dropped transport may be discovered only
	// by the next operation.
	IsConnected() bool

	// Pwd returns the absolute working directory of the session.
	Pwd(ctx context.Context) (string, error)

	// ChangeDir moves the session working directory to dir and returns
	// the new absolute working directory. Fails with KindNotFound when
	// dir does not exist and KindNotADirectory when it is not a
	// directory; the working directory is unchanged on failure.
	ChangeDir(ctx context.Context, dir string) (string, error)

	// Stat describes the entry at path. Symlinks are described as
	// themselves, not followed, unless a driver documents otherwise.
	// Fails with KindNotFound when nothing is there.
	Stat(ctx context.Context, path string) (*Entry, error)

	// Exists reports whether path names an entry. Only a definite
	// KindNotFound maps to (false, nil); any other failure is returned
	// as an error, never folded into false.
	Exists(ctx context.Context, path string) (bool, error)

	// ListDir returns the immediate children of the directory at path,
	// each with the same metadata fidelity as Stat. Order is stable
	// within a call but otherwise unspecified. Fails with
	// KindNotADirectory when path is not a directory.
	ListDir(ctx context.Context, path string) ([]Entry, error)

	// CreateDir creates the directory at path. With recursive set,
	// missing ancestors are created as well, like mkdir -p. Fails with
	// KindAlreadyExists when path exists, directory or not, and with
	// KindNotFound when recursive is false and the parent is missing.
	CreateDir(ctx context.Context, path string, recursive bool) error

	// RemoveDir removes the empty directory at path. Fails with
	// KindNotADirectory when path is not a directory; removing a
	// non-empty directory fails with a driver-reported kind.
	RemoveDir(ctx context.Context, path string) error

	// RemoveDirAll removes the directory at path and everything under
	// it. Fails with KindNotADirectory when path is not a directory.
	RemoveDirAll(ctx context.Context, path string) error

	// RemoveFile removes the file or symlink at path. Fails with
	// KindIsADirectory when path is a directory.
	RemoveFile(ctx context.Context, path string) error

	// Rename moves src to dst, directories included. When dst exists
	// and the driver does not overwrite, it fails with
	// KindAlreadyExists and src is untouched. A driver whose protocol
	// lacks an atomic move may emulate it as copy then delete, but must
	// confirm dst is complete before removing src so no outcome loses
	// the data.
	Rename(ctx context.Context, src, dst string) error

	// Copy duplicates src to dst. Drivers whose protocol has no remote
	// copy fail with KindUnsupported rather than emulating it with a
	// download and re-upload. When dst exists and the driver does not
	// overwrite, it fails with KindAlreadyExists.
	Copy(ctx context.Context, src, dst string) error

	// OpenRead opens the file at path for sequential reading. The
	// caller owns the stream and must Close it; many drivers block
	// other operations on the session until then. Fails with
	// KindIsADirectory when path is a directory.
	OpenRead(ctx context.Context, path string) (io.ReadCloser, error)

	// OpenWrite opens the file at path for sequential writing, creating
	// it when absent, truncating it when present unless appendMode is
	// set. Data is not guaranteed durable until Close returns nil; a
	// driver must not leave a half-written stream observable as a
	// complete file without reporting an error.
	OpenWrite(ctx context.Context, path string, appendMode bool) (io.WriteCloser, error)

	// SetStat applies the non-nil fields of meta to the entry at path.
	// Fields the backend cannot set are skipped or reported per driver
	// documentation; drivers without any metadata writing fail with
	// KindUnsupported.
	SetStat(ctx context.Context, path string, meta Metadata) error

	// Symlink creates a symbolic link at path pointing at target.
	// Fails with KindAlreadyExists when path is occupied and with
	// KindUnsupported on backends without symlinks.
	Symlink(ctx context.Context, path, target string) error

	// Exec runs command on the remote side and returns its exit code
	// and combined output. Most backends cannot do this and fail with
	// KindUnsupported.
	Exec(ctx context.Context, command string) (*ExecResult, error)
}
