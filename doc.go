// Package remotefs defines a protocol-agnostic contract for operating on
// remote filesystems, so that code written against it works unchanged
// over SFTP, FTP, object stores or any other backend with a driver.
//
// The package has four parts:
//
//   - a data model describing remote entries (Entry, Metadata, UnixPex)
//     that carries exactly what a backend reports, with nil marking what
//     it cannot report rather than invented defaults;
//
//   - a closed error taxonomy (ErrorKind, Error) every driver translates
//     its protocol failures into, tested with errors.Is against the kind
//     sentinels such as ErrNotFound;
//
//   - the Fs interface, one value per session, with blocking operations
//     covering navigation, inspection, transfer and manipulation;
//
//   - a Finder that walks any Fs recursively and matches entries against
//     shell-style wildcard patterns without ever following symlinks.
//
// Helpers like ReadFile and WriteFile cover the common whole-file cases
// on top of the streaming operations.
//
// Sessions are single-threaded by contract: one Fs value must not be
// shared between goroutines without external locking, and concurrent
// mutation of the same remote tree through separate sessions is subject
// to the remote server's own semantics. The memfs subpackage provides a
// complete in-memory driver used throughout the tests; the middleware
// subpackage wraps any driver with logging, Prometheus metrics, rate
// limiting or a serializing mutex for shared sessions.
package remotefs
