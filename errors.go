package remotefs

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure a driver may surface through the
// contract. Drivers translate protocol-specific failures into exactly
// one kind at the boundary, so callers can branch on the kind without
// inspecting backend detail.
type ErrorKind uint8

const (
	// KindProtocol is a backend failure not otherwise classified. It is
	// the zero value, so an unclassified error degrades to it instead of
	// masquerading as something more specific.
	KindProtocol ErrorKind = iota
	// KindNotConnected reports a remote operation attempted before
	// Connect succeeded or after Disconnect.
	KindNotConnected
	// KindConnectionFailed reports that the transport could not be
	// established or was lost mid-session.
	KindConnectionFailed
	// KindAuthFailed reports rejected credentials.
	KindAuthFailed
	// KindNotFound reports a path that names no entry.
	KindNotFound
	// KindPermissionDenied reports an entry the session may not touch.
	KindPermissionDenied
	// KindAlreadyExists reports a destination that is already occupied.
	KindAlreadyExists
	// KindNotADirectory reports a directory operation aimed at a
	// non-directory.
	KindNotADirectory
	// KindIsADirectory reports a file operation aimed at a directory.
	KindIsADirectory
	// KindUnsupported reports an operation the backend cannot perform at
	// all, regardless of arguments.
	KindUnsupported
	// KindIO reports a transport-level read or write failure.
	KindIO
	// KindBadPath reports a malformed or unresolvable path.
	KindBadPath
)

// String returns the conventional lowercase description of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotConnected:
		return "not connected"
	case KindConnectionFailed:
		return "connection failed"
	case KindAuthFailed:
		return "authentication failed"
	case KindNotFound:
		return "no such file or directory"
	case KindPermissionDenied:
		return "permission denied"
	case KindAlreadyExists:
		return "file already exists"
	case KindNotADirectory:
		return "not a directory"
	case KindIsADirectory:
		return "is a directory"
	case KindUnsupported:
		return "unsupported operation"
	case KindIO:
		return "i/o error"
	case KindBadPath:
		return "bad path"
	default:
		return "protocol error"
	}
}

// Kind sentinels for errors.Is tests. Matching is by kind only, so
// errors.Is(err, ErrNotFound) holds for any contract error carrying
// KindNotFound whatever its message or cause.
var (
	ErrProtocol         = &Error{Kind: KindProtocol}
	ErrNotConnected     = &Error{Kind: KindNotConnected}
	ErrConnectionFailed = &Error{Kind: KindConnectionFailed}
	ErrAuthFailed       = &Error{Kind: KindAuthFailed}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrAlreadyExists    = &Error{Kind: KindAlreadyExists}
	ErrNotADirectory    = &Error{Kind: KindNotADirectory}
	ErrIsADirectory     = &Error{Kind: KindIsADirectory}
	ErrUnsupported      = &Error{Kind: KindUnsupported}
	ErrIO               = &Error{Kind: KindIO}
	ErrBadPath          = &Error{Kind: KindBadPath}
)

// Error is the single error type that crosses the contract. Kind carries
// the classification, Message optional human-readable detail and Cause
// the underlying backend error, preserved for diagnostics but never
// required for control flow.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// NewError returns a bare error of the given kind.
func NewError(kind ErrorKind) *Error {
	return &Error{Kind: kind}
}

// Errorf returns an error of the given kind with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError classifies cause under the given kind, keeping it reachable
// through errors.Is and errors.As.
func WrapError(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes the backend cause to the errors package.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, which lets the exported kind
// sentinels work with errors.Is across wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf extracts the taxonomy kind from err. Errors that did not
// originate in a driver report KindProtocol, the catch-all.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindProtocol
}

// IsKind reports whether err carries the given kind. Unlike KindOf it
// distinguishes a genuine KindProtocol error from a foreign error.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
