// Package pathutil provides lexical helpers for the POSIX-style path
// model shared by the filesystem contract and its drivers.
//
// All functions operate on slash-separated remote paths and never touch
// the local operating system: resolution is purely lexical, so "a/../b"
// collapses to "b" regardless of what the remote tree actually contains.
package pathutil

import (
	"errors"
	"path"
	"strings"
)

var (
	// ErrInvalid reports a path no remote entry can have: one that is
	// empty or embeds NUL or control bytes.
	ErrInvalid = errors.New("invalid path")

	// ErrNotAbsolute reports a working directory that does not start
	// with a slash.
	ErrNotAbsolute = errors.New("working directory is not absolute")
)

// Validate rejects paths that can never address a remote entry.
// Horizontal tab is allowed; NUL and the remaining C0 control bytes are
// not, since protocol encodings cannot carry them safely.
func Validate(p string) error {
	if p == "" {
		return ErrInvalid
	}
	for _, r := range p {
		if r == '\x00' || (r < 0x20 && r != '\t') {
			return ErrInvalid
		}
	}
	return nil
}

// IsAbs reports whether p is an absolute POSIX path.
func IsAbs(p string) bool {
	return strings.HasPrefix(p, "/")
}

// Normalize returns the canonical form of p interpreted as an absolute
// path: repeated slashes collapsed, "." and ".." resolved lexically and
// clamped at the root, no trailing slash except on the root itself.
func Normalize(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// Resolve resolves p against the absolute working directory cwd and
// returns the normalized absolute result. An absolute p ignores cwd; an
// empty p resolves to cwd itself. Resolution never consults the remote
// tree, so the result may name an entry that does not exist.
func Resolve(p, cwd string) (string, error) {
	if err := Validate(cwd); err != nil {
		return "", err
	}
	if !IsAbs(cwd) {
		return "", ErrNotAbsolute
	}
	if p == "" {
		return Normalize(cwd), nil
	}
	if err := Validate(p); err != nil {
		return "", err
	}
	if IsAbs(p) {
		return Normalize(p), nil
	}
	return Normalize(cwd + "/" + p), nil
}

// Base returns the final component of p, "/" for the root itself.
func Base(p string) string {
	return path.Base(Normalize(p))
}

// Parent returns the directory containing p. The parent of the root is
// the root.
func Parent(p string) string {
	return path.Dir(Normalize(p))
}

// Join appends name to dir with a single separator and normalizes the
// result.
func Join(dir, name string) string {
	return Normalize(dir + "/" + name)
}

// Depth returns the number of components below the root: 0 for "/",
// 1 for "/srv", 2 for "/srv/data".
func Depth(p string) int {
	n := Normalize(p)
	if n == "/" {
		return 0
	}
	return strings.Count(n, "/")
}

// Segments splits p into its components, root excluded. The root itself
// yields nil.
func Segments(p string) []string {
	n := Normalize(p)
	if n == "/" {
		return nil
	}
	return strings.Split(n[1:], "/")
}

// Within reports whether p equals base or lies underneath it. Both
// arguments are normalized before comparison, so "/a/b/.." is within
// "/a".
func Within(p, base string) bool {
	p, base = Normalize(p), Normalize(base)
	if base == "/" {
		return true
	}
	return p == base || strings.HasPrefix(p, base+"/")
}
