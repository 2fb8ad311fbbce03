package remotefs

import "github.com/remotefs/remotefs/internal/pathutil"

// Resolve resolves path against the absolute working directory cwd and
// returns its normalized absolute form: single slashes, no trailing
// slash except on the root, "." and ".." collapsed lexically and ".."
// clamped at the root. Resolution is idempotent, so resolving an
// already-resolved path changes nothing.
//
// Two paths name the same entry exactly when their resolved forms are
// equal; ordering, where a caller needs one, is plain lexicographic
// comparison of resolved forms.
//
// Fails with KindBadPath when path or cwd is malformed or cwd is not
// absolute.
func Resolve(path, cwd string) (string, error) {
	resolved, err := pathutil.Resolve(path, cwd)
	if err != nil {
		return "", WrapError(KindBadPath, err)
	}
	return resolved, nil
}

// IsAbs reports whether path is absolute, i.e. starts with a slash.
func IsAbs(path string) bool {
	return pathutil.IsAbs(path)
}
