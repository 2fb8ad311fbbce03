package remotefs

import (
	"path"
	"strings"

	"github.com/remotefs/remotefs/internal/pathutil"
)

// EntryType discriminates the three entry variants. Anything a backend
// reports that is neither a directory nor a symlink (sockets, devices,
// fifos) is mapped to TypeFile by its driver.
type EntryType uint8

const (
	TypeFile EntryType = iota
	TypeDir
	TypeSymlink
)

// String returns "file", "dir" or "symlink".
func (t EntryType) String() string {
	switch t {
	case TypeDir:
		return "dir"
	case TypeSymlink:
		return "symlink"
	default:
		return "file"
	}
}

// Entry is a snapshot of one remote filesystem object as returned by
// Stat, ListDir and the find engine. It never updates after the call
// that produced it returns; query again for fresh state.
type Entry struct {
	// Path is the absolute, normalized location of the entry.
	Path string

	// Type discriminates file, directory and symlink. Symlink entries
	// describe the link itself, not whatever it points at.
	Type EntryType

	// Metadata holds whatever the backend could report. See Metadata for
	// the unknown-versus-zero convention.
	Metadata Metadata
}

// Name returns the final path component.
func (e Entry) Name() string {
	return pathutil.Base(e.Path)
}

// Extension returns the suffix after the last dot of the name, without
// the dot. Directories and names with no dot yield "". A name that is
// nothing but a leading dot, like ".profile", also yields "", matching
// the usual hidden-file convention.
func (e Entry) Extension() string {
	if e.Type == TypeDir {
		return ""
	}
	name := e.Name()
	ext := path.Ext(name)
	if ext == name {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.Type == TypeDir }

// IsFile reports whether the entry is a regular file.
func (e Entry) IsFile() bool { return e.Type == TypeFile }

// IsSymlink reports whether the entry is a symbolic link.
func (e Entry) IsSymlink() bool { return e.Type == TypeSymlink }

// IsHidden reports whether the name starts with a dot.
func (e Entry) IsHidden() bool {
	return strings.HasPrefix(e.Name(), ".")
}
