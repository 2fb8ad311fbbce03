package remotefs

import (
	"fmt"
	"io/fs"
)

// Permission bits of a single class, in the usual octal positions.
const (
	PexRead  UnixPexClass = 0o4
	PexWrite UnixPexClass = 0o2
	PexExec  UnixPexClass = 0o1
)

// UnixPexClass holds the read, write and execute bits for one of the
// three POSIX permission classes.
type UnixPexClass uint8

// NewUnixPexClass composes a class from individual bits.
func NewUnixPexClass(read, write, exec bool) UnixPexClass {
	var c UnixPexClass
	if read {
		c |= PexRead
	}
	if write {
		c |= PexWrite
	}
	if exec {
		c |= PexExec
	}
	return c
}

// CanRead reports the read bit.
func (c UnixPexClass) CanRead() bool { return c&PexRead != 0 }

// CanWrite reports the write bit.
func (c UnixPexClass) CanWrite() bool { return c&PexWrite != 0 }

// CanExecute reports the execute bit.
func (c UnixPexClass) CanExecute() bool { return c&PexExec != 0 }

// String renders the class in ls style, e.g. "rw-".
func (c UnixPexClass) String() string {
	b := []byte("---")
	if c.CanRead() {
		b[0] = 'r'
	}
	if c.CanWrite() {
		b[1] = 'w'
	}
	if c.CanExecute() {
		b[2] = 'x'
	}
	return string(b)
}

// UnixPex is the portable permission subset shared by every backend that
// has a permission concept at all: the nine rwx bits for owner, group
// and other. Setuid, setgid and sticky bits are deliberately outside the
// model. Backends without permissions (object stores, some appliances)
// leave Metadata.Mode nil instead of fabricating a value.
type UnixPex uint16

// NewUnixPex composes a permission set from its three classes.
func NewUnixPex(owner, group, other UnixPexClass) UnixPex {
	return UnixPex(owner)<<6 | UnixPex(group)<<3 | UnixPex(other)
}

// UnixPexFromOctal keeps the low nine bits of a numeric mode, so 0o644
// and a full st_mode value both map to the same UnixPex.
func UnixPexFromOctal(mode uint32) UnixPex {
	return UnixPex(mode & 0o777)
}

// Owner returns the owner class.
func (p UnixPex) Owner() UnixPexClass { return UnixPexClass(p >> 6 & 0o7) }

// Group returns the group class.
func (p UnixPex) Group() UnixPexClass { return UnixPexClass(p >> 3 & 0o7) }

// Other returns the other class.
func (p UnixPex) Other() UnixPexClass { return UnixPexClass(p & 0o7) }

// FileMode converts to stdlib permission bits for drivers built on
// io/fs-shaped APIs.
func (p UnixPex) FileMode() fs.FileMode {
	return fs.FileMode(p & 0o777)
}

// Octal renders the three-digit octal form, e.g. "644".
func (p UnixPex) Octal() string {
	return fmt.Sprintf("%03o", uint16(p&0o777))
}

// String renders the nine-character ls form, e.g. "rw-r--r--".
func (p UnixPex) String() string {
	return p.Owner().String() + p.Group().String() + p.Other().String()
}
