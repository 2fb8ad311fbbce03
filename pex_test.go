package remotefs

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnixPexClass(t *testing.T) {
	tests := []struct {
		name              string
		class             UnixPexClass
		read, write, exec bool
		str               string
	}{
		{"none", NewUnixPexClass(false, false, false), false, false, false, "---"},
		{"read only", NewUnixPexClass(true, false, false), true, false, false, "r--"},
		{"read write", NewUnixPexClass(true, true, false), true, true, false, "rw-"},
		{"all", NewUnixPexClass(true, true, true), true, true, true, "rwx"},
		{"exec only", NewUnixPexClass(false, false, true), false, false, true, "--x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.read, tt.class.CanRead())
			assert.Equal(t, tt.write, tt.class.CanWrite())
			assert.Equal(t, tt.exec, tt.class.CanExecute())
			assert.Equal(t, tt.str, tt.class.String())
		})
	}
}

func TestUnixPexFromClasses(t *testing.T) {
	p := NewUnixPex(
		NewUnixPexClass(true, true, false),
		NewUnixPexClass(true, false, false),
		NewUnixPexClass(true, false, false),
	)
	assert.Equal(t, UnixPexFromOctal(0o644), p)
	assert.Equal(t, "644", p.Octal())
	assert.Equal(t, "rw-r--r--", p.String())
}

func TestUnixPexFromOctal(t *testing.T) {
	p := UnixPexFromOctal(0o755)
	assert.Equal(t, "rwxr-xr-x", p.String())
	assert.True(t, p.Owner().CanWrite())
	assert.False(t, p.Group().CanWrite())
	assert.False(t, p.Other().CanWrite())
	assert.True(t, p.Other().CanExecute())

	// A full st_mode value keeps only the permission bits, so the file
	// type bits of a raw stat do not leak in.
	withTypeBits := UnixPexFromOctal(0o100644)
	assert.Equal(t, UnixPexFromOctal(0o644), withTypeBits)
}

func TestUnixPexFileMode(t *testing.T) {
	p := UnixPexFromOctal(0o640)
	assert.Equal(t, fs.FileMode(0o640), p.FileMode())

	// Round trip through the stdlib type.
	back := UnixPexFromOctal(uint32(p.FileMode()))
	assert.Equal(t, p, back)
}

func TestUnixPexOctalPadding(t *testing.T) {
	assert.Equal(t, "007", UnixPexFromOctal(0o007).Octal())
	assert.Equal(t, "000", UnixPexFromOctal(0).Octal())
	assert.Equal(t, "777", UnixPexFromOctal(0o777).Octal())
}
