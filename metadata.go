package remotefs

import "time"

// Metadata describes one remote entry at the moment it was queried.
//
// Backends differ wildly in what they can report, so optional fields are
// pointers with a three-way meaning: nil is "backend does not know",
// a pointer to the zero value is "known to be zero". Drivers must never
// substitute epoch timestamps or invented permission bits for missing
// data.
type Metadata struct {
	// Size of the entry in bytes. Directories and symlinks report
	// whatever the backend states for them, typically zero.
	Size int64

	// Mode is the permission subset, nil where the backend has no
	// permission concept.
	Mode *UnixPex

	// UID and GID are the numeric owner and group, nil when the backend
	// does not expose ownership.
	UID *uint32
	GID *uint32

	// Modified, Accessed and Created are nil when the backend does not
	// track the respective timestamp.
	Modified *time.Time
	Accessed *time.Time
	Created  *time.Time

	// LinkTarget is the absolute target path of a symlink entry, empty
	// when the entry is not a symlink or the target could not be read.
	LinkTarget string
}
