// Package filehandle wraps the per-disk file a sync or recovery pass reads
// blocks from, and the {size, mtime, inode} triple used to detect a file
// changing underneath a pass.
package filehandle

import "fmt"

// Triple is the file-changed fingerprint: if any field differs between two
// reads, the file must be treated as changed (spec §7 FILE_CHANGED).
type Triple struct {
	Size  int64
	Mtime int64 // unix nanoseconds
	Inode int64

	// InodeSupported is false on platforms where the inode number isn't
	// available from os.FileInfo, in which case Inode is always 0 and the
	// comparison degrades to size+mtime only (see DESIGN.md).
	InodeSupported bool
}

// Changed reports whether b differs from a in any field that the current
// platform supports comparing.
func (a Triple) Changed(b Triple) bool {
	if a.Size != b.Size || a.Mtime != b.Mtime {
		return true
	}
	if a.InodeSupported && b.InodeSupported {
		return a.Inode != b.Inode
	}
	return false
}

// FileRef names the file a Handle opens, mirroring diskview.FileRef so
// callers don't need to import diskview just to open a handle.
type FileRef struct {
	Path string
}

// Handle is one disk's open file during a pass.
type Handle interface {
	OpenFor(ref FileRef) error
	Close() error
	Read(pos int64, buf []byte) (n int, err error)
	// WriteAt writes recovered data back to its native file, used only by
	// recovery.Driver.Fix — sync never writes to data disks.
	WriteAt(pos int64, buf []byte) error
	Stat() (Triple, error)
}

// ErrNotOpen is returned by Read/Stat when OpenFor hasn't succeeded yet.
var ErrNotOpen = fmt.Errorf("filehandle: not open")
