// Package diskview models the block-indexed metadata view that the sync
// and recovery drivers read and update: per (disk, block index) records
// carrying a file reference, an offset, a hash, and a small set of flags.
package diskview

import (
	"github.com/ajroetker/raidpar/blockoff"
	"github.com/ajroetker/raidpar/filehandle"
)

// FileRef identifies the file a block belongs to; the sync driver reopens a
// disk's handle when a record's FileRef differs from the open one.
type FileRef struct {
	Path string
}

// BlockFlags is the tagged-variant block state: a block starts Fresh, is
// marked Hashed once its content hash is known, and Parity once the parity
// covering it has been written and is trustworthy.
type BlockFlags uint8

const (
	FlagFresh  BlockFlags = 0
	FlagHashed BlockFlags = 1 << 0
	FlagParity BlockFlags = 1 << 1
)

// Transition returns the flags after OR-ing in the given flag, so callers
// never hand-roll bit twiddling at the call site.
func (f BlockFlags) Transition(add BlockFlags) BlockFlags {
	return f | add
}

// Has reports whether every bit in want is set.
func (f BlockFlags) Has(want BlockFlags) bool {
	return f&want == want
}

// BlockRecord is the metadata held for one (disk, index) pair. Issued is
// the {size, mtime, inode} triple the record was last computed against;
// the sync driver compares a fresh stat of the open file to Issued before
// trusting the record's Pos/Hash (spec's "file changed during sync" check).
type BlockRecord struct {
	FileRef FileRef
	Pos     int64
	Flags   BlockFlags
	Hash    []byte
	Issued  filehandle.Triple
}

// View is the read/write surface the sync and recovery drivers need. A real
// implementation persists this to a state file; MemView below is the
// in-memory reference used by tests.
type View interface {
	BlockAt(disk int, i blockoff.T) (BlockRecord, bool)
	SetFlags(disk int, i blockoff.T, flags BlockFlags)
	SetHash(disk int, i blockoff.T, hash []byte)
}
