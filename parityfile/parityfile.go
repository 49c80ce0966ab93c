// Package parityfile manages the on-disk container for one parity level:
// create/resize/write/sync/close, with the resize semantics spec.md's
// Open Question pins down explicitly (truncation never touches bytes for
// surviving indices).
package parityfile

import "github.com/ajroetker/raidpar/blockoff"

// Container is the per-parity-level file surface sync.Coordinator and
// recovery.Driver drive.
type Container interface {
	Create(path string, blockSize int) error
	WriteAt(i blockoff.T, buf []byte) error
	// ReadAt reads one block's current parity bytes, used by
	// recovery.Driver to read surviving parity rows before recovering.
	ReadAt(i blockoff.T, buf []byte) error
	Sync() error
	Close() error
	Resize(blockmax blockoff.T) error
}
