//go:build !linux && !darwin

package filehandle

import "os"

// fillInode leaves Triple.InodeSupported false: this platform's
// os.FileInfo doesn't expose a stable inode number, so the file-changed
// check degrades to size+mtime only (documented in DESIGN.md, not guessed).
func fillInode(t *Triple, info os.FileInfo) {}
