//go:build linux || darwin

package filehandle

import (
	"os"
	"syscall"
)

func fillInode(t *Triple, info os.FileInfo) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return
	}
	t.Inode = int64(st.Ino)
	t.InodeSupported = true
}
