// Package blockiter walks the block-indexed range of a disk array with a
// shared pending-predicate, so a counting pass and a processing pass over
// the same range always agree on which indices they visit.
package blockiter

import (
	"github.com/ajroetker/raidpar/blockoff"
	"github.com/ajroetker/raidpar/diskview"
)

// isPending reports whether block index i has at least one disk with a
// record that is not yet fully hashed+parity-covered; disks with no record
// at i do not make it pending. Both
// CountPending and ForEachPending call this exact function, so a pass that
// only counts and a pass that only processes visit the same indices given
// unchanged view state.
func isPending(view diskview.View, diskmax int, i blockoff.T) bool {
	for disk := 0; disk < diskmax; disk++ {
		rec, ok := view.BlockAt(disk, i)
		if !ok {
			continue
		}
		if !rec.Flags.Has(diskview.FlagHashed | diskview.FlagParity) {
			return true
		}
	}
	return false
}

// CountPending returns the number of indices in [start,max) that
// isPending reports true for.
func CountPending(view diskview.View, diskmax int, start, max blockoff.T) int {
	n := 0
	for i := start; i < max; i++ {
		if isPending(view, diskmax, i) {
			n++
		}
	}
	return n
}

// ForEachPending calls fn once per pending index in [start,max), ascending,
// stopping and returning fn's error on the first failure.
func ForEachPending(view diskview.View, diskmax int, start, max blockoff.T, fn func(i blockoff.T) error) error {
	for i := start; i < max; i++ {
		if !isPending(view, diskmax, i) {
			continue
		}
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}
