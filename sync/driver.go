// Package sync implements the sync driver from spec §4.7, the Go port of
// sync.c's state_sync/state_sync_process: a two-pass walk over pending
// block indices that reads each disk's current block, verifies or records
// its hash, drives the parity kernel, writes parity, and only then marks
// the block's metadata clean.
package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ajroetker/raidpar/blockhash"
	"github.com/ajroetker/raidpar/blockiter"
	"github.com/ajroetker/raidpar/blockoff"
	"github.com/ajroetker/raidpar/bufferpool"
	"github.com/ajroetker/raidpar/diskview"
	"github.com/ajroetker/raidpar/engine"
	"github.com/ajroetker/raidpar/filehandle"
	"github.com/ajroetker/raidpar/parityfile"
	"github.com/ajroetker/raidpar/progress"
	"github.com/sirupsen/logrus"
)

// Driver owns the collaborators one sync pass needs: the engine context,
// the block-indexed view, one file handle per data disk, the buffer pool,
// one parity container per parity level, the hasher, the progress
// reporter, and a logger.
type Driver struct {
	Engine    *engine.Context
	View      diskview.View
	Disks     []filehandle.Handle
	Pool      *bufferpool.Pool
	Parities  []parityfile.Container
	Hasher    blockhash.Hasher
	Reporter  *progress.Reporter
	Log       *logrus.Entry
	NData     int
	NParity   int
	BlockSize int

	opened  []bool
	openRef []diskview.FileRef

	processed int64
	bytesRead int64
}

// NewDriver builds a Driver. len(disks) is nd, len(parities) is np.
func NewDriver(eng *engine.Context, view diskview.View, disks []filehandle.Handle, pool *bufferpool.Pool, parities []parityfile.Container, hasher blockhash.Hasher, reporter *progress.Reporter, log *logrus.Entry, blockSize int) *Driver {
	return &Driver{
		Engine:    eng,
		View:      view,
		Disks:     disks,
		Pool:      pool,
		Parities:  parities,
		Hasher:    hasher,
		Reporter:  reporter,
		Log:       log,
		NData:     len(disks),
		NParity:   len(parities),
		BlockSize: blockSize,
		opened:    make([]bool, len(disks)),
		openRef:   make([]diskview.FileRef, len(disks)),
	}
}

// Run walks [start,max), processing every pending index per spec §4.7.
// A clean cooperative stop (ctx cancelled) returns (Result{Interrupted:
// true}, nil) rather than an error, matching spec.md's "success exit" for
// user interrupts. Any other error aborts the pass; Run still attempts a
// best-effort close of all open disk handles before returning.
func (d *Driver) Run(ctx context.Context, start, max blockoff.T) (Result, error) {
	d.processed = 0
	d.bytesRead = 0

	total := blockiter.CountPending(d.View, d.NData, start, max)

	runErr := blockiter.ForEachPending(d.View, d.NData, start, max, func(i blockoff.T) error {
		if ctx.Err() != nil {
			return errStop
		}
		if err := d.processIndex(i); err != nil {
			return err
		}
		d.processed++
		if d.Reporter != nil && d.Reporter.ShouldReport() {
			d.Reporter.Report(d.processed, int64(total), d.bytesRead)
		}
		return nil
	})

	interrupted := false
	if errors.Is(runErr, errStop) {
		interrupted = true
		runErr = nil
	}

	closeErrs := d.closeAll()

	result := Result{
		Processed:   d.processed,
		Skipped:     int64(total) - d.processed,
		BytesRead:   d.bytesRead,
		Interrupted: interrupted,
		CloseErrors: closeErrs,
	}
	return result, runErr
}

func (d *Driver) closeAll() int {
	errs := 0
	for disk := range d.Disks {
		if !d.opened[disk] {
			continue
		}
		if err := d.Disks[disk].Close(); err != nil {
			if d.Log != nil {
				d.Log.WithError(err).WithField("disk", disk).Warn("error closing disk handle")
			}
			errs++
		}
		d.opened[disk] = false
	}
	return errs
}

// processIndex implements spec §4.7's per-index state machine.
func (d *Driver) processIndex(i blockoff.T) error {
	buffers := make([][]byte, d.NData+d.NParity)
	present := make([]bool, d.NData)

	for disk := 0; disk < d.NData; disk++ {
		buf := d.Pool.Block(disk)
		buffers[disk] = buf

		rec, ok := d.View.BlockAt(disk, i)
		if !ok {
			zero := d.Engine.Zero()
			if zero != nil {
				copy(buf, zero)
			} else {
				clear(buf)
			}
			continue
		}
		present[disk] = true

		if err := d.ensureOpen(disk, rec.FileRef); err != nil {
			return err
		}

		triple, err := d.Disks[disk].Stat()
		if err != nil {
			return fmt.Errorf("%w: disk %d index %d: %v", ErrReadIO, disk, i, err)
		}
		if (rec.Issued != filehandle.Triple{}) && rec.Issued.Changed(triple) {
			return fmt.Errorf("%w: disk %d index %d", ErrFileChanged, disk, i)
		}

		n, err := d.Disks[disk].Read(rec.Pos, buf)
		if err != nil {
			return fmt.Errorf("%w: disk %d index %d: %v", ErrReadIO, disk, i, err)
		}
		for k := n; k < len(buf); k++ {
			buf[k] = 0
		}
		d.bytesRead += int64(n)

		h := d.Hasher.Sum(buf)
		if rec.Flags.Has(diskview.FlagHashed) {
			if !bytes.Equal(rec.Hash, h[:]) {
				return fmt.Errorf("%w: disk %d index %d", ErrHashMismatch, disk, i)
			}
		} else {
			d.View.SetHash(disk, i, append([]byte(nil), h[:]...))
		}
	}

	for k := 0; k < d.NParity; k++ {
		buffers[d.NData+k] = d.Pool.Block(d.NData + k)
	}

	if err := d.Engine.Generate(d.NData, d.NParity, d.BlockSize, buffers); err != nil {
		return err
	}

	for k := 0; k < d.NParity; k++ {
		if err := d.Parities[k].WriteAt(i, buffers[d.NData+k]); err != nil {
			return fmt.Errorf("%w: parity %d index %d: %v", ErrParityWrite, k, i, err)
		}
	}

	for disk := 0; disk < d.NData; disk++ {
		if present[disk] {
			d.View.SetFlags(disk, i, diskview.FlagHashed|diskview.FlagParity)
		}
	}
	return nil
}

func (d *Driver) ensureOpen(disk int, ref diskview.FileRef) error {
	if d.opened[disk] && d.openRef[disk] == ref {
		return nil
	}
	if d.opened[disk] {
		_ = d.Disks[disk].Close()
		d.opened[disk] = false
	}
	if err := d.Disks[disk].OpenFor(filehandle.FileRef{Path: ref.Path}); err != nil {
		switch {
		case os.IsNotExist(err):
			return fmt.Errorf("%w: %s", ErrMissingFile, ref.Path)
		case os.IsPermission(err):
			return fmt.Errorf("%w: %s", ErrPermission, ref.Path)
		default:
			return fmt.Errorf("%w: open %s: %v", ErrReadIO, ref.Path, err)
		}
	}
	d.opened[disk] = true
	d.openRef[disk] = ref
	return nil
}
