// Package recovery implements the non-sync recovery entry point from spec
// §4.8: given a set of block indices and a selection of surviving parity
// streams, reconstruct missing data and/or parity one block column at a
// time.
package recovery

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ajroetker/raidpar/blockhash"
	"github.com/ajroetker/raidpar/blockoff"
	"github.com/ajroetker/raidpar/bufferpool"
	"github.com/ajroetker/raidpar/diskview"
	"github.com/ajroetker/raidpar/engine"
	"github.com/ajroetker/raidpar/filehandle"
	"github.com/ajroetker/raidpar/kernel"
	"github.com/ajroetker/raidpar/parityfile"
	"github.com/sirupsen/logrus"
)

// Driver holds the same collaborators as sync.Driver, minus the
// hash-verification-on-write path (recovery trusts surviving blocks and
// only recomputes hashes for the columns it reconstructs).
type Driver struct {
	Engine   *engine.Context
	View     diskview.View
	Disks    []filehandle.Handle
	Parities []parityfile.Container
	Hasher   blockhash.Hasher
	Log      *logrus.Entry

	NData     int
	NParity   int
	BlockSize int
}

// NewDriver builds a recovery Driver.
func NewDriver(eng *engine.Context, view diskview.View, disks []filehandle.Handle, parities []parityfile.Container, hasher blockhash.Hasher, log *logrus.Entry, blockSize int) *Driver {
	return &Driver{
		Engine:    eng,
		View:      view,
		Disks:     disks,
		Parities:  parities,
		Hasher:    hasher,
		Log:       log,
		NData:     len(disks),
		NParity:   len(parities),
		BlockSize: blockSize,
	}
}

// Mismatch reports one block index whose recovered/recomputed hash didn't
// match the record's stored hash.
type Mismatch struct {
	Index blockoff.T
	Disk  int
}

// Report is Check's dry-run result.
type Report struct {
	Checked   int
	Mismatches []Mismatch
}

// Check walks every given block index, recovers the missingData columns
// using parity rows in survivingParity, and reports recovered columns whose
// hash differs from the record's stored hash, without writing anything
// back. Columns that are not recovered are not hashed.
func (d *Driver) Check(ctx context.Context, indices []blockoff.T, missingData []int, survivingParity []int) (Report, error) {
	id := append([]int(nil), missingData...)
	kernel.SortSmall(id)

	isSurviving := make([]bool, d.NParity)
	for _, k := range survivingParity {
		isSurviving[k] = true
	}
	var ipMissing []int
	for k := 0; k < d.NParity; k++ {
		if !isSurviving[k] {
			ipMissing = append(ipMissing, k)
		}
	}

	report := Report{}
	pool, err := bufferpool.New(d.NData+d.NParity, d.BlockSize)
	if err != nil {
		return report, err
	}
	defer pool.Release()

	for _, i := range indices {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		buffers, err := d.readColumn(i, ipMissing, pool)
		if err != nil {
			return report, err
		}
		if len(id) > 0 {
			if err := d.Engine.Recover(id, ipMissing, d.NData, d.NParity, d.BlockSize, buffers); err != nil {
				return report, fmt.Errorf("recovery: index %d: %w", i, err)
			}
		}
		report.Checked++
		for _, disk := range id {
			rec, ok := d.View.BlockAt(disk, i)
			if !ok || !rec.Flags.Has(diskview.FlagHashed) {
				continue
			}
			h := d.Hasher.Sum(buffers[disk])
			if !bytes.Equal(rec.Hash, h[:]) {
				report.Mismatches = append(report.Mismatches, Mismatch{Index: i, Disk: disk})
			}
		}
	}
	return report, nil
}

// Fix recovers the named missing data columns (auto-selecting surviving
// parity rows not in missingParity), writes the recovered data back
// through filehandle, and, if missingParity is non-empty, regenerates and
// writes those parity rows back through parityfile.
func (d *Driver) Fix(ctx context.Context, indices []blockoff.T, missingData []int, missingParity []int) error {
	id := append([]int(nil), missingData...)
	ip := append([]int(nil), missingParity...)
	kernel.SortSmall(id)
	kernel.SortSmall(ip)

	pool, err := bufferpool.New(d.NData+d.NParity, d.BlockSize)
	if err != nil {
		return err
	}
	defer pool.Release()

	for _, i := range indices {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		buffers, err := d.readColumn(i, ip, pool)
		if err != nil {
			return err
		}
		if err := d.Engine.Recover(id, ip, d.NData, d.NParity, d.BlockSize, buffers); err != nil {
			return fmt.Errorf("recovery: index %d: %w", i, err)
		}
		for _, disk := range id {
			rec, ok := d.View.BlockAt(disk, i)
			if !ok {
				continue
			}
			if err := d.writeDataBack(disk, rec, buffers[disk]); err != nil {
				return fmt.Errorf("recovery: writing disk %d index %d: %w", disk, i, err)
			}
			h := d.Hasher.Sum(buffers[disk])
			d.View.SetHash(disk, i, h[:])
			d.View.SetFlags(disk, i, diskview.FlagHashed|diskview.FlagParity)
		}
		for _, k := range ip {
			if err := d.Parities[k].WriteAt(i, buffers[d.NData+k]); err != nil {
				return fmt.Errorf("recovery: writing parity %d index %d: %w", k, i, err)
			}
		}
	}
	return nil
}

// readColumn assembles one block-index's nd+np buffers: data disks not
// named in the caller's missing set are read from their file, parity rows
// not in missingParity are read back from their container. Buffers for
// indices the caller names as missing are left as pool-provided scratch
// (their content is undefined until Engine.Recover fills them in, per the
// kernel contract).
func (d *Driver) readColumn(i blockoff.T, missingParity []int, pool *bufferpool.Pool) ([][]byte, error) {
	buffers := make([][]byte, d.NData+d.NParity)
	for disk := 0; disk < d.NData; disk++ {
		buf := pool.Block(disk)
		buffers[disk] = buf
		rec, ok := d.View.BlockAt(disk, i)
		if !ok {
			continue
		}
		if err := d.Disks[disk].OpenFor(filehandle.FileRef{Path: rec.FileRef.Path}); err != nil {
			continue // missing disk: leave buffer as a recovery target
		}
		n, err := d.Disks[disk].Read(rec.Pos, buf)
		if err != nil {
			return nil, fmt.Errorf("recovery: reading disk %d index %d: %w", disk, i, err)
		}
		for k := n; k < len(buf); k++ {
			buf[k] = 0
		}
	}

	isMissingParity := make([]bool, d.NParity)
	for _, k := range missingParity {
		isMissingParity[k] = true
	}
	for k := 0; k < d.NParity; k++ {
		buf := pool.Block(d.NData + k)
		buffers[d.NData+k] = buf
		if isMissingParity[k] {
			continue
		}
		if err := d.Parities[k].ReadAt(i, buf); err != nil {
			return nil, fmt.Errorf("recovery: reading parity %d index %d: %w", k, i, err)
		}
	}
	return buffers, nil
}

func (d *Driver) writeDataBack(disk int, rec diskview.BlockRecord, buf []byte) error {
	if err := d.Disks[disk].OpenFor(filehandle.FileRef{Path: rec.FileRef.Path}); err != nil {
		return err
	}
	return d.Disks[disk].WriteAt(rec.Pos, buf)
}
