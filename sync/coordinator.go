package sync

import (
	"context"
	"fmt"

	"github.com/ajroetker/raidpar/blockhash"
	"github.com/ajroetker/raidpar/blockoff"
	"github.com/ajroetker/raidpar/bufferpool"
	"github.com/ajroetker/raidpar/diskview"
	"github.com/ajroetker/raidpar/engine"
	"github.com/ajroetker/raidpar/filehandle"
	"github.com/ajroetker/raidpar/parityfile"
	"github.com/ajroetker/raidpar/progress"
	"github.com/sirupsen/logrus"
)

// Coordinator is the direct port of sync.c's state_sync: the outer
// resize/run/sync/close lifecycle around one Driver.Run pass, generalized
// from the original's parity+qarity special case to any np in [1,6].
type Coordinator struct {
	Engine    *engine.Context
	View      diskview.View
	Disks     []filehandle.Handle
	Parities  []parityfile.Container
	Hasher    blockhash.Hasher
	Log       *logrus.Entry
	BlockSize int
}

// Sync resizes every parity container to blockmax, runs one Driver.Run
// pass over [start,blockmax), and syncs+closes every container afterward
// regardless of whether the pass succeeded — mirroring state_sync's tail,
// which keeps closing remaining containers even after one step fails and
// reports the aggregate.
func (c *Coordinator) Sync(ctx context.Context, start, blockmax blockoff.T) (Result, error) {
	for k, container := range c.Parities {
		if err := container.Resize(blockmax); err != nil {
			return Result{}, fmt.Errorf("sync: resize parity %d: %w", k, err)
		}
	}

	pool, err := bufferpool.New(len(c.Disks)+len(c.Parities), c.BlockSize)
	if err != nil {
		return Result{}, err
	}
	defer pool.Release()

	reporter := progress.New(c.Log, 0)
	driver := NewDriver(c.Engine, c.View, c.Disks, pool, c.Parities, c.Hasher, reporter, c.Log, c.BlockSize)

	result, runErr := driver.Run(ctx, start, blockmax)

	var syncErr error
	for k, container := range c.Parities {
		if err := container.Sync(); err != nil {
			syncErr = fmt.Errorf("sync: fsync parity %d: %w", k, err)
			if c.Log != nil {
				c.Log.WithError(err).WithField("parity", k).Error("fsync failed")
			}
		}
	}
	for k, container := range c.Parities {
		if err := container.Close(); err != nil {
			if c.Log != nil {
				c.Log.WithError(err).WithField("parity", k).Warn("close failed")
			}
			result.CloseErrors++
		}
	}

	if runErr != nil {
		return result, runErr
	}
	return result, syncErr
}
