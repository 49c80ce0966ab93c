package blockiter

import (
	"errors"
	"testing"

	"github.com/ajroetker/raidpar/blockoff"
	"github.com/ajroetker/raidpar/diskview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullySynced(view *diskview.MemView, disk int, i blockoff.T) {
	view.Put(disk, i, diskview.BlockRecord{})
	view.SetFlags(disk, i, diskview.FlagHashed|diskview.FlagParity)
}

func TestCountAndForEach_AgreeOnPendingIndices(t *testing.T) {
	view := diskview.NewMemView()
	const diskmax = 2
	fullySynced(view, 0, 0)
	fullySynced(view, 1, 0)
	view.Put(0, 1, diskview.BlockRecord{}) // fresh, pending
	fullySynced(view, 1, 1)
	// index 2: no records for either disk at all -> not pending

	count := CountPending(view, diskmax, 0, 3)
	assert.Equal(t, 1, count)

	var visited []blockoff.T
	err := ForEachPending(view, diskmax, 0, 3, func(i blockoff.T) error {
		visited = append(visited, i)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []blockoff.T{1}, visited)
	assert.Equal(t, count, len(visited))
}

func TestForEachPending_StopsOnError(t *testing.T) {
	view := diskview.NewMemView()
	view.Put(0, 0, diskview.BlockRecord{})
	view.Put(0, 1, diskview.BlockRecord{})

	boom := errors.New("boom")
	calls := 0
	err := ForEachPending(view, 1, 0, 2, func(i blockoff.T) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestCountPending_EmptyRange(t *testing.T) {
	view := diskview.NewMemView()
	assert.Equal(t, 0, CountPending(view, 2, 5, 5))
}
