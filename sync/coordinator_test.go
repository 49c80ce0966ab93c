package sync

import (
	"context"
	"testing"

	"github.com/ajroetker/raidpar/blockhash"
	"github.com/ajroetker/raidpar/blockoff"
	"github.com/ajroetker/raidpar/engine"
	"github.com/ajroetker/raidpar/parityfile"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_Sync_ResizesAndClosesEvenOnFailure(t *testing.T) {
	const n = 5
	view, disks := buildScenarioView(n)
	disks[1].changeAt = 2

	p0 := newMemParity()
	p1 := newMemParity()

	coord := &Coordinator{
		Engine:    engine.New(),
		View:      view,
		Disks:     handlesOf(disks),
		Parities:  []parityfile.Container{p0, p1},
		Hasher:    blockhash.NewSHA256(),
		Log:       logrus.NewEntry(logrus.New()),
		BlockSize: testBlockSize,
	}

	result, err := coord.Sync(context.Background(), 0, blockoff.T(n))
	require.Error(t, err)
	assert.Equal(t, blockoff.T(n), p0.resized)
	assert.Equal(t, blockoff.T(n), p1.resized)
	assert.Less(t, result.Processed, int64(n))
	assert.True(t, p0.closed)
	assert.True(t, p1.closed)
}
