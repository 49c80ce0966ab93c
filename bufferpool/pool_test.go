package bufferpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsBadSize(t *testing.T) {
	_, err := New(4, 63)
	assert.Error(t, err)
	_, err = New(0, 64)
	assert.Error(t, err)
}

func TestNew_BlocksAreAlignedAndDisjoint(t *testing.T) {
	p, err := New(9, 128)
	require.NoError(t, err)
	require.Equal(t, 9, p.Len())

	seen := map[uintptr]bool{}
	for i := 0; i < p.Len(); i++ {
		b := p.Block(i)
		require.Len(t, b, 128)
		addr := addressOf(b)
		assert.Zero(t, addr%alignment, "block %d not aligned", i)
		assert.False(t, seen[addr], "block %d overlaps another block", i)
		seen[addr] = true
	}
}

func TestPool_Release(t *testing.T) {
	p, err := New(2, 64)
	require.NoError(t, err)
	p.Release()
	assert.Nil(t, p.arena)
}
