// Package bufferpool allocates the single cache-aligned arena a sync pass
// borrows its N+P block buffers from (spec §4.5).
package bufferpool

import "fmt"

// alignment is the preferred cache-line alignment for block buffers. Go has
// no aligned heap allocator, so Pool over-allocates by alignment-1 bytes and
// slices from the first aligned offset — a portable substitute for
// posix_memalign/_mm_malloc, in the spirit of klauspost/reedsolomon's
// AllocAligned helper.
const alignment = 64

// Pool owns one contiguous arena of (n)*size bytes and hands out n stable,
// size-length, 64-byte-aligned slices. Its lifetime is one sync pass: it is
// not reused or returned to a free list afterward.
type Pool struct {
	arena  []byte
	blocks [][]byte
	size   int
}

// New allocates an arena for n blocks of size bytes each. size must be a
// multiple of 64 (spec §3 "Block"); n is typically nd+np.
func New(n, size int) (*Pool, error) {
	if n <= 0 {
		return nil, fmt.Errorf("bufferpool: n must be positive, got %d", n)
	}
	if size <= 0 || size%64 != 0 {
		return nil, fmt.Errorf("bufferpool: size must be a positive multiple of 64, got %d", size)
	}

	raw := make([]byte, n*size+alignment-1)
	offset := alignedOffset(raw)

	p := &Pool{
		arena:  raw,
		blocks: make([][]byte, n),
		size:   size,
	}
	for i := 0; i < n; i++ {
		start := offset + i*size
		p.blocks[i] = raw[start : start+size : start+size]
	}
	return p, nil
}

func alignedOffset(buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	addr := addressOf(buf)
	rem := addr % alignment
	if rem == 0 {
		return 0
	}
	return alignment - rem
}

// Block returns the i-th buffer. The returned slice is valid for the
// lifetime of the Pool and is reused across block indices within one pass:
// callers overwrite its contents each time, they do not retain it across a
// Release.
func (p *Pool) Block(i int) []byte {
	return p.blocks[i]
}

// Len returns the number of blocks the pool hands out.
func (p *Pool) Len() int {
	return len(p.blocks)
}

// Release drops the pool's reference to its arena. Safe to call multiple
// times; a Pool is not reused after Release (spec §4.5: "Lifetime equals
// the sync pass").
func (p *Pool) Release() {
	p.arena = nil
	p.blocks = nil
}
