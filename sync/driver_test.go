package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/ajroetker/raidpar/blockhash"
	"github.com/ajroetker/raidpar/blockoff"
	"github.com/ajroetker/raidpar/bufferpool"
	"github.com/ajroetker/raidpar/diskview"
	"github.com/ajroetker/raidpar/engine"
	"github.com/ajroetker/raidpar/filehandle"
	"github.com/ajroetker/raidpar/parityfile"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFile is an in-memory file backing a fakeDisk.
type fakeFile struct {
	content []byte
	triple  filehandle.Triple
}

// fakeDisk is a filehandle.Handle test double whose Stat() can be told to
// report a changed triple starting at a given call count, simulating a
// file mutated mid-pass.
type fakeDisk struct {
	files     map[string]*fakeFile
	open      *fakeFile
	statCalls int
	changeAt  int // -1 disables
}

func newFakeDisk() *fakeDisk {
	return &fakeDisk{files: make(map[string]*fakeFile), changeAt: -1}
}

func (d *fakeDisk) addFile(path string, content []byte, triple filehandle.Triple) {
	d.files[path] = &fakeFile{content: content, triple: triple}
}

func (d *fakeDisk) OpenFor(ref filehandle.FileRef) error {
	f, ok := d.files[ref.Path]
	if !ok {
		return errFakeNotFound
	}
	d.open = f
	return nil
}

var errFakeNotFound = errors.New("fake: file not found")

func (d *fakeDisk) Close() error {
	d.open = nil
	return nil
}

func (d *fakeDisk) Read(pos int64, buf []byte) (int, error) {
	if d.open == nil {
		return 0, filehandle.ErrNotOpen
	}
	if pos >= int64(len(d.open.content)) {
		return 0, nil
	}
	n := copy(buf, d.open.content[pos:])
	return n, nil
}

func (d *fakeDisk) WriteAt(pos int64, buf []byte) error {
	if d.open == nil {
		return filehandle.ErrNotOpen
	}
	if need := int(pos) + len(buf); need > len(d.open.content) {
		grown := make([]byte, need)
		copy(grown, d.open.content)
		d.open.content = grown
	}
	copy(d.open.content[pos:], buf)
	return nil
}

func (d *fakeDisk) Stat() (filehandle.Triple, error) {
	if d.open == nil {
		return filehandle.Triple{}, filehandle.ErrNotOpen
	}
	t := d.open.triple
	if d.changeAt >= 0 && d.statCalls == d.changeAt {
		t.Size++
	}
	d.statCalls++
	return t, nil
}

const testBlockSize = 64

func buildScenarioView(n int) (*diskview.MemView, []*fakeDisk) {
	view := diskview.NewMemView()
	disks := make([]*fakeDisk, 3)
	for d := 0; d < 3; d++ {
		fd := newFakeDisk()
		content := make([]byte, n*testBlockSize)
		for i := range content {
			content[i] = byte(d + 1)
		}
		triple := filehandle.Triple{Size: int64(len(content)), Mtime: 1000, Inode: int64(d + 1), InodeSupported: true}
		fd.addFile("disk.bin", content, triple)
		disks[d] = fd

		for i := 0; i < n; i++ {
			view.Put(d, blockoff.T(i), diskview.BlockRecord{
				FileRef: diskview.FileRef{Path: "disk.bin"},
				Pos:     int64(i) * testBlockSize,
				Issued:  triple,
			})
		}
	}
	return view, disks
}

func handlesOf(disks []*fakeDisk) []filehandle.Handle {
	out := make([]filehandle.Handle, len(disks))
	for i, d := range disks {
		out[i] = d
	}
	return out
}

// memParity is a parityfile.Container test double backed by a map.
type memParity struct {
	blocks   map[blockoff.T][]byte
	resized  blockoff.T
	writeErr error
	closed   bool
}

func newMemParity() *memParity { return &memParity{blocks: make(map[blockoff.T][]byte)} }

func (p *memParity) Create(path string, blockSize int) error { return nil }
func (p *memParity) WriteAt(i blockoff.T, buf []byte) error {
	if p.writeErr != nil {
		return p.writeErr
	}
	p.blocks[i] = append([]byte(nil), buf...)
	return nil
}
func (p *memParity) ReadAt(i blockoff.T, buf []byte) error {
	copy(buf, p.blocks[i])
	return nil
}
func (p *memParity) Sync() error                      { return nil }
func (p *memParity) Close() error                     { p.closed = true; return nil }
func (p *memParity) Resize(blockmax blockoff.T) error { p.resized = blockmax; return nil }

var _ parityfile.Container = (*memParity)(nil)

func TestDriver_Run_FileChangedMidPassAbortsAndLeavesTailUntouched(t *testing.T) {
	const n = 100
	view, disks := buildScenarioView(n)
	disks[0].changeAt = 42

	eng := engine.New()
	parity := newMemParity()
	pool, err := bufferpool.New(4, testBlockSize)
	require.NoError(t, err)
	defer pool.Release()

	driver := NewDriver(eng, view, handlesOf(disks), pool, []parityfile.Container{parity}, blockhash.NewSHA256(), nil, logrus.NewEntry(logrus.New()), testBlockSize)

	result, err := driver.Run(context.Background(), 0, blockoff.T(n))
	assert.True(t, errors.Is(err, ErrFileChanged))
	assert.Equal(t, int64(42), result.Processed)
	assert.False(t, result.Interrupted)

	for i := 0; i < 42; i++ {
		for d := 0; d < 3; d++ {
			rec, ok := view.BlockAt(d, blockoff.T(i))
			require.True(t, ok)
			assert.True(t, rec.Flags.Has(diskview.FlagHashed|diskview.FlagParity), "index %d disk %d", i, d)
		}
		assert.Contains(t, parity.blocks, blockoff.T(i))
	}
	for i := 42; i < n; i++ {
		rec, _ := view.BlockAt(0, blockoff.T(i))
		assert.Equal(t, diskview.FlagFresh, rec.Flags, "index %d should be untouched", i)
		assert.NotContains(t, parity.blocks, blockoff.T(i))
	}
}

// cancelAfterN wraps context.Background, reporting non-canceled for the
// first n calls to Err() and canceled thereafter, so a test can force
// Driver.Run to stop after exactly n pending indices without a real timer.
type cancelAfterN struct {
	context.Context
	remaining int
}

func (c *cancelAfterN) Err() error {
	if c.remaining <= 0 {
		return context.Canceled
	}
	c.remaining--
	return nil
}

func TestDriver_Run_InterruptStopsAtBlockBoundary(t *testing.T) {
	const n = 100
	view, disks := buildScenarioView(n)

	eng := engine.New()
	parity := newMemParity()
	pool, err := bufferpool.New(4, testBlockSize)
	require.NoError(t, err)
	defer pool.Release()

	driver := NewDriver(eng, view, handlesOf(disks), pool, []parityfile.Container{parity}, blockhash.NewSHA256(), nil, logrus.NewEntry(logrus.New()), testBlockSize)

	ctx := &cancelAfterN{Context: context.Background(), remaining: 11}
	result, err := driver.Run(ctx, 0, blockoff.T(n))
	require.NoError(t, err)
	assert.True(t, result.Interrupted)
	assert.Equal(t, int64(11), result.Processed)

	for i := 0; i <= 10; i++ {
		rec, _ := view.BlockAt(0, blockoff.T(i))
		assert.True(t, rec.Flags.Has(diskview.FlagHashed|diskview.FlagParity))
	}
	for i := 11; i < n; i++ {
		rec, _ := view.BlockAt(0, blockoff.T(i))
		assert.Equal(t, diskview.FlagFresh, rec.Flags)
	}
}

func TestDriver_Run_CleanPassSetsAllFlags(t *testing.T) {
	const n = 5
	view, disks := buildScenarioView(n)

	eng := engine.New()
	parity := newMemParity()
	pool, err := bufferpool.New(4, testBlockSize)
	require.NoError(t, err)
	defer pool.Release()

	driver := NewDriver(eng, view, handlesOf(disks), pool, []parityfile.Container{parity}, blockhash.NewSHA256(), nil, logrus.NewEntry(logrus.New()), testBlockSize)

	result, err := driver.Run(context.Background(), 0, blockoff.T(n))
	require.NoError(t, err)
	assert.Equal(t, int64(n), result.Processed)
	assert.False(t, result.Interrupted)
	assert.Len(t, parity.blocks, n)
}
