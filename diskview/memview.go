package diskview

import "github.com/ajroetker/raidpar/blockoff"

type key struct {
	disk int
	i    blockoff.T
}

// MemView is an in-memory View, used by tests and as the reference
// behavior a persistent state-file-backed View must match.
type MemView struct {
	records map[key]BlockRecord
}

// NewMemView returns an empty MemView.
func NewMemView() *MemView {
	return &MemView{records: make(map[key]BlockRecord)}
}

// Put seeds a record directly, for test setup.
func (m *MemView) Put(disk int, i blockoff.T, rec BlockRecord) {
	m.records[key{disk, i}] = rec
}

func (m *MemView) BlockAt(disk int, i blockoff.T) (BlockRecord, bool) {
	rec, ok := m.records[key{disk, i}]
	return rec, ok
}

func (m *MemView) SetFlags(disk int, i blockoff.T, flags BlockFlags) {
	k := key{disk, i}
	rec := m.records[k]
	rec.Flags = rec.Flags.Transition(flags)
	m.records[k] = rec
}

func (m *MemView) SetHash(disk int, i blockoff.T, hash []byte) {
	k := key{disk, i}
	rec := m.records[k]
	rec.Hash = hash
	m.records[k] = rec
}
