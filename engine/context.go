// Package engine carries the process-wide state spec §9 calls out as
// globals in the original source — GF tables, the dispatch vtable choice,
// the current mode, and the pinned zero/waste buffers — as an explicit
// context threaded through every API call instead of package-level
// mutable state.
package engine

import (
	"fmt"
	"sync"

	"github.com/ajroetker/raidpar/cpudetect"
	"github.com/ajroetker/raidpar/galois"
	"github.com/ajroetker/raidpar/internal/workerpool"
	"github.com/ajroetker/raidpar/kernel"
)

// Context is the engine handle spec §6's init()/set_mode()/set_zero()/
// set_waste() operate on.
type Context struct {
	tables *galois.Tables
	caps   cpudetect.Capabilities
	mode   galois.Mode

	zero  []byte
	waste []byte

	pool *workerpool.Pool

	mu         sync.Mutex
	coeffCache map[coeffKey][][]byte
}

type coeffKey struct {
	mode   galois.Mode
	nd, np int
}

// New builds the GF tables, dispatches the SIMD vtable, and starts a
// worker pool sized to GOMAXPROCS, the raid_init() contract of spec §6.
// The pool is reused across every Generate/Recover call above the
// parallel-work threshold (spec §5); Generate/Recover run single-threaded
// below it regardless.
func New() *Context {
	return &Context{
		tables:     galois.NewTables(),
		caps:       cpudetect.Detect(),
		mode:       galois.ModeCauchy,
		pool:       workerpool.New(0),
		coeffCache: make(map[coeffKey][][]byte),
	}
}

// Close releases the worker pool's goroutines. Safe to call more than
// once; Generate/Recover still work after Close, but the closed pool makes
// ParallelFor fall back to the caller's goroutine, so they are no longer
// parallel.
func (c *Context) Close() {
	c.pool.Close()
}

// SetMode switches between Cauchy and Vandermonde coefficient tables
// without redetecting the CPU (spec §4.2 "Ordering and tie-breaks").
func (c *Context) SetMode(mode galois.Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
}

// Mode returns the currently selected coefficient scheme.
func (c *Context) Mode() galois.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Variant returns the dispatched kernel variant.
func (c *Context) Variant() cpudetect.Variant {
	return c.caps.Best
}

// SetZero pins the caller-owned zero block used as a stand-in for missing
// streams during recovery.
func (c *Context) SetZero(buf []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zero = buf
}

// Zero returns the pinned zero block, or nil if unset.
func (c *Context) Zero() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zero
}

// SetWaste sets the optional scratch block RecoverDataOnly may route
// multiplications into instead of mutating parity buffers.
func (c *Context) SetWaste(buf []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waste = buf
}

// Waste returns the pinned waste block, or nil if unset.
func (c *Context) Waste() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waste
}

// Tables exposes the underlying GF(2^8) tables, e.g. for a hash-adjacent
// consumer that needs raw multiplies outside the kernel contract.
func (c *Context) Tables() *galois.Tables {
	return c.tables
}

// coefficients returns (and memoizes) the coefficient matrix for the
// current mode and the given (nd,np).
func (c *Context) coefficients(nd, np int) ([][]byte, error) {
	c.mu.Lock()
	mode := c.mode
	key := coeffKey{mode: mode, nd: nd, np: np}
	if cached, ok := c.coeffCache[key]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	table, err := c.tables.CoefficientTable(mode, nd, np)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.coeffCache[key] = table
	c.mu.Unlock()
	return table, nil
}

func (c *Context) params(nd, np, size int) (kernel.Params, error) {
	if size <= 0 || size%64 != 0 {
		return kernel.Params{}, fmt.Errorf("engine: size must be a positive multiple of 64, got %d", size)
	}
	coeff, err := c.coefficients(nd, np)
	if err != nil {
		return kernel.Params{}, err
	}
	return kernel.Params{
		Tables:  c.tables,
		Coeff:   coeff,
		Mode:    c.Mode(),
		Variant: c.caps.Best,
		Quirks:  c.caps.Quirks,
		Size:    size,
		Pool:    c.pool,
	}, nil
}

// Generate computes parity per spec §4.2.
func (c *Context) Generate(nd, np, size int, v [][]byte) error {
	p, err := c.params(nd, np, size)
	if err != nil {
		return err
	}
	return kernel.Generate(p, nd, np, v)
}

// Recover reconstructs missing data/parity per spec §4.3.
func (c *Context) Recover(id, ip []int, nd, np, size int, v [][]byte) error {
	p, err := c.params(nd, np, size)
	if err != nil {
		return err
	}
	return kernel.Recover(p, id, ip, nd, np, v)
}

// RecoverDataOnly is the restricted form from spec §4.3.
func (c *Context) RecoverDataOnly(id, used []int, nd, np, size int, v [][]byte) error {
	p, err := c.params(nd, np, size)
	if err != nil {
		return err
	}
	return kernel.RecoverDataOnly(p, id, used, nd, np, v)
}
