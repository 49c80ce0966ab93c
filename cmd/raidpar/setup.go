package main

import (
	"fmt"
	"os"

	"github.com/ajroetker/raidpar/blockhash"
	"github.com/ajroetker/raidpar/blockoff"
	"github.com/ajroetker/raidpar/config"
	"github.com/ajroetker/raidpar/diskview"
	"github.com/ajroetker/raidpar/engine"
	"github.com/ajroetker/raidpar/filehandle"
	"github.com/ajroetker/raidpar/galois"
	"github.com/ajroetker/raidpar/parityfile"
)

// array bundles everything a subcommand needs to drive a pass: the parsed
// config, an engine context in the configured mode, one OSHandle per data
// disk, and one OSContainer per parity level, created against their
// configured paths.
//
// view is a diskview.MemView: the on-disk state-file format that would
// normally populate per-block records is explicitly out of scope (spec.md
// §1 lists it as an external collaborator), so this CLI wires the core
// against an empty in-memory view as the seam a real state-file reader
// would fill in (see DESIGN.md).
type array struct {
	cfg   *config.Array
	eng   *engine.Context
	view  diskview.View
	disks []filehandle.Handle
	par   []parityfile.Container
	hash  blockhash.Hasher
}

func buildArray(configPath string) (*array, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	eng := engine.New()
	switch cfg.Mode {
	case "vandermonde":
		eng.SetMode(galois.ModeVandermonde)
	default:
		eng.SetMode(galois.ModeCauchy)
	}

	disks := make([]filehandle.Handle, len(cfg.Disks))
	for i := range cfg.Disks {
		disks[i] = filehandle.NewOSHandle()
	}

	pars := make([]parityfile.Container, len(cfg.Parities))
	for i, pf := range cfg.Parities {
		c := parityfile.NewOSContainer()
		if err := c.Create(pf.Path, cfg.BlockSize); err != nil {
			return nil, fmt.Errorf("opening parity file %s: %w", pf.Path, err)
		}
		// Create opens (or creates) the file but leaves the container's
		// blockmax at 0; a fresh parity file legitimately has none yet, but
		// one left over from an earlier sync already holds blocks. Resizing
		// to its current size on disk is a no-op on content (same target
		// size) and makes ReadAt/WriteAt against those existing indices work
		// for check/fix, which never call Resize themselves the way
		// sync.Coordinator.Sync does.
		info, err := os.Stat(pf.Path)
		if err != nil {
			return nil, fmt.Errorf("statting parity file %s: %w", pf.Path, err)
		}
		existing := blockoff.T(info.Size() / int64(cfg.BlockSize))
		if err := c.Resize(existing); err != nil {
			return nil, fmt.Errorf("sizing parity file %s to its existing %d blocks: %w", pf.Path, existing, err)
		}
		pars[i] = c
	}

	return &array{
		cfg:   cfg,
		eng:   eng,
		view:  diskview.NewMemView(),
		disks: disks,
		par:   pars,
		hash:  blockhash.NewSHA256(),
	}, nil
}
