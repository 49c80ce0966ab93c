// Package kernel implements the parity generation and recovery routines of
// spec §4.2-§4.3: pure byte-wise GF(2^8) compute with no I/O. Multiple
// variants compute the identical result; cpudetect.Variant picks which one
// runs, the way the teacher's hwy package picks a SIMD op set via its
// DispatchLevel.
package kernel

import (
	"fmt"

	"github.com/ajroetker/raidpar/cpudetect"
	"github.com/ajroetker/raidpar/galois"
	"github.com/ajroetker/raidpar/internal/workerpool"
)

// parallelThreshold is the block size (spec §5/§6) above which Generate and
// Recover split their byte range across Pool's workers instead of running
// single-threaded; every variant processes each byte offset independently,
// so striping the range never changes the result.
const parallelThreshold = 1 << 20

// Params bundles the inputs every kernel entry point needs: the GF tables,
// the per-(mode,nd,np) coefficient matrix, the selected variant/quirks, and
// the block size. Pool is optional; if nil, Generate/Recover run
// single-threaded regardless of Size.
type Params struct {
	Tables *galois.Tables
	Coeff  [][]byte // Coeff[k][j], k in [0,np), j in [0,nd)
	Mode   galois.Mode
	Variant cpudetect.Variant
	Quirks  cpudetect.Quirks
	Size    int
	Pool    *workerpool.Pool
}

// stripeBuffers returns a slice holding v[i][start:end] for every i, a view
// into the same backing arrays so writes are visible to the caller.
func stripeBuffers(v [][]byte, start, end int) [][]byte {
	out := make([][]byte, len(v))
	for i, b := range v {
		out[i] = b[start:end]
	}
	return out
}

func (p Params) validate(nd, np int, v [][]byte) error {
	if p.Size <= 0 || p.Size%64 != 0 {
		return fmt.Errorf("kernel: size must be a positive multiple of 64, got %d", p.Size)
	}
	if len(v) != nd+np {
		return fmt.Errorf("kernel: expected %d buffers, got %d", nd+np, len(v))
	}
	for i, b := range v {
		if len(b) != p.Size {
			return fmt.Errorf("kernel: buffer %d has length %d, want %d", i, len(b), p.Size)
		}
	}
	if len(p.Coeff) != np {
		return fmt.Errorf("kernel: coefficient table has %d rows, want %d", len(p.Coeff), np)
	}
	for k, row := range p.Coeff {
		if len(row) != nd {
			return fmt.Errorf("kernel: coefficient row %d has %d columns, want %d", k, len(row), nd)
		}
	}
	return nil
}

// Generate computes P_k = XOR_j Coeff[k][j]*D_j for k in [0,np), writing
// into v[nd:nd+np]. v[0:nd] are data blocks (spec §4.2).
func Generate(p Params, nd, np int, v [][]byte) error {
	if err := p.validate(nd, np, v); err != nil {
		return err
	}
	fn := selectGenerate(p.Variant, p.Mode, np)
	if p.Pool != nil && p.Size >= parallelThreshold {
		p.Pool.ParallelFor(p.Size, func(start, end int) {
			fn(p.Tables, p.Coeff, nd, np, end-start, stripeBuffers(v, start, end))
		})
		return nil
	}
	fn(p.Tables, p.Coeff, nd, np, p.Size, v)
	return nil
}

// selectGenerate picks the best applicable variant, falling back per
// spec §4.2's "best first, fall back down" rule.
func selectGenerate(variant cpudetect.Variant, mode galois.Mode, np int) generateFunc {
	if variant >= cpudetect.VariantAVX2 && np >= 3 && np <= 6 {
		return generateAVX2Style
	}
	if variant >= cpudetect.VariantSSE2 && np >= 1 && np <= 2 {
		return generateSSE2Style
	}
	if variant >= cpudetect.VariantAnvinP2 && mode == galois.ModeVandermonde && np == 2 {
		return generateAnvinP2
	}
	return generateScalar
}

type generateFunc func(tb *galois.Tables, coeff [][]byte, nd, np, size int, v [][]byte)
