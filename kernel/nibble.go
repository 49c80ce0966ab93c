package kernel

import "github.com/ajroetker/raidpar/galois"

// nibbleTables holds the split low/high nibble multiply-by-c lookup used by
// the SSE2/AVX2-style variants below: the same PSHUFB-table trick real
// SSSE3/AVX2 kernels use, expressed here in portable Go so it runs (and
// produces byte-identical output) on any architecture. lo[n] = c*n for
// n in [0,16); hi[n] = c*(n<<4) for n in [0,16).
type nibbleTables struct {
	lo [16]byte
	hi [16]byte
}

func buildNibbleTables(tb *galois.Tables, c byte) nibbleTables {
	var nt nibbleTables
	for n := byte(0); n < 16; n++ {
		nt.lo[n] = tb.Mul(c, n)
		nt.hi[n] = tb.Mul(c, n<<4)
	}
	return nt
}

func (nt nibbleTables) mul(b byte) byte {
	return nt.lo[b&0x0F] ^ nt.hi[b>>4]
}

// generateSSE2Style processes blocks in 16-byte groups (the SSE2 register
// width) using the nibble lookup, for np in {1,2} per spec §4.2.
func generateSSE2Style(tb *galois.Tables, coeff [][]byte, nd, np, size int, v [][]byte) {
	generateNibbleUnrolled(tb, coeff, nd, np, size, v, 16)
}

// generateAVX2Style processes blocks in 32-byte groups (the AVX2 register
// width) using the nibble lookup, for Cauchy np in {3..6} per spec §4.2.
func generateAVX2Style(tb *galois.Tables, coeff [][]byte, nd, np, size int, v [][]byte) {
	generateNibbleUnrolled(tb, coeff, nd, np, size, v, 32)
}

func generateNibbleUnrolled(tb *galois.Tables, coeff [][]byte, nd, np, size int, v [][]byte, group int) {
	for k := 0; k < np; k++ {
		dst := v[nd+k]
		row := coeff[k]
		for i := range dst {
			dst[i] = 0
		}
		for j := 0; j < nd; j++ {
			c := row[j]
			src := v[j]
			if c == 0 {
				continue
			}
			if c == 1 {
				xorUnrolled(dst, src, group)
				continue
			}
			nt := buildNibbleTables(tb, c)
			mulXorUnrolled(dst, src, nt, group)
		}
	}
}

func xorUnrolled(dst, src []byte, group int) {
	n := len(dst)
	i := 0
	for ; i+group <= n; i += group {
		for g := 0; g < group; g++ {
			dst[i+g] ^= src[i+g]
		}
	}
	for ; i < n; i++ {
		dst[i] ^= src[i]
	}
}

func mulXorUnrolled(dst, src []byte, nt nibbleTables, group int) {
	n := len(dst)
	i := 0
	for ; i+group <= n; i += group {
		for g := 0; g < group; g++ {
			dst[i+g] ^= nt.mul(src[i+g])
		}
	}
	for ; i < n; i++ {
		dst[i] ^= nt.mul(src[i])
	}
}
