package kernel

import "github.com/ajroetker/raidpar/galois"

// gfDouble multiplies a GF(2^8) byte by the generator 2 using H. Peter
// Anvin's branchless "expand parity-bit mask" trick: the top bit of x
// predicts whether the shift-left needs reducing against the primitive
// polynomial, expanded to a full byte mask instead of branching on it.
func gfDouble(x byte) byte {
	mask := byte(int8(x) >> 7)
	return (x << 1) ^ (mask & 0x1D)
}

// generateAnvinP2 handles the P=2 Vandermonde case without any table
// lookups (spec §4.2: "branchless scalar XOR ... for P=2 Vandermonde").
// Parity 0 is pure XOR; parity 1 (Q) is the Horner evaluation of
// Sum_j gen^j * D_j at gen=2, which is exactly what buildNibbleTables/
// the scalar path compute from the Vandermonde coefficient row, just
// without materializing the coefficients.
func generateAnvinP2(_ *galois.Tables, _ [][]byte, nd, np, size int, v [][]byte) {
	p := v[nd]
	q := v[nd+1]
	for i := 0; i < size; i++ {
		p[i] = 0
		q[i] = 0
	}
	for j := nd - 1; j >= 0; j-- {
		src := v[j]
		for i := 0; i < size; i++ {
			p[i] ^= src[i]
			q[i] = gfDouble(q[i]) ^ src[i]
		}
	}
}
