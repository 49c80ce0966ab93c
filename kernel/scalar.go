package kernel

import "github.com/ajroetker/raidpar/galois"

// generateScalar is the portable fallback (spec §4.2): one GF(2^8)
// multiply-accumulate per byte via the log/exp tables. It is correct for
// any (nd,np,mode) and is the reference every other variant is tested
// against for byte-identical output.
func generateScalar(tb *galois.Tables, coeff [][]byte, nd, np, size int, v [][]byte) {
	for k := 0; k < np; k++ {
		dst := v[nd+k]
		row := coeff[k]
		for i := range dst {
			dst[i] = 0
		}
		for j := 0; j < nd; j++ {
			mulXorInto(tb, dst, v[j], row[j])
		}
	}
}

// mulXorInto computes dst ^= c*src byte-wise. c==1 is the common case
// (parity row 0, or any Vandermonde column with gen^0) and short-circuits
// to a plain XOR, since multiplying by 1 is the identity.
func mulXorInto(tb *galois.Tables, dst, src []byte, c byte) {
	if c == 0 {
		return
	}
	if c == 1 {
		for i := range dst {
			dst[i] ^= src[i]
		}
		return
	}
	logC := tb.Log[c]
	for i := range dst {
		s := src[i]
		if s == 0 {
			continue
		}
		dst[i] ^= tb.Exp[int(logC)+int(tb.Log[s])]
	}
}
