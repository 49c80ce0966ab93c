package kernel

import (
	"fmt"

	"github.com/ajroetker/raidpar/galois"
)

// gfMatrix is a small (<=6x6) square matrix over GF(2^8), used for the
// recovery submatrix from spec §4.3 step 2. It is built once per
// Recover/RecoverDataOnly call.
type gfMatrix struct {
	n    int
	rows [][]byte
}

func newGFMatrix(n int) gfMatrix {
	rows := make([][]byte, n)
	for i := range rows {
		rows[i] = make([]byte, n)
	}
	return gfMatrix{n: n, rows: rows}
}

// invertGF computes the inverse of m via Gauss-Jordan elimination over
// GF(2^8) on a copy, returning a new matrix and leaving m unchanged. The Cauchy construction guarantees
// m is invertible for any chosen subset of rows/columns (spec §4.3 step 2:
// "A is invertible by Cauchy construction").
func invertGF(tb *galois.Tables, m gfMatrix) (gfMatrix, error) {
	n := m.n
	aug := newGFMatrix(n)
	inv := newGFMatrix(n)
	for i := 0; i < n; i++ {
		copy(aug.rows[i], m.rows[i])
		inv.rows[i][i] = 1
	}

	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			if aug.rows[r][col] != 0 {
				pivot = r
				break
			}
		}
		if pivot == -1 {
			return gfMatrix{}, fmt.Errorf("kernel: singular recovery matrix (no pivot in column %d)", col)
		}
		if pivot != col {
			aug.rows[pivot], aug.rows[col] = aug.rows[col], aug.rows[pivot]
			inv.rows[pivot], inv.rows[col] = inv.rows[col], inv.rows[pivot]
		}

		pv := aug.rows[col][col]
		pvInv := tb.Inv(pv)
		if pvInv != 1 {
			scaleRow(tb, aug.rows[col], pvInv)
			scaleRow(tb, inv.rows[col], pvInv)
		}

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug.rows[r][col]
			if factor == 0 {
				continue
			}
			addScaledRow(tb, aug.rows[r], aug.rows[col], factor)
			addScaledRow(tb, inv.rows[r], inv.rows[col], factor)
		}
	}

	return inv, nil
}

func scaleRow(tb *galois.Tables, row []byte, c byte) {
	for i := range row {
		row[i] = tb.Mul(row[i], c)
	}
}

// addScaledRow computes dst ^= c*src (GF(2^8) row operation: subtraction is
// XOR, so this implements both add and subtract).
func addScaledRow(tb *galois.Tables, dst, src []byte, c byte) {
	for i := range dst {
		dst[i] ^= tb.Mul(src[i], c)
	}
}

// mulVec computes y = m * x over GF(2^8).
func (m gfMatrix) mulVec(tb *galois.Tables, x []byte) []byte {
	y := make([]byte, m.n)
	for r := 0; r < m.n; r++ {
		var acc byte
		row := m.rows[r]
		for c := 0; c < m.n; c++ {
			if x[c] == 0 || row[c] == 0 {
				continue
			}
			acc ^= tb.Mul(row[c], x[c])
		}
		y[r] = acc
	}
	return y
}
