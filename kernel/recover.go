package kernel

import "fmt"

// Recover implements spec §4.3: id lists the missing data columns
// (ascending, distinct, in [0,nd)), ip lists the missing parity rows
// (ascending, distinct, in [0,np)). Precondition: len(id)+len(ip) <= np.
// v holds nd+np buffers; entries at missing indices are output buffers
// whose input content is undefined.
func Recover(p Params, id, ip []int, nd, np int, v [][]byte) error {
	if err := p.validate(nd, np, v); err != nil {
		return err
	}
	if len(id)+len(ip) > np {
		return fmt.Errorf("kernel: %d missing data + %d missing parity exceeds %d parities", len(id), len(ip), np)
	}
	if err := checkAscendingDistinct(id, nd); err != nil {
		return fmt.Errorf("kernel: id: %w", err)
	}
	if err := checkAscendingDistinct(ip, np); err != nil {
		return fmt.Errorf("kernel: ip: %w", err)
	}

	if len(id) > 0 {
		isMissingParity := make([]bool, np)
		for _, k := range ip {
			isMissingParity[k] = true
		}

		// Step 1: choose len(id) surviving parity rows not in ip.
		s := make([]int, 0, len(id))
		for k := 0; k < np && len(s) < len(id); k++ {
			if !isMissingParity[k] {
				s = append(s, k)
			}
		}
		if len(s) < len(id) {
			return fmt.Errorf("kernel: not enough surviving parity rows to recover %d data columns", len(id))
		}

		if err := recoverDataColumns(p, id, s, nd, v); err != nil {
			return err
		}
	}

	// Step 4: regenerate any requested parities from the now-complete data.
	if len(ip) > 0 {
		regenerateParityRows(p, ip, nd, v)
	}

	return nil
}

// RecoverDataOnly is the restricted form from spec §4.3: exactly nr data
// disks are missing (id) and the caller pins nr parity row indices (used)
// to use for recovering them — no automatic parity selection, and parity
// buffers outside `used` are never touched.
//
// If a waste buffer is configured it is accepted but unused: this
// implementation solves directly for the missing data columns via a
// precomputed matrix inverse rather than accumulating into parity buffers
// in place, so it never needs scratch space the way an in-place XOR
// accumulator would.
func RecoverDataOnly(p Params, id, used []int, nd, np int, v [][]byte) error {
	if err := p.validate(nd, np, v); err != nil {
		return err
	}
	if len(id) != len(used) {
		return fmt.Errorf("kernel: RecoverDataOnly requires len(id)==len(used), got %d and %d", len(id), len(used))
	}
	if err := checkAscendingDistinct(id, nd); err != nil {
		return fmt.Errorf("kernel: id: %w", err)
	}
	if err := checkAscendingDistinct(used, np); err != nil {
		return fmt.Errorf("kernel: used: %w", err)
	}
	if len(id) == 0 {
		return nil
	}
	return recoverDataColumns(p, id, used, nd, v)
}

// recoverDataColumns is the shared Gaussian-elimination core behind
// Recover and RecoverDataOnly (spec §4.3 steps 2-3): s names the nrd
// surviving parity rows whose equations will be solved against the
// missing data columns in id.
func recoverDataColumns(p Params, id, s []int, nd int, v [][]byte) error {
	nrd := len(id)
	isMissingData := make([]bool, nd)
	for _, j := range id {
		isMissingData[j] = true
	}

	// Step 2: A[r,c] = coeff[s[r]][id[c]].
	a := newGFMatrix(nrd)
	for r, sr := range s {
		for c, idc := range id {
			a.rows[r][c] = p.Coeff[sr][idc]
		}
	}
	ainv, err := invertGF(p.Tables, a)
	if err != nil {
		return err
	}

	// solve handles one byte offset i: each offset is independent of every
	// other, so this is the unit striped across Pool's workers below.
	solve := func(i int) {
		y := make([]byte, nrd)
		// Step 3a: subtract known-data contributions from each
		// surviving parity row's byte.
		for r, sr := range s {
			acc := v[nd+sr][i]
			row := p.Coeff[sr]
			for j := 0; j < nd; j++ {
				if isMissingData[j] || row[j] == 0 {
					continue
				}
				sByte := v[j][i]
				if sByte == 0 {
					continue
				}
				acc ^= p.Tables.Mul(row[j], sByte)
			}
			y[r] = acc
		}

		// Step 3b/c: solve A*x=y, write x[c] into id[c].
		x := ainv.mulVec(p.Tables, y)
		for c, idc := range id {
			v[idc][i] = x[c]
		}
	}

	if p.Pool != nil && p.Size >= parallelThreshold {
		p.Pool.ParallelFor(p.Size, func(start, end int) {
			for i := start; i < end; i++ {
				solve(i)
			}
		})
		return nil
	}
	for i := 0; i < p.Size; i++ {
		solve(i)
	}
	return nil
}

func checkAscendingDistinct(idx []int, limit int) error {
	for i, v := range idx {
		if v < 0 || v >= limit {
			return fmt.Errorf("index %d out of range [0,%d)", v, limit)
		}
		if i > 0 && idx[i-1] >= v {
			return fmt.Errorf("indexes must be ascending and distinct, got ...,%d,%d,...", idx[i-1], v)
		}
	}
	return nil
}

// regenerateParityRows recomputes v[nd+k] for every k in rows, from the
// (now complete) data columns v[0:nd].
func regenerateParityRows(p Params, rows []int, nd int, v [][]byte) {
	run := func(vv [][]byte) {
		for _, k := range rows {
			dst := vv[nd+k]
			row := p.Coeff[k]
			for i := range dst {
				dst[i] = 0
			}
			for j := 0; j < nd; j++ {
				mulXorInto(p.Tables, dst, vv[j], row[j])
			}
		}
	}
	if p.Pool != nil && p.Size >= parallelThreshold {
		p.Pool.ParallelFor(p.Size, func(start, end int) {
			run(stripeBuffers(v, start, end))
		})
		return
	}
	run(v)
}
