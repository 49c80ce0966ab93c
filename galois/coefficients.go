package galois

import "fmt"

// Mode selects the parity coefficient scheme.
type Mode int

const (
	// ModeCauchy supports up to MaxParity parity levels.
	ModeCauchy Mode = iota
	// ModeVandermonde supports up to 3 parity levels with simpler
	// multiplications; it agrees with ModeCauchy for P in {1,2}.
	ModeVandermonde
)

func (m Mode) String() string {
	switch m {
	case ModeCauchy:
		return "cauchy"
	case ModeVandermonde:
		return "vandermonde"
	default:
		return "unknown"
	}
}

const (
	// MaxDataDisks is the largest number of data disks this package's
	// coefficient construction supports, per spec §6 limits (nd <= 251).
	MaxDataDisks = 251
	// MaxParity is the largest parity level supported (P <= 6).
	MaxParity = 6
	// MaxVandermondeParity is the Vandermonde mode ceiling (P <= 3).
	MaxVandermondeParity = 3
)

// CoefficientTable returns m[k][j], the multiplier for parity row k and
// data column j, for k in [0,np) and j in [0,nd).
//
// Row 0 is always pure XOR (coefficient 1 for every column) and row 1 is
// always the powers-of-2 row (gen^j) in both modes — this is what makes
// the two modes agree for P in {1,2} (spec §8 invariant 3). Rows 0 and 1
// consume no Cauchy x-value, so Cauchy mode's genuine Cauchy rows
// m(k,j) = 1/(x_k XOR y_j) start at k==2, with y_j = j (one value per
// data column) and x_k descending from the top of the byte range
// (x_2=255, x_3=254, ...). Those two sequences are disjoint as long as
// nd + max(0,np-2) <= 256, the actual room available once rows 0 and 1
// are free and up to MaxParity-2 further rows reserve an x-value each —
// this is what lets nd=251, np=6 fit (251+4=255 <= 256).
//
// Vandermonde mode uses m(k,j) = gen^(k*j) for every row including row 1,
// valid for np <= 3.
func (t *Tables) CoefficientTable(mode Mode, nd, np int) ([][]byte, error) {
	if nd <= 0 || nd > MaxDataDisks {
		return nil, fmt.Errorf("galois: nd=%d out of range (1..%d)", nd, MaxDataDisks)
	}
	if np <= 0 || np > MaxParity {
		return nil, fmt.Errorf("galois: np=%d out of range (1..%d)", np, MaxParity)
	}
	if mode == ModeVandermonde && np > MaxVandermondeParity {
		return nil, fmt.Errorf("galois: vandermonde mode supports at most %d parities, got %d", MaxVandermondeParity, np)
	}
	cauchyRows := np - 2
	if cauchyRows < 0 {
		cauchyRows = 0
	}
	if nd+cauchyRows > 256 {
		return nil, fmt.Errorf("galois: nd=%d with %d Cauchy rows exceeds the 256-element GF(2^8) budget", nd, cauchyRows)
	}

	m := make([][]byte, np)
	for k := range m {
		m[k] = make([]byte, nd)
	}

	// Row 0 is always pure XOR, in both modes.
	for j := 0; j < nd; j++ {
		m[0][j] = 1
	}

	const gen = 0x02
	// Row 1 is always the powers-of-2 row, in both modes.
	if np > 1 {
		for j := 0; j < nd; j++ {
			m[1][j] = t.powByte(gen, j)
		}
	}

	switch mode {
	case ModeVandermonde:
		for k := 2; k < np; k++ {
			gk := t.powByte(gen, k)
			for j := 0; j < nd; j++ {
				m[k][j] = t.powByte(gk, j)
			}
		}
	default: // ModeCauchy
		for k := 2; k < np; k++ {
			xk := byte(255 - (k - 2))
			for j := 0; j < nd; j++ {
				yj := byte(j)
				denom := xk ^ yj
				m[k][j] = t.Inv(denom)
			}
		}
	}

	return m, nil
}

// powByte computes base^exp inside GF(2^8) using the log/exp tables.
func (t *Tables) powByte(base byte, exp int) byte {
	if exp == 0 {
		return 1
	}
	if base == 0 {
		return 0
	}
	l := (int(t.Log[base]) * exp) % 255
	if l < 0 {
		l += 255
	}
	return t.Exp[l]
}
