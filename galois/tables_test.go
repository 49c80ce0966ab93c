package galois

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTables_MulIdentity(t *testing.T) {
	tb := NewTables()
	for a := 1; a < 256; a++ {
		assert.Equal(t, byte(a), tb.Mul(byte(a), 1), "a*1 should be a")
	}
}

func TestTables_MulZero(t *testing.T) {
	tb := NewTables()
	assert.Equal(t, byte(0), tb.Mul(0, 200))
	assert.Equal(t, byte(0), tb.Mul(200, 0))
}

func TestTables_InvRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tb := NewTables()
		a := byte(rapid.IntRange(1, 255).Draw(t, "a"))
		inv := tb.Inv(a)
		require.Equal(t, byte(1), tb.Mul(a, inv), "a * a^-1 must be 1")
	})
}

func TestTables_MulCommutative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tb := NewTables()
		a := byte(rapid.IntRange(0, 255).Draw(t, "a"))
		b := byte(rapid.IntRange(0, 255).Draw(t, "b"))
		require.Equal(t, tb.Mul(a, b), tb.Mul(b, a))
	})
}

func TestCoefficientTable_RowZeroIsIdentity(t *testing.T) {
	tb := NewTables()
	for _, mode := range []Mode{ModeCauchy, ModeVandermonde} {
		m, err := tb.CoefficientTable(mode, 10, 2)
		require.NoError(t, err)
		for j := 0; j < 10; j++ {
			assert.Equal(t, byte(1), m[0][j], "mode %v row 0 col %d", mode, j)
		}
	}
}

func TestCoefficientTable_ModeCompatibilityP1P2(t *testing.T) {
	tb := NewTables()
	cauchy, err := tb.CoefficientTable(ModeCauchy, 20, 2)
	require.NoError(t, err)
	vander, err := tb.CoefficientTable(ModeVandermonde, 20, 2)
	require.NoError(t, err)
	assert.Equal(t, cauchy, vander, "cauchy and vandermonde must agree for P in {1,2}")
}

func TestCoefficientTable_VandermondeRejectsMoreThanThreeParities(t *testing.T) {
	tb := NewTables()
	_, err := tb.CoefficientTable(ModeVandermonde, 10, 4)
	assert.Error(t, err)
}

func TestCoefficientTable_RejectsOutOfRangeCounts(t *testing.T) {
	tb := NewTables()
	_, err := tb.CoefficientTable(ModeCauchy, 0, 2)
	assert.Error(t, err)
	_, err = tb.CoefficientTable(ModeCauchy, 10, 0)
	assert.Error(t, err)
	_, err = tb.CoefficientTable(ModeCauchy, 10, 7)
	assert.Error(t, err)
}

func TestCoefficientTable_CauchySubmatrixInvertible(t *testing.T) {
	tb := NewTables()
	m, err := tb.CoefficientTable(ModeCauchy, 200, 6)
	require.NoError(t, err)
	// Every entry must be non-zero: a zero coefficient would mean x_k == y_j
	// and the Cauchy construction broke disjointness.
	for k := range m {
		for j := range m[k] {
			assert.NotZero(t, m[k][j], "coefficient (%d,%d) must be non-zero", k, j)
		}
	}
}
