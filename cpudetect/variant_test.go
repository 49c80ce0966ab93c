package cpudetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect_ReturnsAKnownVariant(t *testing.T) {
	caps := Detect()
	switch caps.Best {
	case VariantScalar, VariantAnvinP2, VariantSSE2, VariantAVX2:
	default:
		t.Fatalf("unexpected variant %v", caps.Best)
	}
	assert.GreaterOrEqual(t, caps.Quirks.CappedUnrollWidth, 2)
}

func TestVariant_String(t *testing.T) {
	assert.Equal(t, "scalar", VariantScalar.String())
	assert.Equal(t, "avx2", VariantAVX2.String())
	assert.Equal(t, "sse2", VariantSSE2.String())
	assert.Equal(t, "anvin-p2", VariantAnvinP2.String())
}
