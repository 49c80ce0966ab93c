// Package cpudetect selects the parity kernel variant for the running CPU.
//
// It follows the same shape as the teacher's SIMD dispatch: a small enum of
// capability levels, populated once by an architecture-specific init, plus
// a handful of documented vendor quirks that were tuned empirically rather
// than derived from a feature bit.
package cpudetect

// Variant is a parity kernel implementation choice, ordered from least to
// most capable, so kernel selection can compare variants with >=.
type Variant int

const (
	// VariantScalar is the portable fallback: correct for any (nd,np).
	VariantScalar Variant = iota
	// VariantAnvinP2 is the branchless parity-bit-mask scalar trick for
	// np==2 Vandermonde parity (H. Peter Anvin's RAID6 method).
	VariantAnvinP2
	// VariantSSE2 is the 16-byte XOR + nibble-lookup unroll for np in {1,2}.
	VariantSSE2
	// VariantAVX2 is the 32-byte byte-shuffle lookup for Cauchy np in {3..6}.
	VariantAVX2
)

func (v Variant) String() string {
	switch v {
	case VariantScalar:
		return "scalar"
	case VariantAnvinP2:
		return "anvin-p2"
	case VariantSSE2:
		return "sse2"
	case VariantAVX2:
		return "avx2"
	default:
		return "unknown"
	}
}

// Quirks records the empirically-observed vendor exceptions from spec §4.2,
// carried forward unchanged from snapraid's tuning notes.
type Quirks struct {
	// AvoidIntegerMultiplyHash is set on Intel Atom-class CPUs (family 6,
	// model 28): prefer hash implementations that avoid integer
	// multiplication.
	AvoidIntegerMultiplyHash bool

	// CappedUnrollWidth records the unroll cap: 2 on AMD Bulldozer
	// (family 21), which avoids the upper half of the extended SIMD
	// register file, else 4. The kernel variants do not read it; on
	// Bulldozer, detection caps the variant at SSE2 instead.
	CappedUnrollWidth int
}

// Capabilities is the result of one probe: the best variant available plus
// the quirks that narrow kernel selection.
type Capabilities struct {
	Best   Variant
	Quirks Quirks
}

// defaultCappedUnrollWidth is used whenever no quirk caps it further.
const defaultCappedUnrollWidth = 4

// Detect probes the running CPU and returns its capabilities. Architecture
// specific detection lives in detect_amd64.go / detect_other.go, mirroring
// the teacher's per-arch dispatch_*.go split.
func Detect() Capabilities {
	return detect()
}
