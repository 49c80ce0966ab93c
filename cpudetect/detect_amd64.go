//go:build amd64

package cpudetect

import "golang.org/x/sys/cpu"

// atomFamily and atomModel identify Intel Atom-class CPUs (family 6, model
// 28), which prefer hash implementations that avoid integer multiplication
// per spec §4.2.
const (
	atomFamily = 6
	atomModel  = 28
)

// bulldozerFamily identifies AMD Bulldozer-class CPUs (family 21), which
// must avoid the upper half of the extended SIMD register file and cap
// unroll width per spec §4.2.
const bulldozerFamily = 21

func detect() Capabilities {
	// AnvinP2 needs no SIMD feature bit (it's a branchless scalar trick),
	// so it's always at least as good as the bare scalar fallback.
	best := VariantAnvinP2
	switch {
	case cpu.X86.HasAVX2 && cpu.X86.HasSSSE3:
		best = VariantAVX2
	case cpu.X86.HasSSE2:
		best = VariantSSE2
	}

	family, model := cpuFamilyModel()
	q := Quirks{CappedUnrollWidth: defaultCappedUnrollWidth}

	vendor := cpuVendor()
	if vendor == "GenuineIntel" && family == atomFamily && model == atomModel {
		q.AvoidIntegerMultiplyHash = true
	}
	if vendor == "AuthenticAMD" && family == bulldozerFamily {
		q.CappedUnrollWidth = 2
		// Bulldozer's FPU is shared across core pairs; cap at SSE2 width
		// rather than trust AVX2 throughput claims.
		if best == VariantAVX2 {
			best = VariantSSE2
		}
	}

	return Capabilities{Best: best, Quirks: q}
}
