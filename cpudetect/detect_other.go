//go:build !amd64

package cpudetect

// Non-amd64 architectures fall back to AnvinP2: it's a branchless scalar
// trick, not a SIMD intrinsic, so it runs anywhere the Go scalar kernel
// does and is strictly better for its (Vandermonde, P=2) case. Future work
// can add arm64 NEON detection the way the teacher's dispatch_arm64.go does
// for its lane-wise ops, but the parity kernel has no NEON variant yet.
func detect() Capabilities {
	return Capabilities{
		Best:   VariantAnvinP2,
		Quirks: Quirks{CappedUnrollWidth: defaultCappedUnrollWidth},
	}
}
