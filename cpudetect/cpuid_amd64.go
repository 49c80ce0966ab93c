//go:build amd64

package cpudetect

// cpuid is implemented in cpuid_amd64.s, ported from golang.org/x/sys/cpu's
// own cpu_x86.s stub (the same shape recurs in the vendored
// github.com/templexxx/cpu sources retrieved alongside this module).
func cpuid(eaxArg, ecxArg uint32) (eax, ebx, ecx, edx uint32)

// cpuVendor reads the 12-character vendor string from CPUID leaf 0.
func cpuVendor() string {
	_, b, c, d := cpuid(0, 0)
	buf := make([]byte, 12)
	byteOrder(buf[0:4], b)
	byteOrder(buf[4:8], d)
	byteOrder(buf[8:12], c)
	return string(buf)
}

func byteOrder(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}

// cpuFamilyModel extracts (family, model) from CPUID leaf 1, EAX, using the
// same extended-family/extended-model folding rule as snapraid's cpu_info
// (see original_source/cpu.h): AMD below family 15 does not fold the
// extended family bits in.
func cpuFamilyModel() (family, model uint32) {
	eax, _, _, _ := cpuid(1, 0)
	f := (eax >> 8) & 0xF
	ef := (eax >> 20) & 0xFF
	m := (eax >> 4) & 0xF
	em := (eax >> 16) & 0xF

	if cpuVendor() == "AuthenticAMD" && f < 15 {
		return f, m
	}
	return f + ef, m + em<<4
}
