package engine

import "github.com/ajroetker/raidpar/galois"

// defaultContext backs the package-level compatibility wrappers below, per
// spec §9's explicit allowance for a default-context shim; the core never
// reads it itself.
var defaultContext = New()

// Init (re)builds the default context, dispatching CPU detection fresh and
// closing the previous context's worker pool.
func Init() {
	defaultContext.Close()
	defaultContext = New()
}

// SetMode sets the default context's coefficient scheme.
func SetMode(mode galois.Mode) {
	defaultContext.SetMode(mode)
}

// SetZero pins the default context's zero block.
func SetZero(buf []byte) {
	defaultContext.SetZero(buf)
}

// SetWaste pins the default context's waste block.
func SetWaste(buf []byte) {
	defaultContext.SetWaste(buf)
}

// Default returns the package-level default context.
func Default() *Context {
	return defaultContext
}
