//go:build !unix

package fdr

// The recorder writes traces through raw file descriptors and is built
// only on unix platforms. Elsewhere the hooks stay unarmed: Enter and
// Exit cost one atomic load and the lifecycle never leaves
// StatusUninitialized.

// Install is a no-op on platforms without the recorder runtime.
func Install() {}

// Reset reports StatusUninitialized on platforms without the recorder
// runtime.
func Reset() Status {
	return StatusUninitialized
}
