//go:build !amd64

package tsc

// No usable combined cycle/CPU read on this architecture; the runtime
// records wall-clock timestamps instead.

func supported() bool { return false }

//go:nosplit
func read() (cycles uint64, cpu uint32) { return 0, 0 }

func frequency() uint64 { return 0 }
