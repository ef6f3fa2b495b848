// Package tsc provides access to the hardware timestamp counter used for
// low-overhead event timestamps: a capability probe, a combined
// cycle-count/CPU-id read, and the counter frequency needed to convert
// cycles back to time.
//
// The probe and the frequency are resolved once and cached; neither is
// re-evaluated per call. On platforms without a usable counter the runtime
// falls back to wall-clock timestamps, so every consumer must gate on
// Supported().
package tsc

import (
	"sync"
	"time"
)

// Clock reads a wall-clock timestamp. It is injected into the encoder for
// walltime markers and used for event timestamps on the fallback path. A
// failed read must be tolerated by the caller, never retried in a loop.
type Clock func() (sec int64, nsec int64, err error)

var (
	probeOnce sync.Once
	probeOK   bool

	freqOnce sync.Once
	freqHz   uint64
)

// Supported reports whether the combined cycle/CPU read is available on
// this CPU. Resolved on first call, cached for process lifetime.
func Supported() bool {
	probeOnce.Do(func() {
		probeOK = supported()
	})
	return probeOK
}

// Read returns the current cycle count and the id of the CPU it was read
// on, as a single consistent read. Returns zeros when unsupported; callers
// gate on Supported.
//
//go:nosplit
func Read() (cycles uint64, cpu uint32) {
	return read()
}

// Frequency returns the counter's tick rate in cycles per second, or 0
// when it cannot be determined. Resolved once: from CPU identification
// when the hardware reports it, otherwise by a short calibration against
// the monotonic clock.
func Frequency() uint64 {
	freqOnce.Do(func() {
		if Supported() {
			freqHz = frequency()
		}
	})
	return freqHz
}

// calibrate measures the counter against the monotonic clock over a short
// sleep. Good to well under a percent, which is plenty for trace
// timestamps.
func calibrate() uint64 {
	startCycles, _ := read()
	start := time.Now()
	time.Sleep(50 * time.Millisecond)
	endCycles, _ := read()
	elapsed := time.Since(start)

	if elapsed <= 0 || endCycles <= startCycles {
		return 0
	}
	return uint64(float64(endCycles-startCycles) / elapsed.Seconds())
}
