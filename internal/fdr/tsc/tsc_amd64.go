package tsc

import "github.com/klauspost/cpuid/v2"

// supported gates on RDTSCP rather than plain RDTSC: the combined
// cycle/CPU read needs the IA32_TSC_AUX register that only RDTSCP exposes.
func supported() bool {
	return cpuid.CPU.Supports(cpuid.RDTSCP)
}

// read returns the cycle count and the executing CPU. The aux value is the
// raw IA32_TSC_AUX register; the kernel encodes the CPU number in its low
// bits.
//
//go:nosplit
func read() (cycles uint64, cpu uint32) {
	return rdtscp()
}

// frequency prefers the rate reported by CPU identification and falls back
// to calibration when the hardware does not advertise one.
func frequency() uint64 {
	if hz := cpuid.CPU.Hz; hz > 0 {
		return uint64(hz)
	}
	return calibrate()
}

// rdtscp executes RDTSCP: one serialized read of the 64-bit cycle counter
// together with IA32_TSC_AUX. Implemented in tsc_amd64.s.
func rdtscp() (tsc uint64, aux uint32)
