//go:build ignore

// Command tsccheck reports whether the timestamp counter on this machine
// is usable as the trace clock.
//
// It probes the CPU feature bits, measures the counter rate against the
// wall clock, and compares the measurement with the calibrated frequency
// the recorder would use. A large disagreement means traces fall back to
// the wall clock on this host.
//
// Run with: go run tools/tsccheck.go
package main

import (
	"fmt"
	"time"

	"github.com/kolkov/fdrtracer/internal/fdr/tsc"
)

func main() {
	fmt.Println("=== Timestamp Counter Check ===")
	fmt.Println()

	if !tsc.Supported() {
		fmt.Println("RDTSCP not available: the recorder will use the wall clock")
		return
	}
	fmt.Println("RDTSCP supported")

	calibrated := tsc.Frequency()
	fmt.Printf("calibrated frequency: %d Hz\n", calibrated)

	start, startCPU := tsc.Read()
	time.Sleep(200 * time.Millisecond)
	end, endCPU := tsc.Read()

	elapsed := end - start
	measured := elapsed * 5 // 200ms sample scaled to one second
	fmt.Printf("measured frequency:   %d Hz (%d cycles over 200ms)\n", measured, elapsed)
	fmt.Printf("sampled on CPU %d, finished on CPU %d\n", startCPU, endCPU)

	if calibrated == 0 {
		fmt.Println()
		fmt.Println("WARNING: no calibrated frequency, timestamps would use the wall clock")
		return
	}

	diff := int64(measured) - int64(calibrated)
	if diff < 0 {
		diff = -diff
	}
	pct := float64(diff) / float64(calibrated) * 100
	fmt.Printf("disagreement:         %.2f%%\n", pct)

	fmt.Println()
	if pct > 5 {
		fmt.Println("WARNING: counter rate unstable, trace timestamps may drift")
	} else {
		fmt.Println("counter looks stable, traces will use cycle timestamps")
	}
}
