// Package fdr provides a Pure-Go flight data recorder for function call
// tracing without CGO dependency.
//
// A flight data recorder keeps the most recent window of a program's
// function entry and exit events in a fixed ring of in-memory buffers.
// Recording never blocks and never allocates on the traced path; when
// something interesting happens the host finalizes the session and
// flushes the window to a compact binary trace file for offline analysis.
//
// # Quick Start
//
// Instrument a program with the fdrtracer tool, then opt in through the
// environment:
//
//	$ fdrtracer instrument --write ./...
//	$ FDRTRACER_OPTIONS="fdr_log=true buffer_size=65536 buffer_max=16" ./myprogram
//
// For manual control in advanced scenarios:
//
//	package main
//
//	import "github.com/kolkov/fdrtracer/fdr"
//
//	func main() {
//		fdr.Install()
//		fdr.Init(64*1024, 16, fdr.Options{Fd: -1})
//		defer func() {
//			fdr.Finalize()
//			fdr.Flush()
//		}()
//
//		// Instrumented functions record themselves:
//		work()
//	}
//
//	func work() {
//		fdr.Enter(1)
//		defer fdr.Exit(1)
//		// ...
//	}
//
// # API Overview
//
// The package provides functions for:
//   - Session lifecycle: [Install], [Init], [Finalize], [Flush], [Reset]
//   - Event recording: [Enter], [Exit], [TailExit]
//   - Version information: [GetInfo], [Version]
//
// Lifecycle functions never fail with an error; they return the [Status]
// they observed. Racing callers see the winner's state, so the functions
// are safe to call from any goroutine at any time.
//
// # How It Works
//
// Init allocates bufferMax buffers of bufferSize bytes each. Recording
// goroutines write fixed-size binary records into per-CPU lanes; a full
// buffer is sealed and the next one checked out from the ring, recycling
// the oldest recordings once the ring wraps. Each record carries a
// function ID and a delta-compressed timestamp from the CPU's cycle
// counter, so a recorded event costs 8 bytes in the common case.
//
// Finalize seals all open buffers. Flush then writes a fixed header
// followed by the sealed buffers to the configured descriptor, or to a
// fresh trace file under the system temp directory when Options.Fd is
// negative.
//
// # Performance Characteristics
//
//	Recording:        lock-free fast path, one TryLock per event; contended
//	                  or out-of-buffer events are dropped, never blocked on
//	Event size:       8 bytes per entry/exit, plus small per-buffer framing
//	Timestamps:       RDTSCP cycle counter on amd64, wall clock elsewhere
//	Memory:           bufferSize x bufferMax bytes, allocated once at Init
//
// # Compatibility
//
// The recorder runtime builds on unix platforms (Linux, macOS, the BSDs).
// On other platforms the package compiles but stays inert: hooks cost one
// atomic load and Init reports StatusUninitialized. Cycle-counter
// timestamps need amd64; other architectures fall back to the wall clock.
//
// # Links
//
// Project repository:
// https://github.com/kolkov/fdrtracer
//
// Documentation:
// https://pkg.go.dev/github.com/kolkov/fdrtracer/fdr
package fdr
