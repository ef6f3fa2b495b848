// Package fdr provides the public API for the flight data recorder
// tracing runtime.
//
// See doc.go for detailed documentation and examples.
package fdr

import (
	"github.com/kolkov/fdrtracer/internal/fdr/logctl"
	"github.com/kolkov/fdrtracer/internal/fdr/wire"
)

// Status reports where the tracing lifecycle currently stands. Control
// functions return the status they observed; a caller losing a race gets
// the winner's state back instead of an error.
type Status = logctl.Status

// Lifecycle states, in transition order.
const (
	StatusUninitialized = logctl.StatusUninitialized
	StatusInitializing  = logctl.StatusInitializing
	StatusInitialized   = logctl.StatusInitialized
	StatusFinalizing    = logctl.StatusFinalizing
	StatusFinalized     = logctl.StatusFinalized
)

// FlushStatus reports where trace persistence currently stands.
type FlushStatus = logctl.FlushStatus

// Flush states.
const (
	FlushNotFlushing = logctl.FlushNotFlushing
	FlushFlushing    = logctl.FlushFlushing
	FlushFlushed     = logctl.FlushFlushed
)

// Options configures a tracing session at Init time.
type Options struct {
	// ReportErrors asks the runtime to log recording problems instead of
	// staying silent.
	ReportErrors bool

	// Fd is the file descriptor the trace is flushed to. Set it to a
	// negative value to let the runtime create a trace file itself.
	Fd int
}

func (o Options) payload() []byte {
	return wire.Options{ReportErrors: o.ReportErrors, Fd: int32(o.Fd)}.Marshal()
}

// Init starts a tracing session: buffer pool allocated, per-call hooks
// armed. bufferSize is the byte size of each trace buffer and bufferMax
// the number of buffers in the recorder ring; once all buffers have been
// written the oldest recordings are overwritten.
//
// The fdrtracer tool arranges for tracing to start automatically when the
// FDRTRACER_OPTIONS environment variable asks for it. For manual control:
//
//	func main() {
//		fdr.Install()
//		fdr.Init(64*1024, 16, fdr.Options{Fd: -1})
//		defer func() {
//			fdr.Finalize()
//			fdr.Flush()
//		}()
//		// ... rest of program
//	}
//
// Init returns StatusInitialized on success. Calling it again, or while
// another goroutine is mid-init, is a no-op returning the observed status.
// Without an installed runtime (no Install call and no environment opt-in)
// Init reports StatusUninitialized.
func Init(bufferSize, bufferMax int, opts Options) Status {
	impl := logctl.Default.Implementation()
	if impl == nil {
		return StatusUninitialized
	}
	return impl.Init(bufferSize, bufferMax, opts.payload())
}

// Finalize stops recording. Buffers already written are sealed and kept
// for Flush; events arriving after finalization are dropped.
//
// Finalize returns StatusFinalized on success and is a no-op returning
// the observed status in any other state.
func Finalize() Status {
	impl := logctl.Default.Implementation()
	if impl == nil {
		return StatusUninitialized
	}
	return impl.Finalize()
}

// Flush writes the finalized trace to its destination: the descriptor
// given at Init, or a fresh trace file when none was. Called before
// Finalize has completed it returns FlushNotFlushing and performs no I/O.
//
// Flush is idempotent; repeated calls report FlushFlushed without writing
// again.
func Flush() FlushStatus {
	impl := logctl.Default.Implementation()
	if impl == nil {
		return FlushNotFlushing
	}
	return impl.Flush()
}

// Enter records entry into the instrumented function funcID.
//
// This call is inserted by the fdrtracer tool as the first statement of
// an instrumented function body. Manual calls are typically not needed:
//
//	// Original code:
//	func handle(req Request) { ... }
//
//	// Instrumented code:
//	func handle(req Request) {
//		fdr.Enter(17)
//		defer fdr.Exit(17)
//		...
//	}
//
// When tracing is not active the call is a single atomic load.
//
//go:nosplit
func Enter(funcID int32) {
	logctl.Default.Dispatch(funcID, logctl.EntryFunction)
}

// Exit records exit from the instrumented function funcID. Inserted by
// the fdrtracer tool as a deferred call next to [Enter].
//
//go:nosplit
func Exit(funcID int32) {
	logctl.Default.Dispatch(funcID, logctl.ExitFunction)
}

// TailExit records an exit that immediately tail-calls into another
// traced function, letting trace consumers collapse the frames.
//
//go:nosplit
func TailExit(funcID int32) {
	logctl.Default.Dispatch(funcID, logctl.TailExitFunction)
}
