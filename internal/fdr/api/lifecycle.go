//go:build unix

package api

import (
	"runtime"

	"github.com/kolkov/fdrtracer/internal/fdr/bufqueue"
	"github.com/kolkov/fdrtracer/internal/fdr/logctl"
	"github.com/kolkov/fdrtracer/internal/fdr/wire"
)

// Init drives the lifecycle from uninitialized to initialized: it parses
// and stores the options snapshot, constructs the buffer pool, installs
// the per-call handler, and only then publishes StatusInitialized.
//
// options must be exactly the fixed-size configuration payload; any other
// length is a configuration mismatch and returns the current status with
// state untouched. A concurrent Init loses the opening compare-and-swap
// and gets the observed status back, a no-op rather than an error.
func (r *Runtime) Init(bufferSize, bufferMax int, options []byte) logctl.Status {
	opts, err := wire.ParseOptions(options)
	if err != nil {
		return r.Status()
	}

	if !r.status.CompareAndSwap(int32(logctl.StatusUninitialized), int32(logctl.StatusInitializing)) {
		return r.Status()
	}

	r.opts.Store(&opts)

	q, err := bufqueue.New(bufferSize, bufferMax)
	if err != nil {
		r.logger.Error("buffer pool construction failed",
			"err", err, "buffer_size", bufferSize, "buffer_max", bufferMax)
		// A failed init must leave the cell re-initializable.
		r.status.Store(int32(logctl.StatusUninitialized))
		return logctl.StatusUninitialized
	}
	r.pool.Store(q)

	// Handler goes live only after the pool exists, so a call site can
	// never observe a nil pool through an installed handler.
	r.reg.SetHandler(r.HandleEvent)

	r.status.Store(int32(logctl.StatusInitialized))
	r.logger.Debug("tracing initialized", "buffer_size", bufferSize, "buffer_max", bufferMax)
	return logctl.StatusInitialized
}

// Finalize stops recording: the pool refuses new checkouts, every lane's
// open buffer is sealed and released, and only then is StatusFinalized
// published. Observing it guarantees no buffer accepts further writes.
// Outside StatusInitialized, Finalize is a no-op returning the observed
// status.
func (r *Runtime) Finalize() logctl.Status {
	if !r.status.CompareAndSwap(int32(logctl.StatusInitialized), int32(logctl.StatusFinalizing)) {
		return r.Status()
	}

	if q := r.pool.Load(); q != nil {
		_ = q.Finalize()
	}
	r.enc.Drain()

	r.status.Store(int32(logctl.StatusFinalized))
	r.logger.Debug("tracing finalized")
	return logctl.StatusFinalized
}

// Reset returns a finalized runtime to uninitialized so it can record
// again. The pool reference is dropped, then Reset spins until any
// in-flight flush has settled. A flush pinned the pool before Reset
// dropped it, so the spin guarantees no flush races a torn-down pool.
//
// The spin has no bound: if a flush never completes, Reset never returns.
// Callers sequencing finalize → flush → reset never see this; it exists
// for the pathological case of a flush wedged on a blocked descriptor.
func (r *Runtime) Reset() logctl.Status {
	if !r.status.CompareAndSwap(int32(logctl.StatusFinalized), int32(logctl.StatusUninitialized)) {
		return r.Status()
	}

	r.pool.Store(nil)

	for {
		switch logctl.FlushStatus(r.flushWord.Load()) {
		case logctl.FlushNotFlushing:
			return logctl.StatusUninitialized
		case logctl.FlushFlushed:
			if r.flushWord.CompareAndSwap(int32(logctl.FlushFlushed), int32(logctl.FlushNotFlushing)) {
				return logctl.StatusUninitialized
			}
		default:
			runtime.Gosched()
		}
	}
}
