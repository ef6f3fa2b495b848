//go:build unix

package api

import (
	"github.com/kolkov/fdrtracer/internal/fdr/logctl"
	"github.com/kolkov/fdrtracer/internal/fdr/wire"
)

// HandleEvent is the per-call hook: resolve a timestamp, snapshot the pool,
// hand off to the encoder. Runs synchronously at every instrumented entry
// and exit, so the budget here is a few atomic loads and one counter read.
//
// With a cycle counter, timestamp and executing CPU come from one combined
// read. Without one, the wall clock supplies nanoseconds with the CPU
// pinned to 0; if even the clock fails, the event is recorded with a zero
// timestamp, since a degenerate trace beats a blocked host program. The
// failure is logged once, not per call.
//
//go:nosplit
func (r *Runtime) HandleEvent(funcID int32, kind logctl.EntryKind) {
	var ts uint64
	var cpu uint32
	if r.cycles != nil {
		ts, cpu = r.cycles.Read()
	} else {
		sec, nsec, err := r.clock()
		if err != nil {
			if r.clockFailed.CompareAndSwap(false, true) {
				r.logger.Error("wall clock read failed, recording zero timestamps", "err", err)
			}
		} else {
			ts = uint64(sec)*wire.NanosecondsPerSecond + uint64(nsec)
		}
	}

	// Independent pool snapshot per call. The encoder validates the
	// lifecycle state before touching it; a nil snapshot (reset racing a
	// late call) simply drops the event.
	q := r.pool.Load()
	r.enc.ProcessEvent(funcID, kind, ts, cpu, r.clock, &r.status, q)
}
