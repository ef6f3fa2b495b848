// Package encoder turns entry/exit events into wire records inside pool
// buffers. It is the write side of the hot path: every instrumented call
// lands here after timestamp resolution.
//
// Events are serialized through a fixed set of lanes, selected by the
// executing CPU. A lane owns at most one checked-out buffer at a time and
// guards it with a mutex that the hot path only ever TryLocks: a contended
// lane drops the event rather than block the calling goroutine. Lanes
// remember which pool generation their buffer came from, so a buffer left
// over from a previous tracing cycle is closed out against its own pool
// before the lane rebinds.
//
// Buffer layout produced per lane: a new-buffer record and a walltime
// marker, then runs of function records re-anchored by new-CPU or
// TSC-wrap metadata whenever the delta cannot be trusted, and a final
// end-of-buffer record written when the buffer rotates or drains.
//
// Thread Safety: ProcessEvent and Drain are safe for concurrent use.
// Performance: the record path is allocation-free; the pool is touched
// only on rotation.
package encoder

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/kolkov/fdrtracer/internal/fdr/bufqueue"
	"github.com/kolkov/fdrtracer/internal/fdr/logctl"
	"github.com/kolkov/fdrtracer/internal/fdr/tsc"
	"github.com/kolkov/fdrtracer/internal/fdr/wire"
)

// maxLanes caps the lane array regardless of GOMAXPROCS.
const maxLanes = 64

// minUsableBuffer is the smallest buffer a lane can work with: setup
// preamble (new-buffer + walltime), one anchor, one function record, and
// the trailing end-of-buffer record.
const minUsableBuffer = 2*wire.MetadataRecordSize + wire.MetadataRecordSize +
	wire.FunctionRecordSize + wire.MetadataRecordSize

// writeReserve is the worst-case space one event may need while leaving
// room for the end-of-buffer record: an anchor, the function record, and
// the reserve itself. Checked before every write; rotating a little early
// beats overrunning the slab.
const writeReserve = wire.MetadataRecordSize + wire.FunctionRecordSize + wire.MetadataRecordSize

// lane is one serialized record stream. Fields past mu are guarded by it.
type lane struct {
	id int32
	mu sync.Mutex

	q   *bufqueue.Queue
	buf *bufqueue.Buffer
	off int

	lastTSC  uint64
	lastCPU  uint32
	anchored bool
}

// Encoder owns the lanes and the event accounting.
type Encoder struct {
	lanes []*lane

	events  atomic.Uint64
	dropped atomic.Uint64
}

// New constructs an encoder with laneCount lanes, clamped to [1, 64].
// Lanes are fixed for the encoder's lifetime and survive tracing cycles.
func New(laneCount int) *Encoder {
	if laneCount < 1 {
		laneCount = 1
	}
	if laneCount > maxLanes {
		laneCount = maxLanes
	}
	e := &Encoder{lanes: make([]*lane, laneCount)}
	for i := range e.lanes {
		e.lanes[i] = &lane{id: int32(i)}
	}
	return e
}

// ProcessEvent appends one event, or drops it when the state forbids
// writes, the lane is contended, or no buffer can be had. timestamp and
// cpu come from the dispatcher's combined read; clock is consulted only
// when a fresh buffer needs its walltime marker. state is the live
// lifecycle cell and q the pool snapshot taken by the dispatcher.
func (e *Encoder) ProcessEvent(funcID int32, kind logctl.EntryKind, timestamp uint64, cpu uint32, clock tsc.Clock, state *atomic.Int32, q *bufqueue.Queue) {
	ln := e.lanes[int(cpu)%len(e.lanes)]

	switch logctl.Status(state.Load()) {
	case logctl.StatusInitialized:
		// Recording.
	case logctl.StatusFinalizing, logctl.StatusFinalized:
		// Recording is over; give this lane's buffer back so it can
		// drain. Skip if the lane is busy; the holder releases it.
		if ln.mu.TryLock() {
			ln.closeOut()
			ln.mu.Unlock()
		}
		e.dropped.Add(1)
		return
	default:
		e.dropped.Add(1)
		return
	}

	if !ln.mu.TryLock() {
		e.dropped.Add(1)
		return
	}
	defer ln.mu.Unlock()

	// A buffer from an earlier tracing cycle is closed out against its
	// own pool before the lane rebinds to the current one.
	if ln.buf != nil && ln.q != q {
		ln.closeOut()
	}

	if ln.buf == nil && !ln.setup(q, clock) {
		e.dropped.Add(1)
		return
	}

	if ln.off+writeReserve > len(ln.buf.Data) {
		ln.closeOut()
		if !ln.setup(q, clock) {
			e.dropped.Add(1)
			return
		}
	}

	var delta uint32
	switch {
	case !ln.anchored || cpu != ln.lastCPU:
		ln.off += wire.PutNewCPUID(ln.buf.Data[ln.off:], uint16(cpu), timestamp)
		ln.anchored = true
	case timestamp < ln.lastTSC || timestamp-ln.lastTSC > math.MaxUint32:
		ln.off += wire.PutTSCWrap(ln.buf.Data[ln.off:], timestamp)
	default:
		delta = uint32(timestamp - ln.lastTSC)
	}

	ln.off += wire.PutFunctionRecord(ln.buf.Data[ln.off:], funcID, uint8(kind), delta)
	ln.lastTSC = timestamp
	ln.lastCPU = cpu
	e.events.Add(1)
}

// Drain closes out every lane's open buffer so the pool sees the full set
// of written bytes. Called off the hot path during finalization; blocking
// on lane mutexes is fine here and waits out any in-flight writer.
func (e *Encoder) Drain() {
	for _, ln := range e.lanes {
		ln.mu.Lock()
		ln.closeOut()
		ln.mu.Unlock()
	}
}

// Stats returns the number of events recorded and dropped so far.
func (e *Encoder) Stats() (events, dropped uint64) {
	return e.events.Load(), e.dropped.Load()
}

// setup binds the lane to q with a fresh buffer carrying the new-buffer /
// walltime preamble. Fails when the pool refuses a checkout or its buffers
// are too small to hold even one event.
func (ln *lane) setup(q *bufqueue.Queue, clock tsc.Clock) bool {
	if q == nil || q.ConfiguredBufferSize() < minUsableBuffer {
		return false
	}
	b, err := q.Checkout()
	if err != nil {
		return false
	}

	ln.q = q
	ln.buf = b
	ln.off = wire.PutNewBuffer(b.Data, ln.id)

	sec, nsec, err := clock()
	if err != nil {
		sec, nsec = 0, 0
	}
	ln.off += wire.PutWalltimeMarker(b.Data[ln.off:], sec, uint32(nsec/1000))
	ln.anchored = false
	return true
}

// closeOut seals the lane's buffer with an end-of-buffer record and
// releases it to the pool it came from. No-op for an empty lane.
func (ln *lane) closeOut() {
	if ln.buf == nil {
		return
	}
	if ln.off+wire.MetadataRecordSize <= len(ln.buf.Data) {
		ln.off += wire.PutEndOfBuffer(ln.buf.Data[ln.off:])
	}
	ln.buf.Size = ln.off
	_ = ln.q.Release(ln.buf)
	ln.buf = nil
	ln.off = 0
	ln.anchored = false
}
