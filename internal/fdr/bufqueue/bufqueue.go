// Package bufqueue implements the fixed-size buffer pool backing the
// tracing runtime. A Queue owns a bounded set of pre-allocated buffers;
// writers check buffers out, fill them, and release them back. Released
// buffers keep their contents and re-enter the hand-out queue, so once all
// buffers have been written the pool recycles the oldest one; the
// flight-data-recorder property: memory stays bounded and the trace keeps
// the most recent window of events.
//
// Thread Safety: all methods are safe for concurrent use. Checkout and
// Release take a mutex; the pool is deliberately off the per-event hot
// path, which touches it only when a buffer fills up.
package bufqueue

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrFinalizing is returned by Checkout once the queue has been
	// finalized, and by Finalize itself when called twice.
	ErrFinalizing = errors.New("bufqueue: queue finalizing")

	// ErrExhausted is returned by Checkout when every buffer is currently
	// checked out.
	ErrExhausted = errors.New("bufqueue: no buffers available")

	// ErrForeignBuffer is returned by Release for a buffer this queue
	// does not own.
	ErrForeignBuffer = errors.New("bufqueue: buffer not owned by this queue")

	// ErrBadDimensions is returned by New for non-positive buffer size or
	// count.
	ErrBadDimensions = errors.New("bufqueue: buffer size and count must be positive")
)

// Buffer is one fixed-size trace buffer. Data is the full slab; Size is the
// number of bytes the writer has committed, set before the buffer is
// released. The flush path reads Data[:Size] and never writes.
type Buffer struct {
	Data []byte
	Size int

	owner *Queue
}

// entry pairs a buffer with its used flag. The flag belongs to the queue
// position, not the buffer: a recycled buffer starts a fresh, unused life.
type entry struct {
	buf  *Buffer
	used bool
}

// Queue is the buffer pool. Buffers move from the front of the queue to a
// writer on Checkout and return to the back on Release, marked used.
type Queue struct {
	bufferSize int

	finalizing atomic.Bool

	mu    sync.Mutex
	avail []entry
}

// New constructs a queue of count buffers of bufferSize bytes each, all
// allocated up front so the hot path never allocates.
func New(bufferSize, count int) (*Queue, error) {
	if bufferSize <= 0 || count <= 0 {
		return nil, ErrBadDimensions
	}
	q := &Queue{
		bufferSize: bufferSize,
		avail:      make([]entry, 0, count),
	}
	for i := 0; i < count; i++ {
		q.avail = append(q.avail, entry{buf: &Buffer{
			Data:  make([]byte, bufferSize),
			owner: q,
		}})
	}
	return q, nil
}

// ConfiguredBufferSize returns the byte size every buffer was allocated with.
func (q *Queue) ConfiguredBufferSize() int {
	return q.bufferSize
}

// Checkout hands out the buffer at the front of the queue with its written
// length reset. Fails with ErrFinalizing after Finalize and ErrExhausted
// when all buffers are checked out.
func (q *Queue) Checkout() (*Buffer, error) {
	if q.finalizing.Load() {
		return nil, ErrFinalizing
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.avail) == 0 {
		return nil, ErrExhausted
	}
	b := q.avail[0].buf
	copy(q.avail, q.avail[1:])
	q.avail = q.avail[:len(q.avail)-1]
	b.Size = 0
	return b, nil
}

// Release returns a checked-out buffer to the back of the queue and marks
// it used. The caller must have set b.Size to the committed byte count
// first. Release is permitted after Finalize so in-flight buffers can
// drain.
func (q *Queue) Release(b *Buffer) error {
	if b == nil || b.owner != q {
		return ErrForeignBuffer
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.avail = append(q.avail, entry{buf: b, used: true})
	return nil
}

// Finalize stops new checkouts. One-shot: a second call reports
// ErrFinalizing. Buffers already checked out drain back via Release.
func (q *Queue) Finalize() error {
	if !q.finalizing.CompareAndSwap(false, true) {
		return ErrFinalizing
	}
	return nil
}

// Finalizing reports whether Finalize has been called.
func (q *Queue) Finalizing() bool {
	return q.finalizing.Load()
}

// Apply visits every used buffer in queue order under the pool lock. fn
// must not call back into the queue and must treat the buffer as read-only.
func (q *Queue) Apply(fn func(*Buffer)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, e := range q.avail {
		if e.used {
			fn(e.buf)
		}
	}
}

// UsedBytes returns the total committed bytes across used buffers: the
// exact post-header length a flush of the current state would write.
func (q *Queue) UsedBytes() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, e := range q.avail {
		if e.used {
			n += e.buf.Size
		}
	}
	return n
}
