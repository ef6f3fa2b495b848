//go:build unix

package api

import (
	"github.com/kolkov/fdrtracer/internal/fdr/bufqueue"
	"github.com/kolkov/fdrtracer/internal/fdr/logctl"
	"github.com/kolkov/fdrtracer/internal/fdr/sink"
	"github.com/kolkov/fdrtracer/internal/fdr/wire"
)

// Flush writes the trace file: the fixed header first, then every used
// buffer's bytes in the pool's enumeration order. It requires a finalized
// lifecycle; called earlier it returns FlushNotFlushing having touched
// nothing, not even a descriptor.
//
// Exactly one concurrent caller wins the flush; losers get the status
// they observed. A descriptor-resolution failure restores FlushNotFlushing
// so a later attempt starts clean. Write failures past that point leave a
// truncated trace and still complete the flush; the write primitive has
// already retried everything transient.
func (r *Runtime) Flush() logctl.FlushStatus {
	if r.Status() != logctl.StatusFinalized {
		return logctl.FlushNotFlushing
	}

	if !r.flushWord.CompareAndSwap(int32(logctl.FlushNotFlushing), int32(logctl.FlushFlushing)) {
		return r.FlushState()
	}

	// Pin the pool for the duration of the write. A concurrent Reset may
	// drop the runtime's reference at any point; this local keeps the
	// buffers alive.
	q := r.pool.Load()
	if q == nil {
		// Reset won; there is nothing to write.
		r.flushWord.Store(int32(logctl.FlushNotFlushing))
		return logctl.FlushNotFlushing
	}

	fd, path, err := r.resolveFD()
	if err != nil {
		r.logger.Error("trace file resolution failed", "err", err)
		r.flushWord.Store(int32(logctl.FlushNotFlushing))
		return logctl.FlushNotFlushing
	}
	if path != "" {
		// The descriptor is ours, not the caller's.
		defer func() { _ = sink.Close(fd) }()
		r.logger.Info("writing trace", "path", path)
	}

	freq := wire.NanosecondsPerSecond
	if r.cycles != nil {
		if f := r.cycles.Frequency(); f != 0 {
			freq = f
		}
	}

	var hdr [wire.HeaderSize]byte
	wire.PutHeader(hdr[:], freq, uint64(q.ConfiguredBufferSize()))

	writeErr := sink.WriteAll(fd, hdr[:])
	if writeErr == nil {
		q.Apply(func(b *bufqueue.Buffer) {
			if writeErr != nil || b.Size == 0 {
				return
			}
			writeErr = sink.WriteAll(fd, b.Data[:b.Size])
		})
	}
	if writeErr != nil {
		r.logger.Error("trace write failed, file truncated", "err", writeErr)
	}

	r.flushWord.Store(int32(logctl.FlushFlushed))
	return logctl.FlushFlushed
}

// resolveFD picks the configured descriptor when one was supplied,
// otherwise creates a default trace file. path is non-empty only when the
// descriptor was created here and must be closed by the caller.
func (r *Runtime) resolveFD() (fd int, path string, err error) {
	if o := r.opts.Load(); o != nil && o.Fd >= 0 {
		return int(o.Fd), "", nil
	}
	return sink.ResolveFD(r.traceDir, r.filePrefix)
}
