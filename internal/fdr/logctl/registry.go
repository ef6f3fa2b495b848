package logctl

import "sync/atomic"

// Handler is the per-call hook invoked by instrumented entry and exit sites.
// Implementations must be safe for concurrent use and must never block the
// calling goroutine.
type Handler func(funcID int32, kind EntryKind)

// Implementation bundles the four control operations of a logging
// implementation. All fields must be non-nil when installed.
type Implementation struct {
	// Init drives the lifecycle from uninitialized to initialized. The
	// options payload is an opaque fixed-size configuration record; an
	// implementation must reject payloads whose length it does not
	// recognize by returning the current status unchanged.
	Init func(bufferSize, bufferMax int, options []byte) Status

	// Finalize stops event recording and seals the recorded buffers.
	Finalize func() Status

	// HandleEvent records a single entry/exit event. Hot path.
	HandleEvent Handler

	// Flush persists the sealed buffers to the trace file.
	Flush func() FlushStatus
}

// Registry is a pair of atomic registration points: the active per-call
// handler and the active logging implementation. A zero Registry is ready
// to use with neither installed.
//
// Thread Safety: all methods are safe for concurrent use. Dispatch is
// called from every instrumented call site and is a single atomic pointer
// load plus an indirect call when a handler is installed.
type Registry struct {
	handler atomic.Pointer[Handler]
	impl    atomic.Pointer[Implementation]
}

// SetHandler installs h as the active per-call handler, replacing any
// previous handler.
func (r *Registry) SetHandler(h Handler) {
	r.handler.Store(&h)
}

// RemoveHandler deactivates per-call dispatch. Calls arriving after removal
// are dropped.
func (r *Registry) RemoveHandler() {
	r.handler.Store(nil)
}

// Dispatch forwards one event to the active handler, or drops it when no
// handler is installed.
//
//go:nosplit
func (r *Registry) Dispatch(funcID int32, kind EntryKind) {
	h := r.handler.Load()
	if h == nil {
		return
	}
	(*h)(funcID, kind)
}

// SetImplementation installs impl as the active logging implementation,
// replacing any previous one. Installation is expected to happen once at
// process start, gated on configuration.
func (r *Registry) SetImplementation(impl Implementation) {
	r.impl.Store(&impl)
}

// RemoveImplementation deactivates the installed implementation.
func (r *Registry) RemoveImplementation() {
	r.impl.Store(nil)
}

// Implementation returns the active implementation, or nil when none is
// installed.
func (r *Registry) Implementation() *Implementation {
	return r.impl.Load()
}

// Default is the process-wide registry used by the public facade and by the
// self-registration performed at process start.
var Default = new(Registry)
