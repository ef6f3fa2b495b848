// Package logctl defines the control surface shared between the tracing
// runtime and its callers: the lifecycle and flush status enums, the
// entry-kind codes carried by every event, and the process-wide registry
// through which a logging implementation and its per-call handler are
// installed.
//
// The package deliberately contains no tracing logic. It is the stable
// contract layer: the facade package talks to whatever implementation is
// registered here, and instrumented call sites dispatch through the
// registered handler without knowing which implementation is active.
package logctl

// Status reports where the logging lifecycle currently stands. Control
// operations return the observed Status instead of blocking or failing when
// they lose a transition race, so callers must treat any returned value as
// an observation of current state, not as an error.
type Status int32

const (
	// StatusUninitialized is the resting state: no buffers exist and no
	// events are accepted.
	StatusUninitialized Status = iota

	// StatusInitializing is the transient state held by the single winner
	// of an init race while it constructs buffers and options.
	StatusInitializing

	// StatusInitialized is the running state: hooks record events.
	StatusInitialized

	// StatusFinalizing is the transient state while buffers are drained.
	StatusFinalizing

	// StatusFinalized means recording has stopped and the trace is ready
	// to be flushed.
	StatusFinalized
)

// String returns a short lowercase name for the status.
func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusInitializing:
		return "initializing"
	case StatusInitialized:
		return "initialized"
	case StatusFinalizing:
		return "finalizing"
	case StatusFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// FlushStatus reports where a trace flush currently stands. It advances
// independently of Status; the only coupling is that a flush may start only
// once the lifecycle has reached StatusFinalized.
type FlushStatus int32

const (
	// FlushNotFlushing means no flush is in progress and none has
	// completed since the last reset.
	FlushNotFlushing FlushStatus = iota

	// FlushFlushing is held by the single winner of a flush race while it
	// writes the trace file.
	FlushFlushing

	// FlushFlushed means the trace file has been written.
	FlushFlushed
)

// String returns a short lowercase name for the flush status.
func (f FlushStatus) String() string {
	switch f {
	case FlushNotFlushing:
		return "not-flushing"
	case FlushFlushing:
		return "flushing"
	case FlushFlushed:
		return "flushed"
	default:
		return "unknown"
	}
}

// EntryKind identifies which side of an instrumented call produced an event.
// The numeric values are part of the trace wire format and must not change.
type EntryKind uint8

const (
	// EntryFunction marks entry into an instrumented function.
	EntryFunction EntryKind = 0

	// ExitFunction marks a normal return from an instrumented function.
	ExitFunction EntryKind = 1

	// TailExitFunction marks a return that immediately tail-calls another
	// instrumented function.
	TailExitFunction EntryKind = 2
)

// String returns a short name for the entry kind.
func (k EntryKind) String() string {
	switch k {
	case EntryFunction:
		return "entry"
	case ExitFunction:
		return "exit"
	case TailExitFunction:
		return "tail-exit"
	default:
		return "unknown"
	}
}
