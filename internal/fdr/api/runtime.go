//go:build unix

// Package api implements the control plane of the tracing runtime: the
// five-state lifecycle machine, the three-state flush machine, and the
// per-call hook dispatcher sitting between instrumented call sites and the
// event encoder.
//
// The hook dispatcher is a CRITICAL HOT PATH: it runs at every
// instrumented function entry and exit in the host program. Everything on
// that path is a handful of atomic loads, one combined timestamp/CPU read,
// and the encoder's TryLock write; it never blocks, never allocates, and
// never panics.
//
// Control operations (Init, Finalize, Flush, Reset) coordinate exclusively
// through two atomic state cells. Every transition is a single
// compare-and-swap; the loser of a race returns the status it observed
// instead of blocking or erroring. Callers treat returned statuses as
// observations.
//
// Thread Safety: all exported methods are safe for concurrent use from any
// goroutine.
package api

import (
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/kolkov/fdrtracer/internal/fdr/bufqueue"
	"github.com/kolkov/fdrtracer/internal/fdr/encoder"
	"github.com/kolkov/fdrtracer/internal/fdr/logctl"
	"github.com/kolkov/fdrtracer/internal/fdr/tsc"
	"github.com/kolkov/fdrtracer/internal/fdr/wire"
)

// CycleSource is the timestamp provider used when the platform has a
// usable cycle counter: one combined read of counter and executing CPU,
// plus the counter's tick rate for the trace header.
type CycleSource interface {
	Read() (cycles uint64, cpu uint32)
	Frequency() uint64
}

// hardwareCycles adapts the platform counter to CycleSource.
type hardwareCycles struct{}

func (hardwareCycles) Read() (uint64, uint32) { return tsc.Read() }
func (hardwareCycles) Frequency() uint64      { return tsc.Frequency() }

// Config carries construction options for a Runtime. The zero value
// selects production defaults throughout.
type Config struct {
	// Logger receives control-path diagnostics. Defaults to
	// slog.Default(). The hot path never logs.
	Logger *slog.Logger

	// Registry is where Init installs the per-call handler. Defaults to
	// the process-wide registry.
	Registry *logctl.Registry

	// Lanes fixes the encoder lane count. Defaults to GOMAXPROCS.
	Lanes int

	// TraceDir and FilePrefix control default trace file placement when
	// no descriptor is configured. Defaults: the system temp directory
	// and "fdrtracer-log.".
	TraceDir   string
	FilePrefix string

	// Cycles overrides the hardware cycle source. Leave nil to use the
	// platform probe; a probe miss selects the wall-clock fallback.
	Cycles CycleSource

	// Clock overrides the wall clock used for walltime markers and
	// fallback timestamps.
	Clock tsc.Clock
}

// Runtime bundles the process-wide tracing state: both state cells, the
// options snapshot, the buffer pool handle, and the encoder. It is
// constructed once at process start and handed to every component
// explicitly; nothing in this package reaches for hidden globals.
type Runtime struct {
	status    atomic.Int32 // logctl.Status values
	flushWord atomic.Int32 // logctl.FlushStatus values

	opts atomic.Pointer[wire.Options]
	pool atomic.Pointer[bufqueue.Queue]

	enc    *encoder.Encoder
	cycles CycleSource
	clock  tsc.Clock
	logger *slog.Logger
	reg    *logctl.Registry

	traceDir   string
	filePrefix string

	clockFailed atomic.Bool
}

// New constructs a Runtime. The cycle-counter capability is probed here,
// once; the per-call path never re-evaluates it.
func New(cfg Config) *Runtime {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Registry == nil {
		cfg.Registry = logctl.Default
	}
	if cfg.Lanes <= 0 {
		cfg.Lanes = runtime.GOMAXPROCS(0)
	}
	if cfg.Clock == nil {
		cfg.Clock = tsc.WallClock
	}
	if cfg.Cycles == nil && tsc.Supported() {
		cfg.Cycles = hardwareCycles{}
	}
	if cfg.FilePrefix == "" {
		cfg.FilePrefix = "fdrtracer-log."
	}
	return &Runtime{
		enc:        encoder.New(cfg.Lanes),
		cycles:     cfg.Cycles,
		clock:      cfg.Clock,
		logger:     cfg.Logger,
		reg:        cfg.Registry,
		traceDir:   cfg.TraceDir,
		filePrefix: cfg.FilePrefix,
	}
}

// Status returns the current lifecycle state.
func (r *Runtime) Status() logctl.Status {
	return logctl.Status(r.status.Load())
}

// FlushState returns the current flush state.
func (r *Runtime) FlushState() logctl.FlushStatus {
	return logctl.FlushStatus(r.flushWord.Load())
}

// Stats is a point-in-time snapshot of event accounting.
type Stats struct {
	// Events and Dropped count hook invocations that were recorded and
	// discarded, respectively.
	Events  uint64
	Dropped uint64

	// UsedBytes is the total committed length across the pool's used
	// buffers, exactly the post-header byte count a flush would write.
	UsedBytes int
}

// Stat returns current event and buffer accounting. UsedBytes is 0 once
// the pool has been dropped by a reset.
func (r *Runtime) Stat() Stats {
	var s Stats
	s.Events, s.Dropped = r.enc.Stats()
	if q := r.pool.Load(); q != nil {
		s.UsedBytes = q.UsedBytes()
	}
	return s
}
