//go:build unix

package api

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/kolkov/fdrtracer/internal/fdr/flags"
	"github.com/kolkov/fdrtracer/internal/fdr/logctl"
	"github.com/kolkov/fdrtracer/internal/fdr/wire"
)

var (
	installOnce sync.Once
	std         atomic.Pointer[Runtime]
)

// Install constructs the process-wide runtime once and registers its
// control bundle in the default registry. Until the first Init call the
// runtime stays uninitialized and instrumented call sites cost a single
// nil check.
//
// The environment handles this automatically when FDRTRACER_OPTIONS
// enables tracing; Install exists for drivers that decide at run time.
func Install() {
	installOnce.Do(func() {
		f := flags.Load()

		logger := slog.Default()
		if f.Verbosity <= 0 {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}

		r := New(Config{
			Logger:     logger,
			FilePrefix: f.LogfileBase,
		})
		std.Store(r)
		logctl.Default.SetImplementation(logctl.Implementation{
			Init:        r.Init,
			Finalize:    r.Finalize,
			HandleEvent: r.HandleEvent,
			Flush:       r.Flush,
		})
	})
}

// Reset returns the process-wide runtime to uninitialized. Reset is not
// part of the registered implementation bundle; it reaches the recorder
// directly, so without a prior Install it reports uninitialized.
func Reset() logctl.Status {
	r := std.Load()
	if r == nil {
		return logctl.StatusUninitialized
	}
	return r.Reset()
}

// init self-registers at process start when the environment asks for
// tracing, and starts recording with the environment's buffer dimensions.
// The host is expected to finalize and flush before exit.
func init() {
	f := flags.Load()
	if !f.FDRLog {
		return
	}
	Install()
	std.Load().Init(f.BufferSize, f.BufferMax, wire.Options{Fd: -1}.Marshal())
}
