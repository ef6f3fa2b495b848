//go:build unix

package fdr

import "github.com/kolkov/fdrtracer/internal/fdr/api"

// Install registers the recorder runtime so Init and the per-call hooks
// have something to talk to. It is idempotent and cheap to call early;
// recording still starts only at Init.
//
// Programs built with the fdrtracer tool get an Install automatically
// when FDRTRACER_OPTIONS enables tracing. Call it yourself when the
// decision to trace is made at run time:
//
//	fdr.Install()
//	if tracingRequested {
//		fdr.Init(64*1024, 16, fdr.Options{Fd: -1})
//	}
func Install() {
	api.Install()
}

// Reset returns a finalized, flushed session to the uninitialized state
// so Init can start a fresh one. In any other state it is a no-op
// returning the observed status. Reset waits for an in-flight Flush to
// settle before returning.
func Reset() Status {
	return api.Reset()
}
