// Package main implements the fdrtracer CLI tool.
//
// The fdrtracer tool provides flight-data-recorder tracing for Go
// programs without a custom toolchain or CGO. It works by:
//
//  1. Parsing Go source files using go/ast
//  2. Inserting fdr.Enter / fdr.Exit hooks into function bodies
//  3. Injecting the Pure-Go recorder runtime facade
//  4. Emitting a funcmap that maps trace IDs back to functions
//
// Usage:
//
//	fdrtracer instrument --write ./internal    # Hook functions in place
//	fdrtracer funcs ./internal                 # Preview what would be hooked
//	fdrtracer version                          # Show version information
//
// The instrumented program records nothing until tracing is switched on,
// either programmatically or through the FDRTRACER_OPTIONS environment
// variable:
//
//	FDRTRACER_OPTIONS="fdr_log=true buffer_size=65536 buffer_max=16" ./myprogram
//
// This is the CLI entry point for the standalone tracing tool.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "fdrtracer",
		Short: "Flight data recorder tracing for Go programs",
		Long: `fdrtracer instruments Go source with lightweight function tracing hooks.

An instrumented program keeps the most recent window of function entry and
exit events in a fixed ring of in-memory buffers and writes it out as a
compact binary trace on demand. Recording costs a few nanoseconds per call
and is switched on per run through the FDRTRACER_OPTIONS environment
variable, so instrumented binaries are safe to ship.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newInstrumentCommand())
	root.AddCommand(newFuncsCommand())
	root.AddCommand(newVersionCommand())
	return root
}
