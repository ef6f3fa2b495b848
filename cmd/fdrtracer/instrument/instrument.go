// Package instrument implements AST-level instrumentation for automatic
// function tracing call insertion.
//
// This package provides the core functionality for the fdrtracer standalone
// tool. It parses Go source files, selects function declarations worth
// tracing, and inserts fdr.Enter() / fdr.Exit() hooks automatically.
//
// Algorithm:
//  1. Parse Go source file using go/parser
//  2. Select function declarations (skip bodyless and trivial functions,
//     apply attribute-list overrides)
//  3. Assign each selected function the next numeric ID
//  4. Insert fdr.Enter(id) and defer fdr.Exit(id) as the first statements
//  5. Inject the runtime facade import
//  6. Generate instrumented code using go/printer
//
// Example Transformation:
//
//	// INPUT (original code):
//	func handle(req Request) error {
//		return process(req)
//	}
//
//	// OUTPUT (instrumented code):
//	import "github.com/kolkov/fdrtracer/fdr"
//
//	func handle(req Request) error {
//		fdr.Enter(17)
//		defer fdr.Exit(17)
//		return process(req)
//	}
//
// Function IDs are assigned in the order files are presented and, within a
// file, in declaration order. Callers that feed files in sorted path order
// therefore get a deterministic ID assignment, which keeps the IDs stable
// between runs and usable as keys in the funcmap.
//
// Thread Safety: an Instrumenter is NOT safe for concurrent use. Run one
// per instrumentation pass.
package instrument

import (
	"bytes"
	"errors"
	"fmt"
	"go/parser"
	"go/printer"
	"go/token"

	"github.com/kolkov/fdrtracer/internal/fdr/wire"
)

const (
	// FacadeImportPath is the import path of the tracing runtime facade.
	// This is injected into instrumented files.
	FacadeImportPath = "github.com/kolkov/fdrtracer/fdr"

	// FacadePackageName is the package name instrumented code calls
	// through: fdr.Enter(), fdr.Exit().
	FacadePackageName = "fdr"
)

// ErrAlreadyInstrumented reports a file that already imports the runtime
// facade. Instrumenting it again would record every call twice.
var ErrAlreadyInstrumented = errors.New("file already imports " + FacadeImportPath)

// Options configures an instrumentation pass.
type Options struct {
	// MinStatements skips functions whose bodies hold fewer statements.
	// Trivial accessors dominate call counts while carrying almost no
	// information, so the default of 1 only skips empty bodies; raise it
	// to thin the trace.
	MinStatements int

	// Attrs overrides selection per function name. May be nil.
	Attrs *AttrList
}

// Stats tracks what one file's instrumentation did.
type Stats struct {
	Instrumented    int // functions that received hooks
	SkippedBodyless int // declarations without bodies (assembly, external)
	SkippedSmall    int // bodies below the statement threshold
	SkippedExcluded int // functions excluded by the attribute list
}

// Total returns the number of functions examined.
func (s *Stats) Total() int {
	return s.Instrumented + s.SkippedBodyless + s.SkippedSmall + s.SkippedExcluded
}

// Result holds the outcome of instrumenting one file.
type Result struct {
	// Code is the instrumented source.
	Code string

	// Funcs lists the functions that received hooks, in ID order.
	Funcs []FuncInfo

	// Stats counts what was instrumented and what was skipped.
	Stats Stats
}

// FuncInfo identifies one instrumented function.
type FuncInfo struct {
	ID       int32  `yaml:"id"`
	Function string `yaml:"function"`
	File     string `yaml:"file"`
	Line     int    `yaml:"line"`
}

// Instrumenter drives an instrumentation pass over a set of files,
// assigning function IDs from a single counter so every instrumented
// function in the pass gets a distinct ID.
type Instrumenter struct {
	opts   Options
	fset   *token.FileSet
	nextID int32
	funcs  []FuncInfo
}

// New returns an Instrumenter for one pass.
func New(opts Options) *Instrumenter {
	if opts.MinStatements < 1 {
		opts.MinStatements = 1
	}
	return &Instrumenter{
		opts:   opts,
		fset:   token.NewFileSet(),
		nextID: 1,
	}
}

// Funcs returns every function instrumented so far in this pass, in ID
// order. The slice is the Instrumenter's own; callers must not modify it.
func (in *Instrumenter) Funcs() []FuncInfo {
	return in.funcs
}

// File instruments a single Go source file.
//
// src carries the source like go/parser's ParseFile: nil to read from
// filename, or the content as []byte, string, or io.Reader. On success the
// returned Result holds the instrumented code and the functions that
// received hooks; the Instrumenter remembers them for [Instrumenter.Funcs].
//
// Files that already import the runtime facade return
// [ErrAlreadyInstrumented] untouched. Files whose selected functions would
// push the ID counter past the 28-bit record limit return an error
// identifying the first function that does not fit.
func (in *Instrumenter) File(filename string, src any) (*Result, error) {
	file, err := parser.ParseFile(in.fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	if importsPath(file, FacadeImportPath) {
		return nil, fmt.Errorf("%s: %w", filename, ErrAlreadyInstrumented)
	}

	// Pass 1: select targets. Nothing is modified yet, so a selection
	// error leaves the file unchanged.
	targets, stats := in.selectFunctions(file)

	if len(targets) > 0 {
		last := int64(in.nextID) + int64(len(targets)) - 1
		if last > wire.MaxFunctionID {
			fn := targets[len(targets)-1]
			return nil, NewInstrumentErrorWithSuggestion(in.fset, fn.Pos(),
				fmt.Sprintf("function %s does not fit in the 28-bit ID space", funcName(file, fn)),
				"split the instrumentation into separate passes or exclude packages with an attribute list")
		}
	}

	// Pass 2: insert hooks and record the assignment.
	var funcs []FuncInfo
	for _, fn := range targets {
		id := in.nextID
		in.nextID++
		insertHooks(fn, id)
		pos := in.fset.Position(fn.Pos())
		info := FuncInfo{
			ID:       id,
			Function: funcName(file, fn),
			File:     pos.Filename,
			Line:     pos.Line,
		}
		funcs = append(funcs, info)
		in.funcs = append(in.funcs, info)
	}

	if len(funcs) > 0 {
		injectImport(file)
	}

	var buf bytes.Buffer
	cfg := &printer.Config{
		Mode:     printer.UseSpaces | printer.TabIndent,
		Tabwidth: 8,
	}
	if err := cfg.Fprint(&buf, in.fset, file); err != nil {
		return nil, fmt.Errorf("generate %s: %w", filename, err)
	}

	return &Result{
		Code:  buf.String(),
		Funcs: funcs,
		Stats: stats,
	}, nil
}
