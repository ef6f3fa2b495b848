// Package instrument - test suite for the instrumentation engine.
//
// These tests validate the full pipeline on in-memory sources: function
// selection, hook insertion, import injection, ID assignment, and the
// failure modes. Every instrumented output is re-parsed to prove it is
// still valid Go.
package instrument

import (
	"errors"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/kolkov/fdrtracer/internal/fdr/wire"
)

// mustParse re-parses instrumented output, failing the test on invalid Go.
func mustParse(t *testing.T, code string) {
	t.Helper()
	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, "instrumented.go", code, 0); err != nil {
		t.Fatalf("instrumented output does not parse: %v\n%s", err, code)
	}
}

func TestFile_SimpleFunction(t *testing.T) {
	input := `package main

import "fmt"

func greet(name string) {
	fmt.Println("hello", name)
}

func main() {
	greet("world")
}
`

	in := New(Options{})
	result, err := in.File("main.go", input)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	mustParse(t, result.Code)

	if !strings.Contains(result.Code, FacadeImportPath) {
		t.Errorf("output missing facade import:\n%s", result.Code)
	}
	if !strings.Contains(result.Code, "fdr.Enter(1)") {
		t.Errorf("output missing first entry hook:\n%s", result.Code)
	}
	if !strings.Contains(result.Code, "defer fdr.Exit(1)") {
		t.Errorf("output missing deferred exit hook:\n%s", result.Code)
	}
	if !strings.Contains(result.Code, "fdr.Enter(2)") {
		t.Errorf("output missing second entry hook:\n%s", result.Code)
	}

	if result.Stats.Instrumented != 2 {
		t.Errorf("Instrumented = %d, want 2", result.Stats.Instrumented)
	}
	if len(result.Funcs) != 2 {
		t.Fatalf("Funcs has %d entries, want 2", len(result.Funcs))
	}
	if result.Funcs[0].Function != "main.greet" || result.Funcs[0].ID != 1 {
		t.Errorf("first func = %+v, want main.greet with ID 1", result.Funcs[0])
	}
	if result.Funcs[1].Function != "main.main" || result.Funcs[1].ID != 2 {
		t.Errorf("second func = %+v, want main.main with ID 2", result.Funcs[1])
	}
}

// TestFile_DeterministicIDs feeds two files through one pass and checks
// the counter runs on in file order, line order within a file.
func TestFile_DeterministicIDs(t *testing.T) {
	first := `package lib

func A() { work() }

func B() { work() }

func work() { println("work") }
`
	second := `package lib

func C() { work() }
`

	in := New(Options{})
	r1, err := in.File("a.go", first)
	if err != nil {
		t.Fatalf("File(a.go) failed: %v", err)
	}
	r2, err := in.File("b.go", second)
	if err != nil {
		t.Fatalf("File(b.go) failed: %v", err)
	}
	mustParse(t, r1.Code)
	mustParse(t, r2.Code)

	all := in.Funcs()
	want := []struct {
		id   int32
		name string
	}{
		{1, "lib.A"},
		{2, "lib.B"},
		{3, "lib.work"},
		{4, "lib.C"},
	}
	if len(all) != len(want) {
		t.Fatalf("pass instrumented %d functions, want %d", len(all), len(want))
	}
	for i, w := range want {
		if all[i].ID != w.id || all[i].Function != w.name {
			t.Errorf("funcs[%d] = {%d %s}, want {%d %s}",
				i, all[i].ID, all[i].Function, w.id, w.name)
		}
	}
	if all[3].File != "b.go" {
		t.Errorf("lib.C recorded in %q, want b.go", all[3].File)
	}
}

func TestFile_SkipsBodyless(t *testing.T) {
	input := `package sys

func rdcycle() uint64

func Wrap() uint64 {
	return rdcycle()
}
`

	in := New(Options{})
	result, err := in.File("sys.go", input)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	mustParse(t, result.Code)

	if result.Stats.SkippedBodyless != 1 {
		t.Errorf("SkippedBodyless = %d, want 1", result.Stats.SkippedBodyless)
	}
	if result.Stats.Instrumented != 1 {
		t.Errorf("Instrumented = %d, want 1", result.Stats.Instrumented)
	}
	if strings.Contains(result.Code, "func rdcycle() uint64 {") {
		t.Error("bodyless declaration grew a body")
	}
}

func TestFile_MinStatements(t *testing.T) {
	input := `package kv

func (s *Store) Len() int { return s.n }

func (s *Store) Rebalance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rehash()
}

type Store struct{ n int }
`

	in := New(Options{MinStatements: 2})
	result, err := in.File("store.go", input)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	mustParse(t, result.Code)

	if result.Stats.SkippedSmall != 1 {
		t.Errorf("SkippedSmall = %d, want 1", result.Stats.SkippedSmall)
	}
	if result.Stats.Instrumented != 1 {
		t.Errorf("Instrumented = %d, want 1", result.Stats.Instrumented)
	}
	if len(result.Funcs) != 1 || result.Funcs[0].Function != "kv.Store.Rebalance" {
		t.Fatalf("Funcs = %+v, want only kv.Store.Rebalance", result.Funcs)
	}
}

func TestFile_AttrList(t *testing.T) {
	input := `package svc

func Tiny() { ping() }

func Excluded() {
	a()
	b()
	c()
}

func ping() {}
func a()    {}
func b()    {}
func c()    {}
`

	attrs := &AttrList{
		Never:  []string{"svc.Excluded"},
		Always: []string{"svc.Tiny"},
	}
	in := New(Options{MinStatements: 3, Attrs: attrs})
	result, err := in.File("svc.go", input)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	mustParse(t, result.Code)

	if result.Stats.SkippedExcluded != 1 {
		t.Errorf("SkippedExcluded = %d, want 1", result.Stats.SkippedExcluded)
	}
	var names []string
	for _, f := range result.Funcs {
		names = append(names, f.Function)
	}
	got := strings.Join(names, ",")
	if !strings.Contains(got, "svc.Tiny") {
		t.Errorf("always-listed svc.Tiny not instrumented: %s", got)
	}
	if strings.Contains(got, "svc.Excluded") {
		t.Errorf("never-listed svc.Excluded instrumented: %s", got)
	}
}

func TestFile_MethodNaming(t *testing.T) {
	input := `package ring

type Buffer[T any] struct{ items []T }

func (b *Buffer[T]) Push(v T) {
	b.items = append(b.items, v)
}

func (b Buffer[T]) Len() int {
	return len(b.items)
}
`

	in := New(Options{})
	result, err := in.File("ring.go", input)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	mustParse(t, result.Code)

	if len(result.Funcs) != 2 {
		t.Fatalf("Funcs has %d entries, want 2", len(result.Funcs))
	}
	if result.Funcs[0].Function != "ring.Buffer.Push" {
		t.Errorf("pointer receiver method named %q, want ring.Buffer.Push", result.Funcs[0].Function)
	}
	if result.Funcs[1].Function != "ring.Buffer.Len" {
		t.Errorf("value receiver method named %q, want ring.Buffer.Len", result.Funcs[1].Function)
	}
}

func TestFile_ClosuresShareEnclosingID(t *testing.T) {
	input := `package jobs

func Run() {
	go func() {
		step()
	}()
	step()
}

func step() { println("step") }
`

	in := New(Options{})
	result, err := in.File("jobs.go", input)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	mustParse(t, result.Code)

	// Run and step get hooks; the closure must not.
	if result.Stats.Instrumented != 2 {
		t.Errorf("Instrumented = %d, want 2", result.Stats.Instrumented)
	}
	if strings.Count(result.Code, "fdr.Enter(") != 2 {
		t.Errorf("want exactly 2 entry hooks:\n%s", result.Code)
	}
}

func TestFile_AlreadyInstrumented(t *testing.T) {
	input := `package main

import "github.com/kolkov/fdrtracer/fdr"

func main() {
	fdr.Enter(1)
	defer fdr.Exit(1)
}
`

	in := New(Options{})
	if _, err := in.File("main.go", input); !errors.Is(err, ErrAlreadyInstrumented) {
		t.Fatalf("File = %v, want ErrAlreadyInstrumented", err)
	}
	if got := len(in.Funcs()); got != 0 {
		t.Errorf("rejected file still assigned %d IDs", got)
	}
}

func TestFile_ParseError(t *testing.T) {
	in := New(Options{})
	if _, err := in.File("broken.go", "package {"); err == nil {
		t.Fatal("File accepted unparseable source")
	}
}

// TestFile_IDSpaceExhausted forces the counter to the record format's
// ceiling and verifies the file is refused before any hook is placed.
func TestFile_IDSpaceExhausted(t *testing.T) {
	input := `package main

func a() { work() }
func b() { work() }
func work() {}
`

	in := New(Options{})
	in.nextID = wire.MaxFunctionID

	_, err := in.File("main.go", input)
	if err == nil {
		t.Fatal("File accepted functions past the ID ceiling")
	}
	var ierr *InstrumentError
	if !errors.As(err, &ierr) {
		t.Fatalf("error type = %T, want *InstrumentError", err)
	}
	if !strings.Contains(ierr.Message, "28-bit") {
		t.Errorf("error message %q does not name the ID space", ierr.Message)
	}
}

func TestFile_NoImportWithoutHooks(t *testing.T) {
	input := `package empty

func tiny() {}
`

	in := New(Options{MinStatements: 1})
	result, err := in.File("empty.go", input)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	mustParse(t, result.Code)

	if strings.Contains(result.Code, FacadeImportPath) {
		t.Errorf("import injected with nothing instrumented:\n%s", result.Code)
	}
	if result.Stats.SkippedSmall != 1 {
		t.Errorf("SkippedSmall = %d, want 1", result.Stats.SkippedSmall)
	}
}
