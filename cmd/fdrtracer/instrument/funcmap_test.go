package instrument

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFuncMapRoundTrip(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/traced\n\ngo 1.24\n"), 0o644); err != nil {
		t.Fatalf("write go.mod: %v", err)
	}

	funcs := []FuncInfo{
		{ID: 1, Function: "main.main", File: "main.go", Line: 5},
		{ID: 2, Function: "main.work", File: "main.go", Line: 12},
	}
	sources := map[string][]byte{
		"main.go": []byte("package main\n"),
	}

	path := filepath.Join(dir, "funcmap.yaml")
	m := NewFuncMap(dir, funcs, sources)
	if err := m.Write(path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := ReadFuncMap(path)
	if err != nil {
		t.Fatalf("ReadFuncMap failed: %v", err)
	}
	if got.Module != "example.com/traced" {
		t.Errorf("Module = %q, want example.com/traced", got.Module)
	}
	if len(got.Functions) != 2 {
		t.Fatalf("Functions has %d entries, want 2", len(got.Functions))
	}
	if got.Functions[1] != funcs[1] {
		t.Errorf("Functions[1] = %+v, want %+v", got.Functions[1], funcs[1])
	}
	if got.Digests["main.go"] != Digest(sources["main.go"]) {
		t.Errorf("digest mismatch: %q", got.Digests["main.go"])
	}
}

func TestDigestDetectsChange(t *testing.T) {
	a := Digest([]byte("package main\n"))
	b := Digest([]byte("package main\n\nfunc main() {}\n"))
	if a == b {
		t.Error("distinct sources share a digest")
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex characters", len(a))
	}
	if a != Digest([]byte("package main\n")) {
		t.Error("digest is not deterministic")
	}
}

func TestModulePath(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "internal", "deep")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/m\n"), 0o644); err != nil {
		t.Fatalf("write go.mod: %v", err)
	}

	if got := ModulePath(sub); got != "example.com/m" {
		t.Errorf("ModulePath from nested dir = %q, want example.com/m", got)
	}
}
