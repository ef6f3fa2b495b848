package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kolkov/fdrtracer/cmd/fdrtracer/instrument"
)

// writeTree lays out a small source tree for command tests and returns
// its root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	return root
}

// runCommand executes the CLI with args and captures its output streams.
func runCommand(args ...string) (stdout, stderr string, err error) {
	root := newRootCommand()
	var out, errBuf bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errBuf.String(), err
}

const alphaSrc = `package demo

func Alpha() {
	helper()
}

func helper() { println("helper") }
`

const betaSrc = `package sub

func Beta() int {
	return 1
}
`

func TestCollectFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.go":           "package p\n",
		"a_test.go":      "package p\n",
		"sub/c.go":       "package c\n",
		"vendor/v.go":    "package v\n",
		"testdata/d.go":  "package d\n",
		"_build/gen.go":  "package gen\n",
		".hidden/h.go":   "package h\n",
		"docs/notes.txt": "not go\n",
	})

	files, err := collectFiles([]string{root})
	if err != nil {
		t.Fatalf("collectFiles failed: %v", err)
	}

	want := []string{
		filepath.Join(root, "a.go"),
		filepath.Join(root, "sub", "c.go"),
	}
	if len(files) != len(want) {
		t.Fatalf("collectFiles = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestCollectFiles_ExplicitArgs(t *testing.T) {
	root := writeTree(t, map[string]string{
		"x_test.go": "package p\n",
		"notes.txt": "not go\n",
	})

	// Explicitly named test files are honored; the skip rules apply only
	// while walking directories.
	files, err := collectFiles([]string{filepath.Join(root, "x_test.go")})
	if err != nil {
		t.Fatalf("collectFiles failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("collectFiles = %v, want the explicit test file", files)
	}

	if _, err := collectFiles([]string{filepath.Join(root, "notes.txt")}); err == nil {
		t.Error("collectFiles accepted a non-Go file")
	}
	if _, err := collectFiles([]string{filepath.Join(root, "absent.go")}); err == nil {
		t.Error("collectFiles accepted a missing path")
	}
}

func TestInstrumentCommand_WriteAndFuncmap(t *testing.T) {
	root := writeTree(t, map[string]string{
		"alpha.go":    alphaSrc,
		"sub/beta.go": betaSrc,
	})
	funcmapPath := filepath.Join(root, "funcmap.yaml")

	_, stderr, err := runCommand("instrument", "--write", "--funcmap", funcmapPath, root)
	if err != nil {
		t.Fatalf("instrument --write failed: %v", err)
	}
	if !strings.Contains(stderr, "instrumented 3 functions") {
		t.Errorf("summary = %q, want 3 instrumented functions", stderr)
	}

	rewritten, err := os.ReadFile(filepath.Join(root, "alpha.go"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(rewritten), "fdr.Enter(1)") {
		t.Errorf("alpha.go not rewritten:\n%s", rewritten)
	}
	if !strings.Contains(string(rewritten), instrument.FacadeImportPath) {
		t.Errorf("alpha.go missing facade import:\n%s", rewritten)
	}

	m, err := instrument.ReadFuncMap(funcmapPath)
	if err != nil {
		t.Fatalf("ReadFuncMap failed: %v", err)
	}
	if len(m.Functions) != 3 {
		t.Fatalf("funcmap has %d functions, want 3", len(m.Functions))
	}
	if m.Functions[0].Function != "demo.Alpha" || m.Functions[0].ID != 1 {
		t.Errorf("funcmap[0] = %+v, want demo.Alpha with ID 1", m.Functions[0])
	}
	if m.Functions[2].Function != "sub.Beta" || m.Functions[2].ID != 3 {
		t.Errorf("funcmap[2] = %+v, want sub.Beta with ID 3", m.Functions[2])
	}
	if len(m.Digests) != 2 {
		t.Errorf("funcmap has %d digests, want 2", len(m.Digests))
	}
}

func TestInstrumentCommand_WriteIsRerunSafe(t *testing.T) {
	root := writeTree(t, map[string]string{"alpha.go": alphaSrc})

	if _, _, err := runCommand("instrument", "--write", root); err != nil {
		t.Fatalf("first instrument failed: %v", err)
	}
	first, err := os.ReadFile(filepath.Join(root, "alpha.go"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	// A second pass must detect the injected import and leave the file be.
	_, stderr, err := runCommand("instrument", "--write", root)
	if err != nil {
		t.Fatalf("second instrument failed: %v", err)
	}
	if !strings.Contains(stderr, "already instrumented") {
		t.Errorf("second pass stderr = %q, want already-instrumented notice", stderr)
	}
	second, err := os.ReadFile(filepath.Join(root, "alpha.go"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("second pass modified an instrumented file")
	}
}

func TestInstrumentCommand_StdoutPreview(t *testing.T) {
	root := writeTree(t, map[string]string{"alpha.go": alphaSrc})
	path := filepath.Join(root, "alpha.go")

	stdout, _, err := runCommand("instrument", path)
	if err != nil {
		t.Fatalf("instrument failed: %v", err)
	}
	if !strings.Contains(stdout, "fdr.Enter(1)") {
		t.Errorf("stdout preview missing hooks:\n%s", stdout)
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(onDisk) != alphaSrc {
		t.Error("preview mode modified the source file")
	}
}

func TestInstrumentCommand_FlagValidation(t *testing.T) {
	root := writeTree(t, map[string]string{
		"alpha.go":    alphaSrc,
		"sub/beta.go": betaSrc,
	})

	if _, _, err := runCommand("instrument", "--write", "--output", t.TempDir(), root); err == nil {
		t.Error("conflicting --write and --output accepted")
	}
	if _, _, err := runCommand("instrument", root); err == nil {
		t.Error("multi-file stdout preview accepted")
	}
}

func TestFuncsCommand(t *testing.T) {
	root := writeTree(t, map[string]string{
		"alpha.go":    alphaSrc,
		"sub/beta.go": betaSrc,
	})

	stdout, _, err := runCommand("funcs", root)
	if err != nil {
		t.Fatalf("funcs failed: %v", err)
	}
	for _, want := range []string{"demo.Alpha", "demo.helper", "sub.Beta"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("funcs output missing %s:\n%s", want, stdout)
		}
	}

	// A listing pass must not touch the tree.
	onDisk, err := os.ReadFile(filepath.Join(root, "alpha.go"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(onDisk) != alphaSrc {
		t.Error("funcs modified the source file")
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCommand("version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(stdout, version) {
		t.Errorf("version output %q missing %q", stdout, version)
	}
}
