//go:build unix

package sink

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/sys/unix"
)

// TestResolveFD creates distinct exclusive files with the expected naming.
func TestResolveFD(t *testing.T) {
	dir := t.TempDir()

	fd1, path1, err := ResolveFD(dir, "trace-test.")
	if err != nil {
		t.Fatalf("ResolveFD: %v", err)
	}
	defer unix.Close(fd1)

	fd2, path2, err := ResolveFD(dir, "trace-test.")
	if err != nil {
		t.Fatalf("second ResolveFD: %v", err)
	}
	defer unix.Close(fd2)

	if path1 == path2 {
		t.Errorf("ResolveFD reused path %s", path1)
	}
	base := filepath.Base(path1)
	if !strings.HasPrefix(base, "trace-test.") || !strings.HasSuffix(base, ".fdr") {
		t.Errorf("unexpected trace file name %q", base)
	}
	if _, err := os.Stat(path1); err != nil {
		t.Errorf("trace file was not created: %v", err)
	}
}

// TestWriteAll round-trips a payload larger than a typical pipe chunk.
func TestWriteAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	payload := bytes.Repeat([]byte{0xC3, 0x17}, 1<<16)
	if err := WriteAll(int(f.Fd()), payload); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("file content mismatch: %d bytes written, %d read", len(payload), len(got))
	}
}

// TestWriteAllBadDescriptor surfaces non-transient errors.
func TestWriteAllBadDescriptor(t *testing.T) {
	if err := WriteAll(-1, []byte("x")); err == nil {
		t.Error("WriteAll on fd -1 succeeded, want error")
	}
}
