//go:build unix

// Package sink owns the trace file plumbing: resolving a default output
// file when the caller did not supply a descriptor, and the retrying
// write-all primitive the flush path depends on. Both work on raw file
// descriptors; the trace contract is descriptor-based so a driver can hand
// the runtime a pipe, a socket, or a pre-opened file.
package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ResolveFD creates a fresh trace file and returns its descriptor and
// path. Files are named <base><pid>.<n>.fdr and created exclusively, so
// concurrent processes and repeated flush cycles never clobber each other.
// dir defaults to the system temp directory.
func ResolveFD(dir, base string) (fd int, path string, err error) {
	if dir == "" {
		dir = os.TempDir()
	}
	pid := os.Getpid()
	for n := 0; n < 10000; n++ {
		path = filepath.Join(dir, fmt.Sprintf("%s%d.%d.fdr", base, pid, n))
		fd, err = unix.Open(path, unix.O_WRONLY|unix.O_CREAT|unix.O_EXCL|unix.O_CLOEXEC, 0o644)
		if err == unix.EEXIST {
			continue
		}
		if err != nil {
			return -1, "", fmt.Errorf("sink: create %s: %w", path, err)
		}
		return fd, path, nil
	}
	return -1, "", fmt.Errorf("sink: no free trace file name under %s", dir)
}

// Close closes a descriptor obtained from ResolveFD.
func Close(fd int) error {
	return unix.Close(fd)
}

// WriteAll writes p to fd completely, retrying short writes and the
// transient errnos. Any other error is returned as-is: the trace file
// contract is all-or-nothing, and the caller treats a failed write as
// fatal for this flush.
func WriteAll(fd int, p []byte) error {
	for len(p) > 0 {
		n, err := unix.Write(fd, p)
		if err == unix.EINTR || err == unix.EAGAIN {
			continue
		}
		if err != nil {
			return fmt.Errorf("sink: write: %w", err)
		}
		p = p[n:]
	}
	return nil
}
