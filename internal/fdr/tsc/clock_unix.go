//go:build unix

package tsc

import "golang.org/x/sys/unix"

// WallClock reads CLOCK_REALTIME. It backs the walltime markers written at
// buffer setup and the event timestamps on the no-TSC fallback path.
func WallClock() (sec int64, nsec int64, err error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_REALTIME, &ts); err != nil {
		return 0, 0, err
	}
	sec, nsec = ts.Unix()
	return sec, nsec, nil
}
