//go:build linux

package scheduler

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// setBatchPriority moves the calling goroutine's OS thread to SCHED_BATCH.
// The thread stays locked so it is discarded, policy and all, when the
// goroutine exits.
func setBatchPriority() error {
	runtime.LockOSThread()
	attr := unix.SchedAttr{
		Size:   unix.SizeofSchedAttr,
		Policy: unix.SCHED_BATCH,
	}
	return unix.SchedSetAttr(0, &attr, 0)
}
