//go:build linux

package segment

import "golang.org/x/sys/unix"

// prefetch hints the kernel to fault in b's pages now instead of lazily on
// first touch, matching jit-asm.cc's ::madvise(..., MADV_WILLNEED) on the
// medium-class alloc path. Linux-only: FreeBSD and Darwin lack a
// zero-cost equivalent, and the original leaves the hint out there too.
func prefetch(b []byte) {
	unix.Madvise(b, unix.MADV_WILLNEED)
}
