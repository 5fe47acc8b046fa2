//go:build linux

package segment

import "golang.org/x/sys/unix"

// On Linux a freed medium block's pages beyond the first are released
// with MADV_DONTNEED: the mapping stays valid but the pages are
// immediately decommitted, so totalPhys can drop right away instead of
// waiting for memory pressure.
const madviseReleaseFlag = unix.MADV_DONTNEED
