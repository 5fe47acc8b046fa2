//go:build freebsd || darwin

package segment

import "golang.org/x/sys/unix"

// FreeBSD and Darwin lack MADV_DONTNEED's "decommit immediately"
// semantics; MADV_FREE marks the pages reclaimable under pressure
// instead, which is the closest equivalent these kernels offer.
const madviseReleaseFlag = unix.MADV_FREE
