//go:build arm && linux

package rtasm

import (
	"syscall"
	"unsafe"
)

// ARM requires an explicit cache maintenance operation after writing
// code: the data and instruction caches are not kept coherent by
// hardware the way x86's are. Linux exposes this as the legacy
// ARM_CACHEFLUSH syscall rather than a libc entry point, so it's
// reachable without cgo.
const sysCacheFlush = 0x0f0002

func flushICache(b []byte) {
	if len(b) == 0 {
		return
	}
	start := uintptr(unsafe.Pointer(&b[0]))
	end := start + uintptr(len(b))
	syscall.Syscall(sysCacheFlush, start, end, 0)
}
