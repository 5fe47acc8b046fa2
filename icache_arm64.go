package rtasm

// arm64 Linux has no equivalent to ARM's ARM_CACHEFLUSH syscall; the
// portable way to invalidate the instruction cache is the compiler
// intrinsic __builtin___clear_cache, which requires cgo. Without cgo in
// this module's dependency set, a process targeting arm64 must issue its
// own cache maintenance (e.g. via a small cgo shim) before executing a
// freshly loaded segment.
func flushICache(b []byte) {}
