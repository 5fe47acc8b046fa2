package rtasm

// x86 keeps the instruction and data caches coherent in hardware, so
// there is nothing to flush here; Load's atomic fence is enough.
func flushICache(b []byte) {}
