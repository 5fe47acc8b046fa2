// Package segment allocates and pools RWX (read-write-execute) memory
// regions for code produced by package rtasm. A Segment is the runtime
// counterpart to a rtasm.Container: once a container is laid out, its
// bytes need somewhere the CPU will actually fetch and execute
// instructions from, and a Pool is that somewhere.
//
// Grounded on runner.go's makeMemory/makeMemoryCopy (mmap with
// PROT_EXEC, munmap on Close) in the teacher, generalized from "one
// mapping per program" to a size-classed pool so a JIT that compiles
// many short functions doesn't pay a syscall per function.
package segment

import (
	"unsafe"

	"golang.org/x/xerrors"
)

// Size-class geometry, spec.md §4.6.
const (
	minSizeLog2        = 7  // 128 B, the smallest class.
	pageLog2           = 12 // 4096 B, the assumed host page size.
	smallThresholdLog2 = 13 // 8192 B: small/medium boundary.
	largeThresholdLog2 = 18 // 256 KiB: medium/large boundary.

	minSize        = 1 << minSizeLog2
	pageSize       = 1 << pageLog2
	smallThreshold = 1 << smallThresholdLog2
	largeThreshold = 1 << largeThresholdLog2

	numClasses = largeThresholdLog2 - minSizeLog2 + 1
)

// ErrBudget is returned by Alloc when satisfying the request would push
// a pool's used or physically-backed byte count past its configured
// maximum (spec.md §4.7).
var ErrBudget = xerrors.New("segment: pool budget exceeded")

// Segment is a handle to one RWX region sized to hold exactly one loaded
// rtasm.Container. It must be freed back to the Pool that produced it.
type Segment struct {
	pool  *Pool
	b     []byte
	size  int
	class int // size-class index, or -1 for a directly-mapped large segment.
}

// Bytes is the writable, executable view of the segment: exactly Size()
// bytes, suitable as the dst argument to (*rtasm.Container).Load.
func (s *Segment) Bytes() []byte {
	if s.size == 0 {
		return nil
	}
	return s.b[:s.size]
}

// Size is the number of bytes requested when the segment was allocated.
func (s *Segment) Size() int { return s.size }

// Addr is the segment's base address, for embedding into a relocation
// table or function-pointer cast outside this package.
func (s *Segment) Addr() uintptr {
	if s.size == 0 {
		return 0
	}
	return addrOf(s.b)
}

// Empty is the distinguished zero-size segment returned for an empty
// container; Free on it is a no-op and it owns no mapped memory.
func Empty() *Segment {
	return &Segment{size: 0, class: -1}
}

func addrOf(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
