// Package rtasm is a runtime machine-code assembler and relocating loader.
// A client (a JIT compiler or tracing engine) appends instruction bytes
// and read-only data into logical sections of a Container, places
// symbolic labels and relocations as it goes, then asks the container for
// its total size and loads it into an executable Segment (see the
// sibling segment package) to obtain a callable native function.
//
// rtasm is otherwise instruction-set agnostic: only alignment padding
// (x86 / x86-64 long NOPs) and the arithmetic of the five fixup kinds
// encode any ISA knowledge. The client supplies raw instruction bytes; rtasm
// does not assemble mnemonics, parse a symbolic assembly syntax or
// disassemble anything.
package rtasm

const (
	// CachelineLog2 and CachelineSize bound how far align() will pad:
	// spec.md caps section alignment at one cache line.
	CachelineLog2  = 6
	CachelineSize  = 1 << CachelineLog2
	MaxSectionSize = 1 << MaxSegmentSizeLog2
)
