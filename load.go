package rtasm

import (
	"encoding/binary"
	"sync/atomic"
	"unsafe"

	"github.com/go-jit/rtasm/buffer"
	"github.com/go-jit/rtasm/segment"
)

// stackTableCap is the size of the on-stack address table Load tries
// first; it's a compile-time array bound, so MaxStackSections can only
// lower the effective threshold, never raise it past this.
const stackTableCap = 8192

// MaxStackSections bounds how many sections' load addresses are kept in a
// small on-stack array before Load falls back to a heap allocation for
// the per-section address table (spec.md §4.5, §9: "implementations
// should document the stack-vs-heap threshold and make it tunable").
var MaxStackSections = stackTableCap

// Load materializes the container into dst, which must be at least
// Size() bytes (typically dst is the byte view of a segment.Segment
// obtained from the sibling segment package). It repeats the layout walk
// to compute each section's load address, copies section bytes into
// place, applies every recorded fixup, then emits a compiler barrier so
// a subsequent reinterpretation of dst as a function pointer cannot be
// reordered ahead of these writes (spec.md §4.5).
//
// Load(nil) is a no-op, matching spec.md's "Invoking load(null) is a
// no-op."
//
// Grounded on code.go's two-pass programCoder.module (lay out all text,
// then populate rodata) and internal/isa/x86/linker.go's
// UpdateFarBranches/UpdateCalls for the in-place patch arithmetic,
// generalized to the five fixup kinds in spec.md §3.
func (c *Container) Load(dst []byte) error {
	if dst == nil {
		return nil
	}

	var offsets []int
	if n := len(c.sections); n <= MaxStackSections && n <= stackTableCap {
		var stack [stackTableCap]int
		offsets = stack[:n]
	} else {
		offsets = make([]int, n)
	}

	total, _, ok := c.layout(offsets)
	if !ok {
		return wrap(ErrOverflow, "container layout overflow")
	}
	if len(dst) < total {
		return wrap(ErrCapacityExceeded, "load buffer too small: have %d, need %d", len(dst), total)
	}
	if total == 0 {
		return nil
	}

	for _, sec := range c.sections {
		off := offsets[sec.index]
		end := off + sec.Size()
		dstSec := buffer.MakeStatic(dst[off:end:end])
		dstSec.PutBytes(sec.buf.Bytes())
	}

	if debugAssertions {
		for _, f := range c.fixups {
			if f.Label < 0 {
				continue
			}
			if !c.labels[f.Label].placed {
				return wrap(ErrContractViolation, "fixup at section %d offset %d references unplaced label %d", f.Section, f.Offset, f.Label)
			}
		}
	}

	base := uintptr(unsafe.Pointer(&dst[0]))
	for _, f := range c.fixups {
		applyFixup(dst, base, offsets, c.labels, f)
	}

	// Compiler/hardware store barrier: the atomic store cannot be
	// reordered ahead of the plain writes above, and callers on other
	// threads must still publish the segment address under their own
	// synchronized release (spec.md §5).
	var fence uint32
	atomic.StoreUint32(&fence, 1)

	flushICache(dst)
	return nil
}

// LoadSegment allocates a segment of exactly Size() bytes from the given
// pool and loads the container into it -- the "optional load() that
// allocates a sized segment and loads into it" variant from spec.md §6.
func (c *Container) LoadSegment(pool *segment.Pool) (*segment.Segment, error) {
	size := c.Size()
	if size < 0 {
		return nil, wrap(ErrOverflow, "container layout overflow")
	}
	if size == 0 {
		return segment.Empty(), nil
	}

	seg, err := pool.Alloc(size)
	if err != nil {
		return nil, err
	}
	if err := c.Load(seg.Bytes()); err != nil {
		pool.Free(seg)
		return nil, err
	}
	return seg, nil
}

func applyFixup(dst []byte, base uintptr, offsets []int, labels []*Label, f Fixup) {
	site := offsets[f.Section] + f.Offset
	S := uint64(base) + uint64(site)

	labelAddr := func() uint64 {
		l := labels[f.Label]
		return uint64(base) + uint64(offsets[l.section]) + uint64(l.offset)
	}

	switch f.Kind {
	case PlusLabelQuad:
		v := binary.LittleEndian.Uint64(dst[site : site+8])
		binary.LittleEndian.PutUint64(dst[site:site+8], v+labelAddr())

	case PlusLabelLong:
		v := binary.LittleEndian.Uint32(dst[site : site+4])
		binary.LittleEndian.PutUint32(dst[site:site+4], v+uint32(labelAddr()))

	case PlusLabelMinusNextLong:
		v := binary.LittleEndian.Uint32(dst[site : site+4])
		next := S + 4
		binary.LittleEndian.PutUint32(dst[site:site+4], uint32(uint64(v)+labelAddr()-next))

	case PlusLabelMinusNextByte:
		v := dst[site]
		next := S + 1
		dst[site] = byte(uint64(v) + labelAddr() - next)

	case MinusNextLong:
		v := binary.LittleEndian.Uint32(dst[site : site+4])
		next := S + 4
		binary.LittleEndian.PutUint32(dst[site:site+4], uint32(uint64(v)-next))
	}
}
