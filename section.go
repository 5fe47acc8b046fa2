package rtasm

import (
	"github.com/go-jit/rtasm/buffer"
	"github.com/go-jit/rtasm/internal/nopad"
	"import.name/pan"
)

// Section is a mutable growable byte buffer tagged as text (executable)
// or rodata (read-only data), per spec.md §3. It is created by a
// Container and mutated only through this handle; it lives and dies with
// its container.
//
// Grounded on buffer.go's FixedBuffer/defaultDataBuffer growth policy in
// the teacher (generalized into buffer.Dynamic's Reserve) and
// internal/code/codebuffer.go's Buf (a cached-length wrapper around a
// Buffer interface, the model for tracking pc without extra indirection).
type Section struct {
	container *Container
	index     int
	isROData  bool

	buf   *buffer.Dynamic
	align int // power of two, 1 <= align <= CachelineSize.
}

func newSection(c *Container, index int, isROData bool) *Section {
	return &Section{
		container: c,
		index:     index,
		isROData:  isROData,
		buf:       buffer.NewDynamic(MaxSectionSize),
		align:     1,
	}
}

// Index is this section's position in its container's section sequence.
func (s *Section) Index() int { return s.index }

// IsROData reports whether this is a read-only data section (false means
// executable text).
func (s *Section) IsROData() bool { return s.isROData }

// Size is the number of bytes emitted so far (pc - base).
func (s *Section) Size() int { return s.buf.Size() }

// Reserved is the fast-path bound established by Reserve.
func (s *Section) Reserved() int { return s.buf.Reserved() }

// Alignment is the strongest alignment boundary any emission in this
// section has demanded so far.
func (s *Section) Alignment() int { return s.align }

// Reserve grows the section so at least n more bytes can be emitted
// without another allocation. Must be called before the emit primitives
// that need the space; they only debug-assert that it was.
func (s *Section) Reserve(n int) *Section {
	if err := s.buf.Reserve(n); err != nil {
		pan.Check(wrap(ErrCapacityExceeded, "section %d: reserve %d bytes", s.index, n))
	}
	return s
}

// checkReserved debug-asserts that the next n bytes fit within what
// Reserve already promised; it's the "only debug-assert that Reserve was
// called" contract Reserve's doc comment describes. In a release build
// this compiles out and an under-reserved emit falls through to
// buffer.Dynamic's own unconditional bounds check instead.
func (s *Section) checkReserved(n int) {
	assert(s.buf.Size()+n <= s.buf.Reserved(), "section %d: emit of %d bytes exceeds reservation", s.index, n)
}

// PutB appends one byte.
func (s *Section) PutB(v uint8) *Section { s.checkReserved(1); s.buf.PutByte(v); return s }

// PutW appends 2 little-endian bytes.
func (s *Section) PutW(v uint16) *Section { s.checkReserved(2); s.buf.PutUint16(v); return s }

// PutL appends 4 little-endian bytes.
func (s *Section) PutL(v uint32) *Section { s.checkReserved(4); s.buf.PutUint32(v); return s }

// PutQ appends 8 little-endian bytes.
func (s *Section) PutQ(v uint64) *Section { s.checkReserved(8); s.buf.PutUint64(v); return s }

// PutSwW appends to_le(bswap16(v)): write a 2-byte literal in instruction
// byte order, e.g. PutSwW(0x6690) emits the bytes 0x66, 0x90.
func (s *Section) PutSwW(v uint16) *Section {
	s.checkReserved(2)
	s.buf.PutUint16Swapped(v)
	return s
}

// PutSwL is the 4-byte analogue of PutSwW.
func (s *Section) PutSwL(v uint32) *Section {
	s.checkReserved(4)
	s.buf.PutUint32Swapped(v)
	return s
}

// PutSwQ is the 8-byte analogue of PutSwW.
func (s *Section) PutSwQ(v uint64) *Section {
	s.checkReserved(8)
	s.buf.PutUint64Swapped(v)
	return s
}

// PutBytes appends b verbatim.
func (s *Section) PutBytes(b []byte) *Section {
	s.checkReserved(len(b))
	s.buf.PutBytes(b)
	return s
}

// LabelQ records a PlusLabelQuad fixup at the current site and emits
// addend as 8 little-endian bytes. At load time the site becomes
// addend + label's resolved address.
func (s *Section) LabelQ(label *Label, addend uint64) *Section {
	s.checkReserved(8)
	s.recordFixup(PlusLabelQuad, label)
	s.buf.PutUint64(addend)
	return s
}

// LabelL records a PlusLabelLong fixup and emits addend as 4 bytes.
func (s *Section) LabelL(label *Label, addend uint32) *Section {
	s.checkReserved(4)
	s.recordFixup(PlusLabelLong, label)
	s.buf.PutUint32(addend)
	return s
}

// RelL records a PlusLabelMinusNextLong fixup (a 32-bit PC-relative
// reference, the x86 CALL/JMP rel32 idiom) and emits addend as 4 bytes.
func (s *Section) RelL(label *Label, addend uint32) *Section {
	s.checkReserved(4)
	s.recordFixup(PlusLabelMinusNextLong, label)
	s.buf.PutUint32(addend)
	return s
}

// RelB records a PlusLabelMinusNextByte fixup (an 8-bit PC-relative
// reference, the x86 Jcc rel8 idiom) and emits addend as 1 byte.
func (s *Section) RelB(label *Label, addend uint8) *Section {
	s.checkReserved(1)
	s.recordFixup(PlusLabelMinusNextByte, label)
	s.buf.PutByte(addend)
	return s
}

// RelLRaw records a MinusNextLong fixup (no label: the loader subtracts
// the site's own load address from the already-written addend, turning a
// known absolute value into a PC-relative displacement once the site's
// final address exists) and emits value as 4 bytes.
func (s *Section) RelLRaw(value uint32) *Section {
	s.checkReserved(4)
	s.recordFixup(MinusNextLong, nil)
	s.buf.PutUint32(value)
	return s
}

func (s *Section) recordFixup(kind FixupKind, label *Label) {
	labelIndex := -1
	if label != nil {
		assert(label.container == s.container, "label from a foreign container")
		labelIndex = label.index
	}
	s.container.fixups = append(s.container.fixups, Fixup{
		Kind:    kind,
		Section: s.index,
		Offset:  s.buf.Size(),
		Label:   labelIndex,
	})
}

// Define places label at this section's current pc plus offset.
func (s *Section) Define(label *Label, offset int) *Section {
	assert(label.container == s.container, "label from a foreign container")
	label.place(s.index, s.buf.Size()+offset)
	return s
}

// DefineNew creates a new label in this section's container and places it
// at the current pc.
func (s *Section) DefineNew() *Label {
	label := s.container.NewLabel()
	label.place(s.index, s.buf.Size())
	return label
}

// Align pads the section with x86 long NOPs until pc is a multiple of
// boundary (a power of two, at most CACHELINE_SIZE), provided the
// required pad doesn't exceed max; otherwise it's a no-op and the section
// remains under-aligned. Raises Alignment() to boundary if boundary is
// stronger than any alignment requested so far. Spec.md §4.2.
func (s *Section) Align(boundary, max int) *Section {
	assert(boundary > 0 && boundary&(boundary-1) == 0, "alignment boundary must be a power of two")
	assert(boundary <= CachelineSize, "alignment boundary exceeds cache line size")

	pad := (-s.buf.Size()) & (boundary - 1)
	if pad > max {
		return s
	}
	if pad > 0 {
		seq := nopad.Sequence(pad)
		s.Reserve(len(seq))
		s.buf.PutBytes(seq)
	}
	if boundary > s.align {
		s.align = boundary
	}
	return s
}
