package buffer

import (
	"import.name/pan"
)

// Static is a fixed-capacity buffer for wrapping a memory-mapped region --
// the loader writes a container's sections into one of these per section,
// sliced out of the destination segment.
type Static struct {
	buf []byte
}

// MakeStatic buffer.
//
// This function can be used in field initializer expressions. The
// initialized field must not be copied.
func MakeStatic(b []byte) Static {
	return Static{b[:0]}
}

// NewStatic buffer.
func NewStatic(b []byte) *Static {
	s := MakeStatic(b)
	return &s
}

// Cap is the static buffer's capacity.
func (s *Static) Cap() int { return cap(s.buf) }

// Len doesn't panic.
func (s *Static) Len() int { return len(s.buf) }

// Bytes doesn't panic.
func (s *Static) Bytes() []byte { return s.buf }

// PutBytes panics with ErrStaticSize if b doesn't fit.
func (s *Static) PutBytes(b []byte) {
	copy(s.Extend(len(b)), b)
}

// Extend panics with ErrStaticSize if n bytes cannot be appended.
func (s *Static) Extend(n int) []byte {
	offset := len(s.buf)
	size := offset + n
	if size > cap(s.buf) {
		pan.Check(ErrStaticSize)
	}
	s.buf = s.buf[:size]
	return s.buf[offset:]
}
