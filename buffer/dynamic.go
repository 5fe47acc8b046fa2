package buffer

import (
	"encoding/binary"

	"golang.org/x/xerrors"
)

// Dynamic is the growable byte buffer backing an rtasm section. It tracks
// three watermarks as required by the section data model: Size (bytes
// actually written, i.e. the section's pc), Reserved (bytes promised to
// future writes by Reserve, a fast-path bound that doesn't always require
// a reallocation) and Cap (the backing array's real capacity). The
// invariant Size <= Reserved <= Cap <= maxSize holds after every call.
//
// The default value is a valid empty buffer with no size limit.
type Dynamic struct {
	buf      []byte
	reserved int
	maxSize  int // 0 means unlimited.
}

// NewDynamic buffer capped at maxSize bytes (0 for unlimited).
func NewDynamic(maxSize int) *Dynamic {
	return &Dynamic{maxSize: maxSize}
}

// Size is the number of bytes written so far (the section's pc minus its
// base).
func (d *Dynamic) Size() int { return len(d.buf) }

// Reserved is the fast-path bound established by prior Reserve calls.
func (d *Dynamic) Reserved() int { return d.reserved }

// Cap is the backing array's actual capacity.
func (d *Dynamic) Cap() int { return cap(d.buf) }

// Bytes doesn't panic.
func (d *Dynamic) Bytes() []byte { return d.buf }

// Reserve grows Reserved by n. Fast path: if Reserved+n already fits in
// Cap, only the counter advances. Slow path: reallocate the backing array
// to min(maxSize, newReserved + newReserved/2), preserving existing bytes.
// Returns ErrSizeLimit if newReserved would exceed maxSize.
func (d *Dynamic) Reserve(n int) error {
	newReserved := d.reserved + n
	if newReserved < d.reserved {
		return xerrors.Errorf("dynamic buffer: reserve overflow: %w", ErrSizeLimit)
	}
	if newReserved <= cap(d.buf) {
		d.reserved = newReserved
		return nil
	}

	newCap := newReserved + newReserved/2
	if newCap < newReserved { // overflow
		newCap = newReserved
	}
	if d.maxSize > 0 && newCap > d.maxSize {
		newCap = d.maxSize
	}
	if newCap < newReserved {
		return xerrors.Errorf("dynamic buffer: %w", ErrSizeLimit)
	}

	newBuf := make([]byte, len(d.buf), newCap)
	copy(newBuf, d.buf)
	d.buf = newBuf
	d.reserved = newReserved
	return nil
}

// PutByte appends one byte. The caller must have Reserved it.
func (d *Dynamic) PutByte(v byte) { d.extend(1)[0] = v }

// PutUint16 appends 2 little-endian bytes.
func (d *Dynamic) PutUint16(v uint16) { binary.LittleEndian.PutUint16(d.extend(2), v) }

// PutUint32 appends 4 little-endian bytes.
func (d *Dynamic) PutUint32(v uint32) { binary.LittleEndian.PutUint32(d.extend(4), v) }

// PutUint64 appends 8 little-endian bytes.
func (d *Dynamic) PutUint64(v uint64) { binary.LittleEndian.PutUint64(d.extend(8), v) }

// PutUint16Swapped appends to_le(bswap16(v)) -- equivalently the
// big-endian encoding of v -- so a literal written in instruction byte
// order (e.g. 0x6690 for the two bytes "66 90") lands in memory in that
// same left-to-right order.
func (d *Dynamic) PutUint16Swapped(v uint16) { binary.BigEndian.PutUint16(d.extend(2), v) }

// PutUint32Swapped is the 4-byte analogue of PutUint16Swapped.
func (d *Dynamic) PutUint32Swapped(v uint32) { binary.BigEndian.PutUint32(d.extend(4), v) }

// PutUint64Swapped is the 8-byte analogue of PutUint16Swapped.
func (d *Dynamic) PutUint64Swapped(v uint64) { binary.BigEndian.PutUint64(d.extend(8), v) }

// PutBytes appends b verbatim. The caller must have Reserved len(b).
func (d *Dynamic) PutBytes(b []byte) { copy(d.extend(len(b)), b) }

// extend is the fast path: bump the cached length, trusting a matching
// Reserve already grew capacity. Panics (a ContractViolation in rtasm's
// taxonomy) if that invariant was violated.
func (d *Dynamic) extend(n int) []byte {
	offset := len(d.buf)
	size := offset + n
	if size > d.reserved {
		panic(xerrors.Errorf("buffer: emit of %d bytes exceeds reservation", n))
	}
	if size > cap(d.buf) {
		// Reserve() guarantees Cap >= Reserved, so this would indicate a
		// broken invariant rather than caller error.
		panic(xerrors.Errorf("buffer: capacity invariant violated"))
	}
	d.buf = d.buf[:size]
	return d.buf[offset:]
}
