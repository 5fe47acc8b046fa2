// Package nopad provides the x86 / x86-64 multi-byte NOP sequences used to
// pad a section up to an alignment boundary without disturbing control
// flow. Grounded on the nopSequences table in the teacher's x86 machine
// backend, extended to the decade-grouped form a cache-line-sized pad can
// require (the teacher only ever padded up to 4 bytes, for a call-target
// alignment; rtasm sections can align up to CACHELINE_SIZE).
package nopad

// DecadeLen is the length of the repeating long-NOP block used for pad
// counts of 10 bytes or more.
const DecadeLen = 10

// decade is "66 2E 0F 1F 84 00 00 00 00 00": a 10-byte NOP formed from the
// 8-byte NOP (0F 1F 84 00 00 00 00 00) with a CS segment-override prefix
// (2E) and an operand-size override prefix (66) in front of it. Repeating
// it tiles any multiple of ten bytes of padding.
var decade = []byte{0x66, 0x2e, 0x0f, 0x1f, 0x84, 0x00, 0x00, 0x00, 0x00, 0x00}

// canonical holds the single NOP instruction used for each remainder
// 0..9 once full decades have been emitted.
var canonical = [][]byte{
	0: {},
	1: {0x90},
	2: {0x66, 0x90},
	3: {0x0f, 0x1f, 0x00},
	4: {0x0f, 0x1f, 0x40, 0x00},
	5: {0x0f, 0x1f, 0x44, 0x00, 0x00},
	6: {0x66, 0x0f, 0x1f, 0x44, 0x00, 0x00},
	7: {0x0f, 0x1f, 0x80, 0x00, 0x00, 0x00, 0x00},
	8: {0x0f, 0x1f, 0x84, 0x00, 0x00, 0x00, 0x00, 0x00},
	9: {0x66, 0x0f, 0x1f, 0x84, 0x00, 0x00, 0x00, 0x00, 0x00},
}

// Sequence returns pad bytes of valid x86 multi-byte NOPs: pad/10 repeats
// of the 10-byte decade sequence followed by the canonical pattern for
// pad%10.
func Sequence(pad int) []byte {
	if pad < 0 {
		panic("nopad: negative pad length")
	}

	decades := pad / DecadeLen
	rem := pad % DecadeLen

	out := make([]byte, 0, pad)
	for i := 0; i < decades; i++ {
		out = append(out, decade...)
	}
	out = append(out, canonical[rem]...)
	return out
}
