package rtasm

// FixupKind selects the relocation arithmetic applied at load time.
// Table from spec.md §3: let S be the site address after load, L the
// label address after load, W the width. All arithmetic is unsigned
// modulo the type width.
type FixupKind int

const (
	// PlusLabelQuad: write64(S) <- read64(S) + L.
	PlusLabelQuad FixupKind = iota
	// PlusLabelLong: write32(S) <- read32(S) + L.
	PlusLabelLong
	// PlusLabelMinusNextLong: write32(S) <- read32(S) + L - (S+4).
	PlusLabelMinusNextLong
	// PlusLabelMinusNextByte: write8(S) <- read8(S) + (L-(S+1)) truncated
	// to 8 bits.
	PlusLabelMinusNextByte
	// MinusNextLong: write32(S) <- read32(S) - (S+4). Doesn't reference a
	// label.
	MinusNextLong
)

// Width in bytes of the relocation site for this fixup kind.
func (k FixupKind) Width() int {
	switch k {
	case PlusLabelQuad:
		return 8
	case PlusLabelLong, PlusLabelMinusNextLong, MinusNextLong:
		return 4
	case PlusLabelMinusNextByte:
		return 1
	default:
		panic("rtasm: unknown fixup kind")
	}
}

// Fixup is a relocation record: apply kind's arithmetic at offset within
// section, once every label is resolved to a load address. label is
// unused (-1) for MinusNextLong.
//
// Grounded on internal/links.L (Sites/Address) and
// internal/isa/x86/linker.go's UpdateFarBranches / UpdateCalls, which
// apply the same kind of displacement patch this generalizes from "one
// relocation kind, always 4 bytes, always a branch target" to the five
// kinds spec.md §3 names.
type Fixup struct {
	Kind    FixupKind
	Section int
	Offset  int
	Label   int // index into Container.labels, or -1.
}
