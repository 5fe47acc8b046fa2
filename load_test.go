package rtasm

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"golang.org/x/xerrors"
)

func TestLoadPlusLabelQuad(t *testing.T) {
	c := New()
	target := c.Text().DefineNew() // placed at offset 0 of its own section.
	text := c.Text()
	text.Reserve(8).LabelQ(target, 100)

	dst := make([]byte, c.Size())
	if err := c.Load(dst); err != nil {
		t.Fatal(err)
	}

	base := addrOfTest(dst)
	targetAddr := base // target's section is laid out first, at offset 0.
	site := len(dst) - 8
	got := binary.LittleEndian.Uint64(dst[site:])
	want := uint64(100) + uint64(targetAddr)
	if got != want {
		t.Fatalf("PlusLabelQuad: got %#x, want %#x", got, want)
	}
}

func TestLoadMinusNextLong(t *testing.T) {
	c := New()
	text := c.Text()
	text.Reserve(4).RelLRaw(0)

	dst := make([]byte, c.Size())
	base := addrOfTest(dst)
	if err := c.Load(dst); err != nil {
		t.Fatal(err)
	}

	got := int32(binary.LittleEndian.Uint32(dst))
	site := uint64(base)
	next := site + 4
	want := int32(uint64(0) - next)
	if got != want {
		t.Fatalf("MinusNextLong: got %d, want %d", got, want)
	}
}

func TestLoadUnplacedLabelIsContractViolation(t *testing.T) {
	c := New()
	label := c.NewLabel()
	c.Text().Reserve(4).LabelL(label, 0)

	dst := make([]byte, c.Size())
	if err := c.Load(dst); !xerrors.Is(err, ErrContractViolation) {
		t.Fatalf("Load with an unplaced label: got %v, want ErrContractViolation under debug assertions", err)
	}
}

// addrOfTest mirrors Load's own uintptr extraction, used here only to
// predict what Load will compute internally.
func addrOfTest(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
