package rtasm

import (
	"encoding/binary"
	"testing"

	"github.com/go-jit/rtasm/internal/disasmtest"
	"golang.org/x/xerrors"
)

func TestEmptyContainer(t *testing.T) {
	c := New()
	if got := c.Size(); got != 0 {
		t.Fatalf("Size() = %d, want 0", got)
	}
	if err := c.Load(nil); err != nil {
		t.Fatalf("Load(nil) = %v, want nil", err)
	}
}

func TestSingleRetByte(t *testing.T) {
	c := New()
	text := c.Text()
	text.Reserve(1).PutB(0xc3)

	if got := c.Size(); got != 1 {
		t.Fatalf("Size() = %d, want 1", got)
	}

	dst := make([]byte, c.Size())
	if err := c.Load(dst); err != nil {
		t.Fatal(err)
	}
	insns := disasmtest.Disassemble(t, dst, 0)
	if len(insns) != 1 || insns[0].Mnemonic != "retq" && insns[0].Mnemonic != "ret" {
		t.Fatalf("decoded %v, want a single ret", disasmtest.Mnemonics(insns))
	}
}

func TestForwardJumpViaRelB(t *testing.T) {
	c := New()
	text := c.Text()

	target := c.NewLabel()
	text.Reserve(2).PutB(0xeb) // jmp rel8
	text.RelB(target, 0)
	text.Reserve(1)
	text.Define(target, 0)
	text.PutB(0x90) // nop, the jump target

	dst := make([]byte, c.Size())
	if err := c.Load(dst); err != nil {
		t.Fatal(err)
	}
	// jmp rel8 +0 jumps over nothing: byte 1 (the displacement) should
	// equal 0 since the target immediately follows the instruction.
	if dst[1] != 0 {
		t.Fatalf("relative displacement = %d, want 0", int8(dst[1]))
	}
}

func TestTextAndRoDataLayout(t *testing.T) {
	c := New()
	text := c.Text()
	text.Reserve(3).PutB(1).PutB(2).PutB(3)

	rodata := c.RoData()
	rodata.Reserve(4).PutL(0xdeadbeef)

	size := c.Size()
	wantSize := roundUp(3, CachelineSize) + 4
	if size != wantSize {
		t.Fatalf("Size() = %d, want %d (3 text bytes rounded to a cache line, then 4 rodata bytes)", size, wantSize)
	}
}

func TestAbsoluteLabelLoad(t *testing.T) {
	c := New()
	target := c.Text().DefineNew()

	text2 := c.Text()
	text2.Reserve(2 + 8).PutSwW(0x6690).LabelQ(target, 0)

	dst := make([]byte, c.Size())
	if err := c.Load(dst); err != nil {
		t.Fatal(err)
	}
	if dst[0] != 0x66 || dst[1] != 0x90 {
		t.Fatalf("PutSwW(0x6690) wrote % x, want 66 90", dst[:2])
	}
	// target sits at offset 0 of the first (empty) section, so its load
	// address is the start of dst.
	if got, want := binary.LittleEndian.Uint64(dst[2:10]), uint64(addrOfTest(dst)); got != want {
		t.Fatalf("LabelQ(target, 0) wrote %#x, want target address %#x", got, want)
	}
}

func TestAlignPadsWithNops(t *testing.T) {
	c := New()
	text := c.Text()
	text.Reserve(1).PutB(0x90)
	text.Align(16, 64)

	if text.Alignment() != 16 {
		t.Fatalf("Alignment() = %d, want 16", text.Alignment())
	}
	if text.Size()%16 != 0 {
		t.Fatalf("Size() = %d, not a multiple of 16", text.Size())
	}

	dst := make([]byte, c.Size())
	if err := c.Load(dst); err != nil {
		t.Fatal(err)
	}
	insns := disasmtest.Disassemble(t, dst, 0)
	for _, m := range disasmtest.Mnemonics(insns)[1:] {
		if m != "nop" {
			t.Fatalf("alignment padding decoded as %q, want nop", m)
		}
	}
}

func TestAlignSkipsWhenPadExceedsMax(t *testing.T) {
	c := New()
	text := c.Text()
	text.Reserve(1).PutB(0x90)
	before := text.Size()
	text.Align(64, 1) // needs 63 bytes of pad, only 1 allowed.
	if text.Size() != before {
		t.Fatalf("Align with insufficient max budget changed size: %d -> %d", before, text.Size())
	}
}

func TestReserveCapacityExceeded(t *testing.T) {
	c := New()
	text := c.Text()
	err := Emit(func() { text.Reserve(MaxSectionSize + 1) })
	if !xerrors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("got %v, want ErrCapacityExceeded", err)
	}
}

func TestForeignLabelAssertion(t *testing.T) {
	a := New()
	b := New()
	label := b.NewLabel()

	err := Emit(func() {
		a.Text().Reserve(4).LabelL(label, 0)
	})
	if !xerrors.Is(err, ErrContractViolation) {
		t.Fatalf("got %v, want ErrContractViolation", err)
	}
}
