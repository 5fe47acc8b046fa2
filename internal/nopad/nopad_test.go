package nopad

import (
	"testing"

	"github.com/go-jit/rtasm/internal/disasmtest"
)

func TestSequenceLength(t *testing.T) {
	for pad := 0; pad <= 64; pad++ {
		if got := len(Sequence(pad)); got != pad {
			t.Errorf("Sequence(%d): got %d bytes, want %d", pad, got, pad)
		}
	}
}

func TestSequenceDecodesAsNops(t *testing.T) {
	for _, pad := range []int{0, 1, 5, 9, 10, 11, 20, 27, 64} {
		seq := Sequence(pad)
		if len(seq) == 0 {
			continue
		}
		insns := disasmtest.Disassemble(t, seq, 0)
		total := 0
		for _, insn := range insns {
			if insn.Mnemonic != "nop" {
				t.Fatalf("Sequence(%d): non-nop instruction %q %q", pad, insn.Mnemonic, insn.OpStr)
			}
			total += len(insn.Bytes)
		}
		if total != pad {
			t.Fatalf("Sequence(%d): decoded instructions cover %d bytes, want %d", pad, total, pad)
		}
	}
}

func TestSequencePanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on negative pad")
		}
	}()
	Sequence(-1)
}
