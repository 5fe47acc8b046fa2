// Package disasmtest decodes emitted machine code with capstone so tests
// can assert on actual instructions rather than raw byte comparisons.
// Test-only: nothing in the non-test build imports it.
//
// Grounded on disasm/disassemble.go's gapstone.New/engine.Disasm setup in
// the teacher.
package disasmtest

import (
	"testing"

	"github.com/bnagy/gapstone"
)

// Insn is one decoded x86-64 instruction, trimmed to what tests usually
// assert on.
type Insn struct {
	Address uint64
	Mnemonic string
	OpStr    string
	Bytes    []byte
}

// Disassemble decodes b as x86-64 machine code starting at address addr,
// failing the test immediately if capstone can't be initialized. Unlike
// disasm.Fprint in the teacher this returns the raw instruction stream
// instead of formatting it, since tests want to assert on fields, not
// read a printout.
func Disassemble(t *testing.T, b []byte, addr uint64) []Insn {
	t.Helper()

	engine, err := gapstone.New(gapstone.CS_ARCH_X86, gapstone.CS_MODE_64)
	if err != nil {
		t.Fatalf("disasmtest: open capstone engine: %v", err)
	}
	defer engine.Close()

	raw, err := engine.Disasm(b, addr, 0)
	if err != nil {
		t.Fatalf("disasmtest: disassemble: %v", err)
	}

	out := make([]Insn, len(raw))
	for i, insn := range raw {
		out[i] = Insn{
			Address:  uint64(insn.Address),
			Mnemonic: insn.Mnemonic,
			OpStr:    insn.OpStr,
			Bytes:    insn.Bytes,
		}
	}
	return out
}

// Mnemonics returns just the mnemonic of each decoded instruction, the
// common case for asserting a byte sequence decodes to an expected
// instruction sequence (e.g. verifying nopad.Sequence produces genuine
// NOPs and not garbage that happens to be the right length).
func Mnemonics(insns []Insn) []string {
	out := make([]string, len(insns))
	for i, insn := range insns {
		out[i] = insn.Mnemonic
	}
	return out
}
