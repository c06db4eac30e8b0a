package elfview

import (
	"encoding/binary"
	"testing"

	"github.com/augerlabs/auger/internal/auger/binview"
)

func TestDecodeOpcode(t *testing.T) {
	cases := []struct {
		name string
		code uint8
		want binview.Opcode
	}{
		{"lddw", classLd | sizeDw | modeImm, binview.OpLddw},
		{"ldxw", classLdx | sizeW | modeMem, binview.OpLdxw},
		{"ldxdw", classLdx | sizeDw | modeMem, binview.OpLdxdw},
		{"stxb", classStx | sizeB | modeMem, binview.OpStxb},
		{"ja", classJmp | jmpJa, binview.OpJa},
		{"exit", classJmp | jmpExit, binview.OpExit},
		{"call", classJmp | jmpCall, binview.OpCall},
		{"jeq imm", classJmp | jmpJeq | srcK, binview.OpJeqImm},
		{"jeq reg", classJmp | jmpJeq | srcX, binview.OpJeqReg},
		{"jset imm (jmp32)", classJmp32 | jmpJset | srcK, binview.OpJsetImm},
		{"unknown alu", classAlu, binview.OpUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := decodeOpcode(c.code); got != c.want {
				t.Errorf("decodeOpcode(%#02x) = %v, want %v", c.code, got, c.want)
			}
		})
	}
}

func TestRegsLE(t *testing.T) {
	dst, src := regsLE(0x21, binary.LittleEndian) // dst=1, src=2
	if dst != 1 || src != 2 {
		t.Errorf("regsLE little endian = (%d, %d), want (1, 2)", dst, src)
	}
	dst, src = regsLE(0x21, binary.BigEndian) // dst=2, src=1
	if dst != 2 || src != 1 {
		t.Errorf("regsLE big endian = (%d, %d), want (2, 1)", dst, src)
	}
}

func TestDecodeInstructionsLddwConsumesTwoSlots(t *testing.T) {
	raw := make([]byte, 16)
	raw[0] = classLd | sizeDw | modeImm
	raw[1] = 0x01 // dst=1, src=0 (LE)
	binary.LittleEndian.PutUint32(raw[4:8], 0x1111)
	binary.LittleEndian.PutUint32(raw[12:16], 0x2222)

	instrs := decodeInstructions(raw, binary.LittleEndian)
	if len(instrs) != 1 {
		t.Fatalf("len(instrs) = %d, want 1", len(instrs))
	}
	if instrs[0].Opcode != binview.OpLddw {
		t.Errorf("Opcode = %v, want Lddw", instrs[0].Opcode)
	}
	if instrs[0].Dst != 1 {
		t.Errorf("Dst = %d, want 1", instrs[0].Dst)
	}
	want := uint64(0x2222)<<32 | 0x1111
	if got := instrs[0].Imm64(); got != want {
		t.Errorf("Imm64() = %#x, want %#x", got, want)
	}
}

func TestDecodeInstructionsEightByteForm(t *testing.T) {
	raw := make([]byte, 8)
	raw[0] = classJmp | jmpExit
	instrs := decodeInstructions(raw, binary.LittleEndian)
	if len(instrs) != 1 {
		t.Fatalf("len(instrs) = %d, want 1", len(instrs))
	}
	if instrs[0].Opcode != binview.OpExit {
		t.Errorf("Opcode = %v, want Exit", instrs[0].Opcode)
	}
}

func TestDecodeInstructionsDropsTrailingPartialInstruction(t *testing.T) {
	raw := make([]byte, 12) // one full 8-byte insn + 4 trailing bytes
	raw[0] = classJmp | jmpExit
	instrs := decodeInstructions(raw, binary.LittleEndian)
	if len(instrs) != 1 {
		t.Fatalf("len(instrs) = %d, want 1 (trailing bytes dropped)", len(instrs))
	}
}
