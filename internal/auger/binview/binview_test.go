package binview

import "testing"

func TestIsConditionalJump(t *testing.T) {
	cases := []struct {
		op   Opcode
		want bool
	}{
		{OpJeqImm, true},
		{OpJsetReg, true},
		{OpJa, false},
		{OpExit, false},
		{OpCall, false},
		{OpLddw, false},
	}
	for _, c := range cases {
		if got := IsConditionalJump(c.op); got != c.want {
			t.Errorf("IsConditionalJump(%v) = %v, want %v", c.op, got, c.want)
		}
	}
}

func TestIsLoad(t *testing.T) {
	cases := []struct {
		op       Opcode
		wantSize int
		wantOK   bool
	}{
		{OpLdxb, 1, true},
		{OpLdxh, 2, true},
		{OpLdxw, 4, true},
		{OpLdxdw, 8, true},
		{OpStxw, 0, false},
		{OpJa, 0, false},
	}
	for _, c := range cases {
		size, ok := IsLoad(c.op)
		if size != c.wantSize || ok != c.wantOK {
			t.Errorf("IsLoad(%v) = (%d, %v), want (%d, %v)", c.op, size, ok, c.wantSize, c.wantOK)
		}
	}
}

func TestIsStore(t *testing.T) {
	cases := []struct {
		op       Opcode
		wantSize int
		wantOK   bool
	}{
		{OpStxb, 1, true},
		{OpStxh, 2, true},
		{OpStxw, 4, true},
		{OpStxdw, 8, true},
		{OpLdxw, 0, false},
	}
	for _, c := range cases {
		size, ok := IsStore(c.op)
		if size != c.wantSize || ok != c.wantOK {
			t.Errorf("IsStore(%v) = (%d, %v), want (%d, %v)", c.op, size, ok, c.wantSize, c.wantOK)
		}
	}
}

func TestInstrSize(t *testing.T) {
	if got := InstrSize(OpLddw); got != 16 {
		t.Errorf("InstrSize(Lddw) = %d, want 16", got)
	}
	if got := InstrSize(OpExit); got != 8 {
		t.Errorf("InstrSize(Exit) = %d, want 8", got)
	}
}

func TestImm64(t *testing.T) {
	d := DecodedInstruction{Opcode: OpLddw, Imm: 0x0000_00FF, ImmHi: 0x0000_00AA}
	want := uint64(0xAA) << 32
	want |= 0xFF
	if got := d.Imm64(); got != want {
		t.Errorf("Imm64() = %#x, want %#x", got, want)
	}
}

func TestSectionHeaderUTF8(t *testing.T) {
	s := SectionHeader{Raw: []byte("hello")}
	if got := s.UTF8(); got != "hello" {
		t.Errorf("UTF8() = %q, want %q", got, "hello")
	}
}
