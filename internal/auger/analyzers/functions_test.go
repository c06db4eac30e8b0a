package analyzers

import (
	"testing"

	"github.com/augerlabs/auger/internal/auger/binview"
	"github.com/augerlabs/auger/internal/auger/memory"
)

func instrAt(addr uint64, op binview.Opcode, imm int32) memory.RichInstruction {
	return memory.RichInstruction{Addr: addr, Inst: binview.DecodedInstruction{Opcode: op, Imm: imm}}
}

// TestDiscoverFunctionsPartitionsEveryInstructionExactlyOnce covers spec §8
// property 1: every instruction in the memory map is assigned to exactly one
// block, and no address is duplicated across blocks.
func TestDiscoverFunctionsPartitionsEveryInstructionExactlyOnce(t *testing.T) {
	// 0: head (first instruction)
	// 8: call to 32 (makes 32 a head)
	// 16: unconditional jump (makes 24 a head)
	// 24: new head after Ja
	// 32: head because it's a call target
	mm := &memory.Map{
		Instructions: []memory.RichInstruction{
			instrAt(0, binview.OpCall, 32),
			instrAt(8, binview.OpCall, 32),
			instrAt(16, binview.OpJa, 0),
			instrAt(24, binview.OpCall, 32),
			instrAt(32, binview.OpExit, 0),
		},
	}

	blocks := DiscoverFunctions(mm)

	seen := make(map[uint64]bool)
	total := 0
	for _, b := range blocks {
		for _, ri := range b.Instructions {
			if seen[ri.Addr] {
				t.Fatalf("address %#x appears in more than one block", ri.Addr)
			}
			seen[ri.Addr] = true
			total++
		}
	}

	if total != len(mm.Instructions) {
		t.Fatalf("total instructions across blocks = %d, want %d", total, len(mm.Instructions))
	}
	for _, ri := range mm.Instructions {
		if !seen[ri.Addr] {
			t.Errorf("instruction at %#x missing from any block", ri.Addr)
		}
	}
}

func TestDiscoverFunctionsStartsNewBlockAtCallTarget(t *testing.T) {
	mm := &memory.Map{
		Instructions: []memory.RichInstruction{
			instrAt(0, binview.OpCall, 16),
			instrAt(8, binview.OpExit, 0),
			instrAt(16, binview.OpExit, 0),
		},
	}

	blocks := DiscoverFunctions(mm)

	var heads []uint64
	for _, b := range blocks {
		heads = append(heads, b.Address)
	}
	wantHeads := map[uint64]bool{0: true, 16: true}
	if len(heads) != len(wantHeads) {
		t.Fatalf("block heads = %v, want heads at %v", heads, wantHeads)
	}
	for _, h := range heads {
		if !wantHeads[h] {
			t.Errorf("unexpected block head %#x", h)
		}
	}
}

func TestDiscoverFunctionsEmptyMap(t *testing.T) {
	if got := DiscoverFunctions(&memory.Map{}); got != nil {
		t.Errorf("DiscoverFunctions(empty) = %v, want nil", got)
	}
}
