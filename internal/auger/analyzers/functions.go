// Package analyzers walks a memory.Map to synthesize function blocks, the
// control-flow graph between them, memory-reference patterns, and
// syscall-call sites.
package analyzers

import (
	"fmt"
	"sort"

	"github.com/augerlabs/auger/internal/auger/binview"
	"github.com/augerlabs/auger/internal/auger/memory"
)

// FunctionBlock is a contiguous run of instructions treated as one function,
// as synthesized by DiscoverFunctions. Size is measured in bytes but —
// preserved as a deliberate quirk, see spec.md §9 — omits the head
// instruction's own 8 bytes.
type FunctionBlock struct {
	Address      uint64
	Name         string
	Size         uint64
	Instructions []memory.RichInstruction
}

// DiscoverFunctions walks mm.Instructions in address order. An instruction
// starts a new block when it is the first instruction, when the previous
// instruction's opcode was an unconditional jump or exit, or when some Call
// instruction anywhere in the stream targets its address. Every other
// instruction is appended to the current block.
func DiscoverFunctions(mm *memory.Map) []FunctionBlock {
	instrs := sortedInstructions(mm)
	if len(instrs) == 0 {
		return nil
	}

	callTargets := make(map[uint64]bool)
	for _, ri := range instrs {
		if ri.Inst.Opcode == binview.OpCall {
			callTargets[uint64(int64(ri.Inst.Imm))] = true
		}
	}

	var blocks []FunctionBlock
	var cur *FunctionBlock

	closeCurrent := func() {
		if cur != nil {
			blocks = append(blocks, *cur)
			cur = nil
		}
	}

	for i, ri := range instrs {
		isHead := i == 0
		if i > 0 {
			prevOp := instrs[i-1].Inst.Opcode
			if prevOp == binview.OpJa || prevOp == binview.OpExit {
				isHead = true
			}
		}
		if !isHead && callTargets[ri.Addr] {
			isHead = true
		}

		if isHead {
			closeCurrent()
			cur = &FunctionBlock{
				Address:      ri.Addr,
				Name:         fmt.Sprintf("func_%x", ri.Addr),
				Size:         0,
				Instructions: []memory.RichInstruction{ri},
			}
			continue
		}

		cur.Instructions = append(cur.Instructions, ri)
		cur.Size += 8
	}
	closeCurrent()

	return blocks
}

func sortedInstructions(mm *memory.Map) []memory.RichInstruction {
	out := append([]memory.RichInstruction(nil), mm.Instructions...)
	sort.Slice(out, func(i, j int) bool { return out[i].Addr < out[j].Addr })
	return out
}
