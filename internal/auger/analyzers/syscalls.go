package analyzers

import (
	"github.com/augerlabs/auger/internal/auger/binview"
	"github.com/augerlabs/auger/internal/auger/memory"
)

// SyscallSite is one resolved syscall call, paired with the synthetic
// single-instruction FunctionBlock and Call edge the analyzer manufactures
// for it per spec.md §4.4.4.
type SyscallSite struct {
	Block *FunctionBlock
	Edge  ControlFlow
	Name  string
	Index int64
}

// FindSyscalls scans mm's instructions for Call sites whose immediate
// matches an entry in mm.SyscallSignatures, synthesizing one single-
// instruction FunctionBlock and one Call edge per match.
func FindSyscalls(mm *memory.Map) []SyscallSite {
	var sites []SyscallSite
	for _, ri := range mm.Instructions {
		if ri.Inst.Opcode != binview.OpCall {
			continue
		}
		idx := int64(ri.Inst.Imm)
		name, ok := mm.SyscallSignatures[idx]
		if !ok {
			continue
		}
		block := &FunctionBlock{
			Address:      ri.Addr,
			Name:         name,
			Size:         8,
			Instructions: []memory.RichInstruction{ri},
		}
		sites = append(sites, SyscallSite{
			Block: block,
			Edge: ControlFlow{
				Kind: EdgeCall, FromAddr: ri.Addr, ToAddr: uint64(idx),
				FromFunc: ri.Addr, ToFunc: uint64(idx),
			},
			Name:  name,
			Index: idx,
		})
	}
	return sites
}
