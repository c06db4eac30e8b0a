package analyzers

import "github.com/augerlabs/auger/internal/auger/binview"

// EdgeKind tags a ControlFlow edge's variant.
type EdgeKind int

const (
	EdgeCall EdgeKind = iota
	EdgeJump
)

// ControlFlow is one edge in the recovered call/jump graph.
type ControlFlow struct {
	Kind        EdgeKind
	FromAddr    uint64
	ToAddr      uint64
	FromFunc    uint64
	ToFunc      uint64
	Conditional bool // only meaningful for EdgeJump
}

// MapControlFlow walks every instruction in every block and emits a Call
// edge for each Call instruction whose immediate matches a known block
// address, and a Jump edge for each (un)conditional jump whose computed
// target matches a known block address.
func MapControlFlow(blocks []FunctionBlock) []ControlFlow {
	heads := make(map[uint64]uint64) // address -> block head address (identity map, kept for clarity)
	for _, b := range blocks {
		heads[b.Address] = b.Address
	}

	var edges []ControlFlow
	for _, b := range blocks {
		for _, ri := range b.Instructions {
			op := ri.Inst.Opcode
			switch {
			case op == binview.OpCall:
				target := uint64(int64(ri.Inst.Imm))
				if _, ok := heads[target]; ok {
					edges = append(edges, ControlFlow{
						Kind: EdgeCall, FromAddr: ri.Addr, ToAddr: target,
						FromFunc: b.Address, ToFunc: target,
					})
				}
			case binview.IsConditionalJump(op):
				target := jumpTarget(ri.Addr, ri.Inst.Imm)
				if _, ok := heads[target]; ok {
					edges = append(edges, ControlFlow{
						Kind: EdgeJump, FromAddr: ri.Addr, ToAddr: target,
						FromFunc: b.Address, ToFunc: target, Conditional: true,
					})
				}
			case op == binview.OpJa || op == binview.OpExit:
				target := jumpTarget(ri.Addr, ri.Inst.Imm)
				if _, ok := heads[target]; ok {
					edges = append(edges, ControlFlow{
						Kind: EdgeJump, FromAddr: ri.Addr, ToAddr: target,
						FromFunc: b.Address, ToFunc: target, Conditional: false,
					})
				}
			}
		}
	}
	return edges
}

// jumpTarget computes addr + 8 + imm, wrapping on unsigned 64-bit as spec.md
// §4.4.2 requires.
func jumpTarget(addr uint64, imm int32) uint64 {
	return addr + 8 + uint64(int64(imm))
}
