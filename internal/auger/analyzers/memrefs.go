package analyzers

import "github.com/augerlabs/auger/internal/auger/binview"

// MemoryReference is one load or store recovered from a function block's
// instruction stream, in the external-facing shape spec.md §3 describes.
type MemoryReference struct {
	Address uint64
	Target  uint64
	Size    int // 1, 2, 4, or 8
	IsWrite bool
}

// FindMemoryReferences emits one MemoryReference per Ldx*/Stx* instruction
// across every block, preserving instruction order within each block.
func FindMemoryReferences(blocks []FunctionBlock) []MemoryReference {
	var refs []MemoryReference
	for _, b := range blocks {
		for _, ri := range b.Instructions {
			if size, ok := binview.IsLoad(ri.Inst.Opcode); ok {
				refs = append(refs, MemoryReference{
					Address: ri.Addr,
					Target:  uint64(int64(ri.Inst.Dst) + int64(ri.Inst.Offset)),
					Size:    size,
					IsWrite: false,
				})
			} else if size, ok := binview.IsStore(ri.Inst.Opcode); ok {
				refs = append(refs, MemoryReference{
					Address: ri.Addr,
					Target:  uint64(int64(ri.Inst.Dst) + int64(ri.Inst.Offset)),
					Size:    size,
					IsWrite: true,
				})
			}
		}
	}
	return refs
}
