package types

import (
	"fmt"
	"sort"

	"github.com/augerlabs/auger/internal/auger/binview"
	"github.com/augerlabs/auger/internal/auger/memory"
)

// ResolveStructs groups mm.AccessPatterns by the base register each access's
// instruction addresses off of, and registers one struct RecoveredType per
// group, per spec.md §4.5.2. The access's signed Offset field is its offset
// from that base; no register-value tracking is attempted.
func ResolveStructs(r *Registry, mm *memory.Map) {
	groups := make(map[uint8][]memory.MemoryAccess)
	var bases []uint8
	for _, acc := range mm.AccessPatterns {
		base := acc.Instr.Inst.Dst
		if _, ok := groups[base]; !ok {
			bases = append(bases, base)
		}
		groups[base] = append(groups[base], acc)
	}
	sort.Slice(bases, func(i, j int) bool { return bases[i] < bases[j] })

	for _, base := range bases {
		accesses := groups[base]
		sort.Slice(accesses, func(i, j int) bool {
			return accesses[i].Instr.Inst.Offset < accesses[j].Instr.Inst.Offset
		})

		var fields []Field
		cursor := int64(0)
		for _, acc := range accesses {
			off := int64(acc.Instr.Inst.Offset)
			if off < 0 || off < cursor {
				continue
			}
			fields = append(fields, Field{Offset: uint64(off), Type: fieldType(r, acc, mm)})
			cursor = off + int64(acc.Size)
		}
		if len(fields) == 0 {
			continue
		}

		name := fmt.Sprintf("Struct_%x", base)
		r.Register(name, RecoveredType{
			Kind: KindStruct, Name: name, Fields: fields,
			Size: uint64(cursor), Align: 8,
		})
	}
}

// fieldType derives a field's registry id from the access size, per spec.md
// §4.5.2's size->type table.
func fieldType(r *Registry, acc memory.MemoryAccess, mm *memory.Map) int {
	switch acc.Size {
	case 1:
		return r.Lookup("u8")
	case 2:
		return r.Lookup("u16")
	case 4:
		if isCharAccess(acc) {
			return r.Lookup("char")
		}
		return r.Lookup("u32")
	case 8:
		if isPointerToString(acc) {
			return r.Register("string", RecoveredType{Kind: KindString, Name: "string", Size: 24, Align: 8})
		}
		return r.Lookup("u64")
	default:
		return r.Lookup("u8")
	}
}

// isCharAccess reports whether acc's instruction is a JeqImm/JneImm comparing
// against an immediate in the printable ASCII range.
func isCharAccess(acc memory.MemoryAccess) bool {
	op := acc.Instr.Inst.Opcode
	if op != binview.OpJeqImm && op != binview.OpJneImm {
		return false
	}
	imm := acc.Instr.Inst.Imm
	return imm >= 0x20 && imm <= 0x7E
}

// isPointerToString reports whether acc's instruction carries a resolved
// string DataReference.
func isPointerToString(acc memory.MemoryAccess) bool {
	return acc.Instr.Ref != nil && acc.Instr.Ref.Kind == memory.RefString
}
