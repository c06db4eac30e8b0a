package types

import (
	"sort"

	"github.com/augerlabs/auger/internal/auger/binview"
	"github.com/augerlabs/auger/internal/auger/memory"
)

// ResolveStdlib detects String/Vec/HashMap layouts by fixed three- or
// four-slot patterns of consecutive Ldxdw accesses at offsets 0/8/16 (and
// 24) from a common base register, per spec.md §4.5.3.
func ResolveStdlib(r *Registry, mm *memory.Map) {
	groups := make(map[uint8]map[int16]bool)
	var bases []uint8
	for _, acc := range mm.AccessPatterns {
		if acc.Instr.Inst.Opcode != binview.OpLdxdw {
			continue
		}
		off := acc.Instr.Inst.Offset
		if off != 0 && off != 8 && off != 16 && off != 24 {
			continue
		}
		base := acc.Instr.Inst.Dst
		if groups[base] == nil {
			groups[base] = make(map[int16]bool)
			bases = append(bases, base)
		}
		groups[base][off] = true
	}
	sort.Slice(bases, func(i, j int) bool { return bases[i] < bases[j] })

	for _, base := range bases {
		offs := groups[base]
		has3 := offs[0] && offs[8] && offs[16]
		has4 := has3 && offs[24]

		if has4 {
			r.Register("std::collections::HashMap", RecoveredType{
				Kind: KindStruct, Name: "std::collections::HashMap<K, V>", Size: 32, Align: 8,
			})
			continue
		}
		if has3 {
			r.Register("std::string::String", RecoveredType{
				Kind: KindString, Name: "std::string::String", Size: 24, Align: 8,
			})
			r.Register("std::vec::Vec", RecoveredType{
				Kind: KindVector, Name: "std::vec::Vec<T>", Size: 24, Align: 8,
			})
		}
	}
}
