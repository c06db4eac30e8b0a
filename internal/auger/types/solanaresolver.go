package types

import "github.com/augerlabs/auger/internal/auger/memory"

// ResolveSolana groups mm.AccessPatterns by base register and flags probable
// Pubkey (32-byte span), AccountInfo (48-byte span), and instruction-data
// buffer (12-byte span) layouts, registering a canonical type for each one
// observed (a 32-byte array for Pubkey, structs for the other two), per
// spec.md §4.5.4.
func ResolveSolana(r *Registry, mm *memory.Map) {
	type span struct {
		lo, hi int64 // [lo, hi)
	}
	spans := make(map[uint8]*span)

	for _, acc := range mm.AccessPatterns {
		base := acc.Instr.Inst.Dst
		off := int64(acc.Instr.Inst.Offset)
		if off < 0 {
			continue
		}
		s, ok := spans[base]
		if !ok {
			s = &span{lo: off, hi: off + int64(acc.Size)}
			spans[base] = s
			continue
		}
		if off < s.lo {
			s.lo = off
		}
		if end := off + int64(acc.Size); end > s.hi {
			s.hi = end
		}
	}

	var sawPubkey, sawAccountInfo, sawInstructionData bool
	for _, s := range spans {
		switch s.hi - s.lo {
		case 32:
			sawPubkey = true
		case 48:
			sawAccountInfo = true
		case 12:
			sawInstructionData = true
		}
	}

	if sawPubkey {
		r.Register("solana_program::pubkey::Pubkey", RecoveredType{
			Kind: KindArray, Name: "solana_program::pubkey::Pubkey",
			Size: 32, Align: 1, Length: 32, Stride: 1,
		})
	}
	if sawAccountInfo {
		r.Register("solana_program::account_info::AccountInfo", RecoveredType{
			Kind: KindStruct, Name: "solana_program::account_info::AccountInfo",
			Size: 48, Align: 8,
		})
	}
	if sawInstructionData {
		r.Register("InstructionData", RecoveredType{
			Kind: KindStruct, Name: "InstructionData",
			Size: 12, Align: 4,
		})
	}
}
