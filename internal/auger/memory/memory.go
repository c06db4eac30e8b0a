// Package memory builds and holds the MemoryMap: the single shared substrate
// that every downstream analyzer and resolver reads from. It is built once,
// from a binview.BinaryView, and never mutated afterwards.
package memory

import (
	"sort"

	"github.com/augerlabs/auger/internal/auger/binview"
)

// DataReferenceKind tags the variant carried by a DataReference.
type DataReferenceKind int

const (
	RefString DataReferenceKind = iota
	RefInteger
	RefFunction
	RefUnknown
)

// DataReference is the resolved target of an Lddw immediate, when one could
// be bound.
type DataReference struct {
	Kind    DataReferenceKind
	Str     string
	Integer int64
	Func    string
	Addr    uint64
}

// RichInstruction is a decoded instruction tagged with its absolute address
// within the section it came from, and an optional resolved data reference.
type RichInstruction struct {
	Addr uint64
	Inst binview.DecodedInstruction
	Ref  *DataReference
}

// AccessKind distinguishes a memory read from a memory write.
type AccessKind int

const (
	AccessRead AccessKind = iota
	AccessWrite
)

// MemoryAccess is one load/store observed in the instruction stream.
type MemoryAccess struct {
	Address uint64
	Kind    AccessKind
	Size    int
	Instr   RichInstruction
}

// Section is the decoded form of one ELF section as held in the map.
type Section struct {
	Label        string
	Base         uint64
	Size         uint64
	Instructions []binview.DecodedInstruction
	Raw          []byte
}

// Map is the shared, read-only-after-construction substrate built once per
// analysis from a binview.BinaryView. All downstream components read from it
// through value or pointer receivers; none retain a reference past the call
// that handed it to them.
type Map struct {
	Sections          map[string]Section
	Strings           map[uint64]string
	References        map[uint64][]uint64 // target addr -> referencing instruction addrs
	Instructions      []RichInstruction
	AccessPatterns    []MemoryAccess
	SyscallSignatures map[int64]string
}

// Build constructs a Map from view. Sections are processed in their declared
// order; instruction addresses accumulate a per-section cursor starting at
// each section's file offset, advancing 16 bytes for Lddw and 8 otherwise.
// After every section's instructions are recorded, every non-.text section
// is scanned for printable strings; .text is then re-walked to bind Lddw
// immediates against those discovered string addresses.
func Build(view binview.BinaryView) *Map {
	m := &Map{
		Sections:          make(map[string]Section),
		Strings:           make(map[uint64]string),
		References:        make(map[uint64][]uint64),
		SyscallSignatures: defaultSyscalls(),
	}

	for _, sh := range view.SectionHeaders() {
		cursor := sh.Offset
		for _, inst := range sh.Instructions {
			addr := cursor
			m.Instructions = append(m.Instructions, RichInstruction{Addr: addr, Inst: inst})
			cursor += uint64(binview.InstrSize(inst.Opcode))
		}
		size := cursor - sh.Offset
		m.Sections[sh.Label] = Section{
			Label:        sh.Label,
			Base:         sh.Offset,
			Size:         size,
			Instructions: sh.Instructions,
			Raw:          sh.Raw,
		}
	}

	for label, sec := range m.Sections {
		if label == ".text" {
			continue
		}
		scanStrings(sec, m.Strings)
	}

	m.bindTextReferences()
	m.buildAccessPatterns()

	return m
}

// scanStrings records every maximal run of printable ASCII (0x20..0x7E plus
// tab/newline) of length >= 4 terminated by a null byte, keyed by its
// absolute address within sec.
func scanStrings(sec Section, out map[uint64]string) {
	raw := sec.Raw
	i := 0
	for i < len(raw) {
		if !isPrintableByte(raw[i]) {
			i++
			continue
		}
		start := i
		for i < len(raw) && isPrintableByte(raw[i]) {
			i++
		}
		runLen := i - start
		if i < len(raw) && raw[i] == 0 && runLen >= 4 {
			out[sec.Base+uint64(start)] = string(raw[start:i])
		}
		i++
	}
}

func isPrintableByte(b byte) bool {
	return (b >= 0x20 && b <= 0x7E) || b == '\t' || b == '\n'
}

// bindTextReferences re-walks each instruction belonging to a .text section
// and, for every Lddw whose 64-bit immediate matches a known string address,
// records a String DataReference on that RichInstruction and a back-reference
// in m.References.
func (m *Map) bindTextReferences() {
	text, ok := m.Sections[".text"]
	if !ok {
		return
	}
	for i := range m.Instructions {
		ri := &m.Instructions[i]
		if ri.Inst.Opcode != binview.OpLddw {
			continue
		}
		if ri.Addr < text.Base || ri.Addr >= text.Base+text.Size {
			continue
		}
		target := ri.Inst.Imm64()
		if s, ok := m.Strings[target]; ok {
			ri.Ref = &DataReference{Kind: RefString, Str: s, Addr: target}
			m.References[target] = append(m.References[target], ri.Addr)
		}
	}
}

// buildAccessPatterns extracts one MemoryAccess per load/store instruction in
// the full instruction stream, in address order.
func (m *Map) buildAccessPatterns() {
	sortInstructions := append([]RichInstruction(nil), m.Instructions...)
	sort.Slice(sortInstructions, func(i, j int) bool { return sortInstructions[i].Addr < sortInstructions[j].Addr })

	for _, ri := range sortInstructions {
		if size, ok := binview.IsLoad(ri.Inst.Opcode); ok {
			m.AccessPatterns = append(m.AccessPatterns, MemoryAccess{
				Address: uint64(int64(ri.Inst.Dst) + int64(ri.Inst.Offset)),
				Kind:    AccessRead,
				Size:    size,
				Instr:   ri,
			})
		} else if size, ok := binview.IsStore(ri.Inst.Opcode); ok {
			m.AccessPatterns = append(m.AccessPatterns, MemoryAccess{
				Address: uint64(int64(ri.Inst.Dst) + int64(ri.Inst.Offset)),
				Kind:    AccessWrite,
				Size:    size,
				Instr:   ri,
			})
		}
	}
}

// defaultSyscalls seeds the fixed numeric syscall mapping from spec.md
// §4.4.4. Callers may extend it after Build returns.
func defaultSyscalls() map[int64]string {
	return map[int64]string{
		0:  "entrypoint",
		1:  "sol_log_",
		2:  "sol_log_64_",
		3:  "sol_invoke_signed_c",
		4:  "sol_pubkey_",
		5:  "sol_alloc_free_",
		6:  "sol_keccak256_",
		7:  "sol_secp256k1_recover_",
		8:  "sol_create_program_address_",
		9:  "sol_try_find_program_address_",
		10: "sol_sha256_",
		11: "sol_blake3_",
	}
}
