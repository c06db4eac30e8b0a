// Package elfview implements binview.BinaryView over a real ELF-wrapped SBF
// program using the standard library's debug/elf reader. It is the only
// place in the repository that knows how to turn raw bytes into decoded
// instructions; the core analysis pipeline (internal/auger) never imports
// this package directly — front-ends construct a View and hand it the
// binview.BinaryView interface.
package elfview

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"

	"github.com/augerlabs/auger/internal/auger/binview"
)

// rawInsn mirrors the 8-byte eBPF/SBF instruction encoding: one opcode byte,
// one packed dst/src register byte, a signed 16-bit offset, and a signed
// 32-bit immediate.
type rawInsn struct {
	Code uint8
	Regs uint8
	Off  int16
	Imm  int32
}

// View is a binview.BinaryView backed by a parsed ELF file. It holds no
// reference to the source bytes beyond what debug/elf itself retains.
type View struct {
	file        *elf.File
	programHdrs []binview.ProgramHeader
	sectionHdrs []binview.SectionHeader
	littleEnd   bool
}

// Open parses data as an ELF file and decodes every section's instruction
// stream. Sections that are not executable code (no SHF_EXECINSTR flag) are
// still returned with their raw bytes but an empty Instructions slice; in an
// executable section, trailing bytes short of a full instruction are dropped.
func Open(data []byte) (*View, error) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("elfview: parse ELF: %w", err)
	}

	little := f.ByteOrder == binary.LittleEndian

	v := &View{file: f, littleEnd: little}

	for _, p := range f.Progs {
		v.programHdrs = append(v.programHdrs, binview.ProgramHeader{Offset: p.Off})
	}

	for _, sec := range f.Sections {
		raw, err := sec.Data()
		if err != nil {
			// A section whose data cannot be read (e.g. SHT_NOBITS) still gets
			// a header entry with no raw bytes and no instructions.
			v.sectionHdrs = append(v.sectionHdrs, binview.SectionHeader{
				Label: sec.Name, Offset: sec.Offset,
			})
			continue
		}

		var instrs []binview.DecodedInstruction
		if sec.Flags&elf.SHF_EXECINSTR != 0 {
			instrs = decodeInstructions(raw, f.ByteOrder)
		}

		v.sectionHdrs = append(v.sectionHdrs, binview.SectionHeader{
			Label: sec.Name, Offset: sec.Offset, Raw: raw, Instructions: instrs,
		})
	}

	return v, nil
}

// ProgramHeaders implements binview.BinaryView.
func (v *View) ProgramHeaders() []binview.ProgramHeader { return v.programHdrs }

// SectionHeaders implements binview.BinaryView.
func (v *View) SectionHeaders() []binview.SectionHeader { return v.sectionHdrs }

// LittleEndian implements binview.BinaryView.
func (v *View) LittleEndian() bool { return v.littleEnd }

// decodeInstructions walks raw 8 bytes at a time, expanding to 16 bytes for
// an Lddw (LD_DW_IMM) instruction to consume its second immediate slot. Any
// trailing bytes short of a full instruction are dropped.
func decodeInstructions(raw []byte, bo binary.ByteOrder) []binview.DecodedInstruction {
	var out []binview.DecodedInstruction
	for i := 0; i+8 <= len(raw); {
		var ri rawInsn
		ri.Code = raw[i]
		ri.Regs = raw[i+1]
		ri.Off = int16(bo.Uint16(raw[i+2 : i+4]))
		ri.Imm = int32(bo.Uint32(raw[i+4 : i+8]))

		op := decodeOpcode(ri.Code)
		dst, src := regsLE(ri.Regs, bo)

		inst := binview.DecodedInstruction{
			Opcode: op, Dst: dst, Src: src, Offset: ri.Off, Imm: ri.Imm,
		}

		if op == binview.OpLddw && i+16 <= len(raw) {
			inst.ImmHi = int32(bo.Uint32(raw[i+12 : i+16]))
			i += 16
		} else {
			i += 8
		}

		out = append(out, inst)
	}
	return out
}

func regsLE(regs uint8, bo binary.ByteOrder) (dst, src uint8) {
	if bo == binary.BigEndian {
		return regs >> 4, regs & 0x0F
	}
	return regs & 0x0F, regs >> 4
}

// Classic eBPF opcode byte layout: class in the low 3 bits, then
// instruction-class-specific fields in the upper bits. Only the opcodes
// binview.Opcode names are decoded to named values; everything else is
// Unknown.
const (
	classLd    = 0x00
	classLdx   = 0x01
	classSt    = 0x02
	classStx   = 0x03
	classAlu   = 0x04
	classJmp   = 0x05
	classJmp32 = 0x06
	classAlu64 = 0x07

	sizeW  = 0x00
	sizeH  = 0x08
	sizeB  = 0x10
	sizeDw = 0x18

	modeImm = 0x00
	modeMem = 0x60

	jmpJa   = 0x00
	jmpJeq  = 0x10
	jmpJgt  = 0x20
	jmpJge  = 0x30
	jmpJset = 0x40
	jmpJne  = 0x50
	jmpJlt  = 0xa0
	jmpJle  = 0xb0
	jmpCall = 0x80
	jmpExit = 0x90
	srcK    = 0x00
	srcX    = 0x08
)

func decodeOpcode(code uint8) binview.Opcode {
	class := code & 0x07

	switch class {
	case classLd:
		if code&0xf8 == sizeDw|modeImm {
			return binview.OpLddw
		}
	case classLdx:
		switch code & 0xf8 {
		case sizeW | modeMem:
			return binview.OpLdxw
		case sizeH | modeMem:
			return binview.OpLdxh
		case sizeB | modeMem:
			return binview.OpLdxb
		case sizeDw | modeMem:
			return binview.OpLdxdw
		}
	case classStx:
		switch code & 0xf8 {
		case sizeW | modeMem:
			return binview.OpStxw
		case sizeH | modeMem:
			return binview.OpStxh
		case sizeB | modeMem:
			return binview.OpStxb
		case sizeDw | modeMem:
			return binview.OpStxdw
		}
	case classJmp, classJmp32:
		op := code & 0xf0
		src := code & 0x08
		switch op {
		case jmpJa:
			return binview.OpJa
		case jmpExit:
			return binview.OpExit
		case jmpCall:
			return binview.OpCall
		case jmpJeq:
			if src == srcX {
				return binview.OpJeqReg
			}
			return binview.OpJeqImm
		case jmpJne:
			if src == srcX {
				return binview.OpJneReg
			}
			return binview.OpJneImm
		case jmpJgt:
			if src == srcX {
				return binview.OpJgtReg
			}
			return binview.OpJgtImm
		case jmpJge:
			if src == srcX {
				return binview.OpJgeReg
			}
			return binview.OpJgeImm
		case jmpJlt:
			if src == srcX {
				return binview.OpJltReg
			}
			return binview.OpJltImm
		case jmpJle:
			if src == srcX {
				return binview.OpJleReg
			}
			return binview.OpJleImm
		case jmpJset:
			if src == srcX {
				return binview.OpJsetReg
			}
			return binview.OpJsetImm
		}
	}
	return binview.OpUnknown
}
