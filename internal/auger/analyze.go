// Package auger is the core analysis pipeline: binary sectioning and text
// extraction, symbol demangling, framework parsing, and the code analyzers
// and type resolvers that together produce an AnalysisReport. It depends on
// nothing but the abstract binview.BinaryView; callers supply a concrete
// implementation (internal/elfview for ELF) and own everything about how the
// bytes were obtained.
package auger

import (
	"fmt"
	"sort"

	"github.com/augerlabs/auger/internal/auger/analyzers"
	"github.com/augerlabs/auger/internal/auger/binview"
	"github.com/augerlabs/auger/internal/auger/memory"
	"github.com/augerlabs/auger/internal/auger/parsing"
	"github.com/augerlabs/auger/internal/auger/report"
	"github.com/augerlabs/auger/internal/auger/types"
)

// Analyze runs the full pipeline over data, using view to decode sections
// and program headers, and cfg to control extraction and type recovery. It
// is the single entry point every front-end collaborator (CLI, HTTP server)
// calls; per spec.md §5 it is synchronous and single-threaded, and never
// mutates data or view.
func Analyze(data []byte, view binview.BinaryView, cfg Config) (*report.AnalysisReport, *Error) {
	extracted, err := ExtractPrintableText(data, view.ProgramHeaders(), cfg)
	if err != nil {
		return nil, err
	}

	mm := memory.Build(view)

	driver := parsing.NewDriver("")
	result := driver.Run(extracted.Text, mm)

	blocks := analyzers.DiscoverFunctions(mm)
	syscallSites := analyzers.FindSyscalls(mm)

	seen := make(map[uint64]bool, len(blocks))
	for _, b := range blocks {
		seen[b.Address] = true
	}

	edges := analyzers.MapControlFlow(blocks)
	for _, site := range syscallSites {
		edges = append(edges, site.Edge)
		if seen[site.Block.Address] {
			continue
		}
		blocks = append(blocks, *site.Block)
		seen[site.Block.Address] = true
	}

	refs := analyzers.FindMemoryReferences(blocks)

	var typeReport string
	if cfg.RecoverTypes {
		reg := types.NewRegistry()
		types.Resolve(reg, mm)
		typeReport = types.Report(reg)
	}

	return assembleReport(extracted, result, blocks, mm, typeReport, edges, refs), nil
}

// assembleReport maps every intermediate stage's output into the external
// AnalysisReport shape spec.md §6 fixes.
func assembleReport(
	extracted ExtractResult,
	result parsing.Result,
	blocks []analyzers.FunctionBlock,
	mm *memory.Map,
	typeReport string,
	edges []analyzers.ControlFlow,
	refs []analyzers.MemoryReference,
) *report.AnalysisReport {
	instructions := sortedKeys(result.Instructions)
	protected := sortedKeys(result.ProtectedInstructions)

	defs := make([]report.Definition, 0, len(result.Definitions))
	for _, d := range result.Definitions {
		defs = append(defs, report.Definition{Ident: d.Ident, Kind: d.Kind, Hash: d.Hash})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Ident < defs[j].Ident })

	files := make([]report.SourceFile, 0, len(result.SourceFiles))
	for _, f := range result.SourceFiles {
		files = append(files, report.SourceFile{Path: f.Path, Project: f.Project, RelativePath: f.RelativePath})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	disasm := disassemble(blocks)

	strs := make([]report.StringRef, 0, len(mm.Strings))
	for addr, content := range mm.Strings {
		strs = append(strs, report.StringRef{
			Address:      addr,
			Content:      content,
			ReferencedBy: append([]uint64(nil), mm.References[addr]...),
		})
	}
	sort.Slice(strs, func(i, j int) bool { return strs[i].Address < strs[j].Address })

	instructionCount := 0
	for _, b := range blocks {
		instructionCount += len(b.Instructions)
	}

	cfEdges := make([]report.ControlFlowEdge, 0, len(edges))
	for _, e := range edges {
		cfEdges = append(cfEdges, report.ControlFlowEdge{
			Kind:        edgeKindString(e.Kind),
			FromAddr:    e.FromAddr,
			ToAddr:      e.ToAddr,
			FromFunc:    e.FromFunc,
			ToFunc:      e.ToFunc,
			Conditional: e.Conditional,
		})
	}
	sort.Slice(cfEdges, func(i, j int) bool { return cfEdges[i].FromAddr < cfEdges[j].FromAddr })

	memRefs := make([]report.MemoryReference, 0, len(refs))
	for _, r := range refs {
		memRefs = append(memRefs, report.MemoryReference{
			Address: r.Address, Target: r.Target, Size: r.Size, IsWrite: r.IsWrite,
		})
	}
	sort.Slice(memRefs, func(i, j int) bool { return memRefs[i].Address < memRefs[j].Address })

	return &report.AnalysisReport{
		Text:                  extracted.Text,
		Instructions:          instructions,
		ProtectedInstructions: protected,
		Definitions:           defs,
		Files:                 files,
		Stats: report.Stats{
			StartOffset:      extracted.StartOffset,
			EndPosition:      extracted.EndPosition,
			BytesProcessed:   extracted.EndPosition - extracted.StartOffset,
			InstructionCount: instructionCount,
			FileCount:        len(files),
		},
		ProgramName:      report.StrPtr(result.ProgramName),
		ProgramType:      result.ProgramType,
		Syscalls:         result.Syscalls,
		CustomLinker:     report.StrPtr(result.CustomLinker),
		Disassembly:      disasm,
		Strings:          strs,
		TypeReport:       report.StrPtr(typeReport),
		ControlFlow:      cfEdges,
		MemoryReferences: memRefs,
	}
}

// edgeKindString renders an analyzers.EdgeKind as the lowercase tag the
// external report uses.
func edgeKindString(k analyzers.EdgeKind) string {
	if k == analyzers.EdgeCall {
		return "call"
	}
	return "jump"
}

// disassemble renders one line per instruction across every block, in
// address order, as "<addr hex>: <opcode> dst=<n> src=<n> off=<n> imm=<n>".
func disassemble(blocks []analyzers.FunctionBlock) []string {
	var all []memory.RichInstruction
	for _, b := range blocks {
		all = append(all, b.Instructions...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Addr < all[j].Addr })

	out := make([]string, 0, len(all))
	for _, ri := range all {
		out = append(out, fmt.Sprintf("%x: %s dst=%d src=%d off=%d imm=%d",
			ri.Addr, ri.Inst.Opcode, ri.Inst.Dst, ri.Inst.Src, ri.Inst.Offset, ri.Inst.Imm))
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
