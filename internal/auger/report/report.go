// Package report assembles the final AnalysisReport and serializes it to the
// exact JSON shape spec.md §6 requires.
package report

import "encoding/json"

// Definition mirrors parsing.Definition in the external JSON shape.
type Definition struct {
	Ident string `json:"ident"`
	Kind  string `json:"kind"`
	Hash  string `json:"hash,omitempty"`
}

// SourceFile mirrors parsing.SourceFile in the external JSON shape.
type SourceFile struct {
	Path         string `json:"path"`
	Project      string `json:"project"`
	RelativePath string `json:"relative_path"`
}

// Stats carries the extraction/scan counters spec.md §6 requires.
type Stats struct {
	StartOffset      uint64 `json:"start_offset"`
	EndPosition      uint64 `json:"end_position"`
	BytesProcessed   uint64 `json:"bytes_processed"`
	InstructionCount int    `json:"instruction_count"`
	FileCount        int    `json:"file_count"`
}

// StringRef is one recovered string with its referencing instruction
// addresses.
type StringRef struct {
	Address      uint64   `json:"address"`
	Content      string   `json:"content"`
	ReferencedBy []uint64 `json:"referenced_by"`
}

// ControlFlowEdge is one call or jump edge recovered between function
// blocks.
type ControlFlowEdge struct {
	Kind        string `json:"kind"` // "call" | "jump"
	FromAddr    uint64 `json:"from_addr"`
	ToAddr      uint64 `json:"to_addr"`
	FromFunc    uint64 `json:"from_func"`
	ToFunc      uint64 `json:"to_func"`
	Conditional bool   `json:"conditional,omitempty"`
}

// MemoryReference is one load or store recovered from a function block's
// instruction stream.
type MemoryReference struct {
	Address uint64 `json:"address"`
	Target  uint64 `json:"target"`
	Size    int    `json:"size"`
	IsWrite bool   `json:"is_write"`
}

// AnalysisReport is the final output of one analysis, serialized verbatim to
// JSON in the shape spec.md §6 fixes. ControlFlow and MemoryReferences are
// additive beyond that shape: they surface the control-flow and
// memory-reference analyzers' output for callers that want it, without
// disturbing any field §6 names.
type AnalysisReport struct {
	Text                  string            `json:"text"`
	Instructions          []string          `json:"instructions"`
	ProtectedInstructions []string          `json:"protected_instructions"`
	Definitions           []Definition      `json:"definitions"`
	Files                 []SourceFile      `json:"files"`
	Stats                 Stats             `json:"stats"`
	ProgramName           *string           `json:"program_name"`
	ProgramType           string            `json:"program_type"` // anchor | native | sbf | unknown
	Syscalls              []string          `json:"syscalls"`
	CustomLinker          *string           `json:"custom_linker"`
	Disassembly           []string          `json:"disassembly"`
	Strings               []StringRef       `json:"strings"`
	TypeReport            *string           `json:"type_report"`
	ControlFlow           []ControlFlowEdge `json:"control_flow,omitempty"`
	MemoryReferences      []MemoryReference `json:"memory_references,omitempty"`
}

// Marshal serializes r to indented JSON.
func Marshal(r *AnalysisReport) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// StrPtr returns nil for an empty string, else a pointer to it. The report's
// optional string fields (program_name, custom_linker, type_report) are
// "null" in JSON rather than "" when absent.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
