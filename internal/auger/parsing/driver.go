package parsing

import (
	"strings"

	"github.com/augerlabs/auger/internal/auger/memory"
)

// Result is the merged output of running every matching parser in a Driver.
type Result struct {
	ProgramType           string
	Instructions          map[string]bool
	ProtectedInstructions map[string]bool
	SourceFiles           []SourceFile
	Definitions           []Definition
	ProgramName           string // empty when no project could be inferred
	Syscalls              []string
	CustomLinker          string // empty when absent
}

// Driver holds an ordered list of parsers. Order only matters for which
// parser's ProgramType wins; every parser whose CanHandle returns true still
// contributes its instructions/sources/definitions to the merge.
type Driver struct {
	Parsers []Parser
}

// NewDriver builds the standard Anchor -> Native -> LLD pipeline.
// LLD is last because it always matches; placing Anchor/Native first lets
// their tags win when present, per spec.md's Open Question in §9.
func NewDriver(expectedProgram string) *Driver {
	return &Driver{Parsers: []Parser{
		AnchorParser{},
		NativeParser{},
		LLDParser{ExpectedProgram: expectedProgram},
	}}
}

// Run mines text for instructions, protected instructions, source files, and
// definitions across every matching parser, then derives the syscall list
// and custom linker string from mm, infers the program name, and normalizes
// source-file projects.
func (d *Driver) Run(text string, mm *memory.Map) Result {
	res := Result{
		Instructions:          make(map[string]bool),
		ProtectedInstructions: make(map[string]bool),
	}

	sourceSet := make(map[SourceFile]bool)
	defSet := make(map[Definition]bool)
	tagAssigned := false

	for _, p := range d.Parsers {
		if !p.CanHandle(text) {
			continue
		}
		if !tagAssigned {
			res.ProgramType = p.ProgramType()
			tagAssigned = true
		}
		for name := range p.ParseInstructions(text) {
			res.Instructions[name] = true
		}
		for name := range p.ProtectedInstructions(res.Instructions) {
			res.ProtectedInstructions[name] = true
		}
		for sf := range p.ExtractSourceFiles(text) {
			sourceSet[sf] = true
		}
		for def := range p.ExtractDefinitions(text) {
			defSet[def] = true
		}
	}
	if !tagAssigned {
		res.ProgramType = "unknown"
	}

	res.Instructions = filterInstructions(res.Instructions, res.ProtectedInstructions)

	files := make([]SourceFile, 0, len(sourceSet))
	for sf := range sourceSet {
		files = append(files, sf)
	}
	programName := inferProgramName(files)
	res.ProgramName = programName
	res.SourceFiles = normalizeSourceFiles(files, programName)

	for def := range defSet {
		res.Definitions = append(res.Definitions, def)
	}

	if mm != nil {
		res.Syscalls = extractSyscalls(mm)
		res.CustomLinker = extractLinker(mm)
	}

	return res
}

// filterInstructions drops names shorter than 2 or longer than 50 chars,
// names in FalsePositives, and names already surfaced as protected.
func filterInstructions(found, protected map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for name := range found {
		if len(name) < 2 || len(name) > 50 {
			continue
		}
		if FalsePositives[name] {
			continue
		}
		if protected[name] {
			continue
		}
		out[name] = true
	}
	return out
}

// inferProgramName counts surviving project occurrences across source
// files, excluding STDLibNames, and returns the most frequent one. Returns
// "" when no file has a non-stdlib project.
func inferProgramName(files []SourceFile) string {
	counts := make(map[string]int)
	for _, f := range files {
		if STDLibNames[f.Project] {
			continue
		}
		counts[f.Project]++
	}
	best, bestCount := "", 0
	for name, c := range counts {
		if c > bestCount || (c == bestCount && name < best) {
			best, bestCount = name, c
		}
	}
	return best
}

// normalizeSourceFiles rewrites every file's project (and rebuilt path) to
// programName, when one was inferred.
func normalizeSourceFiles(files []SourceFile, programName string) []SourceFile {
	if programName == "" {
		return files
	}
	out := make([]SourceFile, len(files))
	for i, f := range files {
		out[i] = SourceFile{
			Project:      programName,
			RelativePath: f.RelativePath,
			Path:         programName + "/" + f.RelativePath,
		}
	}
	return out
}

// extractSyscalls splits the UTF-8 view of every section whose label
// contains ".dynstr" on NUL bytes, keeping entries of length 1..=30.
func extractSyscalls(mm *memory.Map) []string {
	seen := make(map[string]bool)
	var out []string
	for label, sec := range mm.Sections {
		if !strings.Contains(label, ".dynstr") {
			continue
		}
		for _, part := range strings.Split(string(sec.Raw), "\x00") {
			if len(part) >= 1 && len(part) <= 30 && !seen[part] {
				seen[part] = true
				out = append(out, part)
			}
		}
	}
	return out
}

// extractLinker reverse-scans sections whose label contains ".comment" or
// ".strtab" for the last "Linker: " marker, keeping up to the next NUL.
func extractLinker(mm *memory.Map) string {
	var candidates []string
	for label, sec := range mm.Sections {
		if strings.Contains(label, ".comment") || strings.Contains(label, ".strtab") {
			candidates = append(candidates, string(sec.Raw))
		}
	}
	const marker = "Linker: "
	for i := len(candidates) - 1; i >= 0; i-- {
		raw := candidates[i]
		idx := strings.LastIndex(raw, marker)
		if idx < 0 {
			continue
		}
		rest := raw[idx+len(marker):]
		if nul := strings.IndexByte(rest, 0); nul >= 0 {
			rest = rest[:nul]
		}
		rest = strings.TrimSpace(rest)
		if rest != "" {
			return rest
		}
	}
	return ""
}
