// Package writer emits an AnalysisReport to a directory as the four-artifact
// archive the CLI front-end produces: a plain-text dump, a flat JSON manifest, the full JSON result, and
// (when type recovery ran) a Markdown type report.
package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/augerlabs/auger/internal/auger/report"
)

// Manifest is the flat, human-browsable view of an AnalysisReport written
// alongside the full result.
type Manifest struct {
	ProgramName           string             `json:"program_name"`
	ProgramType           string             `json:"program_type"`
	Instructions          []string           `json:"instructions"`
	ProtectedInstructions []string           `json:"protected_instructions"`
	Syscalls              []string           `json:"syscalls"`
	SourceFiles           []string           `json:"source_files"`
	CustomLinker          string             `json:"custom_linker"`
	Disassembly           []string           `json:"disassembly"`
	StringReferences      []report.StringRef `json:"string_references"`
}

// Write emits <prefix>text_dump.txt, <prefix>manifest.json, and
// <prefix>result.json into dir, creating it if necessary. When r.TypeReport
// is non-nil it also emits <prefix>type_report.md. prefix is
// r.ProgramName + "_" when the program name is known, otherwise empty.
func Write(dir string, r *report.AnalysisReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("writer: create %q: %w", dir, err)
	}

	prefix := ""
	if r.ProgramName != nil && *r.ProgramName != "" {
		prefix = *r.ProgramName + "_"
	}

	if err := os.WriteFile(filepath.Join(dir, prefix+"text_dump.txt"), []byte(r.Text), 0o644); err != nil {
		return fmt.Errorf("writer: write text dump: %w", err)
	}

	manifest := buildManifest(r)
	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("writer: marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, prefix+"manifest.json"), manifestJSON, 0o644); err != nil {
		return fmt.Errorf("writer: write manifest: %w", err)
	}

	resultJSON, err := report.Marshal(r)
	if err != nil {
		return fmt.Errorf("writer: marshal result: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, prefix+"result.json"), resultJSON, 0o644); err != nil {
		return fmt.Errorf("writer: write result: %w", err)
	}

	if r.TypeReport != nil {
		if err := os.WriteFile(filepath.Join(dir, prefix+"type_report.md"), []byte(*r.TypeReport), 0o644); err != nil {
			return fmt.Errorf("writer: write type report: %w", err)
		}
	}

	return nil
}

func buildManifest(r *report.AnalysisReport) Manifest {
	programName := ""
	if r.ProgramName != nil {
		programName = *r.ProgramName
	}
	customLinker := ""
	if r.CustomLinker != nil {
		customLinker = *r.CustomLinker
	}

	sourceFiles := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		sourceFiles = append(sourceFiles, f.Path)
	}

	return Manifest{
		ProgramName:           programName,
		ProgramType:           r.ProgramType,
		Instructions:          r.Instructions,
		ProtectedInstructions: r.ProtectedInstructions,
		Syscalls:              r.Syscalls,
		SourceFiles:           sourceFiles,
		CustomLinker:          customLinker,
		Disassembly:           r.Disassembly,
		StringReferences:      r.Strings,
	}
}
