package writer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/augerlabs/auger/internal/auger/report"
)

func TestWriteEmitsPrefixedArtifacts(t *testing.T) {
	dir := t.TempDir()
	name := "my_program"
	typeReport := "# Recovered Types\n"

	r := &report.AnalysisReport{
		Text:                  "hello world",
		Instructions:          []string{"Ldxw"},
		ProtectedInstructions: []string{},
		Definitions:           nil,
		Files:                 []report.SourceFile{{Path: "src/lib.rs", Project: "p", RelativePath: "lib.rs"}},
		ProgramName:           &name,
		ProgramType:           "anchor",
		Syscalls:              []string{"sol_log_"},
		Disassembly:           []string{"0x0: Call imm=1"},
		Strings:               []report.StringRef{{Address: 0x10, Content: "hi", ReferencedBy: []uint64{0x0}}},
		TypeReport:            &typeReport,
	}

	if err := Write(dir, r); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	for _, name := range []string{
		"my_program_text_dump.txt",
		"my_program_manifest.json",
		"my_program_result.json",
		"my_program_type_report.md",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected artifact %q: %v", name, err)
		}
	}

	dump, err := os.ReadFile(filepath.Join(dir, "my_program_text_dump.txt"))
	if err != nil {
		t.Fatalf("ReadFile(text_dump) error = %v", err)
	}
	if string(dump) != "hello world" {
		t.Errorf("text_dump contents = %q, want %q", dump, "hello world")
	}

	manifestBytes, err := os.ReadFile(filepath.Join(dir, "my_program_manifest.json"))
	if err != nil {
		t.Fatalf("ReadFile(manifest) error = %v", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		t.Fatalf("Unmarshal(manifest) error = %v", err)
	}
	if manifest.ProgramName != "my_program" {
		t.Errorf("manifest.ProgramName = %q, want my_program", manifest.ProgramName)
	}
	if len(manifest.SourceFiles) != 1 || manifest.SourceFiles[0] != "src/lib.rs" {
		t.Errorf("manifest.SourceFiles = %v, want [src/lib.rs]", manifest.SourceFiles)
	}
}

func TestWriteEmptyPrefixWhenProgramNameUnknown(t *testing.T) {
	dir := t.TempDir()
	r := &report.AnalysisReport{Text: "x", ProgramType: "unknown"}

	if err := Write(dir, r); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "text_dump.txt")); err != nil {
		t.Errorf("expected unprefixed text_dump.txt: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "type_report.md")); !os.IsNotExist(err) {
		t.Errorf("type_report.md should not be written when TypeReport is nil")
	}
}
