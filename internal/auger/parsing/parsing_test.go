package parsing

import "testing"

// TestAnchorParserCleansTrailingInstructionAndProtects covers spec §8
// property 9: a trailing "Instruction" keyword is stripped once during
// cleaning, and IDL-reserved handler names land in the protected set
// instead of the regular instruction set.
func TestAnchorParserCleansTrailingInstructionAndProtects(t *testing.T) {
	p := AnchorParser{}
	text := "Instruction: CreateInstruction\nInstruction: IdlCreateAccount\n"

	found := p.ParseInstructions(text)
	if !found["Create"] {
		t.Errorf("ParseInstructions(%q) = %v, want it to contain %q after stripping the trailing Instruction keyword", text, found, "Create")
	}

	protected := p.ProtectedInstructions(found)
	if !protected["IdlCreateAccount"] {
		t.Errorf("ProtectedInstructions(%v) = %v, want IdlCreateAccount classified as protected", found, protected)
	}
	if protected["Create"] {
		t.Errorf("ProtectedInstructions(%v) = %v, want Create left out of the protected set", found, protected)
	}
}

// TestNativeParserExtractsSourceFile covers spec §8 property 10: a
// "<project>/src/..." path not rooted at a STDLibNames crate is kept, split
// into project and relative_path.
func TestNativeParserExtractsSourceFile(t *testing.T) {
	p := NativeParser{}
	text := "myprog/src/state/pool.rs"

	files := p.ExtractSourceFiles(text)
	if len(files) != 1 {
		t.Fatalf("ExtractSourceFiles(%q) = %v, want exactly one entry", text, files)
	}
	want := SourceFile{Path: "myprog/src/state/pool.rs", Project: "myprog", RelativePath: "src/state/pool.rs"}
	if !files[want] {
		t.Errorf("files = %v, want it to contain %+v", files, want)
	}
}

func TestNativeParserDropsStdLibProject(t *testing.T) {
	p := NativeParser{}
	text := "core/src/fmt.rs"

	if files := p.ExtractSourceFiles(text); len(files) != 0 {
		t.Errorf("ExtractSourceFiles(%q) = %v, want empty: core is a STDLibNames entry", text, files)
	}
}

// TestDriverRunNormalizesSourceFileProjects covers spec §8 property 11:
// after source-file normalization, every file's project equals the inferred
// program_name.
func TestDriverRunNormalizesSourceFileProjects(t *testing.T) {
	d := NewDriver("")
	text := "myprog/src/lib.rs\nmyprog/src/state/pool.rs\n"

	res := d.Run(text, nil)

	if res.ProgramName != "myprog" {
		t.Fatalf("ProgramName = %q, want myprog", res.ProgramName)
	}
	if len(res.SourceFiles) == 0 {
		t.Fatalf("SourceFiles = %v, want at least one entry", res.SourceFiles)
	}
	for _, f := range res.SourceFiles {
		if f.Project != res.ProgramName {
			t.Errorf("file %+v has Project %q, want it to equal inferred ProgramName %q", f, f.Project, res.ProgramName)
		}
	}
}

// TestDriverRunEndToEndNativeScenario covers the native end-to-end scenario:
// "IX: Transfer\0myprog/src/lib.rs\0" yields instructions={"Transfer"},
// program_type="native", files containing myprog/src/lib.rs, and
// program_name="myprog".
func TestDriverRunEndToEndNativeScenario(t *testing.T) {
	d := NewDriver("")
	text := "IX: Transfer\x00myprog/src/lib.rs\x00"

	res := d.Run(text, nil)

	if res.ProgramType != "native" {
		t.Errorf("ProgramType = %q, want native", res.ProgramType)
	}
	if !res.Instructions["Transfer"] {
		t.Errorf("Instructions = %v, want it to contain Transfer", res.Instructions)
	}
	if res.ProgramName != "myprog" {
		t.Errorf("ProgramName = %q, want myprog", res.ProgramName)
	}
	found := false
	for _, f := range res.SourceFiles {
		if f.RelativePath == "src/lib.rs" {
			found = true
		}
	}
	if !found {
		t.Errorf("SourceFiles = %v, want an entry with relative_path src/lib.rs", res.SourceFiles)
	}
}

// TestDriverRunEndToEndAnchorScenario covers the Anchor end-to-end scenario:
// a window of "Instruction: Swap\0Instruction: Deposit\0" yields
// instructions={"Swap","Deposit"}, program_type="anchor", and no protected
// instructions.
func TestDriverRunEndToEndAnchorScenario(t *testing.T) {
	d := NewDriver("")
	text := "Instruction: Swap\x00Instruction: Deposit\x00"

	res := d.Run(text, nil)

	if res.ProgramType != "anchor" {
		t.Errorf("ProgramType = %q, want anchor", res.ProgramType)
	}
	if !res.Instructions["Swap"] || !res.Instructions["Deposit"] {
		t.Errorf("Instructions = %v, want it to contain Swap and Deposit", res.Instructions)
	}
	if len(res.ProtectedInstructions) != 0 {
		t.Errorf("ProtectedInstructions = %v, want empty", res.ProtectedInstructions)
	}
}
