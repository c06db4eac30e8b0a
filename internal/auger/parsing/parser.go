// Package parsing implements the framework-parser pipeline: a composable
// chain of recognizers that each independently mine the printable text blob
// for Anchor/native instruction markers, source-path fragments, and
// LLD-style symbol tables, then are merged by a Driver.
package parsing

// SourceFile is one recovered source-path fragment, attributed to a project
// (crate) name.
type SourceFile struct {
	Path         string
	Project      string
	RelativePath string
}

// Definition is a recovered symbol, in the external-facing shape spec.md
// §3 describes.
type Definition struct {
	Ident string
	Kind  string
	Hash  string // empty when absent
}

// Parser is the capability set every framework recognizer implements.
// Order in a Driver's parser list only matters for ProgramType selection:
// the first parser whose CanHandle returns true contributes its tag.
type Parser interface {
	CanHandle(text string) bool
	ProgramType() string
	ParseInstructions(text string) map[string]bool
	ProtectedInstructions(found map[string]bool) map[string]bool
	ExtractSourceFiles(text string) map[SourceFile]bool
	ExtractDefinitions(text string) map[Definition]bool
}
