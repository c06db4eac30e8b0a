package parsing

import (
	"strings"

	"github.com/augerlabs/auger/internal/auger/demangler"
)

// LLDParser always matches: it runs the demangler over every `_Z...E` token
// recovered from the text blob and emits a Definition for each symbol that
// survives the standard-library/ancillary-library rejection filter (and, if
// expectedProgram is set, whose top-level path segment also matches it).
type LLDParser struct {
	ExpectedProgram string
}

func (LLDParser) CanHandle(text string) bool { return true }

func (LLDParser) ProgramType() string { return "sbf" }

func (LLDParser) ParseInstructions(text string) map[string]bool { return nil }

func (LLDParser) ProtectedInstructions(found map[string]bool) map[string]bool { return nil }

func (LLDParser) ExtractSourceFiles(text string) map[SourceFile]bool { return nil }

func (p LLDParser) ExtractDefinitions(text string) map[Definition]bool {
	out := make(map[Definition]bool)
	for _, tok := range demangler.ExtractMangledNames(text) {
		sym, err := demangler.Demangle(tok)
		if err != nil {
			continue // demangler failures are swallowed per spec.md §7
		}
		if len(sym.Path) == 0 {
			continue
		}
		top := sym.Path[0]
		if isLibPrefix(top) {
			continue
		}
		if p.ExpectedProgram != "" && top != p.ExpectedProgram {
			continue
		}
		def := Definition{
			Ident: strings.Join(sym.Path, "::"),
			Kind:  sym.Type.String(),
		}
		if sym.Name != "" {
			def.Hash = sym.Name
		}
		out[def] = true
	}
	return out
}

// isLibPrefix reports whether top is itself, or a prefix of, an entry in
// STDLibNames or AncillaryLibNames.
func isLibPrefix(top string) bool {
	for name := range STDLibNames {
		if strings.HasPrefix(name, top) {
			return true
		}
	}
	for name := range AncillaryLibNames {
		if strings.HasPrefix(name, top) {
			return true
		}
	}
	return false
}
