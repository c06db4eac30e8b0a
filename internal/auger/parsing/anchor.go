package parsing

import "regexp"

// anchorInstrRe are tried in order; the last two synthesize the captured
// name into `<cap>Instruction` per spec.md §4.3.1.
var anchorInstrRe = []struct {
	re         *regexp.Regexp
	synthesize bool
}{
	{regexp.MustCompile(`Instruction: ([A-Za-z0-9]{1,50})`), false},
	{regexp.MustCompile(`: ([A-Za-z0-9]{1,50})Instruction`), true},
	{regexp.MustCompile(`([A-Za-z0-9]{1,50})Instruction`), true},
}

var anchorCanHandleRe = regexp.MustCompile(`Instruction: ([A-Za-z0-9]+)`)
var anchorSourceFileRe = regexp.MustCompile(`programs/([^.]+)\.rs`)

// AnchorParser recognizes Anchor-framework programs by their embedded
// `Instruction: <Name>` log strings and `programs/<crate>/...rs` source
// paths.
type AnchorParser struct{}

func (AnchorParser) CanHandle(text string) bool {
	return anchorCanHandleRe.MatchString(text)
}

func (AnchorParser) ProgramType() string { return "anchor" }

func (AnchorParser) ParseInstructions(text string) map[string]bool {
	out := make(map[string]bool)
	for _, rule := range anchorInstrRe {
		for _, m := range rule.re.FindAllStringSubmatch(text, -1) {
			name := m[1]
			if rule.synthesize {
				name = name + "Instruction"
			}
			name = cleanAnchorName(name)
			if name != "" {
				out[name] = true
			}
		}
	}
	return out
}

// cleanAnchorName strips trailing occurrences of RemovableKeywords
// iteratively until the name stops changing.
func cleanAnchorName(name string) string {
	for {
		changed := false
		for _, kw := range RemovableKeywords {
			if len(name) > len(kw) && hasSuffixFold(name, kw) {
				name = name[:len(name)-len(kw)]
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return name
}

func hasSuffixFold(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	return equalFold(s[len(s)-len(suffix):], suffix)
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func (AnchorParser) ProtectedInstructions(found map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for name := range found {
		if ProtectedInstructions[name] || hasPrefixFold(name, "Idl") {
			out[name] = true
		}
	}
	return out
}

func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return equalFold(s[:len(prefix)], prefix)
}

func (AnchorParser) ExtractSourceFiles(text string) map[SourceFile]bool {
	out := make(map[SourceFile]bool)
	for _, m := range anchorSourceFileRe.FindAllStringSubmatch(text, -1) {
		full := m[0]
		rest := m[1] // "<project>/.../<file-without-ext>" minus leading "programs/"
		project := rest
		relative := ""
		if idx := indexByte(rest, '/'); idx >= 0 {
			project = rest[:idx]
			relative = rest[idx+1:] + ".rs"
		} else {
			relative = rest + ".rs"
		}
		out[SourceFile{Path: full, Project: project, RelativePath: relative}] = true
	}
	return out
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func (AnchorParser) ExtractDefinitions(text string) map[Definition]bool {
	return nil
}
