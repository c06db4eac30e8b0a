package parsing

import "regexp"

var (
	nativeIXRe          = regexp.MustCompile(`IX: ([A-Za-z0-9]+)`)
	nativeSrcPathRe     = regexp.MustCompile(`[a-zA-Z0-9_-]+/src/[a-zA-Z0-9_/-]+\.rs`)
	nativeCanHandleIXRe = nativeIXRe
)

// NativeParser recognizes hand-rolled ("native") Solana programs that log
// `IX: <Name>` markers or ship `<crate>/src/...rs` source paths without an
// Anchor-style `programs/` prefix.
type NativeParser struct{}

func (NativeParser) CanHandle(text string) bool {
	return nativeCanHandleIXRe.MatchString(text) || nativeSrcPathRe.MatchString(text)
}

func (NativeParser) ProgramType() string { return "native" }

func (NativeParser) ParseInstructions(text string) map[string]bool {
	out := make(map[string]bool)
	for _, m := range nativeIXRe.FindAllStringSubmatch(text, -1) {
		out[m[1]] = true
	}
	return out
}

func (NativeParser) ProtectedInstructions(found map[string]bool) map[string]bool {
	return nil
}

func (NativeParser) ExtractSourceFiles(text string) map[SourceFile]bool {
	out := make(map[SourceFile]bool)
	for _, full := range nativeSrcPathRe.FindAllString(text, -1) {
		if hasPrefixFold(full, "programs/") {
			continue
		}
		idx := indexStr(full, "/src/")
		if idx < 0 {
			continue
		}
		project := full[:idx]
		if STDLibNames[project] {
			continue
		}
		relative := full[idx+1:]
		out[SourceFile{Path: full, Project: project, RelativePath: relative}] = true
	}
	return out
}

func indexStr(s, sub string) int {
	n, m := len(s), len(sub)
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return i
		}
	}
	return -1
}

func (NativeParser) ExtractDefinitions(text string) map[Definition]bool {
	return nil
}
