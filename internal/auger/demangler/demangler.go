// Package demangler parses Itanium-ABI-with-Rust-extension mangled symbol
// names recovered from a binary's printable text blob, classifying each into
// a coarse symbol kind.
package demangler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// SymbolType is the classification a DemangledSymbol is assigned.
type SymbolType int

const (
	Function SymbolType = iota
	Method
	StaticMethod
	TraitImpl
	GenericHelper
	Operator
	Accessor
	TypeDef
	Unknown
)

func (t SymbolType) String() string {
	switch t {
	case Function:
		return "Function"
	case Method:
		return "Method"
	case StaticMethod:
		return "StaticMethod"
	case TraitImpl:
		return "TraitImpl"
	case GenericHelper:
		return "GenericHelper"
	case Operator:
		return "Operator"
	case Accessor:
		return "Accessor"
	case TypeDef:
		return "TypeDef"
	default:
		return "Unknown"
	}
}

// ImplInfo records the `impl Trait for Type` relationship a trait-impl
// symbol carries, when present.
type ImplInfo struct {
	ForType   string
	TraitPath string
}

// Symbol is the structured result of demangling one mangled name.
type Symbol struct {
	Path     []string
	Name     string
	Impl     *ImplInfo
	Hash     string // e.g. "h13871ae2612c8829", empty if absent
	Type     SymbolType
	Original string
}

var escapes = map[string]string{
	"$LT$":  "<",
	"$GT$":  ">",
	"$u20$": " ",
	"$u21$": "!",
}

func unescape(s string) string {
	for from, to := range escapes {
		s = strings.ReplaceAll(s, from, to)
	}
	return s
}

var hashSuffix = regexp.MustCompile(`17h([0-9a-f]{16})E$`)

// Demangle parses a mangled name of the form
// `_ZN <len><seg>(<len><seg>)*[17h<16hex>]E`. It returns an error if mangled
// does not begin with "_ZN".
func Demangle(mangled string) (Symbol, error) {
	if !strings.HasPrefix(mangled, "_ZN") {
		return Symbol{}, fmt.Errorf("demangler: not an Itanium-Rust mangled name: %q", mangled)
	}
	body := strings.TrimPrefix(mangled, "_ZN")

	var hash string
	if m := hashSuffix.FindStringSubmatch(mangled); m != nil {
		hash = "h" + m[1]
		body = strings.TrimSuffix(body, "E")
		idx := strings.LastIndex(body, "17h"+m[1])
		if idx >= 0 {
			body = body[:idx]
		}
	} else {
		body = strings.TrimSuffix(body, "E")
	}

	segments, err := splitLengthPrefixed(body)
	if err != nil {
		return Symbol{}, err
	}
	for i := range segments {
		segments[i] = unescape(segments[i])
	}
	if len(segments) == 0 {
		return Symbol{Original: mangled, Type: Function, Hash: hash}, nil
	}

	sym := Symbol{
		Original: mangled,
		Hash:     hash,
		Name:     segments[len(segments)-1],
		Path:     append([]string(nil), segments[:len(segments)-1]...),
	}

	last := segments[len(segments)-1]
	if impl := parseImpl(last); impl != nil {
		sym.Impl = impl
	}

	sym.Type = classify(sym)
	return sym, nil
}

// splitLengthPrefixed parses a run of `<decimal-length><bytes>` segments.
func splitLengthPrefixed(body string) ([]string, error) {
	var segs []string
	i := 0
	for i < len(body) {
		j := i
		for j < len(body) && body[j] >= '0' && body[j] <= '9' {
			j++
		}
		if j == i {
			return nil, fmt.Errorf("demangler: expected length prefix at offset %d in %q", i, body)
		}
		n, err := strconv.Atoi(body[i:j])
		if err != nil {
			return nil, fmt.Errorf("demangler: bad length prefix %q: %w", body[i:j], err)
		}
		start := j
		end := start + n
		if end > len(body) {
			return nil, fmt.Errorf("demangler: length prefix %d overruns %q", n, body)
		}
		segs = append(segs, body[start:end])
		i = end
	}
	return segs, nil
}

// parseImpl recognizes the `impl$u20$Trait$u20$for$u20$Type` / `_$LT$Type$u20$as$u20$Trait$GT$`
// forms that survive unescaping as e.g. "<Type as Trait>" and extracts the
// implementing type and trait path. Returns nil when seg carries no impl
// marker.
func parseImpl(seg string) *ImplInfo {
	if !strings.Contains(seg, "<") && !strings.Contains(seg, "impl") {
		return nil
	}
	trimmed := strings.Trim(seg, "_")
	trimmed = strings.TrimPrefix(trimmed, "<")
	trimmed = strings.TrimSuffix(trimmed, ">")
	if idx := strings.Index(trimmed, " as "); idx >= 0 {
		return &ImplInfo{
			ForType:   strings.TrimSpace(trimmed[:idx]),
			TraitPath: strings.TrimSpace(trimmed[idx+len(" as "):]),
		}
	}
	return &ImplInfo{ForType: trimmed}
}

var operatorNames = []string{"add", "sub", "mul", "div", "eq", "cmp", "index", "deref"}

// classify applies spec.md §4.2's tie-broken classification rules in order.
func classify(sym Symbol) SymbolType {
	last := ""
	if len(sym.Path) > 0 {
		last = sym.Path[len(sym.Path)-1]
	} else {
		last = sym.Name
	}

	if strings.Contains(last, "<") || strings.Contains(last, "as") || sym.Impl != nil {
		return TraitImpl
	}

	if len(last) > 0 && last[0] >= 'A' && last[0] <= 'Z' {
		switch {
		case sym.Name == "new" || strings.HasPrefix(sym.Name, "new_") || strings.HasPrefix(sym.Name, "create_"):
			return StaticMethod
		case strings.HasPrefix(sym.Name, "get_") || strings.HasPrefix(sym.Name, "set_") ||
			strings.HasPrefix(sym.Name, "is_") || strings.HasPrefix(sym.Name, "has_"):
			return Accessor
		default:
			return Method
		}
	}

	for _, op := range operatorNames {
		if strings.Contains(sym.Name, op) {
			return Operator
		}
	}

	if strings.HasPrefix(sym.Name, "do_") {
		return GenericHelper
	}
	for _, seg := range sym.Path {
		if strings.Contains(seg, "helper") || strings.Contains(seg, "util") {
			return GenericHelper
		}
	}

	if sym.Name == "drop" || sym.Name == "clone" || sym.Name == "default" || strings.Contains(sym.Name, "type") {
		return TypeDef
	}

	if len(sym.Path) == 0 {
		return Function
	}
	return Function
}

var mangledToken = regexp.MustCompile(`_ZN`)

// ExtractMangledNames scans blob for every `_ZN...E` token per spec.md
// §4.2's rule: a token runs from `_ZN` to the next `E` that precedes the
// next `_ZN` occurrence, or to the next `_ZN`/end of string if no such `E`
// exists. Only tokens that both begin with `_ZN` and end with `E` are
// returned.
func ExtractMangledNames(blob string) []string {
	starts := mangledToken.FindAllStringIndex(blob, -1)
	if starts == nil {
		return nil
	}

	var out []string
	for idx, s := range starts {
		segStart := s[0]
		segEnd := len(blob)
		if idx+1 < len(starts) {
			segEnd = starts[idx+1][0]
		}
		window := blob[segStart:segEnd]
		if e := strings.LastIndex(window, "E"); e >= 0 {
			window = window[:e+1]
		} else {
			continue
		}
		if strings.HasPrefix(window, "_ZN") && strings.HasSuffix(window, "E") {
			out = append(out, window)
		}
	}
	return out
}
