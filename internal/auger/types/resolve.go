package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/augerlabs/auger/internal/auger/memory"
)

// Resolve runs every resolver against mm in turn, each one mutating r
// additively. Per spec.md §5, exactly one resolver runs at a time; there is
// no meaningful order among them since every resolver is additive.
func Resolve(r *Registry, mm *memory.Map) {
	ResolveStructs(r, mm)
	ResolveStdlib(r, mm)
	ResolveSolana(r, mm)
}

// Report renders r as a human-readable Markdown document, one section per
// registered type in registration-id order.
func Report(r *Registry) string {
	var b strings.Builder
	b.WriteString("# Recovered Types\n\n")
	for i, t := range r.All() {
		id := i + 1
		fmt.Fprintf(&b, "## %d: %s\n\n", id, t.Name)
		fmt.Fprintf(&b, "- kind: %s\n", kindName(t.Kind))
		fmt.Fprintf(&b, "- size: %d, align: %d\n", t.Size, t.Align)
		if len(t.Fields) > 0 {
			b.WriteString("- fields:\n")
			fields := append([]Field(nil), t.Fields...)
			sort.Slice(fields, func(i, j int) bool { return fields[i].Offset < fields[j].Offset })
			for _, f := range fields {
				name := f.Name
				if name == "" {
					name = "_"
				}
				fmt.Fprintf(&b, "  - %s @ %d: type#%d\n", name, f.Offset, f.Type)
			}
		}
		if len(t.Variants) > 0 {
			fmt.Fprintf(&b, "- variants: %s\n", strings.Join(t.Variants, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func kindName(k Kind) string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindString:
		return "string"
	case KindVector:
		return "vector"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindOption:
		return "option"
	case KindResult:
		return "result"
	case KindBox:
		return "box"
	case KindReference:
		return "reference"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}
