package parsing

// RemovableKeywords are stripped from the trailing end of a raw Anchor
// instruction-name capture, iteratively, until the name stops changing.
var RemovableKeywords = []string{"Instruction", "anchor", "idl", "space", "invalid", "value", "index"}

// ProtectedInstructions are Anchor's IDL-reserved handler names, surfaced
// separately from user-defined instructions.
var ProtectedInstructions = map[string]bool{
	"IdlCreateAccount": true,
	"IdlCloseAccount":  true,
	"IdlWrite":         true,
	"IdlSetAuthority":  true,
	"IdlResizeAccount": true,
}

// FalsePositives are names the instruction-filtering step drops regardless
// of which parser produced them.
var FalsePositives = map[string]bool{
	"Instruction": true,
	"The":         true,
	"This":        true,
	"Self":        true,
	"Option":      true,
	"Result":      true,
	"None":        true,
	"Some":        true,
}

// STDLibNames is consulted by the native parser (to reject source paths
// rooted at a standard-library crate) and the LLD parser (to reject symbols
// whose top-level path segment is a prefix of one of these).
var STDLibNames = map[string]bool{
	"core":              true,
	"std":               true,
	"alloc":             true,
	"compiler_builtins": true,
	"solana_program":    true,
	"anchor_lang":       true,
	"anchor_spl":        true,
	"borsh":             true,
	"serde":             true,
	"thiserror":         true,
}

// AncillaryLibNames extends STDLibNames for the LLD parser's rejection
// check: libraries that are neither the standard library nor user code, but
// still not of interest as program-defined symbols.
var AncillaryLibNames = map[string]bool{
	"num_traits": true,
	"bytemuck":   true,
	"arrayref":   true,
}
