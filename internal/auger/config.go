package auger

// Config controls the text-extraction and type-recovery behavior of the
// analysis pipeline. The zero value is not valid; use DefaultConfig.
type Config struct {
	// FFSequenceLength is the run length of consecutive 0xFF bytes that
	// terminates printable-text extraction. Default 8.
	FFSequenceLength int

	// ProgramHeaderIndex selects which ELF program header's file offset the
	// text extractor starts scanning from. Default 1.
	ProgramHeaderIndex int

	// ReplaceNonPrintable controls whether non-printable bytes are mapped to
	// a placeholder (true, the default) or dropped entirely (false, "raw"
	// mode).
	ReplaceNonPrintable bool

	// RecoverTypes enables the type-registry resolvers (struct/std/Solana).
	// Disabled by default: type recovery is heuristic and the pipeline's
	// other outputs do not depend on it.
	RecoverTypes bool
}

// DefaultConfig returns the spec-mandated defaults.
func DefaultConfig() Config {
	return Config{
		FFSequenceLength:    8,
		ProgramHeaderIndex:  1,
		ReplaceNonPrintable: true,
		RecoverTypes:        false,
	}
}
