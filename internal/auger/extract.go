package auger

import "github.com/augerlabs/auger/internal/auger/binview"

// ExtractResult carries the extracted text plus the byte-range stats the
// final report's Stats block needs.
type ExtractResult struct {
	Text        string
	StartOffset uint64
	EndPosition uint64
}

// ExtractPrintableText implements spec.md §4.1's extract_printable_text. It
// starts at bytes[headers[cfg.ProgramHeaderIndex].Offset] and walks forward
// one byte at a time, terminating once it has seen cfg.FFSequenceLength
// consecutive 0xFF bytes. Under ReplaceNonPrintable, 0x00 becomes a space,
// ASCII-graphic bytes pass through, and everything else becomes a space;
// otherwise only ASCII-graphic bytes are appended.
func ExtractPrintableText(data []byte, headers []binview.ProgramHeader, cfg Config) (ExtractResult, *Error) {
	if cfg.ProgramHeaderIndex >= len(headers) {
		return ExtractResult{}, newErr(NotEnoughProgramHeaders, "program header index out of range", nil)
	}

	start := headers[cfg.ProgramHeaderIndex].Offset
	if start > uint64(len(data)) {
		return ExtractResult{}, newErr(NotEnoughProgramHeaders, "program header offset exceeds input length", nil)
	}

	var out []byte
	ffRun := 0
	i := int(start)
	for ; i < len(data); i++ {
		b := data[i]
		if b == 0xFF {
			ffRun++
			if ffRun >= cfg.FFSequenceLength {
				i++
				break
			}
		} else {
			ffRun = 0
		}

		if cfg.ReplaceNonPrintable {
			switch {
			case b == 0x00:
				out = append(out, ' ')
			case b >= 0x20 && b <= 0x7E:
				out = append(out, b)
			default:
				out = append(out, ' ')
			}
		} else if b >= 0x20 && b <= 0x7E {
			out = append(out, b)
		}
	}

	if len(out) == 0 {
		return ExtractResult{}, newErr(NoTextExtracted, "printable extraction yielded no bytes", nil)
	}
	return ExtractResult{Text: string(out), StartOffset: start, EndPosition: uint64(i)}, nil
}
