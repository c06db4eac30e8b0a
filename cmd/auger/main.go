// Command auger is the auger CLI front-end. It reads a single .so program,
// runs the full analysis pipeline, and writes the resulting artifacts to an
// output directory.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/augerlabs/auger/internal/auger"
	"github.com/augerlabs/auger/internal/elfview"
	"github.com/augerlabs/auger/internal/writer"
)

// countFlag implements flag.Value for a flag that may be repeated, such as
// -v -v -v, counting how many times it appeared.
type countFlag int

func (c *countFlag) String() string { return fmt.Sprintf("%d", int(*c)) }
func (c *countFlag) Set(string) error {
	*c++
	return nil
}
func (c *countFlag) IsBoolFlag() bool { return true }

func main() {
	path := flag.String("f", "", "path to the .so program to analyze")
	outDir := flag.String("o", "./extracted", "output directory for the written artifacts")
	ffSequence := flag.Int("s", 8, "consecutive 0xFF run length that terminates text extraction")
	headerIndex := flag.Int("i", 0, "program header index to start text extraction from")
	raw := flag.Bool("r", false, "suppress non-printable replacement (raw mode)")
	dumpELF := flag.Bool("e", false, "log section/program header details while parsing")
	recoverTypes := flag.Bool("t", false, "enable heuristic type recovery")

	var verbose countFlag
	flag.Var(&verbose, "v", "increase log verbosity (repeatable)")

	flag.Parse()

	logger := newLogger(int(verbose))
	slog.SetDefault(logger)

	if *path == "" {
		fmt.Fprintln(os.Stderr, "auger: -f path is required")
		os.Exit(1)
	}
	if filepath.Ext(*path) != ".so" {
		fmt.Fprintf(os.Stderr, "auger: %q is not a .so file\n", *path)
		os.Exit(1)
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		logger.Error("failed to read input file", "path", *path, "error", err)
		os.Exit(1)
	}

	view, err := elfview.Open(data)
	if err != nil {
		logger.Error("failed to parse ELF", "path", *path, "error", err)
		os.Exit(1)
	}
	if *dumpELF {
		logger.Info("parsed ELF",
			"program_headers", len(view.ProgramHeaders()),
			"section_headers", len(view.SectionHeaders()),
			"little_endian", view.LittleEndian(),
		)
	}

	cfg := auger.Config{
		FFSequenceLength:    *ffSequence,
		ProgramHeaderIndex:  *headerIndex,
		ReplaceNonPrintable: !*raw,
		RecoverTypes:        *recoverTypes,
	}

	rpt, augErr := auger.Analyze(data, view, cfg)
	if augErr != nil {
		logger.Error("analysis failed", "kind", augErr.Kind, "error", augErr)
		os.Exit(1)
	}

	if err := writer.Write(*outDir, rpt); err != nil {
		logger.Error("failed to write artifacts", "out_dir", *outDir, "error", err)
		os.Exit(1)
	}

	logger.Info("analysis complete",
		"out_dir", *outDir,
		"instructions", len(rpt.Instructions),
		"program_type", rpt.ProgramType,
	)
}

// newLogger constructs a *slog.Logger writing JSON-structured records to
// stderr. Each repetition of -v drops the minimum level by one step.
func newLogger(verbosity int) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case verbosity >= 2:
		level = slog.LevelDebug
	case verbosity == 1:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
